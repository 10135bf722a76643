package cli

import "nbgrade/internal/config"

// Flags holds command-line flags
type Flags struct {
	WorkDir      string
	Manifest     string
	LogLevel     string
	Assignment   string
	PartID       string
	Submission   string
	Solution     string
	FeedbackFile string
	Processors   int
	NameFilter   string
	AllParts     bool
	Functions    bool
	NoSave       bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		WorkDir:      f.WorkDir,
		Assignment:   f.Assignment,
		PartID:       f.PartID,
		Submission:   f.Submission,
		Solution:     f.Solution,
		FeedbackFile: f.FeedbackFile,
		Manifest:     f.Manifest,
		LogLevel:     f.LogLevel,
		Processors:   f.Processors,
		NameFilter:   f.NameFilter,
		AllParts:     f.AllParts,
		Functions:    f.Functions,
		NoSave:       f.NoSave,
	}
}
