package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment keys read by Apply.
const (
	EnvAssignment   = "NBGRADE_ASSIGNMENT"
	EnvPartID       = "NBGRADE_PART_ID"
	EnvSubmission   = "NBGRADE_SUBMISSION"
	EnvSolution     = "NBGRADE_SOLUTION"
	EnvFeedbackFile = "NBGRADE_FEEDBACK_FILE"
	EnvMySQLDSN     = "NBGRADE_MYSQL_DSN"
	EnvLogLevel     = "NBGRADE_LOG_LEVEL"
	EnvProcessors   = "NBGRADE_PROCESSORS"
)

// Config holds all configuration for the application
type Config struct {
	// Working directory; relative paths resolve against it
	WorkDir string

	// Grading target
	Assignment     string
	PartID         string
	SubmissionPath string
	SolutionPath   string

	// Output settings
	FeedbackFile   string
	OutputJSONFile string
	OutputJSONDir  string

	// Grading history database, disabled when empty
	MySQLDSN string

	LogLevel string

	// Execution settings
	Processors int

	// Paths to ignore when scanning for notebooks
	PathsToIgnore []string

	Manifest Manifest

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	WorkDir      string
	Assignment   string
	PartID       string
	Submission   string
	Solution     string
	FeedbackFile string
	Manifest     string
	LogLevel     string
	Processors   int
	NameFilter   string
	AllParts     bool
	Functions    bool
	NoSave       bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		WorkDir:        DefaultWorkDir,
		SubmissionPath: DefaultSubmissionFile,
		FeedbackFile:   DefaultFeedbackFile,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		LogLevel:       DefaultLogLevel,
		Processors:     DefaultProcessors,
		Manifest:       DefaultManifest(),
		Flags:          Flags{Processors: DefaultProcessors},
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config and applies flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if err := cfg.Apply(flags); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply layers the manifest, the environment (process first, then the .env
// file in the working directory) and flags over the current values, later
// sources winning.
func (c *Config) Apply(flags Flags) error {
	c.Flags = flags
	if flags.WorkDir != "" {
		c.WorkDir = flags.WorkDir
	}

	manifestPath := flags.Manifest
	if manifestPath == "" {
		manifestPath = DefaultManifestFile
	}
	m, err := LoadManifest(c.resolve(manifestPath))
	switch {
	case err == nil:
		c.Manifest = *m
		if m.Assignment != "" {
			c.Assignment = m.Assignment
		}
	case errors.Is(err, fs.ErrNotExist) && flags.Manifest == "":
	default:
		return err
	}

	env, err := godotenv.Read(c.resolve(".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return env[key]
	}

	setString(&c.Assignment, lookup(EnvAssignment), flags.Assignment)
	setString(&c.PartID, lookup(EnvPartID), flags.PartID)
	setString(&c.SubmissionPath, lookup(EnvSubmission), flags.Submission)
	setString(&c.SolutionPath, lookup(EnvSolution), flags.Solution)
	setString(&c.FeedbackFile, lookup(EnvFeedbackFile), flags.FeedbackFile)
	setString(&c.MySQLDSN, lookup(EnvMySQLDSN), "")
	setString(&c.LogLevel, lookup(EnvLogLevel), flags.LogLevel)

	if v := lookup(EnvProcessors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%s: invalid worker count %q", EnvProcessors, v)
		}
		c.Processors = n
	}
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	return nil
}

func setString(dst *string, values ...string) {
	for _, v := range values {
		if v != "" {
			*dst = v
		}
	}
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.WorkDir, p)
}

// GetSubmissionPath returns the learner notebook path.
func (c *Config) GetSubmissionPath() string {
	return c.resolve(c.SubmissionPath)
}

// GetSolutionPath returns the reference notebook path, empty when none is configured.
func (c *Config) GetSolutionPath() string {
	return c.resolve(c.SolutionPath)
}

// GetFeedbackPath returns the file feedback is written to.
func (c *Config) GetFeedbackPath() string {
	return c.resolve(c.FeedbackFile)
}

// GetOutputPath returns the absolute path of the last-run JSON file, so the
// grade and cases commands agree on it regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.WorkDir, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// CutPattern compiles the manifest's grade-up-to-here marker.
func (c *Config) CutPattern() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.Manifest.CutPattern)
	if err != nil {
		return nil, fmt.Errorf("cut pattern: %w", err)
	}
	return re, nil
}
