package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nbgrade/internal/compiler"
	"nbgrade/internal/notebook"
)

// Manifest describes an assignment release.
type Manifest struct {
	Assignment     string   `yaml:"assignment"`
	LatestVersion  string   `yaml:"latest_version"`
	GradedTag      string   `yaml:"graded_tag"`
	CutPattern     string   `yaml:"cut_pattern"`
	AllowedImports []string `yaml:"allowed_imports"`
}

// DefaultManifest is used when no manifest file exists.
func DefaultManifest() Manifest {
	return Manifest{
		GradedTag:      notebook.DefaultGradedTag,
		CutPattern:     notebook.DefaultCutPattern,
		AllowedImports: append([]string(nil), compiler.DefaultAllowedImports...),
	}
}

// LoadManifest reads a manifest, filling omitted fields with defaults.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := DefaultManifest()
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.GradedTag == "" {
		m.GradedTag = notebook.DefaultGradedTag
	}
	if m.CutPattern == "" {
		m.CutPattern = notebook.DefaultCutPattern
	}
	if len(m.AllowedImports) == 0 {
		m.AllowedImports = append([]string(nil), compiler.DefaultAllowedImports...)
	}
	return &m, nil
}
