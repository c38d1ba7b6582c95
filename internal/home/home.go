// Package home manages the fieldcheck home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the fieldcheck home directory.
	DefaultDirName = ".fieldcheck"

	// SchemasDirName holds document-class evaluation schemas.
	SchemasDirName = "schemas"

	// ResultsDirName holds evaluation result JSON documents.
	ResultsDirName = "results"

	// ReportsDirName holds rendered Markdown reports.
	ReportsDirName = "reports"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the fieldcheck home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.fieldcheck).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// SchemasPath returns the path to the schemas directory.
func (d *Dir) SchemasPath() string {
	return filepath.Join(d.path, SchemasDirName)
}

// ResultsPath returns the path to the results directory.
func (d *Dir) ResultsPath() string {
	return filepath.Join(d.path, ResultsDirName)
}

// ReportsPath returns the path to the reports directory.
func (d *Dir) ReportsPath() string {
	return filepath.Join(d.path, ReportsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ResultPath returns the path for one run's result JSON.
func (d *Dir) ResultPath(documentID, runID string) string {
	return filepath.Join(d.ResultsPath(), fmt.Sprintf("%s_%s.json", documentID, runID))
}

// ReportPath returns the path for one run's Markdown report.
func (d *Dir) ReportPath(documentID, runID string) string {
	return filepath.Join(d.ReportsPath(), fmt.Sprintf("%s_%s.md", documentID, runID))
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.SchemasPath(), d.ResultsPath(), d.ReportsPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
