// Package projectconfig provides the Config struct and loader for
// .driftreport.yaml configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file the loader searches for, walking up from the
// starting directory.
const ConfigFileName = ".driftreport.yaml"

// ErrNotFound is returned when no config file exists anywhere on the search
// path. The config file is required: without it there is no results root.
var ErrNotFound = fmt.Errorf("no %s found in the current directory or any parent", ConfigFileName)

// MissingKeyError names a required key absent from an otherwise valid
// config file.
type MissingKeyError struct {
	Path string // config file the key was missing from
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: missing required key %q", e.Path, e.Key)
}

// Config is the parsed .driftreport.yaml.
type Config struct {
	// ResultsDir is the root directory that evaluation runs write their
	// result artifacts under. Required. Relative paths are resolved
	// against the directory containing the config file.
	ResultsDir string `yaml:"results_dir"`

	// OpenReport controls whether the published report is opened in the
	// default viewer. Defaults to true when unset.
	OpenReport *bool `yaml:"open_report,omitempty"`
}

// ShouldOpenReport reports whether the publisher should launch the viewer.
func (c *Config) ShouldOpenReport() bool {
	return c.OpenReport == nil || *c.OpenReport
}

// Load finds .driftreport.yaml by walking up from startDir (max 10 levels)
// and parses it. A missing file and a missing results_dir key are distinct
// fatal errors; both abort the run before any output is produced.
func Load(startDir string) (*Config, error) {
	path, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("locating %s: %w", ConfigFileName, err)
	}
	return LoadFile(path)
}

// LoadFile parses the config file at an explicit path, bypassing the
// walk-up search.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.ResultsDir == "" {
		return nil, &MissingKeyError{Path: path, Key: "results_dir"}
	}

	// Resolve the results root relative to the config file so the tool
	// behaves the same regardless of the invocation directory.
	if !filepath.IsAbs(cfg.ResultsDir) {
		cfg.ResultsDir = filepath.Join(filepath.Dir(path), cfg.ResultsDir)
	}
	abs, err := filepath.Abs(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving results_dir %q: %w", cfg.ResultsDir, err)
	}
	cfg.ResultsDir = abs

	return &cfg, nil
}

// findConfigFile walks up from dir looking for .driftreport.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Real I/O
// errors (e.g. permission denied) are propagated instead of swallowed.
func findConfigFile(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", os.ErrNotExist
}
