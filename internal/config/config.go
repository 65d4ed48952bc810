// Copyright 2025 Upbound Inc.
// All rights reserved

// Package config handles the meteor CLI configuration file and types.
package config

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"
)

// Location of the meteor config file.
const (
	ConfigDir  = ".meteor"
	ConfigFile = "config.json"
)

const (
	errParseConfigFmt = "cannot parse config at %s"
	errWriteConfig    = "cannot write config"
)

// DefaultServerURL is the default package server used when the config
// names none.
const DefaultServerURL = "https://packages.meteor.com"

// QuietFlag provides a named boolean type for the QuietFlag.
type QuietFlag bool

// Format represents allowed values for the global output format option.
type Format string

const (
	// FormatDefault is the default, human-friendly, output format.
	FormatDefault Format = "default"
	// FormatJSON is the JSON output format.
	FormatJSON Format = "json"
	// FormatYAML is the YAML output format.
	FormatYAML Format = "yaml"
)

// Config is the format of the meteor configuration file.
type Config struct {
	Catalog Catalog `json:"catalog"`
}

// Catalog holds the catalog-related settings.
type Catalog struct {
	// ServerURL is the package server snapshots are fetched from.
	ServerURL string `json:"serverUrl,omitempty"`

	// Offline prevents refreshes from contacting the package server.
	Offline bool `json:"offline,omitempty"`

	// LocalPackageDirs are standing directories scanned for local package
	// source trees, earliest first.
	LocalPackageDirs []string `json:"localPackageDirs,omitempty"`
}

// ApplyDefaults fills settings the config file left out. Sources call it
// before handing out a config.
func (c *Config) ApplyDefaults() {
	if c.Catalog.ServerURL == "" {
		c.Catalog.ServerURL = DefaultServerURL
	}
}

// GetDefaultPath returns the default config path or error.
func GetDefaultPath() (string, error) {
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(h, ConfigDir, ConfigFile), nil
}

// Source is a source of CLI configuration.
type Source interface {
	Initialize() error
	GetConfig() (*Config, error)
	UpdateConfig(c *Config) error
}

// Extract performs extraction of configuration from the provided source.
func Extract(src Source) (*Config, error) {
	conf, err := src.GetConfig()
	if err != nil {
		return nil, err
	}
	return conf, nil
}

// FSSource provides config from a file on a filesystem. A missing file
// reads as the default config.
type FSSource struct {
	fs   afero.Fs
	path string
}

// FSSourceOption modifies an FSSource.
type FSSourceOption func(*FSSource)

// WithFS overrides the filesystem the config is read from.
func WithFS(fs afero.Fs) FSSourceOption {
	return func(s *FSSource) {
		s.fs = fs
	}
}

// WithPath overrides the config file path.
func WithPath(p string) FSSourceOption {
	return func(s *FSSource) {
		s.path = p
	}
}

// NewFSSource constructs a new FSSource. Note that the source is not
// usable until Initialize is called.
func NewFSSource(opts ...FSSourceOption) *FSSource {
	s := &FSSource{
		fs: afero.NewOsFs(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize creates the config directory if it does not exist yet.
func (s *FSSource) Initialize() error {
	if s.path == "" {
		p, err := GetDefaultPath()
		if err != nil {
			return err
		}
		s.path = p
	}
	return s.fs.MkdirAll(filepath.Dir(s.path), 0o755)
}

// GetConfig fetches the config from the filesystem.
func (s *FSSource) GetConfig() (*Config, error) {
	conf := &Config{}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, conf); err != nil {
			return nil, errors.Wrapf(err, errParseConfigFmt, s.path)
		}
	}
	conf.ApplyDefaults()
	return conf, nil
}

// UpdateConfig writes the supplied config back to the filesystem.
func (s *FSSource) UpdateConfig(c *Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, errWriteConfig)
	}
	return afero.WriteFile(s.fs, s.path, data, 0o644)
}
