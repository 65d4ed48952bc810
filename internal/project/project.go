// Copyright 2025 Upbound Inc.
// All rights reserved

// Package project reads the active project's pinned package versions.
package project

import (
	"bufio"
	"bytes"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"
)

// VersionsFile is the pinned-versions manifest inside a project root, one
// name@version per line.
const VersionsFile = ".meteor/versions"

const (
	errReadVersionsFmt  = "cannot read %s"
	errParseVersionLine = "malformed version line %q"
)

// Project is a project directory with a pinned-versions manifest.
type Project struct {
	fs      afero.Fs
	rootDir string
}

// New returns the project rooted at rootDir on fs. An empty rootDir means
// no project is active.
func New(fs afero.Fs, rootDir string) *Project {
	return &Project{fs: fs, rootDir: rootDir}
}

// RootDir returns the project root, or "" when no project is active.
func (p *Project) RootDir() string {
	return p.rootDir
}

// Versions returns the project's currently pinned versions. A missing
// manifest yields an empty map.
func (p *Project) Versions() (map[string]string, error) {
	if p.rootDir == "" {
		return map[string]string{}, nil
	}

	path := filepath.Join(p.rootDir, VersionsFile)
	data, err := afero.ReadFile(p.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errReadVersionsFmt, path)
	}

	out := map[string]string{}
	s := bufio.NewScanner(bytes.NewReader(data))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, version, ok := strings.Cut(line, "@")
		if !ok || name == "" || version == "" {
			return nil, errors.Errorf(errParseVersionLine, line)
		}
		out[name] = version
	}
	return out, errors.Wrapf(s.Err(), errReadVersionsFmt, path)
}
