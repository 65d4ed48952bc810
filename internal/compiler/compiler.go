// Copyright 2025 Upbound Inc.
// All rights reserved

// Package compiler turns package source trees into built artifacts. A
// build hashes the source tree, records the tool version and build-order
// dependency pins, and snapshots the program tree, which is enough to
// answer whether a persisted build is still up to date.
package compiler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/pkgsource"
	"github.com/costinelmarin/meteor/internal/unipackage"
	"github.com/costinelmarin/meteor/internal/version"
)

const errHashSourceFmt = "cannot hash source tree at %s"

// Compiler builds local package sources.
type Compiler struct {
	fs          afero.Fs
	toolVersion string
	arch        string
}

// Option modifies a Compiler.
type Option func(*Compiler)

// WithToolVersion overrides the tool version stamped into builds.
func WithToolVersion(v string) Option {
	return func(c *Compiler) {
		c.toolVersion = v
	}
}

// WithArchitecture overrides the architecture builds are produced for.
func WithArchitecture(a string) Option {
	return func(c *Compiler) {
		c.arch = a
	}
}

// New returns a Compiler building from fs.
func New(fs afero.Fs, opts ...Option) *Compiler {
	c := &Compiler{
		fs:          fs,
		toolVersion: version.Version(),
		arch:        fmt.Sprintf("os.%s.%s", runtime.GOOS, runtime.GOARCH),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BuildOrderConstraints returns the packages that must be built before
// src: its declared build dependencies and, when the source contains
// plugins, its strong dependencies as well, since plugins run at build
// time.
func (c *Compiler) BuildOrderConstraints(src *pkgsource.Source) ([]catalog.BuildConstraint, error) {
	pins := src.BuildDependencies()
	if src.ContainsPlugins {
		for name, dep := range src.DependencyMetadata() {
			if dep.Weak {
				continue
			}
			if _, ok := pins[name]; !ok {
				pins[name] = ""
			}
		}
	}

	names := make([]string, 0, len(pins))
	for n := range pins {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]catalog.BuildConstraint, 0, len(names))
	for _, n := range names {
		out = append(out, catalog.BuildConstraint{Name: n, Version: pins[n]})
	}
	return out, nil
}

// Compile builds src for the compiler's architecture. The program tree is
// a snapshot of the source tree; the metadata captures everything the
// freshness check compares.
func (c *Compiler) Compile(_ context.Context, src *pkgsource.Source) (catalog.BuiltPackage, error) {
	hash, err := c.hashSource(src.SourceRoot)
	if err != nil {
		return nil, err
	}

	program, err := c.snapshotSource(src.SourceRoot)
	if err != nil {
		return nil, err
	}

	return unipackage.New(c.fs, unipackage.Metadata{
		Name:             src.Name,
		Architectures:    []string{c.arch},
		SourceHash:       hash,
		ToolVersion:      c.toolVersion,
		BuildDepVersions: src.BuildDependencies(),
		BuildOfPath:      src.SourceRoot,
	}, program), nil
}

// snapshotSource copies the source tree into an in-memory program tree,
// leaving persisted build directories behind.
func (c *Compiler) snapshotSource(root string) (afero.Fs, error) {
	program := afero.NewMemMapFs()
	err := afero.Walk(c.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if isBuildDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := afero.ReadFile(c.fs, path)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(rel); dir != "." {
			if err := program.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		return afero.WriteFile(program, rel, data, 0o644)
	})
	return program, err
}

// CheckUpToDate reports whether built still reflects src: same source
// hash, same tool version, same build-order dependency pins.
func (c *Compiler) CheckUpToDate(src *pkgsource.Source, built catalog.BuiltPackage) bool {
	b, ok := built.(UpToDateChecker)
	if !ok {
		return false
	}

	hash, err := c.hashSource(src.SourceRoot)
	if err != nil {
		return false
	}
	if b.SourceHash() != hash || b.ToolVersion() != c.toolVersion {
		return false
	}

	want := src.BuildDependencies()
	got := b.BuildDepVersions()
	if len(want) != len(got) {
		return false
	}
	for n, v := range want {
		if got[n] != v {
			return false
		}
	}
	return true
}

// UpToDateChecker is the artifact surface the freshness check reads.
type UpToDateChecker interface {
	SourceHash() string
	ToolVersion() string
	BuildDepVersions() map[string]string
}

// hashSource computes a stable digest over every file in the source tree,
// skipping persisted build directories.
func (c *Compiler) hashSource(root string) (string, error) {
	type entry struct {
		path string
		sum  [sha256.Size]byte
	}
	var entries []entry

	err := afero.Walk(c.fs, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if isBuildDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := afero.ReadFile(c.fs, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, entry{path: rel, sum: sha256.Sum256(data)})
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, errHashSourceFmt, root)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.path))
		h.Write([]byte{0})
		h.Write(e.sum[:])
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func isBuildDir(name string) bool {
	return strings.HasPrefix(name, ".build.")
}
