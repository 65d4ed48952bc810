// Copyright 2025 Upbound Inc.
// All rights reserved

// Package unipackage reads and writes built package artifacts on disk. An
// artifact is a metadata file describing what was built plus the built
// program tree, anchored at the source tree it was built from.
package unipackage

import (
	"encoding/json"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/filesystem"
)

const (
	// MetadataFile holds the artifact metadata inside a build directory.
	MetadataFile = "unipackage.json"

	// programDir holds the built program tree inside a build directory.
	programDir = "program"
)

const (
	errReadMetadataFmt  = "cannot read build metadata at %s"
	errParseMetadataFmt = "cannot parse build metadata at %s"
	errWrongPackageFmt  = "build at %s belongs to package %q, not %q"
	errWriteMetadata    = "cannot write build metadata"
	errCopyProgram      = "cannot copy program tree into build directory"
)

// Metadata describes one built artifact: what was built, from which
// sources, with which tool.
type Metadata struct {
	Name             string            `json:"name"`
	Architectures    []string          `json:"architectures"`
	SourceHash       string            `json:"sourceHash"`
	ToolVersion      string            `json:"toolVersion"`
	BuildDepVersions map[string]string `json:"buildDepVersions,omitempty"`
	BuildOfPath      string            `json:"buildOfPath,omitempty"`
}

// Package is a built package artifact.
type Package struct {
	fs      afero.Fs
	meta    Metadata
	program afero.Fs // nil when loaded from disk
}

// New returns an in-memory artifact carrying the given metadata and
// program tree.
func New(fs afero.Fs, meta Metadata, program afero.Fs) *Package {
	return &Package{fs: fs, meta: meta, program: program}
}

// InitFromPath loads the artifact of the package called name from dir,
// anchored at the source tree it was built from.
func InitFromPath(fs afero.Fs, name, dir, buildOf string) (*Package, error) {
	path := filepath.Join(dir, MetadataFile)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errReadMetadataFmt, path)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, errParseMetadataFmt, path)
	}
	if meta.Name != name {
		return nil, errors.Errorf(errWrongPackageFmt, dir, meta.Name, name)
	}
	meta.BuildOfPath = buildOf

	return &Package{fs: fs, meta: meta}, nil
}

// Architectures lists the architectures the package was built for.
func (p *Package) Architectures() []string {
	return p.meta.Architectures
}

// SourceHash returns the hash of the source tree the artifact was built
// from.
func (p *Package) SourceHash() string {
	return p.meta.SourceHash
}

// ToolVersion returns the tool version that produced the artifact.
func (p *Package) ToolVersion() string {
	return p.meta.ToolVersion
}

// BuildDepVersions returns the build-order dependency pins the artifact
// was built against.
func (p *Package) BuildDepVersions() map[string]string {
	return p.meta.BuildDepVersions
}

// SaveToPath persists the artifact to dir, anchored at buildOf. The
// metadata file is written last so a half-copied program tree never
// masquerades as a complete build.
func (p *Package) SaveToPath(dir, buildOf string) error {
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if p.program != nil {
		target := afero.NewBasePathFs(p.fs, filepath.Join(dir, programDir))
		if err := filesystem.CopyFilesBetweenFs(p.program, target); err != nil {
			return errors.Wrap(err, errCopyProgram)
		}
	}

	meta := p.meta
	meta.BuildOfPath = buildOf
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, errWriteMetadata)
	}
	return afero.WriteFile(p.fs, filepath.Join(dir, MetadataFile), data, 0o644)
}
