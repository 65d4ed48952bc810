// Copyright 2025 Upbound Inc.
// All rights reserved

// Package pkgsource reads the declaration of a package source tree on
// local disk.
package pkgsource

import (
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// PackageFile is the declaration file that marks a directory as a package
// source tree.
const PackageFile = "package.yaml"

const (
	errReadDeclarationFmt  = "cannot read %s"
	errParseDeclarationFmt = "cannot parse %s"
	errMissingVersion      = "declaration carries no version"
)

// Dependency is a declared dependency of a source: a constraint string
// (empty means unconstrained) and whether the dependency is weak.
type Dependency struct {
	Constraint string
	Weak       bool
}

// declaration is the wire shape of a package declaration file.
type declaration struct {
	Name                      string            `json:"name,omitempty"`
	Version                   string            `json:"version"`
	EarliestCompatibleVersion string            `json:"earliestCompatibleVersion,omitempty"`
	Summary                   string            `json:"summary,omitempty"`
	TestName                  string            `json:"testName,omitempty"`
	IsTest                    bool              `json:"isTest,omitempty"`
	ContainsPlugins           bool              `json:"containsPlugins,omitempty"`
	Dependencies              map[string]string `json:"dependencies,omitempty"`
	WeakDependencies          map[string]string `json:"weakDependencies,omitempty"`

	// BuildDependencies lists packages that must be built before this one,
	// optionally pinned to an exact version.
	BuildDependencies map[string]string `json:"buildDependencies,omitempty"`
}

// Source is the parsed declaration of one package source tree.
type Source struct {
	Name                      string
	Version                   string
	EarliestCompatibleVersion string
	Summary                   string
	TestName                  string
	IsTest                    bool
	ContainsPlugins           bool
	SourceRoot                string

	deps      map[string]Dependency
	buildDeps map[string]string
}

// DependencyMetadata returns the source's declared dependencies, strong
// and weak.
func (s *Source) DependencyMetadata() map[string]Dependency {
	out := make(map[string]Dependency, len(s.deps))
	for n, d := range s.deps {
		out[n] = d
	}
	return out
}

// BuildDependencies returns the source's build-order dependencies and
// their optional version pins.
func (s *Source) BuildDependencies() map[string]string {
	out := make(map[string]string, len(s.buildDeps))
	for n, v := range s.buildDeps {
		out[n] = v
	}
	return out
}

// Parser parses package declaration files on the given filesystem.
type Parser struct {
	fs afero.Fs
}

// NewParser returns a parser reading from fs.
func NewParser(fs afero.Fs) *Parser {
	return &Parser{fs: fs}
}

// HasPackageFile reports whether dir contains a package declaration file.
func (p *Parser) HasPackageFile(dir string) bool {
	ok, err := afero.Exists(p.fs, filepath.Join(dir, PackageFile))
	return err == nil && ok
}

// Parse reads the declaration of the package called name rooted at dir.
// The declaration's own name field, when present, is ignored in favour of
// the requested name; this is what lets a test package parse from its
// parent's source tree.
func (p *Parser) Parse(name, dir string) (*Source, error) {
	path := filepath.Join(dir, PackageFile)
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errReadDeclarationFmt, path)
	}

	var decl declaration
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, errors.Wrapf(err, errParseDeclarationFmt, path)
	}
	if decl.Version == "" {
		return nil, errors.Errorf(errParseDeclarationFmt+": %s", path, errMissingVersion)
	}

	deps := make(map[string]Dependency, len(decl.Dependencies)+len(decl.WeakDependencies))
	for n, c := range decl.Dependencies {
		deps[n] = Dependency{Constraint: c}
	}
	for n, c := range decl.WeakDependencies {
		deps[n] = Dependency{Constraint: c, Weak: true}
	}

	return &Source{
		Name:                      name,
		Version:                   decl.Version,
		EarliestCompatibleVersion: decl.EarliestCompatibleVersion,
		Summary:                   decl.Summary,
		TestName:                  decl.TestName,
		IsTest:                    decl.IsTest,
		ContainsPlugins:           decl.ContainsPlugins,
		SourceRoot:                dir,
		deps:                      deps,
		buildDeps:                 decl.BuildDependencies,
	}, nil
}
