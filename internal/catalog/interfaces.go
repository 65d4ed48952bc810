// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"

	"github.com/costinelmarin/meteor/internal/pkgsource"
)

// SnapshotSource produces server snapshots for a refresh, either from an
// on-disk cache or from the package server itself.
type SnapshotSource interface {
	// LoadCached returns the cached snapshot from disk. A missing or corrupt
	// cache yields an empty snapshot, not an error.
	LoadCached() (*Snapshot, error)

	// UpdateFromServer asks the package server for an updated snapshot,
	// given the previously cached one. Returns ErrServerUnreachable when
	// the server cannot be contacted.
	UpdateFromServer(ctx context.Context, prev *Snapshot) (*Snapshot, error)
}

// SourceParser reads a local source tree's package declaration.
type SourceParser interface {
	// Parse parses the declaration of the package called name rooted at dir.
	Parse(name, dir string) (*pkgsource.Source, error)

	// HasPackageFile reports whether dir contains a package declaration
	// file, making it a local package candidate during directory scans.
	HasPackageFile(dir string) bool
}

// BuiltPackage is the product of compiling a package source tree for one or
// more architectures.
type BuiltPackage interface {
	// Architectures lists the architectures the package was built for.
	Architectures() []string

	// SaveToPath persists the build to dir, anchored at the source tree it
	// was built from.
	SaveToPath(dir, buildOf string) error
}

// BuildStore reads previously persisted builds back from disk.
type BuildStore interface {
	// InitFromPath loads the build of the package called name from dir,
	// anchored at the source tree it was built from.
	InitFromPath(name, dir, buildOf string) (BuiltPackage, error)
}

// Compiler turns package sources into built packages.
type Compiler interface {
	// BuildOrderConstraints returns the packages that must be built before
	// src, each optionally pinned to a version.
	BuildOrderConstraints(src *pkgsource.Source) ([]BuildConstraint, error)

	// Compile builds src for the host architecture.
	Compile(ctx context.Context, src *pkgsource.Source) (BuiltPackage, error)

	// CheckUpToDate reports whether built still reflects src: source
	// hashes, build-dependency versions and tool version all unchanged.
	CheckUpToDate(src *pkgsource.Source, built BuiltPackage) bool
}

// Project exposes the active project's root directory and its pinned
// package versions.
type Project interface {
	// RootDir returns the project root, or "" when no project is active.
	RootDir() string

	// Versions returns the project's currently pinned versions.
	Versions() (map[string]string, error)
}

// Tropohouse locates installed (non-local) package builds on disk.
type Tropohouse interface {
	// PackagePath returns the directory an installed build of
	// name@version would live at.
	PackagePath(name, version string) string

	// Exists reports whether that directory is present on disk.
	Exists(name, version string) bool
}

// Resolver is the external constraint solver, adapted by the resolver
// facade on the complete catalog.
type Resolver interface {
	// Resolve produces a consistent name -> version mapping covering deps
	// under constraints, or ErrNoSolution.
	Resolve(deps []string, constraints []Constraint, opts *ResolveOptions) (map[string]string, error)
}

// ResolverFactory bootstraps the external solver for a complete catalog
// after its first successful refresh. A nil return leaves the resolver
// unavailable; the facade keeps answering ErrResolverUnavailable.
type ResolverFactory func(c *Complete) Resolver
