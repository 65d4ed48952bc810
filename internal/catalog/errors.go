// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import "github.com/crossplane/crossplane-runtime/pkg/errors"

// Sentinel errors surfaced by catalog operations. Callers are expected to
// branch with errors.Is; operations wrap them with call-site context.
var (
	// ErrNotInitialized indicates a public operation was invoked before
	// Initialize succeeded.
	ErrNotInitialized = errors.New("catalog is not initialized")

	// ErrDuplicateLocalPackage indicates AddLocalPackage was called with a
	// name that is already pinned to a different source directory.
	ErrDuplicateLocalPackage = errors.New("local package is already registered at a different path")

	// ErrNoSuchLocalPackage indicates RemoveLocalPackage was called with an
	// unknown name.
	ErrNoSuchLocalPackage = errors.New("no such local package")

	// ErrMissingVersion indicates GetLoadPathForPackage was called for a
	// non-local package without a version.
	ErrMissingVersion = errors.New("version is required for non-local packages")

	// ErrMalformedLocalVersion indicates a local source declares a version
	// that already carries a build metadata suffix.
	ErrMalformedLocalVersion = errors.New("local package version must not contain a + suffix")

	// ErrInternalInconsistency indicates a pinned build-order dependency
	// version disagreed with the local source tree it resolves to.
	ErrInternalInconsistency = errors.New("internal inconsistency")

	// ErrResolverUnavailable indicates the constraint solver has not been
	// bootstrapped yet. Distinct from "no solution": callers fall back to
	// local-only loading.
	ErrResolverUnavailable = errors.New("constraint resolver is not available yet")

	// ErrServerUnreachable indicates the package server could not be
	// contacted while refreshing a snapshot. Non-fatal: refresh falls back
	// to the cached snapshot.
	ErrServerUnreachable = errors.New("package server is unreachable")

	// ErrNoSolution indicates the solver found no version set satisfying
	// the supplied constraints.
	ErrNoSolution = errors.New("no solution satisfies the given constraints")
)
