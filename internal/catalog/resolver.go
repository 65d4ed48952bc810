// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const (
	errResolveConstraints   = "cannot resolve constraints"
	errInvalidConstraintFmt = "invalid constraint %q on package %q"
	errReadProjectVersions  = "cannot read project versions"
)

// ConstraintEntry is one requested package in a resolution, optionally
// constrained to a version. Weak entries contribute their constraint but
// do not force the package into the result.
type ConstraintEntry struct {
	PackageName string
	Version     string
	Weak        bool
}

// Constraint is a version constraint annotated with the package it
// applies to, in the syntax understood by the solver.
type Constraint struct {
	PackageName string
	Constraint  string
}

// ResolveOptions are forwarded to the solver. PreviousSolution seeds the
// solver with an earlier answer it should stay close to.
type ResolveOptions struct {
	PreviousSolution map[string]string
}

// ResolveConstraintsOptions modifies ResolveConstraints itself rather than
// the solver.
type ResolveConstraintsOptions struct {
	// IgnoreProjectDeps prevents the active project's pinned versions from
	// being used as a prior.
	IgnoreProjectDeps bool
}

// ConstraintInput is the tagged constraint form accepted by
// ResolveConstraints: either an ordered sequence of entries or a
// name -> constraint string mapping. Construct with ConstraintList or
// ConstraintMap.
type ConstraintInput struct {
	entries []ConstraintEntry
	byName  map[string]string
	fromMap bool
}

// ConstraintList builds a ConstraintInput from an ordered sequence of
// entries.
func ConstraintList(entries []ConstraintEntry) ConstraintInput {
	return ConstraintInput{entries: entries}
}

// ConstraintMap builds a ConstraintInput from a name -> constraint string
// mapping. An empty string constrains nothing beyond presence.
func ConstraintMap(m map[string]string) ConstraintInput {
	return ConstraintInput{byName: m, fromMap: true}
}

// normalize flattens the tagged input into the dependency list and
// constraint list handed to the solver.
func (in ConstraintInput) normalize() (deps []string, constraints []Constraint, err error) {
	if in.fromMap {
		names := make([]string, 0, len(in.byName))
		for n := range in.byName {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			deps = append(deps, n)
			if raw := in.byName[n]; raw != "" {
				if _, err := semver.NewConstraint(raw); err != nil {
					return nil, nil, errors.Wrapf(err, errInvalidConstraintFmt, raw, n)
				}
				constraints = append(constraints, Constraint{PackageName: n, Constraint: raw})
			}
		}
		return deps, constraints, nil
	}

	for _, e := range in.entries {
		if !e.Weak {
			deps = append(deps, e.PackageName)
		}
		if e.Version != "" {
			constraints = append(constraints, Constraint{PackageName: e.PackageName, Constraint: e.Version})
		}
	}
	return deps, constraints, nil
}

// ResolveConstraints adapts the given constraints to the external solver
// and reconciles the answer with the project's pinned versions. While the
// solver is still bootstrapping it returns ErrResolverUnavailable, which
// callers treat as "fall back to local-only loading".
func (c *Complete) ResolveConstraints(input ConstraintInput, solverOpts *ResolveOptions, opts ResolveConstraintsOptions) (map[string]string, error) {
	if err := c.requireInitialized(); err != nil {
		return nil, errors.Wrap(err, errResolveConstraints)
	}

	deps, constraints, err := input.normalize()
	if err != nil {
		return nil, errors.Wrap(err, errResolveConstraints)
	}

	if c.resolver == nil {
		return nil, ErrResolverUnavailable
	}

	if solverOpts == nil {
		solverOpts = &ResolveOptions{}
	}

	if !opts.IgnoreProjectDeps && c.proj != nil && c.proj.RootDir() != "" {
		prev, err := c.proj.Versions()
		if err != nil {
			return nil, errors.Wrap(err, errReadProjectVersions)
		}
		solverOpts.PreviousSolution = prev
	}

	res, err := c.resolver.Resolve(deps, constraints, solverOpts)
	return res, errors.Wrap(err, errResolveConstraints)
}
