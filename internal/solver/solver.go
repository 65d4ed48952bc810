// Copyright 2025 Upbound Inc.
// All rights reserved

// Package solver implements the default constraint solver consulted by
// the catalog's resolver facade. For each requested package it picks the
// highest catalog version satisfying every applicable constraint,
// preferring the previous solution when it still satisfies, and pulls in
// transitive strong dependencies breadth-first.
package solver

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/costinelmarin/meteor/internal/catalog"
)

const (
	errParseConstraintFmt = "invalid constraint %q on package %q"
	errNoVersionsFmt      = "no version of %q satisfies the given constraints"
)

// Catalog is the read surface the solver works against.
type Catalog interface {
	VersionStrings(name string) []string
	GetVersion(name, version string) (catalog.Version, bool)
}

// Solver is a greedy highest-satisfying-version resolver.
type Solver struct {
	cat Catalog
	log logging.Logger
}

// Option modifies a Solver.
type Option func(*Solver)

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Solver) {
		s.log = l
	}
}

// New returns a Solver resolving against cat.
func New(cat Catalog, opts ...Option) *Solver {
	s := &Solver{cat: cat, log: logging.NewNopLogger()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Resolve produces a name -> version mapping covering deps and their
// transitive strong dependencies, or catalog.ErrNoSolution. The previous
// solution in opts is kept for any package it still satisfies.
func (s *Solver) Resolve(deps []string, constraints []catalog.Constraint, opts *catalog.ResolveOptions) (map[string]string, error) {
	cons := map[string][]*semver.Constraints{}
	for _, c := range constraints {
		parsed, err := semver.NewConstraint(c.Constraint)
		if err != nil {
			return nil, errors.Wrapf(err, errParseConstraintFmt, c.Constraint, c.PackageName)
		}
		cons[c.PackageName] = append(cons[c.PackageName], parsed)
	}

	var prev map[string]string
	if opts != nil {
		prev = opts.PreviousSolution
	}

	result := map[string]string{}
	queue := append([]string(nil), deps...)
	sort.Strings(queue)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, done := result[name]; done {
			continue
		}

		chosen, err := s.choose(name, cons[name], prev[name])
		if err != nil {
			return nil, err
		}
		result[name] = chosen

		v, ok := s.cat.GetVersion(name, chosen)
		if !ok {
			continue
		}
		next := make([]string, 0, len(v.Dependencies))
		for dn, d := range v.Dependencies {
			if d.Weak {
				continue
			}
			if _, done := result[dn]; done {
				continue
			}
			// Constraints discovered on transitive edges only narrow
			// packages that are not decided yet; this solver does not
			// backtrack over earlier picks.
			if d.Constraint != "" {
				parsed, err := semver.NewConstraint(d.Constraint)
				if err != nil {
					return nil, errors.Wrapf(err, errParseConstraintFmt, d.Constraint, dn)
				}
				cons[dn] = append(cons[dn], parsed)
			}
			next = append(next, dn)
		}
		sort.Strings(next)
		queue = append(queue, next...)
	}
	return result, nil
}

// choose picks the version of name to use: the previous solution when it
// still satisfies every constraint, else the highest satisfying catalog
// version.
func (s *Solver) choose(name string, cons []*semver.Constraints, prev string) (string, error) {
	if prev != "" {
		if v, err := semver.NewVersion(prev); err == nil && satisfies(v, cons) {
			if _, ok := s.cat.GetVersion(name, prev); ok {
				return prev, nil
			}
		}
	}

	var (
		best    *semver.Version
		bestRaw string
	)
	for _, raw := range s.cat.VersionStrings(name) {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if !satisfies(v, cons) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestRaw = v, raw
		}
	}
	if best == nil {
		return "", errors.Wrapf(catalog.ErrNoSolution, errNoVersionsFmt, name)
	}
	return bestRaw, nil
}

func satisfies(v *semver.Version, cons []*semver.Constraints) bool {
	for _, c := range cons {
		if !c.Check(v) {
			return false
		}
	}
	return true
}
