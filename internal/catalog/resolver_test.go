// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"
	"testing"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func newResolvingComplete(t *testing.T, r Resolver, opts ...CompleteOption) *Complete {
	t.Helper()
	opts = append(opts, WithResolverFactory(func(*Complete) Resolver { return r }))
	c := newTestComplete(t, afero.NewMemMapFs(), opts...)
	if err := c.Initialize(context.Background(), InitializeOptions{}); err != nil {
		t.Fatalf("Initialize(): %v", err)
	}
	return c
}

func TestResolveConstraintsNormalisation(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		reason          string
		input           ConstraintInput
		wantDeps        []string
		wantConstraints []Constraint
	}{
		"MapInput": {
			reason: "Every key becomes a dependency; only non-empty values contribute a constraint.",
			input:  ConstraintMap(map[string]string{"foo": "1.0.0", "bar": ""}),
			wantDeps: []string{"bar", "foo"},
			wantConstraints: []Constraint{
				{PackageName: "foo", Constraint: "1.0.0"},
			},
		},
		"ListInput": {
			reason: "Weak entries contribute their constraint but are not forced into the result.",
			input: ConstraintList([]ConstraintEntry{
				{PackageName: "foo", Version: ">=1.0.0"},
				{PackageName: "bar", Version: "2.0.0", Weak: true},
				{PackageName: "baz"},
			}),
			wantDeps: []string{"foo", "baz"},
			wantConstraints: []Constraint{
				{PackageName: "foo", Constraint: ">=1.0.0"},
				{PackageName: "bar", Constraint: "2.0.0"},
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := &fakeResolver{result: map[string]string{}}
			c := newResolvingComplete(t, r)

			if _, err := c.ResolveConstraints(tc.input, nil, ResolveConstraintsOptions{IgnoreProjectDeps: true}); err != nil {
				t.Fatalf("\n%s\nResolveConstraints(): %v", tc.reason, err)
			}
			if diff := cmp.Diff(tc.wantDeps, r.deps); diff != "" {
				t.Errorf("\n%s\ndeps: -want, +got:\n%s", tc.reason, diff)
			}
			if diff := cmp.Diff(tc.wantConstraints, r.constraints); diff != "" {
				t.Errorf("\n%s\nconstraints: -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestResolveConstraintsInvalidConstraint(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{}
	c := newResolvingComplete(t, r)

	_, err := c.ResolveConstraints(ConstraintMap(map[string]string{"foo": "not-a-constraint!"}), nil, ResolveConstraintsOptions{})
	if err == nil {
		t.Error("ResolveConstraints() with a malformed constraint: want error")
	}
}

func TestResolveConstraintsUnavailable(t *testing.T) {
	t.Parallel()

	// No resolver factory: the solver is still bootstrapping.
	c := newTestComplete(t, afero.NewMemMapFs())
	if err := c.Initialize(context.Background(), InitializeOptions{}); err != nil {
		t.Fatalf("Initialize(): %v", err)
	}

	_, err := c.ResolveConstraints(ConstraintMap(map[string]string{"foo": ""}), nil, ResolveConstraintsOptions{})
	if !errors.Is(err, ErrResolverUnavailable) {
		t.Errorf("ResolveConstraints(): got %v, want ErrResolverUnavailable", err)
	}
}

func TestResolveConstraintsProjectReconciliation(t *testing.T) {
	t.Parallel()

	pinned := map[string]string{"foo": "1.0.0"}

	cases := map[string]struct {
		reason   string
		proj     Project
		opts     ResolveConstraintsOptions
		wantPrev map[string]string
	}{
		"ProjectSeedsSolver": {
			reason:   "With an active project its pinned versions become the solver's previous solution.",
			proj:     &fakeProject{root: "/app", versions: pinned},
			wantPrev: pinned,
		},
		"IgnoreProjectDeps": {
			reason: "IgnoreProjectDeps skips the pinned versions entirely.",
			proj:   &fakeProject{root: "/app", versions: pinned},
			opts:   ResolveConstraintsOptions{IgnoreProjectDeps: true},
		},
		"NoActiveProject": {
			reason: "Without a project root the solver runs on the input alone.",
			proj:   &fakeProject{},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := &fakeResolver{result: map[string]string{}}
			c := newResolvingComplete(t, r, WithProject(tc.proj))

			if _, err := c.ResolveConstraints(ConstraintMap(map[string]string{"foo": ""}), nil, tc.opts); err != nil {
				t.Fatalf("\n%s\nResolveConstraints(): %v", tc.reason, err)
			}
			if diff := cmp.Diff(tc.wantPrev, r.opts.PreviousSolution); diff != "" {
				t.Errorf("\n%s\nPreviousSolution: -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}
