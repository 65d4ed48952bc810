// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func snapshotWith(versions ...Version) *Snapshot {
	s := EmptySnapshot()
	seen := map[string]bool{}
	for _, v := range versions {
		if !seen[v.PackageName] {
			s.Collections.Packages = append(s.Collections.Packages, Package{Name: v.PackageName})
			seen[v.PackageName] = true
		}
		s.Collections.Versions = append(s.Collections.Versions, v)
	}
	return s
}

func TestBaseQueries(t *testing.T) {
	t.Parallel()

	b := newBase()
	b.insertSnapshot(snapshotWith(
		Version{ID: "v1", PackageName: "alpha", Version: "1.0.0"},
		Version{ID: "v2", PackageName: "alpha", Version: "1.2.0"},
		Version{ID: "v3", PackageName: "alpha", Version: "1.1.0+build5"},
		Version{ID: "v4", PackageName: "beta", Version: "0.9.0"},
	))
	b.insertBuild(Build{PackageName: "alpha", VersionID: "v2", Architecture: "os.linux.amd64"})
	b.insertBuild(Build{PackageName: "alpha", VersionID: "v2", Architecture: "os.darwin.arm64"})

	if _, ok := b.GetPackage("alpha"); !ok {
		t.Error("GetPackage(alpha): want present")
	}
	if _, ok := b.GetPackage("gamma"); ok {
		t.Error("GetPackage(gamma): want absent")
	}

	v, ok := b.GetVersion("alpha", "1.1.0+build5")
	if !ok || v.ID != "v3" {
		t.Errorf("GetVersion(alpha, 1.1.0+build5): got %v, %t", v, ok)
	}
	if _, ok := b.GetVersion("alpha", "9.9.9"); ok {
		t.Error("GetVersion(alpha, 9.9.9): want absent")
	}

	// Latest by semver, ignoring build metadata.
	id, ok := b.GetLatestVersion("alpha")
	if !ok || id != "v2" {
		t.Errorf("GetLatestVersion(alpha): got %q, %t, want v2", id, ok)
	}
	if _, ok := b.GetLatestVersion("gamma"); ok {
		t.Error("GetLatestVersion(gamma): want absent")
	}

	if got := len(b.GetAllBuilds("v2")); got != 2 {
		t.Errorf("GetAllBuilds(v2): got %d builds, want 2", got)
	}
	if got := len(b.GetAllBuilds("v1")); got != 0 {
		t.Errorf("GetAllBuilds(v1): got %d builds, want 0", got)
	}

	wantNames := []string{"alpha", "beta"}
	var gotNames []string
	for _, p := range b.Packages() {
		gotNames = append(gotNames, p.Name)
	}
	if diff := cmp.Diff(wantNames, gotNames); diff != "" {
		t.Errorf("Packages(): -want, +got:\n%s", diff)
	}
}

func TestBaseReset(t *testing.T) {
	t.Parallel()

	b := newBase()
	b.insertSnapshot(snapshotWith(Version{ID: "v1", PackageName: "alpha", Version: "1.0.0"}))
	b.reset()

	if _, ok := b.GetPackage("alpha"); ok {
		t.Error("GetPackage after reset: want absent")
	}
	if _, ok := b.GetVersion("alpha", "1.0.0"); ok {
		t.Error("GetVersion after reset: want absent")
	}
}

func TestLocalVersion(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		reason string
		in     string
		want   string
	}{
		"Plain": {
			reason: "A plain version gets the local suffix appended.",
			in:     "1.2.3",
			want:   "1.2.3+local",
		},
		"ExistingSuffix": {
			reason: "An existing build suffix is replaced, not stacked.",
			in:     "1.2.3+abc42",
			want:   "1.2.3+local",
		},
		"LocalSuffix": {
			reason: "Applying the transformation twice is a fixpoint.",
			in:     "1.2.3+local",
			want:   "1.2.3+local",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := LocalVersion(tc.in); got != tc.want {
				t.Errorf("\n%s\nLocalVersion(%q): got %q, want %q", tc.reason, tc.in, got, tc.want)
			}
		})
	}
}
