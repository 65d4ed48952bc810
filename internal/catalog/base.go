// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Base holds the three indexed collections every catalog is built on and
// the query primitives over them. It is embedded by Server and Complete.
type Base struct {
	packages   map[string]Package
	versions   map[string]Version           // by Version.ID
	versionIDs map[string]map[string]string // package name -> version string -> Version.ID
	builds     map[string][]Build           // by Version.ID

	initialized bool
}

func newBase() Base {
	b := Base{}
	b.reset()
	return b
}

// reset clears all three collections.
func (b *Base) reset() {
	b.packages = map[string]Package{}
	b.versions = map[string]Version{}
	b.versionIDs = map[string]map[string]string{}
	b.builds = map[string][]Build{}
}

// Initialized reports whether the catalog has seen a successful refresh.
func (b *Base) Initialized() bool {
	return b.initialized
}

func (b *Base) requireInitialized() error {
	if !b.initialized {
		return ErrNotInitialized
	}
	return nil
}

// insertSnapshot ingests a server snapshot into the three collections.
// Packages are keyed by name and versions by id, so a later record with
// the same key replaces an earlier one; builds are appended as given.
func (b *Base) insertSnapshot(s *Snapshot) {
	if s == nil {
		return
	}
	for _, p := range s.Collections.Packages {
		b.insertPackage(p)
	}
	for _, v := range s.Collections.Versions {
		b.insertVersion(v)
	}
	for _, bd := range s.Collections.Builds {
		b.insertBuild(bd)
	}
}

func (b *Base) insertPackage(p Package) {
	b.packages[p.Name] = p
}

func (b *Base) insertVersion(v Version) {
	b.versions[v.ID] = v
	ids := b.versionIDs[v.PackageName]
	if ids == nil {
		ids = map[string]string{}
		b.versionIDs[v.PackageName] = ids
	}
	ids[v.Version] = v.ID
}

func (b *Base) insertBuild(bd Build) {
	b.builds[bd.VersionID] = append(b.builds[bd.VersionID], bd)
}

// GetPackage returns the package with the given name, if any.
func (b *Base) GetPackage(name string) (Package, bool) {
	p, ok := b.packages[name]
	return p, ok
}

// Packages returns all known packages sorted by name.
func (b *Base) Packages() []Package {
	out := make([]Package, 0, len(b.packages))
	for _, p := range b.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetVersion returns the version record for the exact version string of the
// named package, if any.
func (b *Base) GetVersion(name, version string) (Version, bool) {
	id, ok := b.versionIDs[name][version]
	if !ok {
		return Version{}, false
	}
	v, ok := b.versions[id]
	return v, ok
}

// GetVersionByID returns the version record with the given id, if any.
func (b *Base) GetVersionByID(id string) (Version, bool) {
	v, ok := b.versions[id]
	return v, ok
}

// VersionStrings returns all known version strings of the named package,
// sorted lexically.
func (b *Base) VersionStrings(name string) []string {
	ids := b.versionIDs[name]
	out := make([]string, 0, len(ids))
	for ver := range ids {
		out = append(out, ver)
	}
	sort.Strings(out)
	return out
}

// GetLatestVersion returns the id of the latest version of the named
// package by semver ordering, ignoring build metadata suffixes. Version
// strings that do not parse as semver are skipped.
func (b *Base) GetLatestVersion(name string) (string, bool) {
	var (
		bestID string
		best   *semver.Version
	)
	for ver, id := range b.versionIDs[name] {
		sv, err := semver.NewVersion(ver)
		if err != nil {
			continue
		}
		if best == nil || sv.GreaterThan(best) {
			best, bestID = sv, id
		}
	}
	return bestID, best != nil
}

// GetAllBuilds returns every build recorded for the given version id.
func (b *Base) GetAllBuilds(versionID string) []Build {
	return b.builds[versionID]
}
