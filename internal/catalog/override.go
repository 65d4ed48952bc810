// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/pkgsource"
)

const (
	errParseLocalPackageFmt = "cannot parse local package %q at %s"
	errLocalVersionFmt      = "local package %q declares version %q"
)

// addLocalPackageOverrides replaces server-originated entries for locally
// present packages with synthesised local entries, and surfaces each local
// package's declared test package as its own catalog entry. Runs as the
// final stage of every refresh, after the server snapshot was ingested.
func (c *Complete) addLocalPackageOverrides() error {
	c.computeEffectiveLocalPackages()

	// Drop every server record shadowed by a local package before any
	// synthesis happens, so synthesised entries never coexist with server
	// state for the same name.
	for name := range c.effectiveLocalPackages {
		c.removeRecordsFor(name)
	}

	c.packageSources = map[string]*pkgsource.Source{}
	return c.synthesiseLocalPackages()
}

// removeRecordsFor drops the package record for name along with all of its
// versions and the builds hanging off those versions.
func (c *Complete) removeRecordsFor(name string) {
	for ver, id := range c.versionIDs[name] {
		delete(c.versions, id)
		delete(c.builds, id)
		delete(c.versionIDs[name], ver)
	}
	delete(c.versionIDs, name)
	delete(c.packages, name)
}

// computeEffectiveLocalPackages rescans the local package dirs and overlays
// the explicit local packages on top. Within directory scans the earliest
// directory wins ties by name; explicit entries always win.
func (c *Complete) computeEffectiveLocalPackages() {
	eff := map[string]string{}
	for _, dir := range c.localPackageDirs {
		entries, err := afero.ReadDir(c.fs, dir)
		if err != nil {
			// Dirs may vanish between validation and scan.
			continue
		}
		names := make([]string, 0, len(entries))
		byName := map[string]string{}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			sub := filepath.Join(dir, e.Name())
			if !c.parser.HasPackageFile(sub) {
				continue
			}
			names = append(names, e.Name())
			byName[e.Name()] = sub
		}
		sort.Strings(names)
		for _, n := range names {
			if _, seen := eff[n]; !seen {
				eff[n] = byName[n]
			}
		}
	}
	for name, dir := range c.localPackages {
		eff[name] = dir
	}
	c.effectiveLocalPackages = eff
}

// synthesiseLocalPackages parses every effective local package and appends
// its synthesised package and version records, including declared test
// packages. Afterwards the whole effective set awaits its first build.
func (c *Complete) synthesiseLocalPackages() error {
	names := make([]string, 0, len(c.effectiveLocalPackages))
	for n := range c.effectiveLocalPackages {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, done := c.packageSources[name]; done {
			// Already synthesised as another package's test package.
			continue
		}
		if err := c.synthesiseLocalPackage(name, c.effectiveLocalPackages[name], false); err != nil {
			return err
		}
	}

	c.unbuilt = make(map[string]bool, len(c.effectiveLocalPackages))
	for n := range c.effectiveLocalPackages {
		c.unbuilt[n] = true
	}
	return nil
}

// synthesiseLocalPackage appends the package and version records for one
// local source tree. With asTest set the synthesised version is a test
// package; test packages never recurse further.
func (c *Complete) synthesiseLocalPackage(name, dir string, asTest bool) error {
	src, err := c.parser.Parse(name, dir)
	if err != nil {
		return errors.Wrapf(err, errParseLocalPackageFmt, name, dir)
	}
	c.packageSources[name] = src

	c.insertPackage(Package{Name: name})

	if strings.Contains(src.Version, "+") {
		return errors.Wrapf(ErrMalformedLocalVersion, errLocalVersionFmt, name, src.Version)
	}

	deps := src.DependencyMetadata()
	converted := make(map[string]Dependency, len(deps))
	for dn, d := range deps {
		converted[dn] = Dependency{Constraint: d.Constraint, Weak: d.Weak}
	}

	v := Version{
		ID:                        "local-" + uuid.NewString(),
		PackageName:               name,
		Version:                   src.Version + LocalBuildSuffix,
		EarliestCompatibleVersion: src.EarliestCompatibleVersion,
		Dependencies:              converted,
		Description:               src.Summary,
		IsTest:                    asTest || src.IsTest,
		ContainsPlugins:           src.ContainsPlugins,
	}
	if !asTest {
		v.TestName = src.TestName
	}
	c.insertVersion(v)

	// A source that is not itself a test package but declares a test
	// package contributes that test package as an additional local package
	// at the same source directory.
	if !asTest && !src.IsTest && src.TestName != "" {
		c.removeRecordsFor(src.TestName)
		c.effectiveLocalPackages[src.TestName] = dir
		return c.synthesiseLocalPackage(src.TestName, dir, true)
	}
	return nil
}
