// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"
)

const (
	// buildDirPrefix is the directory a persisted build lives under,
	// inside the package's own source tree.
	buildDirPrefix = ".build."

	// gitIgnorePattern keeps persisted build directories out of version
	// control.
	gitIgnorePattern = ".build*"
)

const (
	errNoCompiler            = "no compiler is configured"
	errBuildOrderFmt         = "cannot determine build order for %q"
	errCompileFmt            = "cannot compile package %q"
	errPersistBuildFmt       = "cannot persist build of %q"
	errDepVersionMismatchFmt = "build-order dependency %q pins %q but the local source tree is at %q"
)

// Build ensures the named local package has been built in this process,
// compiling it (and its not-yet-built local build-order dependencies)
// if needed. Packages that are not local are ignored.
func (c *Complete) Build(ctx context.Context, name string) error {
	if err := c.requireInitialized(); err != nil {
		return err
	}
	return c.build(ctx, name, map[string]bool{})
}

// build compiles one local package after its build-order dependencies,
// carrying the set of names on the traversal stack to detect cycles. A
// name is removed from the unbuilt set before recursing, so re-entry
// short-circuits and no name is processed twice.
func (c *Complete) build(ctx context.Context, name string, onStack map[string]bool) error {
	if !c.unbuilt[name] {
		return nil
	}
	delete(c.unbuilt, name)

	if c.comp == nil {
		return errors.New(errNoCompiler)
	}

	// The package being built is itself on the stack, so a dependency
	// chain leading back to it is reported as a cycle.
	onStack[name] = true
	defer delete(onStack, name)

	src := c.packageSources[name]
	deps, err := c.comp.BuildOrderConstraints(src)
	if err != nil {
		return errors.Wrapf(err, errBuildOrderFmt, name)
	}

	for _, dep := range deps {
		if !c.IsLocalPackage(dep.Name) {
			// Non-local build-order dependencies are already built;
			// their artifacts come from the tropohouse.
			continue
		}

		if dep.Version != "" {
			dsrc := c.packageSources[dep.Name]
			if LocalVersion(dep.Version) != LocalVersion(dsrc.Version) {
				return errors.Wrapf(ErrInternalInconsistency,
					errDepVersionMismatchFmt, dep.Name, dep.Version, dsrc.Version)
			}
		}

		if onStack[dep.Name] {
			// A cycle is tolerable when a cached build of the dependency
			// is still usable; otherwise record it and keep going without
			// enforcing this edge.
			if c.maybeGetUpToDateBuild(dep.Name) == nil {
				c.report.Messagef("circular dependency between packages %s and %s", name, dep.Name)
			}
			continue
		}

		onStack[dep.Name] = true
		if err := c.build(ctx, dep.Name, onStack); err != nil {
			return err
		}
		delete(onStack, dep.Name)
	}

	built := c.maybeGetUpToDateBuild(name)
	if built == nil {
		c.report.StartJob("building package "+name, src.SourceRoot)
		built, err = c.comp.Compile(ctx, src)
		if err != nil {
			return errors.Wrapf(err, errCompileFmt, name)
		}
		if err := c.persistBuild(name, src.SourceRoot, built); err != nil {
			return errors.Wrapf(err, errPersistBuildFmt, name)
		}
	}

	if id, ok := c.GetLatestVersion(name); ok {
		c.insertBuild(Build{
			PackageName:  name,
			VersionID:    id,
			Architecture: strings.Join(built.Architectures(), "+"),
			BuiltBy:      "local",
		})
	}
	return nil
}

// persistBuild writes a fresh build next to its source tree and keeps the
// build directory out of version control. Builds that cannot be cached
// for lack of filesystem permission remain usable in memory.
func (c *Complete) persistBuild(name, sourceRoot string, built BuiltPackage) error {
	dir := filepath.Join(sourceRoot, buildDirPrefix+name)
	if err := built.SaveToPath(dir, sourceRoot); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			c.log.Debug("build cache is not writable; keeping build in memory only", "package", name, "dir", dir)
			return nil
		}
		return err
	}
	return c.ensureIgnored(sourceRoot)
}

// ensureIgnored appends the build directory pattern to the source tree's
// .gitignore unless it is already there.
func (c *Complete) ensureIgnored(sourceRoot string) error {
	path := filepath.Join(sourceRoot, ".gitignore")
	data, err := afero.ReadFile(c.fs, path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == gitIgnorePattern {
			return nil
		}
	}
	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += gitIgnorePattern + "\n"
	return afero.WriteFile(c.fs, path, []byte(content), 0o644)
}

// maybeGetUpToDateBuild loads the persisted build of a local package if one
// exists and still reflects the parsed source. A missing build directory is
// not an error.
func (c *Complete) maybeGetUpToDateBuild(name string) BuiltPackage {
	src, ok := c.packageSources[name]
	if !ok || c.store == nil || c.comp == nil {
		return nil
	}
	dir := filepath.Join(src.SourceRoot, buildDirPrefix+name)
	if ok, _ := afero.DirExists(c.fs, dir); !ok {
		return nil
	}
	built, err := c.store.InitFromPath(name, dir, src.SourceRoot)
	if err != nil {
		c.log.Debug("cannot load cached build", "package", name, "dir", dir, "error", err)
		return nil
	}
	if !c.comp.CheckUpToDate(src, built) {
		return nil
	}
	return built
}
