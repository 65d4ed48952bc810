// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/pkgsource"
)

const (
	errAddLocalPackageFmt    = "cannot add local package %q"
	errRemoveLocalPackageFmt = "cannot remove local package %q"
	errRefresh               = "cannot refresh catalog"
	errLoadPathFmt           = "cannot get load path for package %q"
)

// Complete is the server projection merged with local source packages.
// Local packages replace any server entry sharing their name; their
// versions are synthesised with the local build suffix and their builds
// are produced lazily on first use.
type Complete struct {
	Base

	offline bool
	source  SnapshotSource

	fs     afero.Fs
	parser SourceParser
	comp   Compiler
	store  BuildStore
	proj   Project
	troph  Tropohouse

	resolverFactory ResolverFactory
	resolver        Resolver

	// localPackageDirs is the ordered list of directories scanned for
	// source trees. localPackages holds explicit name -> directory
	// overrides. effectiveLocalPackages is derived from the two.
	localPackageDirs       []string
	localPackages          map[string]string
	effectiveLocalPackages map[string]string

	packageSources map[string]*pkgsource.Source
	unbuilt        map[string]bool

	report *BuildReport
	log    logging.Logger
}

// CompleteOption modifies a Complete catalog.
type CompleteOption func(*Complete)

// WithFS sets the filesystem local source trees and build caches live on.
func WithFS(fs afero.Fs) CompleteOption {
	return func(c *Complete) {
		c.fs = fs
	}
}

// WithSnapshotSource sets the snapshot source the catalog refreshes from.
func WithSnapshotSource(s SnapshotSource) CompleteOption {
	return func(c *Complete) {
		c.source = s
	}
}

// WithSourceParser overrides the default package declaration parser.
func WithSourceParser(p SourceParser) CompleteOption {
	return func(c *Complete) {
		c.parser = p
	}
}

// WithCompiler sets the compiler used to build local packages.
func WithCompiler(comp Compiler) CompleteOption {
	return func(c *Complete) {
		c.comp = comp
	}
}

// WithBuildStore sets the reader for previously persisted builds.
func WithBuildStore(s BuildStore) CompleteOption {
	return func(c *Complete) {
		c.store = s
	}
}

// WithProject sets the active project whose pinned versions seed
// constraint resolution.
func WithProject(p Project) CompleteOption {
	return func(c *Complete) {
		c.proj = p
	}
}

// WithTropohouse sets the locator for installed non-local packages.
func WithTropohouse(t Tropohouse) CompleteOption {
	return func(c *Complete) {
		c.troph = t
	}
}

// WithResolverFactory sets the factory that bootstraps the constraint
// solver after the first successful refresh.
func WithResolverFactory(f ResolverFactory) CompleteOption {
	return func(c *Complete) {
		c.resolverFactory = f
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) CompleteOption {
	return func(c *Complete) {
		c.log = l
	}
}

// NewComplete returns a new, uninitialised Complete catalog.
func NewComplete(opts ...CompleteOption) *Complete {
	c := &Complete{
		Base:                   newBase(),
		fs:                     afero.NewOsFs(),
		localPackages:          map[string]string{},
		effectiveLocalPackages: map[string]string{},
		packageSources:         map[string]*pkgsource.Source{},
		unbuilt:                map[string]bool{},
		report:                 &BuildReport{},
		log:                    logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.parser == nil {
		c.parser = pkgsource.NewParser(c.fs)
	}
	if c.report.log == nil {
		c.report.log = c.log
	}
	return c
}

// InitializeOptions configures the first refresh of a Complete catalog.
type InitializeOptions struct {
	// Offline prevents refreshes from contacting the package server; only
	// the cached snapshot is used.
	Offline bool

	// LocalPackageDirs are scanned for local source trees, earliest first.
	// Entries that do not exist are silently dropped.
	LocalPackageDirs []string
}

// Initialize configures the catalog and triggers the first refresh.
func (c *Complete) Initialize(ctx context.Context, opts InitializeOptions) error {
	c.offline = opts.Offline
	c.setLocalPackageDirs(opts.LocalPackageDirs)
	c.reset()
	c.initialized = true
	return c.Refresh(ctx)
}

// setLocalPackageDirs validates the supplied directories, silently
// dropping entries that do not exist or are not directories.
func (c *Complete) setLocalPackageDirs(dirs []string) {
	kept := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		if ok, _ := afero.DirExists(c.fs, abs); !ok {
			continue
		}
		kept = append(kept, abs)
	}
	c.localPackageDirs = kept
}

// Refresh fully rebuilds the catalog: it pulls a snapshot from the
// snapshot source, clears state, ingests the server records, then applies
// local package overrides. A failed refresh leaves the catalog
// uninitialised.
func (c *Complete) Refresh(ctx context.Context) error {
	if err := c.requireInitialized(); err != nil {
		return err
	}

	snap, err := loadSnapshot(ctx, c.source, c.offline, c.log)
	if err != nil {
		c.initialized = false
		return errors.Wrap(err, errRefresh)
	}

	c.reset()
	c.insertSnapshot(snap)

	if err := c.addLocalPackageOverrides(); err != nil {
		c.initialized = false
		return errors.Wrap(err, errRefresh)
	}

	// Bootstrap the constraint solver once the catalog can answer queries.
	// Until the factory yields one, ResolveConstraints keeps reporting
	// ErrResolverUnavailable.
	if c.resolver == nil && c.resolverFactory != nil {
		c.resolver = c.resolverFactory(c)
	}
	return nil
}

// AddLocalPackage registers an explicit local package rooted at dir and
// refreshes the catalog. Explicit entries take precedence over directory
// scans sharing the same name.
func (c *Complete) AddLocalPackage(ctx context.Context, name, dir string) error {
	if err := c.requireInitialized(); err != nil {
		return errors.Wrapf(err, errAddLocalPackageFmt, name)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, errAddLocalPackageFmt, name)
	}
	if prev, ok := c.localPackages[name]; ok && prev != abs {
		return errors.Wrapf(ErrDuplicateLocalPackage, errAddLocalPackageFmt, name)
	}
	c.localPackages[name] = abs
	return errors.Wrapf(c.Refresh(ctx), errAddLocalPackageFmt, name)
}

// RemoveLocalPackage drops an explicitly registered local package and
// refreshes the catalog.
func (c *Complete) RemoveLocalPackage(ctx context.Context, name string) error {
	if err := c.requireInitialized(); err != nil {
		return errors.Wrapf(err, errRemoveLocalPackageFmt, name)
	}
	if _, ok := c.localPackages[name]; !ok {
		return errors.Wrapf(ErrNoSuchLocalPackage, errRemoveLocalPackageFmt, name)
	}
	delete(c.localPackages, name)
	return errors.Wrapf(c.Refresh(ctx), errRemoveLocalPackageFmt, name)
}

// IsLocalPackage reports whether name is in the effective local package
// set.
func (c *Complete) IsLocalPackage(name string) bool {
	_, ok := c.effectiveLocalPackages[name]
	return ok
}

// LocalPackageDir returns the source directory of an effective local
// package.
func (c *Complete) LocalPackageDir(name string) (string, bool) {
	dir, ok := c.effectiveLocalPackages[name]
	return dir, ok
}

// EffectiveLocalPackages returns a copy of the effective name -> source
// directory mapping.
func (c *Complete) EffectiveLocalPackages() map[string]string {
	out := make(map[string]string, len(c.effectiveLocalPackages))
	for k, v := range c.effectiveLocalPackages {
		out[k] = v
	}
	return out
}

// Unbuilt reports whether the named local package still awaits its first
// build in this process.
func (c *Complete) Unbuilt(name string) bool {
	return c.unbuilt[name]
}

// BuildMessages returns the non-fatal messages recorded while building
// local packages.
func (c *Complete) BuildMessages() []string {
	return c.report.Messages()
}

// GetLoadPathForPackage returns the directory a package should be loaded
// from. Local packages are built first if needed and load from their
// source directory. Non-local packages require a version and load from the
// tropohouse if present on disk; otherwise ok is false.
func (c *Complete) GetLoadPathForPackage(ctx context.Context, name, version string) (path string, ok bool, err error) {
	if err := c.requireInitialized(); err != nil {
		return "", false, errors.Wrapf(err, errLoadPathFmt, name)
	}

	if c.IsLocalPackage(name) {
		if err := c.build(ctx, name, map[string]bool{}); err != nil {
			return "", false, errors.Wrapf(err, errLoadPathFmt, name)
		}
		return c.effectiveLocalPackages[name], true, nil
	}

	if version == "" {
		return "", false, errors.Wrapf(ErrMissingVersion, errLoadPathFmt, name)
	}
	if c.troph == nil || !c.troph.Exists(name, version) {
		return "", false, nil
	}
	return c.troph.PackagePath(name, version), true, nil
}
