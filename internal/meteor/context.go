// Copyright 2025 Upbound Inc.
// All rights reserved

// Package meteor contains common CLI configuration for working with the
// package catalogs.
package meteor

import (
	"os"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/compiler"
	"github.com/costinelmarin/meteor/internal/config"
	"github.com/costinelmarin/meteor/internal/project"
	"github.com/costinelmarin/meteor/internal/snapshot"
	"github.com/costinelmarin/meteor/internal/solver"
	"github.com/costinelmarin/meteor/internal/tropohouse"
)

// Context includes common data that catalog consumers may utilize.
type Context struct {
	Cfg    *config.Config
	CfgSrc config.Source

	// ServerURL is the package server snapshots are fetched from.
	ServerURL string

	// Offline prevents refreshes from contacting the package server.
	Offline bool

	// LocalPackageDirs are scanned for local package source trees.
	LocalPackageDirs []string

	// ProjectDir is the active project root, or "" when none is active.
	ProjectDir string

	// HomeDir anchors the config, snapshot cache and tropohouse.
	HomeDir string

	Log logging.Logger

	fs afero.Fs
}

// Option modifies a Context.
type Option func(*Context)

// WithFS overrides the filesystem the context works on.
func WithFS(fs afero.Fs) Option {
	return func(c *Context) {
		c.fs = fs
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Context) {
		c.Log = l
	}
}

// WithConfigSource overrides the config source the context reads from.
func WithConfigSource(src config.Source) Option {
	return func(c *Context) {
		c.CfgSrc = src
	}
}

// Flags are the global catalog-related CLI flags.
type Flags struct {
	Config      string   `help:"Path to the config file."                          type:"path"`
	ServerURL   string   `help:"Package server URL. Overrides the config."        name:"server-url"`
	Offline     bool     `help:"Do not contact the package server."`
	PackageDirs []string `help:"Directories to scan for local package source trees." name:"package-dirs" sep:":" type:"path"`
	ProjectDir  string   `help:"Project directory whose pinned versions seed resolution." name:"project-dir" type:"path"`
}

// NewFromFlags constructs a new Context from the given flags, applying
// config-file defaults for anything the flags leave unset.
func NewFromFlags(f Flags, opts ...Option) (*Context, error) {
	c := &Context{
		fs:  afero.NewOsFs(),
		Log: logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	c.HomeDir = home

	if c.CfgSrc == nil {
		srcOpts := []config.FSSourceOption{config.WithFS(c.fs)}
		if f.Config != "" {
			srcOpts = append(srcOpts, config.WithPath(f.Config))
		}
		c.CfgSrc = config.NewFSSource(srcOpts...)
	}
	if err := c.CfgSrc.Initialize(); err != nil {
		return nil, err
	}
	cfg, err := config.Extract(c.CfgSrc)
	if err != nil {
		return nil, err
	}
	c.Cfg = cfg

	c.ServerURL = cfg.Catalog.ServerURL
	if f.ServerURL != "" {
		c.ServerURL = f.ServerURL
	}
	c.Offline = cfg.Catalog.Offline || f.Offline
	c.LocalPackageDirs = cfg.Catalog.LocalPackageDirs
	if len(f.PackageDirs) > 0 {
		c.LocalPackageDirs = f.PackageDirs
	}
	c.ProjectDir = f.ProjectDir

	return c, nil
}

// FS returns the filesystem the context works on.
func (c *Context) FS() afero.Fs {
	return c.fs
}

// CacheDir returns the snapshot cache directory.
func (c *Context) CacheDir() string {
	return filepath.Join(c.HomeDir, config.ConfigDir, "cache")
}

// TropohouseDir returns the root of the installed-package store.
func (c *Context) TropohouseDir() string {
	return filepath.Join(c.HomeDir, config.ConfigDir, "tropohouse")
}

// BuildCatalogs wires the two catalog instances the CLI works with. The
// catalogs are returned uninitialised.
func (c *Context) BuildCatalogs() *catalog.Catalogs {
	source := snapshot.NewLocal(c.fs, c.CacheDir(),
		snapshot.WithClient(snapshot.NewHTTPClient(c.ServerURL)),
		snapshot.WithLogger(c.Log),
	)
	comp := compiler.New(c.fs)

	complete := catalog.NewComplete(
		catalog.WithFS(c.fs),
		catalog.WithSnapshotSource(source),
		catalog.WithCompiler(comp),
		catalog.WithBuildStore(compiler.NewStore(c.fs)),
		catalog.WithProject(project.New(c.fs, c.ProjectDir)),
		catalog.WithTropohouse(tropohouse.New(c.fs, c.TropohouseDir())),
		catalog.WithResolverFactory(func(cc *catalog.Complete) catalog.Resolver {
			return solver.New(cc, solver.WithLogger(c.Log))
		}),
		catalog.WithLogger(c.Log),
	)

	return &catalog.Catalogs{
		Official: catalog.NewServer(
			catalog.WithServerSnapshotSource(source),
			catalog.WithServerLogger(c.Log),
		),
		Complete: complete,
	}
}
