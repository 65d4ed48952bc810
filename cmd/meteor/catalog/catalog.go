// Copyright 2025 Upbound Inc.
// All rights reserved

// Package catalog contains the catalog command tree.
package catalog

import (
	"context"

	"github.com/alecthomas/kong"

	cat "github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/meteor"
)

// Cmd interacts with the package catalogs.
type Cmd struct {
	Refresh refreshCmd `cmd:"" help:"Refresh the package catalogs."`
	List    listCmd    `cmd:"" help:"List known packages and their latest versions."`
	Resolve resolveCmd `cmd:"" help:"Resolve package constraints to a consistent version set."`
	Add     addCmd     `cmd:"" help:"Register an explicit local package."`
	Remove  removeCmd  `cmd:"" help:"Unregister an explicit local package."`
	Build   buildCmd   `cmd:"" help:"Build a local package and its build-order dependencies."`
	Path    pathCmd    `cmd:"" help:"Print the directory a package loads from."`
	Watch   watchCmd   `cmd:"" help:"Refresh the catalog whenever local sources change."`
}

// AfterApply constructs the catalogs and binds them to subcommands.
func (c *Cmd) AfterApply(kongCtx *kong.Context, mctx *meteor.Context) error { //nolint:unparam // Kong requires an error return.
	kongCtx.Bind(mctx.BuildCatalogs())
	return nil
}

// initialize brings both catalogs up with the context's settings,
// triggering their first refresh.
func initialize(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs) error {
	cats.Official.Initialize(mctx.Offline)
	if err := cats.Official.Refresh(ctx); err != nil {
		return err
	}
	return cats.Complete.Initialize(ctx, cat.InitializeOptions{
		Offline:          mctx.Offline,
		LocalPackageDirs: mctx.LocalPackageDirs,
	})
}
