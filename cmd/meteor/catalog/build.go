// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/pterm/pterm"

	cat "github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/meteor"
)

const errNotLocalFmt = "%q is not a local package"

type buildCmd struct {
	Name string `arg:"" help:"Local package to build."`
}

// Run executes the build command.
func (c *buildCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, p pterm.TextPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}
	if !cats.Complete.IsLocalPackage(c.Name) {
		return errors.Errorf(errNotLocalFmt, c.Name)
	}
	if err := cats.Complete.Build(ctx, c.Name); err != nil {
		return err
	}
	for _, msg := range cats.Complete.BuildMessages() {
		p.Printfln("note: %s", msg)
	}
	dir, _ := cats.Complete.LocalPackageDir(c.Name)
	p.Printfln("Built %s from %s.", c.Name, dir)
	return nil
}

type pathCmd struct {
	Name string `arg:"" help:"Package name."`

	Version string `help:"Version to locate. Required for non-local packages." name:"version"`
}

// Run executes the path command.
func (c *pathCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, p pterm.TextPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}
	path, ok, err := cats.Complete.GetLoadPathForPackage(ctx, c.Name, c.Version)
	if err != nil {
		return err
	}
	if !ok {
		p.Printfln("No installed build of %s found.", c.Name)
		return nil
	}
	p.Println(path)
	return nil
}
