// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"

	"github.com/pterm/pterm"

	cat "github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/meteor"
)

type addCmd struct {
	Name string `arg:"" help:"Package name."`
	Dir  string `arg:"" help:"Package source directory." type:"existingdir"`
}

// Run executes the add command.
func (c *addCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, p pterm.TextPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}
	if err := cats.Complete.AddLocalPackage(ctx, c.Name, c.Dir); err != nil {
		return err
	}
	p.Printfln("Added local package %s from %s.", c.Name, c.Dir)
	return nil
}

type removeCmd struct {
	Name string `arg:"" help:"Package name."`
}

// Run executes the remove command.
func (c *removeCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, p pterm.TextPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}
	if err := cats.Complete.RemoveLocalPackage(ctx, c.Name); err != nil {
		return err
	}
	p.Printfln("Removed local package %s.", c.Name)
	return nil
}
