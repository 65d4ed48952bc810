// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"

	"github.com/pterm/pterm"

	cat "github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/meteor"
)

type refreshCmd struct{}

// Run executes the refresh command.
func (c *refreshCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, p pterm.TextPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}
	p.Printfln("Refreshed catalog: %d packages (%d local).",
		len(cats.Complete.Packages()), len(cats.Complete.EffectiveLocalPackages()))
	return nil
}
