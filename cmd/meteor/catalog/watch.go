// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	cat "github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/meteor"
	"github.com/costinelmarin/meteor/internal/watch"
)

type watchCmd struct {
	Interval time.Duration `default:"500ms" help:"Polling interval for source changes."`
}

// Run executes the watch command, refreshing the complete catalog whenever
// a local package source tree changes, until interrupted.
func (c *watchCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, p pterm.TextPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}
	if len(mctx.LocalPackageDirs) == 0 {
		p.Println("No local package directories configured; nothing to watch.")
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The watch callback is the only writer; catalog calls stay
	// serialised.
	w, err := watch.New(mctx.LocalPackageDirs, func() {
		if err := cats.Complete.Refresh(ctx); err != nil {
			p.Printfln("refresh failed: %v", err)
			return
		}
		p.Printfln("Refreshed: %d packages (%d local).",
			len(cats.Complete.Packages()), len(cats.Complete.EffectiveLocalPackages()))
	}, watch.WithInterval(c.Interval), watch.WithLogger(mctx.Log))
	if err != nil {
		return err
	}

	p.Printfln("Watching %d directories for changes.", len(mctx.LocalPackageDirs))
	return w.Run(ctx)
}
