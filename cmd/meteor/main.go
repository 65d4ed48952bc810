// Copyright 2025 Upbound Inc.
// All rights reserved

package main

import (
	"context"
	"io"

	"github.com/alecthomas/kong"
	"github.com/pterm/pterm"

	catalogcmd "github.com/costinelmarin/meteor/cmd/meteor/catalog"
	versioncmd "github.com/costinelmarin/meteor/cmd/meteor/version"
	"github.com/costinelmarin/meteor/internal/config"
	"github.com/costinelmarin/meteor/internal/meteor"
	"github.com/costinelmarin/meteor/internal/upterm"
)

// AfterApply configures global settings before executing commands.
func (c *cli) AfterApply(ctx *kong.Context) error {
	if bool(c.Quiet) {
		ctx.Stdout, ctx.Stderr = io.Discard, io.Discard
	}
	ctx.BindTo(pterm.DefaultBasicText.WithWriter(ctx.Stdout), (*pterm.TextPrinter)(nil))
	if !c.Pretty {
		// NOTE(costinelmarin): enabling styling can make processing output
		// with other tooling difficult.
		pterm.DisableStyling()
	}

	printer := upterm.DefaultObjPrinter
	printer.Format = c.Format
	printer.Pretty = c.Pretty
	printer.Quiet = c.Quiet
	ctx.Bind(printer)
	ctx.BindTo(&printer, (*upterm.Printer)(nil))

	mctx, err := meteor.NewFromFlags(c.Flags,
		meteor.WithLogger(meteor.NewPtermLogger(c.Debug)),
	)
	if err != nil {
		return err
	}
	ctx.Bind(mctx)
	return nil
}

type cli struct {
	Format config.Format    `default:"default"       enum:"default,json,yaml" help:"Format for get/list commands. Can be: json, yaml, default" name:"format"`
	Quiet  config.QuietFlag `help:"Suppress all output." name:"quiet" short:"q"`
	Pretty bool             `help:"Pretty print output."   name:"pretty"`
	Debug  bool             `help:"Enable debug logging."  name:"debug" short:"d"`

	Flags meteor.Flags `embed:""`

	Catalog catalogcmd.Cmd `cmd:"" help:"Interact with the package catalogs."`
	Version versioncmd.Cmd `cmd:"" help:"Print the CLI version."`
}

func main() {
	c := cli{}
	ctx := kong.Parse(&c,
		kong.Name("meteor"),
		kong.Description("A catalog and build orchestrator for language-agnostic software packages."),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
