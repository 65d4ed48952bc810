// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"

	cat "github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/meteor"
	"github.com/costinelmarin/meteor/internal/upterm"
)

type listCmd struct{}

// listEntry is one row of list output.
type listEntry struct {
	Name   string `json:"name"`
	Latest string `json:"latest,omitempty"`
	Local  bool   `json:"local"`
}

var listFieldNames = []string{"NAME", "LATEST", "LOCAL"} //nolint:gochecknoglobals // Would be a const if Go supported const slices.

func extractListFields(obj any) []string {
	e := obj.(listEntry) //nolint:forcetypeassert // Print only receives listEntry values.
	local := ""
	if e.Local {
		local = "yes"
	}
	return []string{e.Name, e.Latest, local}
}

// Run executes the list command.
func (c *listCmd) Run(ctx context.Context, mctx *meteor.Context, cats *cat.Catalogs, printer upterm.ObjectPrinter) error {
	if err := initialize(ctx, mctx, cats); err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(cats.Complete.Packages()))
	for _, pkg := range cats.Complete.Packages() {
		e := listEntry{Name: pkg.Name, Local: cats.Complete.IsLocalPackage(pkg.Name)}
		if id, ok := cats.Complete.GetLatestVersion(pkg.Name); ok {
			if v, ok := cats.Complete.GetVersionByID(id); ok {
				e.Latest = v.Version
			}
		}
		entries = append(entries, e)
	}
	return printer.Print(entries, listFieldNames, extractListFields)
}
