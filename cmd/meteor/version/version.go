// Copyright 2025 Upbound Inc.
// All rights reserved

// Package version contains the version command.
package version

import (
	"github.com/pterm/pterm"

	"github.com/costinelmarin/meteor/internal/version"
)

// Cmd prints the CLI version.
type Cmd struct{}

// Run executes the version command.
func (c *Cmd) Run(p pterm.TextPrinter) error {
	p.Println(version.Version())
	return nil
}
