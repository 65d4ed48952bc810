// Copyright 2025 Upbound Inc.
// All rights reserved

// Package tropohouse locates installed package builds on local disk.
// Installed builds are laid out as <root>/packages/<name>/<version>.
package tropohouse

import (
	"path/filepath"

	"github.com/spf13/afero"
)

const packagesDir = "packages"

// Tropohouse is the on-disk store of installed (non-local) package builds.
type Tropohouse struct {
	fs   afero.Fs
	root string
}

// New returns a Tropohouse rooted at root on fs.
func New(fs afero.Fs, root string) *Tropohouse {
	return &Tropohouse{fs: fs, root: root}
}

// PackagePath returns the directory an installed build of name@version
// would live at, whether or not it exists.
func (t *Tropohouse) PackagePath(name, version string) string {
	return filepath.Join(t.root, packagesDir, name, version)
}

// Exists reports whether an installed build of name@version is present.
func (t *Tropohouse) Exists(name, version string) bool {
	ok, err := afero.DirExists(t.fs, t.PackagePath(name, version))
	return err == nil && ok
}
