// Copyright 2025 Upbound Inc.
// All rights reserved

package compiler

import (
	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/unipackage"
)

// Store reads persisted builds back from disk.
type Store struct {
	fs afero.Fs
}

// NewStore returns a Store reading from fs.
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// InitFromPath loads the build of the package called name from dir,
// anchored at the source tree it was built from.
func (s *Store) InitFromPath(name, dir, buildOf string) (catalog.BuiltPackage, error) {
	return unipackage.InitFromPath(s.fs, name, dir, buildOf)
}
