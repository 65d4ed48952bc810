// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/pkgsource"
)

// fakeSnapshotSource serves canned snapshots.
type fakeSnapshotSource struct {
	cached    *Snapshot
	cachedErr error
	updated   *Snapshot
	updateErr error
}

func (f *fakeSnapshotSource) LoadCached() (*Snapshot, error) {
	if f.cachedErr != nil {
		return nil, f.cachedErr
	}
	if f.cached == nil {
		return EmptySnapshot(), nil
	}
	return f.cached, nil
}

func (f *fakeSnapshotSource) UpdateFromServer(_ context.Context, prev *Snapshot) (*Snapshot, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updated == nil {
		return prev, nil
	}
	return f.updated, nil
}

// fakeBuilt is a canned built artifact.
type fakeBuilt struct {
	archs   []string
	saveErr error
	saved   []string
}

func (f *fakeBuilt) Architectures() []string {
	return f.archs
}

func (f *fakeBuilt) SaveToPath(dir, _ string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, dir)
	return nil
}

// fakeCompiler compiles with canned build-order constraints, recording the
// order packages were compiled in.
type fakeCompiler struct {
	constraints map[string][]BuildConstraint
	compileErr  map[string]error
	built       *fakeBuilt
	upToDate    func(src *pkgsource.Source, b BuiltPackage) bool

	compiled []string
}

func (f *fakeCompiler) BuildOrderConstraints(src *pkgsource.Source) ([]BuildConstraint, error) {
	return f.constraints[src.Name], nil
}

func (f *fakeCompiler) Compile(_ context.Context, src *pkgsource.Source) (BuiltPackage, error) {
	if err := f.compileErr[src.Name]; err != nil {
		return nil, err
	}
	f.compiled = append(f.compiled, src.Name)
	if f.built != nil {
		return f.built, nil
	}
	return &fakeBuilt{archs: []string{"os.test"}}, nil
}

func (f *fakeCompiler) CheckUpToDate(src *pkgsource.Source, b BuiltPackage) bool {
	if f.upToDate == nil {
		return false
	}
	return f.upToDate(src, b)
}

// fakeStore loads canned builds for the packages it knows.
type fakeStore struct {
	builds map[string]BuiltPackage
	err    error
}

func (f *fakeStore) InitFromPath(name, _, _ string) (BuiltPackage, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.builds[name]
	if !ok {
		return nil, afero.ErrFileNotFound
	}
	return b, nil
}

// fakeProject is a canned project.
type fakeProject struct {
	root     string
	versions map[string]string
	err      error
}

func (f *fakeProject) RootDir() string {
	return f.root
}

func (f *fakeProject) Versions() (map[string]string, error) {
	return f.versions, f.err
}

// fakeTropohouse knows a canned set of installed builds.
type fakeTropohouse struct {
	root      string
	installed map[string]bool // name@version
}

func (f *fakeTropohouse) PackagePath(name, version string) string {
	return filepath.Join(f.root, "packages", name, version)
}

func (f *fakeTropohouse) Exists(name, version string) bool {
	return f.installed[name+"@"+version]
}

// fakeResolver records the input it was invoked with and returns a canned
// answer.
type fakeResolver struct {
	deps        []string
	constraints []Constraint
	opts        *ResolveOptions

	result map[string]string
	err    error
}

func (f *fakeResolver) Resolve(deps []string, constraints []Constraint, opts *ResolveOptions) (map[string]string, error) {
	f.deps = deps
	f.constraints = constraints
	f.opts = opts
	return f.result, f.err
}

// writePackage writes a package declaration beneath dir.
func writePackage(t *testing.T, fs afero.Fs, dir, decl string) {
	t.Helper()
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, pkgsource.PackageFile), []byte(decl), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newTestComplete builds an initialised Complete catalog over a mem fs.
func newTestComplete(t *testing.T, fs afero.Fs, opts ...CompleteOption) *Complete {
	t.Helper()
	c := NewComplete(append([]CompleteOption{WithFS(fs)}, opts...)...)
	return c
}
