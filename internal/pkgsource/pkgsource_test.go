// Copyright 2025 Upbound Inc.
// All rights reserved

package pkgsource

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const alphaDecl = `version: 1.2.3
earliestCompatibleVersion: 1.0.0
summary: The alpha package.
testName: alpha-test
containsPlugins: true
dependencies:
  foo: "^1.0.0"
  bar: ""
weakDependencies:
  baz: ">=2.0.0"
buildDependencies:
  epsilon: ""
  zeta: "0.4.0"
`

func write(t *testing.T, fs afero.Fs, path, data string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	write(t, fs, "/src/alpha/package.yaml", alphaDecl)

	p := NewParser(fs)
	src, err := p.Parse("alpha", "/src/alpha")
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}

	if src.Name != "alpha" || src.Version != "1.2.3" || src.SourceRoot != "/src/alpha" {
		t.Errorf("parsed source: %+v", src)
	}
	if src.EarliestCompatibleVersion != "1.0.0" || src.TestName != "alpha-test" || !src.ContainsPlugins {
		t.Errorf("parsed source: %+v", src)
	}

	wantDeps := map[string]Dependency{
		"foo": {Constraint: "^1.0.0"},
		"bar": {},
		"baz": {Constraint: ">=2.0.0", Weak: true},
	}
	if diff := cmp.Diff(wantDeps, src.DependencyMetadata()); diff != "" {
		t.Errorf("DependencyMetadata(): -want, +got:\n%s", diff)
	}

	wantBuild := map[string]string{"epsilon": "", "zeta": "0.4.0"}
	if diff := cmp.Diff(wantBuild, src.BuildDependencies()); diff != "" {
		t.Errorf("BuildDependencies(): -want, +got:\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		reason string
		decl   string
	}{
		"Missing": {
			reason: "A directory without a declaration file cannot parse.",
		},
		"Garbage": {
			reason: "A declaration that is not YAML cannot parse.",
			decl:   "{{nope",
		},
		"NoVersion": {
			reason: "A declaration without a version cannot parse.",
			decl:   "summary: no version here\n",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tc.decl != "" {
				write(t, fs, "/src/p/package.yaml", tc.decl)
			}
			if _, err := NewParser(fs).Parse("p", "/src/p"); err == nil {
				t.Errorf("\n%s\nParse(): want error", tc.reason)
			}
		})
	}
}

func TestHasPackageFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	write(t, fs, "/src/alpha/package.yaml", "version: 1.0.0\n")
	if err := fs.MkdirAll("/src/empty", 0o755); err != nil {
		t.Fatal(err)
	}

	p := NewParser(fs)
	if !p.HasPackageFile("/src/alpha") {
		t.Error("HasPackageFile(/src/alpha): want true")
	}
	if p.HasPackageFile("/src/empty") {
		t.Error("HasPackageFile(/src/empty): want false")
	}
	if p.HasPackageFile("/nope") {
		t.Error("HasPackageFile(/nope): want false")
	}
}
