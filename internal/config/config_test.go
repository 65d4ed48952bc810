// Copyright 2025 Upbound Inc.
// All rights reserved

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestFSSourceGetConfig(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		reason  string
		data    string
		want    *Config
		wantErr bool
	}{
		"MissingFile": {
			reason: "A missing config file reads as the defaults.",
			want:   &Config{Catalog: Catalog{ServerURL: DefaultServerURL}},
		},
		"Populated": {
			reason: "A populated config file reads as written, defaults filled in.",
			data:   `{"catalog":{"offline":true,"localPackageDirs":["/src"]}}`,
			want: &Config{Catalog: Catalog{
				ServerURL:        DefaultServerURL,
				Offline:          true,
				LocalPackageDirs: []string{"/src"},
			}},
		},
		"CustomServer": {
			reason: "A configured server URL is not overridden by the default.",
			data:   `{"catalog":{"serverUrl":"https://pkgs.example.com"}}`,
			want:   &Config{Catalog: Catalog{ServerURL: "https://pkgs.example.com"}},
		},
		"Corrupt": {
			reason:  "A corrupt config file is an error.",
			data:    "{nope",
			wantErr: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			if tc.data != "" {
				if err := afero.WriteFile(fs, "/home/.meteor/config.json", []byte(tc.data), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			src := NewFSSource(WithFS(fs), WithPath("/home/.meteor/config.json"))
			if err := src.Initialize(); err != nil {
				t.Fatalf("\n%s\nInitialize(): %v", tc.reason, err)
			}

			got, err := Extract(src)
			if (err != nil) != tc.wantErr {
				t.Fatalf("\n%s\nGetConfig(): got error %v, wantErr %t", tc.reason, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("\n%s\nGetConfig(): -want, +got:\n%s", tc.reason, diff)
			}
		})
	}
}

func TestFSSourceRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	src := NewFSSource(WithFS(fs), WithPath("/home/.meteor/config.json"))
	if err := src.Initialize(); err != nil {
		t.Fatalf("Initialize(): %v", err)
	}

	want := &Config{Catalog: Catalog{
		ServerURL:        "https://pkgs.example.com",
		Offline:          true,
		LocalPackageDirs: []string{"/a", "/b"},
	}}
	if err := src.UpdateConfig(want); err != nil {
		t.Fatalf("UpdateConfig(): %v", err)
	}

	got, err := src.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig(): %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip: -want, +got:\n%s", diff)
	}
}
