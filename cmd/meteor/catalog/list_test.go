// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestExtractListFields(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		entry listEntry
		want  []string
	}{
		"Local": {
			entry: listEntry{Name: "alpha", Latest: "1.0.0+local", Local: true},
			want:  []string{"alpha", "1.0.0+local", "yes"},
		},
		"Server": {
			entry: listEntry{Name: "beta", Latest: "2.0.0"},
			want:  []string{"beta", "2.0.0", ""},
		},
		"NoVersions": {
			entry: listEntry{Name: "gamma"},
			want:  []string{"gamma", "", ""},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.DeepEqual(t, tc.want, extractListFields(tc.entry))
		})
	}
}
