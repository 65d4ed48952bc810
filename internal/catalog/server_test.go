// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"
	"testing"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

func TestServerRefresh(t *testing.T) {
	t.Parallel()

	cached := snapshotWith(Version{ID: "v1", PackageName: "alpha", Version: "1.0.0"})
	updated := snapshotWith(
		Version{ID: "v1", PackageName: "alpha", Version: "1.0.0"},
		Version{ID: "v2", PackageName: "alpha", Version: "1.1.0"},
	)

	cases := map[string]struct {
		reason       string
		source       SnapshotSource
		offline      bool
		wantVersions []string
		wantErr      error
		wantInit     bool
	}{
		"NoSource": {
			reason:       "With no snapshot source the catalog refreshes empty.",
			wantVersions: nil,
			wantInit:     true,
		},
		"OfflineUsesCache": {
			reason:       "Offline refreshes never contact the server.",
			source:       &fakeSnapshotSource{cached: cached, updateErr: errors.New("boom")},
			offline:      true,
			wantVersions: []string{"1.0.0"},
			wantInit:     true,
		},
		"OnlineUsesServer": {
			reason:       "Online refreshes ingest the server's snapshot.",
			source:       &fakeSnapshotSource{cached: cached, updated: updated},
			wantVersions: []string{"1.0.0", "1.1.0"},
			wantInit:     true,
		},
		"UnreachableFallsBack": {
			reason:       "An unreachable server is non-fatal; the cached snapshot is used.",
			source:       &fakeSnapshotSource{cached: cached, updateErr: ErrServerUnreachable},
			wantVersions: []string{"1.0.0"},
			wantInit:     true,
		},
		"OtherUpdateErrorIsFatal": {
			reason:   "Non-unreachable failures abort the refresh and mark the catalog uninitialised.",
			source:   &fakeSnapshotSource{cached: cached, updateErr: errors.New("boom")},
			wantErr:  errors.New("boom"),
			wantInit: false,
		},
		"CacheErrorIsFatal": {
			reason:   "A cache read failure aborts the refresh.",
			source:   &fakeSnapshotSource{cachedErr: errors.New("disk gone")},
			wantErr:  errors.New("disk gone"),
			wantInit: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewServer(WithServerSnapshotSource(tc.source))
			c.Initialize(tc.offline)

			err := c.Refresh(context.Background())
			if (err != nil) != (tc.wantErr != nil) {
				t.Fatalf("\n%s\nRefresh(): got error %v, want %v", tc.reason, err, tc.wantErr)
			}
			if c.Initialized() != tc.wantInit {
				t.Errorf("\n%s\nInitialized(): got %t, want %t", tc.reason, c.Initialized(), tc.wantInit)
			}
			for _, v := range tc.wantVersions {
				if _, ok := c.GetVersion("alpha", v); !ok {
					t.Errorf("\n%s\nGetVersion(alpha, %s): want present", tc.reason, v)
				}
			}
		})
	}
}

func TestServerRefreshRequiresInitialize(t *testing.T) {
	t.Parallel()

	c := NewServer()
	if err := c.Refresh(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Refresh() before Initialize(): got %v, want ErrNotInitialized", err)
	}
}
