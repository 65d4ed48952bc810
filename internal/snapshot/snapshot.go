// Copyright 2025 Upbound Inc.
// All rights reserved

// Package snapshot loads and refreshes cached package server snapshots.
package snapshot

import (
	"context"
	"encoding/json"
	"io/fs"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/spf13/afero"

	"github.com/costinelmarin/meteor/internal/catalog"
)

// CacheFile is the snapshot cache file inside the cache directory.
const CacheFile = "snapshot.json"

const (
	errNoClient       = "no package server client configured"
	errFetchSnapshot  = "cannot fetch snapshot from package server"
	errMarshalCache   = "cannot marshal snapshot cache"
)

// Client fetches a fresh snapshot from the package server.
type Client interface {
	FetchSnapshot(ctx context.Context, prev *catalog.Snapshot) (*catalog.Snapshot, error)
}

// Local is a catalog.SnapshotSource backed by an on-disk cache and an
// optional server client.
type Local struct {
	fs       afero.Fs
	cacheDir string
	client   Client
	log      logging.Logger
}

// Option modifies a Local snapshot source.
type Option func(*Local)

// WithClient sets the server client used to update the snapshot.
func WithClient(c Client) Option {
	return func(l *Local) {
		l.client = c
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(log logging.Logger) Option {
	return func(l *Local) {
		l.log = log
	}
}

// NewLocal returns a snapshot source caching under cacheDir on fs.
func NewLocal(fs afero.Fs, cacheDir string, opts ...Option) *Local {
	l := &Local{
		fs:       fs,
		cacheDir: cacheDir,
		log:      logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LoadCached returns the cached snapshot. A missing or corrupt cache loads
// as an empty snapshot, not an error; any other read failure is returned.
func (l *Local) LoadCached() (*catalog.Snapshot, error) {
	path := filepath.Join(l.cacheDir, CacheFile)
	data, err := afero.ReadFile(l.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.EmptySnapshot(), nil
	}
	if err != nil {
		return nil, err
	}

	var snap catalog.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		l.log.Debug("snapshot cache is corrupt; starting from an empty snapshot", "path", path, "error", err)
		return catalog.EmptySnapshot(), nil
	}
	return &snap, nil
}

// UpdateFromServer asks the server client for an updated snapshot and
// persists it back to the cache. Cache write failures are logged and
// otherwise ignored; the fresh snapshot is still returned.
func (l *Local) UpdateFromServer(ctx context.Context, prev *catalog.Snapshot) (*catalog.Snapshot, error) {
	if l.client == nil {
		return nil, errors.Wrap(catalog.ErrServerUnreachable, errNoClient)
	}

	snap, err := l.client.FetchSnapshot(ctx, prev)
	if err != nil {
		if errors.Is(err, catalog.ErrServerUnreachable) {
			return nil, err
		}
		return nil, errors.Wrap(err, errFetchSnapshot)
	}

	if err := l.persist(snap); err != nil {
		l.log.Info("cannot persist snapshot cache", "error", err)
	}
	return snap, nil
}

func (l *Local) persist(snap *catalog.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, errMarshalCache)
	}
	if err := l.fs.MkdirAll(l.cacheDir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(l.fs, filepath.Join(l.cacheDir, CacheFile), data, 0o644)
}
