// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"context"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"
)

const (
	errLoadCachedSnapshot = "cannot load cached snapshot"
	errIngestSnapshot     = "cannot ingest server snapshot"
)

// Server represents the remote package server's state. With no snapshot
// source configured it stays empty, which keeps fully offline use and
// tests cheap.
type Server struct {
	Base

	offline bool
	source  SnapshotSource
	log     logging.Logger
}

// ServerOption modifies a Server catalog.
type ServerOption func(*Server)

// WithServerSnapshotSource sets the snapshot source the catalog refreshes
// from.
func WithServerSnapshotSource(s SnapshotSource) ServerOption {
	return func(c *Server) {
		c.source = s
	}
}

// WithServerLogger overrides the default no-op logger.
func WithServerLogger(l logging.Logger) ServerOption {
	return func(c *Server) {
		c.log = l
	}
}

// NewServer returns a new, uninitialised Server catalog.
func NewServer(opts ...ServerOption) *Server {
	c := &Server{
		Base: newBase(),
		log:  logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Initialize records the offline setting, resets the collections and marks
// the catalog initialised. It performs no I/O; call Refresh to load data.
func (c *Server) Initialize(offline bool) {
	c.offline = offline
	c.reset()
	c.initialized = true
}

// Refresh rebuilds the catalog from the snapshot source. The cached
// snapshot is always loaded first; unless offline, the server is asked for
// an updated snapshot. An unreachable server is non-fatal: a warning is
// logged and the cached snapshot is used. Any other failure leaves the
// catalog uninitialised.
func (c *Server) Refresh(ctx context.Context) error {
	if err := c.requireInitialized(); err != nil {
		return err
	}

	snap, err := c.loadSnapshot(ctx)
	if err != nil {
		c.initialized = false
		return err
	}

	c.reset()
	c.insertSnapshot(snap)
	return nil
}

// loadSnapshot obtains the snapshot a refresh ingests, applying the
// offline and unreachable-server fallback rules.
func (c *Server) loadSnapshot(ctx context.Context) (*Snapshot, error) {
	return loadSnapshot(ctx, c.source, c.offline, c.log)
}

func loadSnapshot(ctx context.Context, source SnapshotSource, offline bool, log logging.Logger) (*Snapshot, error) {
	if source == nil {
		return EmptySnapshot(), nil
	}

	snap, err := source.LoadCached()
	if err != nil {
		return nil, errors.Wrap(err, errLoadCachedSnapshot)
	}

	if offline {
		return snap, nil
	}

	updated, err := source.UpdateFromServer(ctx, snap)
	if errors.Is(err, ErrServerUnreachable) {
		log.Info("package server is unreachable; using cached snapshot", "error", err)
		return snap, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errIngestSnapshot)
	}
	return updated, nil
}
