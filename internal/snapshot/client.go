// Copyright 2025 Upbound Inc.
// All rights reserved

package snapshot

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/costinelmarin/meteor/internal/catalog"
	"github.com/costinelmarin/meteor/internal/http"
)

const snapshotPath = "/snapshot.json"

const (
	errBuildRequest      = "cannot build snapshot request"
	errDecodeSnapshot    = "cannot decode server snapshot"
	errUnexpectedStatusF = "unexpected status %q from package server"
)

// HTTPClient fetches snapshots over HTTP from a package server.
type HTTPClient struct {
	client    http.Client
	serverURL string
}

// HTTPOption modifies an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// NewHTTPClient returns a client fetching snapshots from serverURL.
func NewHTTPClient(serverURL string, opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		client:    nethttp.DefaultClient,
		serverURL: strings.TrimSuffix(serverURL, "/"),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// FetchSnapshot GETs the server's current snapshot. Transport failures
// surface as catalog.ErrServerUnreachable so refreshes can fall back to
// the cached snapshot.
func (h *HTTPClient) FetchSnapshot(ctx context.Context, _ *catalog.Snapshot) (*catalog.Snapshot, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, h.serverURL+snapshotPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, errBuildRequest)
	}

	res, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(catalog.ErrServerUnreachable, err.Error())
	}
	defer res.Body.Close() //nolint:errcheck // Read-only body.

	if res.StatusCode != nethttp.StatusOK {
		return nil, errors.Errorf(errUnexpectedStatusF, res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(catalog.ErrServerUnreachable, err.Error())
	}

	var snap catalog.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, errDecodeSnapshot)
	}
	return &snap, nil
}
