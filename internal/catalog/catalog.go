// Copyright 2025 Upbound Inc.
// All rights reserved

// Package catalog maintains a unified, queryable view of packages available
// on the package server and in local source trees.
//
// Two catalogs compose the view: Server is a read-mostly projection of the
// remote package server, optionally operating offline from a cached
// snapshot; Complete merges that projection with local source packages,
// where a local package replaces any server entry sharing its name.
// Complete also brokers constraint resolution and lazily builds local
// source trees on first use.
//
// Catalogs run on a single-threaded cooperative model: every operation
// executes to completion before another begins, so there is no internal
// locking. Clients sharing a catalog across goroutines must serialise
// calls themselves.
package catalog

// Catalogs bundles the two catalog instances the rest of the tool works
// with. It is constructed once at program start and passed by reference.
type Catalogs struct {
	// Official is the projection of the remote package server.
	Official *Server

	// Complete is the server projection merged with local packages. This
	// is the catalog dependency resolution and build loading consult.
	Complete *Complete
}
