// Copyright 2025 Upbound Inc.
// All rights reserved

// Package watch invokes a callback when local package source trees change
// on disk.
package watch

import (
	"context"
	"time"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/radovskyb/watcher"
)

const defaultInterval = 100 * time.Millisecond

const errAddDirFmt = "cannot watch directory %s"

// Watcher polls a set of directories and invokes a callback on any
// mutation beneath them.
type Watcher struct {
	w        *watcher.Watcher
	onChange func()
	interval time.Duration
	log      logging.Logger
}

// Option modifies a Watcher.
type Option func(*Watcher)

// WithInterval overrides the default polling interval.
func WithInterval(i time.Duration) Option {
	return func(w *Watcher) {
		w.interval = i
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New returns a Watcher over dirs invoking onChange on any event.
func New(dirs []string, onChange func(), opts ...Option) (*Watcher, error) {
	w := &Watcher{
		w:        watcher.New(),
		onChange: onChange,
		interval: defaultInterval,
		log:      logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(w)
	}
	w.w.SetMaxEvents(1)
	for _, d := range dirs {
		if err := w.w.AddRecursive(d); err != nil {
			return nil, errors.Wrapf(err, errAddDirFmt, d)
		}
	}
	return w, nil
}

// Run watches until ctx is cancelled. The callback runs on the watch
// goroutine; it must serialise catalog access itself.
func (w *Watcher) Run(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.w.Close()
				return
			case e := <-w.w.Event:
				w.log.Debug("local package source changed", "path", e.Path, "op", e.Op.String())
				w.onChange()
			case err, ok := <-w.w.Error:
				if !ok {
					return
				}
				w.log.Info("watch error", "error", err)
			case <-w.w.Closed:
				return
			}
		}
	}()
	return w.w.Start(w.interval)
}
