// Copyright 2025 Upbound Inc.
// All rights reserved

package catalog

import (
	"fmt"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
)

// BuildReport collects the non-fatal messages emitted while building local
// packages, mirroring each one to the logger. Builds keep going after a
// message is recorded.
type BuildReport struct {
	messages []string
	log      logging.Logger
}

// StartJob records the beginning of a labelled unit of build work, with
// the source path as context.
func (r *BuildReport) StartJob(title, rootPath string) {
	if r.log != nil {
		r.log.Debug(title, "path", rootPath)
	}
}

// Messagef records a non-fatal build message.
func (r *BuildReport) Messagef(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.messages = append(r.messages, msg)
	if r.log != nil {
		r.log.Info(msg)
	}
}

// Messages returns all recorded messages in order.
func (r *BuildReport) Messages() []string {
	return r.messages
}
