// Copyright 2025 Upbound Inc.
// All rights reserved

package meteor

import (
	"fmt"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/pterm/pterm"
)

// NewPtermLogger returns a logging.Logger printing through pterm. Debug
// output is only emitted when debug is set.
func NewPtermLogger(debug bool) logging.Logger {
	return ptermLogger{debug: debug}
}

type ptermLogger struct {
	debug bool
	kv    []any
}

func (l ptermLogger) Info(msg string, keysAndValues ...any) {
	pterm.Info.Println(render(msg, append(l.kv, keysAndValues...)))
}

func (l ptermLogger) Debug(msg string, keysAndValues ...any) {
	if !l.debug {
		return
	}
	pterm.Debug.Println(render(msg, append(l.kv, keysAndValues...)))
}

func (l ptermLogger) WithValues(keysAndValues ...any) logging.Logger {
	return ptermLogger{debug: l.debug, kv: append(l.kv, keysAndValues...)}
}

func render(msg string, kv []any) string {
	if len(kv) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
