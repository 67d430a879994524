// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger writing to w. When w is
// a terminal, it uses slog.TextHandler for human-readable output;
// otherwise slog.JSONHandler, so piped output stays machine-parseable.
// Verbose lowers the level to Debug.
//
// Callers scope the logger with command context via With():
//
//	logger := cli.NewCommandLogger(streams.Err, verbose).With("command", "metrics/send")
func NewCommandLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
