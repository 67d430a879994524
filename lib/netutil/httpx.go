// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers shared by the telemetry
// publisher and the device API client.
//
// Response helpers bound every body read at [MaxResponseSize] so that a
// misbehaving collector cannot make a best-effort metrics upload
// allocate unbounded memory.
package netutil

import (
	"io"
	"strings"
)

// MaxResponseSize is the bound on response body reads: 1 MB. Metrics
// collectors and the device API answer with at most a short JSON
// acknowledgement.
const MaxResponseSize int64 = 1 << 20

// ReadResponse reads a response body up to MaxResponseSize bytes. Use
// instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an HTTP error response body and returns it as a
// trimmed string for diagnostic error messages. Read errors are
// ignored: a partial or empty body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return strings.TrimSpace(string(data))
}
