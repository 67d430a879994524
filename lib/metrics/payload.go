// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

// Payload is one flushed snapshot of an [Aggregator], in the shape the
// collector expects:
//
//	{"counters": {...}, "timers": {...}, "levels": {...}, "attributes": {...}, "session_id": "..."}
type Payload struct {
	Counters   map[string]float64   `json:"counters"`
	Timers     map[string][]float64 `json:"timers"`
	Levels     map[string]any       `json:"levels"`
	Attributes map[string]any       `json:"attributes"`

	// SessionID is filled in by the publisher when empty. Always
	// present on the wire, as "" when no session provider is set.
	SessionID string `json:"session_id"`
}

// Entries returns the number of named counters, timers and levels.
// Attributes are not counted: a snapshot holding only attributes has
// nothing worth publishing.
func (p *Payload) Entries() int {
	return len(p.Counters) + len(p.Timers) + len(p.Levels)
}
