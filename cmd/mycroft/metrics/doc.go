// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics implements "mycroft metrics": recording a batch of
// counters, timers, levels and attributes and flushing it to the
// collector, and sending one-off named metrics through the device API.
package metrics
