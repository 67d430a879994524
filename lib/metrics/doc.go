// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics accumulates client-side telemetry and ships it to
// the backend metrics collector on a best-effort basis.
//
// An [Aggregator] records four kinds of data keyed by name: counters
// (summed), timers (ordered lists of durations in seconds), levels
// (gauges, last write wins), and attributes (last write wins, always
// including "version"). [Aggregator.Flush] takes a snapshot, resets
// the aggregator, and hands the snapshot to a [Publisher] on a
// detached goroutine so metrics reporting never blocks the caller.
// Publish failures are logged and otherwise discarded; a dropped batch
// is never retried.
//
// Data flow:
//
//	Increment/Timer/Level/Attr → Aggregator → Flush → goroutine → Publisher.Publish → HTTP POST
//
// [HTTPPublisher] posts the JSON payload to the configured collector
// URL, stamping the current session id into payloads that lack one. It
// is a silent no-op when metrics are disabled in configuration.
//
// The package also provides [Stopwatch] for measuring the durations
// fed to [Aggregator.Timer] and [Reporter] for one-off named metrics
// sent through the device API when the user has opted in.
//
// # Concurrency
//
// The recording methods of an Aggregator are not safe for concurrent
// use. Two goroutines incrementing the same name may lose updates, and
// a Flush racing a recording call may drop that call. Each subsystem
// is expected to own its aggregator and serialize access to it;
// callers that share one must provide their own locking. Publish
// goroutines spawned by different flushes run independently and may
// reach the collector in any order.
package metrics
