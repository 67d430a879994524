// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for mycroft-core
// packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that tests
// waiting on background goroutines, such as a detached telemetry
// publish, cannot hang the suite.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation (metric names, session ids, message types).
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
