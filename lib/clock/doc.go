// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts wall-clock reads so that time-dependent code
// (session expiry, stopwatch laps) can be tested deterministically.
//
// Production code injects [Real]; tests inject [Fake] and move time
// forward explicitly with [FakeClock.Advance]. Code that needs the
// current time takes a [Clock] instead of calling time.Now directly.
package clock
