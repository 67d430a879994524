// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"time"

	"github.com/jharbott/mycroft-core/lib/clock"
)

// Stopwatch measures elapsed wall time in seconds, the unit
// [Aggregator.Timer] expects.
//
//	stopwatch := metrics.NewStopwatch(clock.Real())
//	stopwatch.Start()
//	recognize(audio)
//	aggregator.Timer("stt.latency", stopwatch.Stop())
type Stopwatch struct {
	clock   clock.Clock
	mark    time.Time
	running bool
}

// NewStopwatch returns a stopped Stopwatch reading time from clk.
func NewStopwatch(clk clock.Clock) *Stopwatch {
	return &Stopwatch{clock: clk}
}

// Start begins (or restarts) timing from now.
func (s *Stopwatch) Start() {
	s.mark = s.clock.Now()
	s.running = true
}

// Lap returns the seconds since Start or the previous Lap and begins a
// new lap. Returns 0 if the stopwatch is not running.
func (s *Stopwatch) Lap() float64 {
	if !s.running {
		return 0
	}
	now := s.clock.Now()
	elapsed := now.Sub(s.mark)
	s.mark = now
	return elapsed.Seconds()
}

// Stop returns the seconds since Start or the previous Lap and stops
// the stopwatch. Returns 0 if the stopwatch is not running.
func (s *Stopwatch) Stop() float64 {
	if !s.running {
		return 0
	}
	elapsed := s.clock.Now().Sub(s.mark)
	s.running = false
	return elapsed.Seconds()
}

// Running reports whether the stopwatch has been started and not
// stopped.
func (s *Stopwatch) Running() bool {
	return s.running
}
