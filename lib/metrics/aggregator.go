// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jharbott/mycroft-core/lib/version"
)

// AttributeVersion is the attribute every snapshot carries, holding
// the running software version.
const AttributeVersion = "version"

// Publisher delivers a flushed snapshot to the collector.
type Publisher interface {
	Publish(ctx context.Context, payload *Payload) error
}

// AggregatorConfig holds the dependencies of an Aggregator.
type AggregatorConfig struct {
	// Publisher receives every non-empty snapshot. Required.
	Publisher Publisher

	// Version is stamped into the "version" attribute after every
	// reset. Defaults to version.Short().
	Version string

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Aggregator accumulates counters, timers, levels and attributes
// between flushes.
//
// Not safe for concurrent recording; see the package documentation.
type Aggregator struct {
	counters   map[string]float64
	timers     map[string][]float64
	levels     map[string]any
	attributes map[string]any

	publisher Publisher
	version   string
	logger    *slog.Logger

	// inFlight tracks detached publish goroutines for Wait.
	inFlight sync.WaitGroup
}

// NewAggregator creates an empty Aggregator whose attributes hold only
// the version.
func NewAggregator(config AggregatorConfig) (*Aggregator, error) {
	if config.Publisher == nil {
		return nil, fmt.Errorf("metrics: Publisher is required")
	}

	versionString := config.Version
	if versionString == "" {
		versionString = version.Short()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	aggregator := &Aggregator{
		publisher: config.Publisher,
		version:   versionString,
		logger:    logger,
	}
	aggregator.Clear()
	return aggregator, nil
}

// Increment adds value to the counter name, starting from zero.
func (a *Aggregator) Increment(name string, value float64) {
	a.counters[name] += value
}

// IncrementOne adds one to the counter name.
func (a *Aggregator) IncrementOne(name string) {
	a.Increment(name, 1)
}

// Timer appends value (seconds) to the timer name. Values keep their
// recording order.
func (a *Aggregator) Timer(name string, value float64) {
	a.timers[name] = append(a.timers[name], value)
}

// TimerDuration records d as seconds on the timer name.
func (a *Aggregator) TimerDuration(name string, d time.Duration) {
	a.Timer(name, d.Seconds())
}

// Level sets the gauge name to value, replacing the previous value.
// value must be JSON-encodable; it is usually a number.
func (a *Aggregator) Level(name string, value any) {
	a.levels[name] = value
}

// Attr sets the attribute name to value, replacing the previous value.
func (a *Aggregator) Attr(name string, value any) {
	a.attributes[name] = value
}

// Clear discards everything recorded and reseeds the version
// attribute.
func (a *Aggregator) Clear() {
	a.counters = map[string]float64{}
	a.timers = map[string][]float64{}
	a.levels = map[string]any{}
	a.attributes = map[string]any{}
	a.Attr(AttributeVersion, a.version)
}

// Snapshot returns a copy of the current state without resetting it.
func (a *Aggregator) Snapshot() *Payload {
	payload := &Payload{
		Counters:   make(map[string]float64, len(a.counters)),
		Timers:     make(map[string][]float64, len(a.timers)),
		Levels:     make(map[string]any, len(a.levels)),
		Attributes: make(map[string]any, len(a.attributes)),
	}
	for name, value := range a.counters {
		payload.Counters[name] = value
	}
	for name, values := range a.timers {
		payload.Timers[name] = append([]float64(nil), values...)
	}
	for name, value := range a.levels {
		payload.Levels[name] = value
	}
	for name, value := range a.attributes {
		payload.Attributes[name] = value
	}
	return payload
}

// Flush takes the recorded state as a snapshot and resets the
// aggregator. When the snapshot holds at least one counter, timer or
// level, Flush starts a goroutine that passes it to the Publisher and
// returns immediately with a handle on that goroutine; otherwise
// nothing is spawned and Flush returns nil.
//
// The publish runs with no deadline and is not retried. Its error, if
// any, is logged and dropped. Callers that do not care when the
// publish finishes may ignore the returned task.
func (a *Aggregator) Flush() *PublishTask {
	// Clear installs fresh maps, so the snapshot owns the old ones
	// outright and nothing can write to it after this point.
	payload := &Payload{
		Counters:   a.counters,
		Timers:     a.timers,
		Levels:     a.levels,
		Attributes: a.attributes,
	}
	a.Clear()

	if payload.Entries() == 0 {
		return nil
	}

	a.logger.Debug("flushing metrics",
		"counters", payload.Counters,
		"timers", payload.Timers,
		"levels", payload.Levels,
		"attributes", payload.Attributes,
	)

	task := &PublishTask{done: make(chan struct{})}
	a.inFlight.Add(1)
	go func() {
		defer a.inFlight.Done()
		defer close(task.done)
		if err := a.publisher.Publish(context.Background(), payload); err != nil {
			a.logger.Warn("metrics publish failed, dropping batch",
				"error", err,
				"entries", payload.Entries(),
			)
		}
	}()
	return task
}

// Wait blocks until every publish started by Flush so far has
// finished. Use it during shutdown to give in-flight batches a chance
// to land.
func (a *Aggregator) Wait() {
	a.inFlight.Wait()
}

// PublishTask is a handle on one detached publish. It deliberately
// exposes no result: publish failures are only logged.
type PublishTask struct {
	done chan struct{}
}

// Done returns a channel that is closed when the publish has finished,
// successfully or not.
func (t *PublishTask) Done() <-chan struct{} {
	return t.done
}
