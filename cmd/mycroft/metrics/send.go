// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/pflag"

	"github.com/jharbott/mycroft-core/cmd/mycroft/cli"
	"github.com/jharbott/mycroft-core/lib/clock"
	"github.com/jharbott/mycroft-core/lib/metrics"
	"github.com/jharbott/mycroft-core/lib/session"
)

type sendParams struct {
	commonParams
	counters   []string
	timers     []string
	levels     []string
	attributes []string
	dryRun     bool
}

func sendCommand(streams cli.Streams) *cli.Command {
	var params sendParams
	return &cli.Command{
		Name:    "send",
		Summary: "Record a batch of metrics and flush it",
		Description: `Record counters, timers, levels and attributes, then flush them to
the collector as one payload and wait for the publish to finish.

Counters accumulate: repeating --counter for the same name adds the
values. Timers append in order and accept seconds or a duration such
as 250ms. Levels and attributes keep the last value given. Attribute
values are parsed as JSON when possible and kept as strings otherwise.`,
		Usage: "mycroft metrics send [flags]",
		Examples: []cli.Example{
			{
				Description: "Count a wake word and time the recognizer",
				Command:     "mycroft metrics send --counter wakeword=1 --timer stt=1.25 --timer stt=900ms",
			},
			{
				Description: "Show the payload without sending it",
				Command:     "mycroft metrics send --level volume=0.6 --attr lang=en-us --dry-run",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("send", pflag.ContinueOnError)
			params.register(flagSet)
			flagSet.StringArrayVar(&params.counters, "counter", nil, "add to a counter (name=value, repeatable)")
			flagSet.StringArrayVar(&params.timers, "timer", nil, "append a timer value (name=seconds|duration, repeatable)")
			flagSet.StringArrayVar(&params.levels, "level", nil, "set a level (name=value, repeatable)")
			flagSet.StringArrayVar(&params.attributes, "attr", nil, "set an attribute (name=value, repeatable)")
			flagSet.BoolVar(&params.dryRun, "dry-run", false, "print the payload instead of publishing it")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			return runSend(streams, &params, clock.Real())
		},
	}
}

func runSend(streams cli.Streams, params *sendParams, clk clock.Clock) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}
	if params.serverURL != "" {
		cfg.Server.Metrics = true
	}

	logger := cli.NewCommandLogger(streams.Err, params.verbose).With("command", "metrics/send")
	sessions := session.NewManager(cfg.Session.Expiry(), clk, logger)

	var publisher metrics.Publisher
	if params.dryRun {
		publisher = &printPublisher{out: streams.Out, sessions: sessions}
	} else {
		httpPublisher, err := metrics.NewHTTPPublisherFromConfig(cfg, sessions, logger)
		if err != nil {
			return err
		}
		if !httpPublisher.Enabled() {
			fmt.Fprintln(streams.Err, "metrics publishing is disabled; set server.metrics in the config or pass --url")
			return &cli.ExitError{Code: 2}
		}
		publisher = httpPublisher
	}

	recorder := &resultPublisher{next: publisher}
	aggregator, err := metrics.NewAggregator(metrics.AggregatorConfig{
		Publisher: recorder,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if err := record(aggregator, params); err != nil {
		return err
	}

	if aggregator.Flush() == nil {
		return fmt.Errorf("nothing to send: give at least one --counter, --timer or --level")
	}
	aggregator.Wait()
	return recorder.Err()
}

// record applies every recording flag to aggregator.
func record(aggregator *metrics.Aggregator, params *sendParams) error {
	for _, assignment := range params.counters {
		name, value, err := parseNumber("counter", assignment)
		if err != nil {
			return err
		}
		aggregator.Increment(name, value)
	}
	for _, assignment := range params.timers {
		name, raw, err := splitAssignment("timer", assignment)
		if err != nil {
			return err
		}
		if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
			aggregator.Timer(name, seconds)
			continue
		}
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("--timer %q: value must be seconds or a duration", assignment)
		}
		aggregator.TimerDuration(name, duration)
	}
	for _, assignment := range params.levels {
		name, value, err := parseNumber("level", assignment)
		if err != nil {
			return err
		}
		aggregator.Level(name, value)
	}
	for _, assignment := range params.attributes {
		name, raw, err := splitAssignment("attr", assignment)
		if err != nil {
			return err
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		aggregator.Attr(name, value)
	}
	return nil
}

func parseNumber(flagName, assignment string) (string, float64, error) {
	name, raw, err := splitAssignment(flagName, assignment)
	if err != nil {
		return "", 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("--%s %q: value must be a number", flagName, assignment)
	}
	return name, value, nil
}

// resultPublisher keeps the error of the publish it forwards. The
// aggregator only logs publish failures; the command reports them
// through its exit status.
type resultPublisher struct {
	next metrics.Publisher

	mu  sync.Mutex
	err error
}

func (p *resultPublisher) Publish(ctx context.Context, payload *metrics.Payload) error {
	err := p.next.Publish(ctx, payload)
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	return err
}

func (p *resultPublisher) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// printPublisher writes payloads as indented JSON instead of sending
// them.
type printPublisher struct {
	out      io.Writer
	sessions metrics.SessionProvider
}

func (p *printPublisher) Publish(_ context.Context, payload *metrics.Payload) error {
	if payload.SessionID == "" {
		payload.SessionID = p.sessions.SessionID()
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.out, "%s\n", encoded)
	return err
}
