// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jharbott/mycroft-core/cmd/mycroft/cli"
	"github.com/jharbott/mycroft-core/lib/metrics"
)

func reportCommand(streams cli.Streams) *cli.Command {
	var params commonParams
	return &cli.Command{
		Name:    "report",
		Summary: "Send one named metric through the device API",
		Description: `Send a single named metric to
<server.url>/<server.version>/device/<device.uuid>/metric/<NAME>.

NAME must be letters and hyphens. DATA is a JSON object and defaults
to {}. Nothing is sent unless opt_in is true in the configuration.`,
		Usage: "mycroft metrics report [flags] NAME [DATA]",
		Examples: []cli.Example{
			{
				Description: "Report which skill handled an intent",
				Command:     `mycroft metrics report intent-handled '{"skill":"weather"}'`,
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("report", pflag.ContinueOnError)
			params.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) == 0 || len(args) > 2 {
				return fmt.Errorf("usage: mycroft metrics report [flags] NAME [DATA]")
			}
			data := map[string]any{}
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &data); err != nil {
					return fmt.Errorf("DATA must be a JSON object: %w", err)
				}
			}
			return runReport(context.Background(), streams, &params, args[0], data)
		},
	}
}

func runReport(ctx context.Context, streams cli.Streams, params *commonParams, name string, data map[string]any) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}
	logger := cli.NewCommandLogger(streams.Err, params.verbose).With(
		"command", "metrics/report",
		"metric", name,
	)

	var device metrics.DeviceAPI = unpairedDevice{}
	if cfg.OptIn {
		httpDevice, err := metrics.NewHTTPDeviceAPIFromConfig(cfg)
		if err != nil {
			return err
		}
		device = httpDevice
	}

	if err := metrics.NewReporter(cfg.OptIn, device).ReportMetric(ctx, name, data); err != nil {
		return err
	}
	if !cfg.OptIn {
		logger.Info("not opted in, metric dropped")
		return nil
	}
	logger.Debug("metric reported")
	return nil
}

// unpairedDevice stands in for the device API when the user has not
// opted in. The Reporter never calls it.
type unpairedDevice struct{}

func (unpairedDevice) ReportMetric(context.Context, string, map[string]any) error {
	return fmt.Errorf("device API not configured")
}
