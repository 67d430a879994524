// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jharbott/mycroft-core/cmd/mycroft/cli"
	"github.com/jharbott/mycroft-core/lib/config"
)

// Command returns the "metrics" command group.
func Command(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name:    "metrics",
		Summary: "Publish telemetry and report named metrics",
		Description: `Send telemetry to the Mycroft backend.

"send" records one batch and flushes it to the collector at server.url,
if server.metrics is enabled. "report" sends a single named metric
through the device API, if the user opted in.

Configuration comes from --config, else MYCROFT_CONFIG, else the
built-in defaults.`,
		Subcommands: []*cli.Command{
			sendCommand(streams),
			reportCommand(streams),
		},
	}
}

// commonParams are the flags every metrics subcommand accepts.
type commonParams struct {
	configPath string
	serverURL  string
	verbose    bool
}

func (p *commonParams) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&p.configPath, "config", "", "path to mycroft.conf or a YAML config file")
	flagSet.StringVar(&p.serverURL, "url", "", "override server.url")
	flagSet.BoolVarP(&p.verbose, "verbose", "v", false, "log at debug level")
}

// loadConfig resolves configuration and applies the --url override.
func (p *commonParams) loadConfig() (*config.Config, error) {
	cfg, err := cli.LoadConfig(p.configPath)
	if err != nil {
		return nil, err
	}
	if p.serverURL != "" {
		cfg.Server.URL = p.serverURL
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--url: %w", err)
		}
	}
	return cfg, nil
}

// splitAssignment splits "name=value". Both halves must be non-empty.
func splitAssignment(flagName, assignment string) (string, string, error) {
	name, value, found := strings.Cut(assignment, "=")
	if !found || name == "" || value == "" {
		return "", "", fmt.Errorf("--%s %q: expected name=value", flagName, assignment)
	}
	return name, value, nil
}
