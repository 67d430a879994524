// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/jharbott/mycroft-core/cmd/mycroft/cli"
	"github.com/jharbott/mycroft-core/cmd/mycroft/message"
	"github.com/jharbott/mycroft-core/cmd/mycroft/metrics"
	"github.com/jharbott/mycroft-core/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired exit code. Don't print a redundant "error:"
		// line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return rootCommand(cli.StandardStreams()).Execute(os.Args[1:])
}

func rootCommand(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name:    "mycroft",
		Summary: "Mycroft message bus and telemetry tools",
		Subcommands: []*cli.Command{
			message.Command(streams),
			metrics.Command(streams),
			versionCommand(streams),
		},
	}
}

func versionCommand(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			_, err := fmt.Fprintf(streams.Out, "mycroft %s\n", version.Info())
			return err
		},
	}
}
