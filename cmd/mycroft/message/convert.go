// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"github.com/spf13/pflag"

	"github.com/jharbott/mycroft-core/cmd/mycroft/cli"
)

func convertCommand(streams cli.Streams) *cli.Command {
	var params ioFlags
	return &cli.Command{
		Name:    "convert",
		Summary: "Re-encode an envelope in another wire format",
		Description: `Decode an envelope in the --from format and write it in the --to
format. Missing fields take their defaults on the way through, so
converting json to json normalizes an envelope.`,
		Usage: "mycroft message convert --from FORMAT --to FORMAT [file]",
		Examples: []cli.Example{
			{
				Description: "Inspect the CBOR form of a message",
				Command:     "mycroft message convert --to diag message.json",
			},
			{
				Description: "Turn a msgpack capture back into JSON",
				Command:     "mycroft message convert --from msgpack capture.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("convert", pflag.ContinueOnError)
			params.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			message, err := readSource(args, streams.In, params.from)
			if err != nil {
				return err
			}
			return writeMessage(streams.Out, message, params.to)
		},
	}
}
