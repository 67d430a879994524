// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/jharbott/mycroft-core/cmd/mycroft/cli"
	"github.com/jharbott/mycroft-core/lib/codec"
	"github.com/jharbott/mycroft-core/lib/messagebus"
)

// formatDiag is an output-only pseudo-format: the CBOR encoding
// rendered as diagnostic notation.
const formatDiag = "diag"

// Command returns the "message" command group.
func Command(streams cli.Streams) *cli.Command {
	return &cli.Command{
		Name:    "message",
		Summary: "Derive and convert message bus envelopes",
		Description: `Tools for working with message bus envelopes.

An envelope is a JSON object with "type", "data" and "context" fields.
"reply" and "response" derive a point-to-point answer whose context
routes back to the sender; "publish" derives a broadcast that carries
the sender's context without a target. "convert" re-encodes an
envelope between json, cbor and msgpack.

All subcommands accept an optional trailing file path argument. When
provided, input is read from the file instead of stdin.`,
		Subcommands: []*cli.Command{
			replyCommand(streams),
			responseCommand(streams),
			publishCommand(streams),
			convertCommand(streams),
		},
	}
}

// ioFlags are the format flags shared by every subcommand.
type ioFlags struct {
	from string
	to   string
}

func (f *ioFlags) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.from, "from", string(messagebus.FormatJSON), "input format (json, cbor, msgpack)")
	flagSet.StringVar(&f.to, "to", string(messagebus.FormatJSON), "output format (json, cbor, msgpack, diag)")
}

// readSource decodes the source envelope from the trailing file
// argument or stdin. No other positional arguments are accepted.
func readSource(args []string, in io.Reader, from string) (*messagebus.Message, error) {
	format, err := messagebus.ParseFormat(from)
	if err != nil {
		return nil, err
	}
	data, remaining, err := cli.ReadInput(args, in)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", remaining)
	}
	return messagebus.Decode(format, data)
}

// writeMessage encodes message to w. Text outputs end with a newline;
// binary outputs are written as-is.
func writeMessage(w io.Writer, message *messagebus.Message, to string) error {
	if to == formatDiag {
		encoded, err := message.Encode(messagebus.FormatCBOR)
		if err != nil {
			return err
		}
		diagnostic, err := codec.Diagnose(encoded)
		if err != nil {
			return fmt.Errorf("diagnose: %w", err)
		}
		_, err = fmt.Fprintln(w, diagnostic)
		return err
	}

	format, err := messagebus.ParseFormat(to)
	if err != nil {
		return err
	}
	encoded, err := message.Encode(format)
	if err != nil {
		return err
	}
	if format == messagebus.FormatJSON {
		encoded = append(encoded, '\n')
	}
	_, err = w.Write(encoded)
	return err
}

// parseObject parses a JSON object given on the command line. An empty
// value yields nil; so does "null".
func parseObject(flagName, value string) (map[string]any, error) {
	if value == "" {
		return nil, nil
	}
	var object map[string]any
	if err := json.Unmarshal([]byte(value), &object); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", flagName, err)
	}
	return object, nil
}
