// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/jharbott/mycroft-core/cmd/mycroft/cli"
	"github.com/jharbott/mycroft-core/lib/messagebus"
)

// deriveParams holds the flags shared by reply, response and publish.
type deriveParams struct {
	ioFlags
	messageType string
	data        string
	context     string
}

func (p *deriveParams) flags(name string, withType bool) func() *pflag.FlagSet {
	return func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
		if withType {
			flagSet.StringVarP(&p.messageType, "type", "t", "", "message type of the derived envelope (required)")
		}
		flagSet.StringVarP(&p.data, "data", "d", "{}", "payload as a JSON object")
		flagSet.StringVarP(&p.context, "context", "c", "", "context overlay as a JSON object")
		p.register(flagSet)
		return flagSet
	}
}

// derivation builds the output envelope from the decoded source.
type derivation func(source *messagebus.Message, params *deriveParams, data, context map[string]any) (*messagebus.Message, error)

func runDerive(streams cli.Streams, params *deriveParams, requireType bool, derive derivation) func([]string) error {
	return func(args []string) error {
		if requireType && params.messageType == "" {
			return fmt.Errorf("--type is required")
		}
		data, err := parseObject("data", params.data)
		if err != nil {
			return err
		}
		context, err := parseObject("context", params.context)
		if err != nil {
			return err
		}
		source, err := readSource(args, streams.In, params.from)
		if err != nil {
			return err
		}
		derived, err := derive(source, params, data, context)
		if err != nil {
			return err
		}
		return writeMessage(streams.Out, derived, params.to)
	}
}

func replyCommand(streams cli.Streams) *cli.Command {
	var params deriveParams
	return &cli.Command{
		Name:    "reply",
		Summary: "Derive a point-to-point reply",
		Description: `Derive a reply to the source envelope.

The reply context is the source context with --context laid over it.
Its target is data.target if set, else a target given in --context,
else the merged client_name, else the source's own target.`,
		Usage: "mycroft message reply --type TYPE [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Answer an utterance from the CLI client",
				Command:     `mycroft message reply --type speak --data '{"utterance":"hi"}' utterance.json`,
			},
		},
		Flags: params.flags("reply", true),
		Run: runDerive(streams, &params, true, func(source *messagebus.Message, params *deriveParams, data, context map[string]any) (*messagebus.Message, error) {
			return source.Reply(params.messageType, data, context)
		}),
	}
}

func responseCommand(streams cli.Streams) *cli.Command {
	var params deriveParams
	return &cli.Command{
		Name:    "response",
		Summary: "Derive a reply typed <type>.response",
		Usage:   "mycroft message response [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Respond to a skill request read from stdin",
				Command:     `mycroft message response --data '{"ok":true}' < request.json`,
			},
		},
		Flags: params.flags("response", false),
		Run: runDerive(streams, &params, false, func(source *messagebus.Message, _ *deriveParams, data, context map[string]any) (*messagebus.Message, error) {
			return source.Response(data, context)
		}),
	}
}

func publishCommand(streams cli.Streams) *cli.Command {
	var params deriveParams
	return &cli.Command{
		Name:    "publish",
		Summary: "Derive a broadcast carrying the source context",
		Description: `Derive a broadcast from the source envelope.

The broadcast context is the source context with --context laid over
it and the target removed.`,
		Usage: "mycroft message publish --type TYPE [flags] [file]",
		Flags: params.flags("publish", true),
		Run: runDerive(streams, &params, true, func(source *messagebus.Message, params *deriveParams, data, context map[string]any) (*messagebus.Message, error) {
			return source.Publish(params.messageType, data, context), nil
		}),
	}
}
