// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package message implements "mycroft message": deriving replies,
// responses and broadcasts from a stored envelope, and converting
// envelopes between wire formats.
//
// Every subcommand reads one source envelope from a trailing file
// argument or stdin, in the format named by --from (default json), and
// writes the result in the format named by --to. Besides the envelope
// formats, --to accepts "diag" for CBOR diagnostic notation.
package message
