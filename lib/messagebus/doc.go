// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package messagebus defines the envelope exchanged over the mycroft
// message bus and the context-lineage rules that decide how routing
// metadata flows from one message to the messages derived from it.
//
// A [Message] carries three things: a type tag naming the event, a data
// payload, and a context map of routing and correlation metadata (for
// example "client_name", the identity of the client that started a
// conversation, and "target", the intended recipient). The voice
// service, skills, and command-line clients all construct, serialize,
// and derive messages through this package. The transport that moves
// serialized messages between processes lives elsewhere and only sees
// the output of [Message.Serialize] and the input of [Deserialize].
//
// # Lineage
//
// Two operations derive a new message from an existing one:
//
//   - [Message.Reply] answers the source point-to-point. The reply
//     inherits the source context, overlays the caller's context, and
//     resolves "target" so the answer routes back toward the
//     originator: a "target" in the reply data wins, then a "target"
//     the caller put in the context, then the merged "client_name".
//   - [Message.Publish] emits a broadcast on behalf of the source. It
//     inherits and overlays the context the same way, then strips
//     "target" so the broadcast does not inherit a directed
//     destination.
//
// Both operations copy the source context (shallowly) before touching
// it and never write to the caller-supplied context. Mutating a derived
// message's context never changes the message it was derived from.
//
// # Wire formats
//
// The canonical wire format is a JSON object with the keys "type",
// "data" and "context" in that order:
//
//	{"type": "speak", "data": {"utterance": "hello"}, "context": {"client_name": "cli"}}
//
// [Message.Encode] and [Decode] additionally support CBOR (Core
// Deterministic Encoding, see lib/codec) and MessagePack for transports
// that want binary framing. All formats apply the same defaulting
// rules: a missing or null "data" decodes to an empty map and a missing
// "context" stays nil. A missing, null or non-string "type" leaves
// [Message.Type] empty but is kept, so re-encoding the message writes
// the original value back. JSON numbers decode as [json.Number] and
// re-serialize digit for digit; the binary formats carry them as native
// integers or floats.
//
// Encoding failures are reported as [*EncodingError], malformed input
// as [*DecodingError], and a Reply without inspectable data as
// [*InvalidArgumentError] (which matches [ErrInvalidArgument] under
// errors.Is).
package messagebus
