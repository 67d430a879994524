// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration used
// for the binary framing of message bus envelopes.
//
// JSON is the canonical envelope wire format (what every bus client
// speaks). CBOR is offered for internal transports and on-disk
// captures that want a compact binary form of the same envelope. This
// package holds the shared encoding and decoding modes so every caller
// encodes identically. The encoder uses Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical envelope always produces
// identical bytes.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Decoding into any-typed targets produces map[string]any for maps, so
// decoded envelope payloads have the same shape as JSON-decoded ones.
package codec
