// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package messagebus

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"maps"
)

// Well-known context keys consulted by the lineage operations.
const (
	// KeyTarget names the intended recipient of a directed message.
	KeyTarget = "target"
	// KeyClientName identifies the client that originated a
	// conversation. Replies route back to it.
	KeyClientName = "client_name"
)

// ResponseSuffix is appended to a message type by [Message.Response].
const ResponseSuffix = ".response"

// Message is the unit of communication on the bus.
//
// Treat a Message as a value: the lineage operations derive new
// messages instead of editing existing ones, and a message stays valid
// and reusable after something has been derived from it.
type Message struct {
	// Type identifies the meaning and route of the message. Opaque to
	// this package. Empty when a decoded message carried no type or a
	// non-string one.
	Type string

	// Data is the payload. Never nil on a message built by [New] or
	// any decoder.
	Data map[string]any

	// Context carries routing and correlation metadata such as
	// [KeyTarget] and [KeyClientName]. May be nil.
	Context map[string]any

	// decodedType holds a decoded "type" that was null, absent or not a
	// string. Re-encoding writes it back unchanged while Type is "".
	decodedType *opaqueType
}

type opaqueType struct {
	value any
}

// wireMessage fixes the field order of the serialized form.
type wireMessage struct {
	Type    any            `json:"type"`
	Data    map[string]any `json:"data"`
	Context map[string]any `json:"context"`
}

// New constructs a message. A nil data map is replaced with an empty
// one; context is stored as given and may remain nil. The type is not
// validated.
func New(messageType string, data, context map[string]any) *Message {
	if data == nil {
		data = map[string]any{}
	}
	return &Message{Type: messageType, Data: data, Context: context}
}

func (m *Message) wire() wireMessage {
	data := m.Data
	if data == nil {
		data = map[string]any{}
	}
	var messageType any = m.Type
	if m.Type == "" && m.decodedType != nil {
		messageType = m.decodedType.value
	}
	return wireMessage{Type: messageType, Data: data, Context: m.Context}
}

func fromWire(wire *wireMessage) *Message {
	if messageType, ok := wire.Type.(string); ok {
		return New(messageType, wire.Data, wire.Context)
	}
	message := New("", wire.Data, wire.Context)
	message.decodedType = &opaqueType{value: wire.Type}
	return message
}

// Serialize returns the JSON form of the message: an object with the
// keys "type", "data" and "context" in that order. A nil context is
// written as null. HTML-significant characters in utterances are left
// unescaped.
func (m *Message) Serialize() (string, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(m.wire()); err != nil {
		return "", &EncodingError{Format: FormatJSON, Err: err}
	}
	// Encoder.Encode terminates each value with a newline.
	return string(bytes.TrimSuffix(buffer.Bytes(), []byte("\n"))), nil
}

// Deserialize parses the JSON form of a message. The input must be a
// single JSON object; any of its "type", "data" and "context" fields
// may be absent or null (see the package documentation for the
// defaults). Unknown fields are ignored.
//
// Numbers decode as [json.Number] so that serializing the message again
// reproduces them digit for digit.
func Deserialize(value string) (*Message, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(value)))
	decoder.UseNumber()

	var wire *wireMessage
	if err := decoder.Decode(&wire); err != nil {
		return nil, &DecodingError{Format: FormatJSON, Err: err}
	}
	if wire == nil {
		return nil, &DecodingError{Format: FormatJSON, Err: errNotAnObject}
	}
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, &DecodingError{Format: FormatJSON, Err: errors.New("unexpected data after the message object")}
	}
	return fromWire(wire), nil
}

var errNotAnObject = errors.New("top-level value is null, expected an object")

// Reply derives a message answering m point-to-point.
//
// The reply context starts as a copy of m's context (empty if m has
// none), with every key of the caller's context laid over it. The
// "target" is then resolved in priority order:
//
//  1. data["target"], when present;
//  2. a "target" in the caller's context, when present;
//  3. the merged context's "client_name", when present;
//  4. otherwise whatever "target" m's context already carried.
//
// The reply carries data unmodified. Neither m's context nor the
// caller's context is modified. A nil data map is rejected with an
// [*InvalidArgumentError]: routing needs inspectable data.
func (m *Message) Reply(messageType string, data, context map[string]any) (*Message, error) {
	if data == nil {
		return nil, &InvalidArgumentError{
			Operation: "reply",
			Argument:  "data",
			Reason:    "must be a map, got nil",
		}
	}

	replyContext := mergeContext(m.Context, context)
	if target, ok := data[KeyTarget]; ok {
		replyContext[KeyTarget] = target
	} else if _, explicit := context[KeyTarget]; !explicit {
		if clientName, ok := replyContext[KeyClientName]; ok {
			replyContext[KeyTarget] = clientName
		}
	}

	return &Message{Type: messageType, Data: data, Context: replyContext}, nil
}

// Response is Reply with the type "<m.Type>.response", the convention
// for answering a request message.
func (m *Message) Response(data, context map[string]any) (*Message, error) {
	return m.Reply(m.Type+ResponseSuffix, data, context)
}

// Publish derives a broadcast emitted on behalf of m. The new context
// is a copy of m's context with the caller's context laid over it and
// "target" removed, so the broadcast never inherits a directed
// destination. A nil data map becomes an empty one, as with [New].
func (m *Message) Publish(messageType string, data, context map[string]any) *Message {
	publishContext := mergeContext(m.Context, context)
	delete(publishContext, KeyTarget)
	return New(messageType, data, publishContext)
}

// mergeContext returns a fresh map holding base overlaid with overlay.
// Copies are shallow: nested maps and slices are shared with the
// inputs.
func mergeContext(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	maps.Copy(merged, base)
	maps.Copy(merged, overlay)
	return merged
}
