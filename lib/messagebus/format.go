// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package messagebus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/jharbott/mycroft-core/lib/codec"
)

// Format names a wire encoding of a [Message].
type Format string

const (
	// FormatJSON is the canonical text encoding produced by
	// [Message.Serialize].
	FormatJSON Format = "json"
	// FormatCBOR is deterministic CBOR via lib/codec.
	FormatCBOR Format = "cbor"
	// FormatMsgpack is MessagePack.
	FormatMsgpack Format = "msgpack"
)

// Formats lists every supported format in a stable order.
var Formats = []Format{FormatJSON, FormatCBOR, FormatMsgpack}

// ParseFormat resolves a format name as typed on a command line.
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if string(format) == name {
			return format, nil
		}
	}
	return "", fmt.Errorf("messagebus: unknown format %q (want one of %v)", name, Formats)
}

// Encode returns the message in the given wire format. FormatJSON
// produces exactly the bytes of [Message.Serialize].
func (m *Message) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		serialized, err := m.Serialize()
		if err != nil {
			return nil, err
		}
		return []byte(serialized), nil
	case FormatCBOR:
		data, err := codec.Marshal(m.binaryWire())
		if err != nil {
			return nil, &EncodingError{Format: format, Err: err}
		}
		return data, nil
	case FormatMsgpack:
		var buffer bytes.Buffer
		encoder := msgpack.NewEncoder(&buffer)
		// Share the json tags with the other formats so field names
		// match on every wire.
		encoder.SetCustomStructTag("json")
		if err := encoder.Encode(m.binaryWire()); err != nil {
			return nil, &EncodingError{Format: format, Err: err}
		}
		return buffer.Bytes(), nil
	default:
		return nil, &EncodingError{Format: format, Err: fmt.Errorf("unsupported format")}
	}
}

// Decode parses a message from the given wire format with the same
// defaulting rules as [Deserialize].
func Decode(format Format, data []byte) (*Message, error) {
	var wire *wireMessage
	switch format {
	case FormatJSON:
		return Deserialize(string(data))
	case FormatCBOR:
		if err := codec.Unmarshal(data, &wire); err != nil {
			return nil, &DecodingError{Format: format, Err: err}
		}
	case FormatMsgpack:
		decoder := msgpack.NewDecoder(bytes.NewReader(data))
		decoder.SetCustomStructTag("json")
		if err := decoder.Decode(&wire); err != nil {
			return nil, &DecodingError{Format: format, Err: err}
		}
	default:
		return nil, &DecodingError{Format: format, Err: fmt.Errorf("unsupported format")}
	}
	if wire == nil {
		return nil, &DecodingError{Format: format, Err: errNotAnObject}
	}
	return fromWire(wire), nil
}

// binaryWire is wire with every [json.Number] left by [Deserialize]
// converted to a native number, so binary formats carry numbers rather
// than their decimal text.
func (m *Message) binaryWire() wireMessage {
	wire := m.wire()
	wire.Type = nativeNumbers(wire.Type)
	wire.Data, _ = nativeNumbers(wire.Data).(map[string]any)
	wire.Context, _ = nativeNumbers(wire.Context).(map[string]any)
	return wire
}

// nativeNumbers returns value with json.Number leaves replaced by
// int64, uint64 or float64, whichever holds the number exactly first.
// Maps and slices holding numbers are copied, never modified.
func nativeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if integer, err := v.Int64(); err == nil {
			return integer
		}
		if unsigned, err := strconv.ParseUint(string(v), 10, 64); err == nil {
			return unsigned
		}
		if float, err := v.Float64(); err == nil {
			return float
		}
		return string(v)
	case map[string]any:
		if v == nil {
			return v
		}
		converted := make(map[string]any, len(v))
		for key, element := range v {
			converted[key] = nativeNumbers(element)
		}
		return converted
	case []any:
		if v == nil {
			return v
		}
		converted := make([]any, len(v))
		for i, element := range v {
			converted[i] = nativeNumbers(element)
		}
		return converted
	}
	return value
}
