// Copyright 2026 The mycroft-core Authors
// SPDX-License-Identifier: Apache-2.0

package messagebus

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNewNormalizesNilData(t *testing.T) {
	message := New("a", nil, nil)
	if message.Data == nil {
		t.Fatal("Data is nil, want empty map")
	}
	if len(message.Data) != 0 {
		t.Errorf("Data = %v, want empty", message.Data)
	}
	if message.Context != nil {
		t.Errorf("Context = %v, want nil (never implicitly created)", message.Context)
	}
}

func TestSerializeFieldOrder(t *testing.T) {
	message := New("speak", map[string]any{"utterance": "hello"}, map[string]any{"client_name": "cli"})

	serialized, err := message.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := `{"type":"speak","data":{"utterance":"hello"},"context":{"client_name":"cli"}}`
	if serialized != want {
		t.Errorf("Serialize =\n  %s\nwant\n  %s", serialized, want)
	}
}

func TestSerializeNilContextAsNull(t *testing.T) {
	serialized, err := New("ping", nil, nil).Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if want := `{"type":"ping","data":{},"context":null}`; serialized != want {
		t.Errorf("Serialize = %s, want %s", serialized, want)
	}
}

func TestSerializeDoesNotEscapeHTML(t *testing.T) {
	serialized, err := New("speak", map[string]any{"utterance": "rock & roll <3"}, nil).Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if want := `{"type":"speak","data":{"utterance":"rock & roll <3"},"context":null}`; serialized != want {
		t.Errorf("Serialize = %s, want %s", serialized, want)
	}
}

func TestSerializeUnencodableData(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		context map[string]any
	}{
		{name: "channel in data", data: map[string]any{"reply": make(chan int)}},
		{name: "function in context", data: map[string]any{}, context: map[string]any{"hook": func() {}}},
		{name: "NaN in data", data: map[string]any{"confidence": math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("bad", tt.data, tt.context).Serialize()
			var encodingErr *EncodingError
			if !errors.As(err, &encodingErr) {
				t.Fatalf("Serialize error = %v, want *EncodingError", err)
			}
			if encodingErr.Format != FormatJSON {
				t.Errorf("Format = %q, want json", encodingErr.Format)
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		message *Message
	}{
		{
			name:    "nil context",
			message: New("mycroft.stop", map[string]any{}, nil),
		},
		{
			name: "nested values",
			message: New("recognizer_loop:utterance",
				map[string]any{
					"utterances": []any{"what time is it", "what's the time"},
					"lang":       "en-us",
					"final":      true,
					"extra":      nil,
					"location":   map[string]any{"city": "Lawrence", "zip": "66044"},
				},
				map[string]any{"client_name": "mycroft_listener", "source": "audio"}),
		},
		{
			name:    "empty context",
			message: New("skill.loaded", map[string]any{"id": "weather"}, map[string]any{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serialized, err := tt.message.Serialize()
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			decoded, err := Deserialize(serialized)
			if err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			if !reflect.DeepEqual(decoded, tt.message) {
				t.Errorf("round trip mismatch:\n  got  %#v\n  want %#v", decoded, tt.message)
			}
		})
	}
}

func TestDeserializeDefaults(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantType    string
		wantContext map[string]any
	}{
		{name: "empty object", input: `{}`},
		{name: "explicit nulls", input: `{"type":null,"data":null,"context":null}`},
		{name: "type only", input: `{"type":"speak"}`, wantType: "speak"},
		{name: "context only", input: `{"context":{"target":"cli"}}`, wantContext: map[string]any{"target": "cli"}},
		{name: "unknown field ignored", input: `{"type":"speak","id":12}`, wantType: "speak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message, err := Deserialize(tt.input)
			if err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			if message.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", message.Type, tt.wantType)
			}
			if message.Data == nil || len(message.Data) != 0 {
				t.Errorf("Data = %#v, want empty non-nil map", message.Data)
			}
			if !reflect.DeepEqual(message.Context, tt.wantContext) {
				t.Errorf("Context = %#v, want %#v", message.Context, tt.wantContext)
			}
		})
	}
}

func TestDeserializeMalformed(t *testing.T) {
	inputs := []string{
		``,
		`{"type":`,
		`not json`,
		`null`,
		`["speak"]`,
		`{"type":"speak"} {"type":"stop"}`,
		`{"type":"speak"}x`,
		`{"data":"hello"}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Deserialize(input)
			var decodingErr *DecodingError
			if !errors.As(err, &decodingErr) {
				t.Fatalf("Deserialize(%q) error = %v, want *DecodingError", input, err)
			}
		})
	}
}

func TestReplyTargetsClientName(t *testing.T) {
	source := New("recognizer_loop:utterance", nil, map[string]any{"client_name": "cli"})

	reply, err := source.Reply("ack", map[string]any{}, nil)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Context[KeyTarget] != "cli" {
		t.Errorf("target = %v, want cli", reply.Context[KeyTarget])
	}
	if reply.Type != "ack" {
		t.Errorf("Type = %q, want ack", reply.Type)
	}
}

func TestReplyTargetPrecedence(t *testing.T) {
	tests := []struct {
		name          string
		sourceContext map[string]any
		data          map[string]any
		context       map[string]any
		wantTarget    any
		wantHasTarget bool
	}{
		{
			name:          "data target beats caller client_name",
			sourceContext: map[string]any{},
			data:          map[string]any{"target": "X"},
			context:       map[string]any{"client_name": "Y"},
			wantTarget:    "X",
			wantHasTarget: true,
		},
		{
			name:          "data target beats inherited client_name",
			sourceContext: map[string]any{"client_name": "cli"},
			data:          map[string]any{"target": "skill"},
			wantTarget:    "skill",
			wantHasTarget: true,
		},
		{
			name:          "caller client_name becomes target",
			data:          map[string]any{},
			context:       map[string]any{"client_name": "Y"},
			wantTarget:    "Y",
			wantHasTarget: true,
		},
		{
			name:          "caller client_name overrides inherited one",
			sourceContext: map[string]any{"client_name": "cli"},
			data:          map[string]any{},
			context:       map[string]any{"client_name": "gui"},
			wantTarget:    "gui",
			wantHasTarget: true,
		},
		{
			name:          "explicit caller target beats client_name",
			sourceContext: map[string]any{"client_name": "cli"},
			data:          map[string]any{},
			context:       map[string]any{"target": "audio"},
			wantTarget:    "audio",
			wantHasTarget: true,
		},
		{
			name:          "client_name beats inherited target",
			sourceContext: map[string]any{"client_name": "cli", "target": "skills"},
			data:          map[string]any{},
			wantTarget:    "cli",
			wantHasTarget: true,
		},
		{
			name:          "inherited target kept without client_name",
			sourceContext: map[string]any{"target": "skills"},
			data:          map[string]any{},
			wantTarget:    "skills",
			wantHasTarget: true,
		},
		{
			name: "no routing information",
			data: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := New("request", nil, tt.sourceContext)
			reply, err := source.Reply("ack", tt.data, tt.context)
			if err != nil {
				t.Fatalf("Reply: %v", err)
			}
			if reply.Context == nil {
				t.Fatal("reply context is nil")
			}
			target, has := reply.Context[KeyTarget]
			if has != tt.wantHasTarget || target != tt.wantTarget {
				t.Errorf("target = %v (present %v), want %v (present %v)",
					target, has, tt.wantTarget, tt.wantHasTarget)
			}
		})
	}
}

func TestReplyMergesContext(t *testing.T) {
	source := New("request", nil, map[string]any{"client_name": "cli", "session": "abc", "lang": "en-us"})

	reply, err := source.Reply("ack", map[string]any{"ok": true}, map[string]any{"lang": "de-de", "skill_id": "weather"})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	want := map[string]any{
		"client_name": "cli",
		"session":     "abc",
		"lang":        "de-de",
		"skill_id":    "weather",
		"target":      "cli",
	}
	if !reflect.DeepEqual(reply.Context, want) {
		t.Errorf("Context = %v, want %v", reply.Context, want)
	}
	if !reflect.DeepEqual(reply.Data, map[string]any{"ok": true}) {
		t.Errorf("Data = %v, want data passed through unmodified", reply.Data)
	}
}

// Reply copies the source context instead of aliasing it: mutating the
// reply must not reach back into the message it answers, and the
// caller's context argument is never written to.
func TestReplyDoesNotAliasContexts(t *testing.T) {
	sourceContext := map[string]any{"client_name": "cli"}
	source := New("request", nil, sourceContext)
	callerContext := map[string]any{"client_name": "gui"}

	reply, err := source.Reply("ack", map[string]any{}, callerContext)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}

	reply.Context["injected"] = true
	reply.Context[KeyClientName] = "changed"

	if want := map[string]any{"client_name": "cli"}; !reflect.DeepEqual(source.Context, want) {
		t.Errorf("source context = %v, want %v", source.Context, want)
	}
	if want := map[string]any{"client_name": "gui"}; !reflect.DeepEqual(callerContext, want) {
		t.Errorf("caller context = %v, want %v (no target written)", callerContext, want)
	}
}

func TestReplyNilSourceContext(t *testing.T) {
	source := New("request", nil, nil)
	reply, err := source.Reply("ack", map[string]any{}, nil)
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Context == nil {
		t.Fatal("reply context is nil, want empty map")
	}
	if len(reply.Context) != 0 {
		t.Errorf("Context = %v, want empty", reply.Context)
	}
	if source.Context != nil {
		t.Errorf("source context = %v, want still nil", source.Context)
	}
}

func TestReplyRejectsNilData(t *testing.T) {
	source := New("request", nil, map[string]any{"client_name": "cli"})

	_, err := source.Reply("ack", nil, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Reply error = %v, want ErrInvalidArgument", err)
	}
	var argumentErr *InvalidArgumentError
	if !errors.As(err, &argumentErr) {
		t.Fatalf("Reply error = %T, want *InvalidArgumentError", err)
	}
	if argumentErr.Operation != "reply" || argumentErr.Argument != "data" {
		t.Errorf("error = %+v, want reply/data", argumentErr)
	}
}

func TestResponse(t *testing.T) {
	source := New("skill.weather.forecast", nil, map[string]any{"client_name": "cli"})

	response, err := source.Response(map[string]any{"forecast": "sunny"}, nil)
	if err != nil {
		t.Fatalf("Response: %v", err)
	}
	if response.Type != "skill.weather.forecast.response" {
		t.Errorf("Type = %q", response.Type)
	}
	if response.Context[KeyTarget] != "cli" {
		t.Errorf("target = %v, want cli", response.Context[KeyTarget])
	}
}

func TestPublishStripsTarget(t *testing.T) {
	tests := []struct {
		name          string
		sourceContext map[string]any
		context       map[string]any
		want          map[string]any
	}{
		{
			name:          "inherited target removed",
			sourceContext: map[string]any{"target": "X"},
			want:          map[string]any{},
		},
		{
			name:          "caller target removed",
			sourceContext: map[string]any{"client_name": "cli"},
			context:       map[string]any{"target": "Y", "skill_id": "timer"},
			want:          map[string]any{"client_name": "cli", "skill_id": "timer"},
		},
		{
			name: "nil source context",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := New("request", nil, tt.sourceContext)
			published := source.Publish("evt", map[string]any{}, tt.context)
			if !reflect.DeepEqual(published.Context, tt.want) {
				t.Errorf("Context = %v, want %v", published.Context, tt.want)
			}
			if _, has := published.Context[KeyTarget]; has {
				t.Error("published context still has a target")
			}
		})
	}
}

func TestPublishDoesNotAliasContexts(t *testing.T) {
	source := New("request", nil, map[string]any{"target": "X", "client_name": "cli"})
	callerContext := map[string]any{"target": "Y"}

	published := source.Publish("evt", nil, callerContext)
	published.Context["extra"] = 1.0
	delete(published.Context, KeyClientName)

	if want := map[string]any{"target": "X", "client_name": "cli"}; !reflect.DeepEqual(source.Context, want) {
		t.Errorf("source context = %v, want %v", source.Context, want)
	}
	if want := map[string]any{"target": "Y"}; !reflect.DeepEqual(callerContext, want) {
		t.Errorf("caller context = %v, want %v", callerContext, want)
	}
	if published.Data == nil {
		t.Error("published Data is nil, want empty map")
	}
}

func TestSourceReusableAfterDerivation(t *testing.T) {
	source := New("request", map[string]any{"q": "time"}, map[string]any{"client_name": "cli"})
	before, err := source.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if _, err := source.Reply("ack", map[string]any{"target": "other"}, map[string]any{"k": "v"}); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	source.Publish("evt", nil, map[string]any{"k": "v"})

	after, err := source.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if before != after {
		t.Errorf("source changed by derivation:\n  before %s\n  after  %s", before, after)
	}
}

func TestDeserializeSerializePreservesNumbers(t *testing.T) {
	inputs := []string{
		`{"type":"stt","data":{"id":9007199254740993},"context":null}`,
		`{"type":"stt","data":{"confidence":0.870,"exp":6.02e23,"id":-9223372036854775808,"ns":18446744073709551615},"context":{"seq":12}}`,
		`{"type":"stt","data":{"scores":[1,2.5,3e-7]},"context":null}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			message, err := Deserialize(input)
			if err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			serialized, err := message.Serialize()
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if serialized != input {
				t.Errorf("re-serialized\n  got  %s\n  want %s", serialized, input)
			}
		})
	}
}

func TestSerializeRoundTripInt64(t *testing.T) {
	const id = int64(9007199254740993)
	serialized, err := New("stt", map[string]any{"id": id}, nil).Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if want := `{"type":"stt","data":{"id":9007199254740993},"context":null}`; serialized != want {
		t.Fatalf("Serialize = %s, want %s", serialized, want)
	}

	decoded, err := Deserialize(serialized)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	number, ok := decoded.Data["id"].(json.Number)
	if !ok {
		t.Fatalf("id decoded as %T, want json.Number", decoded.Data["id"])
	}
	if got, err := number.Int64(); err != nil || got != id {
		t.Errorf("id = %v (%v), want %d", got, err, id)
	}
}

func TestDeserializeKeepsUntypedMessagesUntyped(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: `{"type":null,"data":{},"context":null}`, want: `{"type":null,"data":{},"context":null}`},
		{input: `{"data":{"a":"b"}}`, want: `{"type":null,"data":{"a":"b"},"context":null}`},
		{input: `{"type":5,"data":{},"context":null}`, want: `{"type":5,"data":{},"context":null}`},
		{input: `{"type":["a","b"],"data":{},"context":null}`, want: `{"type":["a","b"],"data":{},"context":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			message, err := Deserialize(tt.input)
			if err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			if message.Type != "" {
				t.Errorf("Type = %q, want empty", message.Type)
			}
			serialized, err := message.Serialize()
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if serialized != tt.want {
				t.Errorf("re-serialized\n  got  %s\n  want %s", serialized, tt.want)
			}
		})
	}
}

func TestDecodedTypeYieldsToAssignedType(t *testing.T) {
	message, err := Deserialize(`{"type":null}`)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	message.Type = "speak"
	serialized, err := message.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if want := `{"type":"speak","data":{},"context":null}`; serialized != want {
		t.Errorf("Serialize = %s, want %s", serialized, want)
	}
}
