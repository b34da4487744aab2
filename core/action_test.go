package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEnvelopeDecodeVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ActionKind
	}{
		{name: "move_to array", raw: `{"action":"move_to","parameters":{"destination":[3,7]}}`, want: ActionMoveTo},
		{name: "move_to object", raw: `{"action":"move_to","parameters":{"destination":{"x":3,"y":7}}}`, want: ActionMoveTo},
		{name: "interact_with", raw: `{"action":"interact_with","parameters":{"entity_id":"bed_1","interaction_name":"sleep"}}`, want: ActionInteractWith},
		{name: "wait no params", raw: `{"action":"wait"}`, want: ActionWait},
		{name: "respond accept", raw: `{"action":"respond_to_interaction_bid","parameters":{"bid_id":"b1","accept":true}}`, want: ActionRespondToBid},
		{name: "batch wildcard", raw: `{"action":"batch_reject_interaction_bids","parameters":{"ids":"*","reason":"busy"}}`, want: ActionBatchRejectBids},
		{name: "batch list", raw: `{"action":"batch_reject_interaction_bids","parameters":{"ids":["b1","b2"],"reason":"busy"}}`, want: ActionBatchRejectBids},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			if err := json.Unmarshal([]byte(tt.raw), &env); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			action, err := env.Decode()
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if action.Kind() != tt.want {
				t.Errorf("kind = %s, want %s", action.Kind(), tt.want)
			}
		})
	}
}

func TestEnvelopeDecodeMoveToCoordinates(t *testing.T) {
	env := Envelope{Action: "move_to", Parameters: map[string]any{"destination": []any{float64(3), float64(7)}}}
	action, err := env.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	move, ok := action.(MoveTo)
	if !ok {
		t.Fatalf("expected MoveTo, got %T", action)
	}
	if move.Destination == nil || move.Destination.X != 3 || move.Destination.Y != 7 {
		t.Errorf("destination = %v, want (3, 7)", move.Destination)
	}
}

func TestEnvelopeDecodeUnknownAction(t *testing.T) {
	env := Envelope{Action: "teleport"}
	if _, err := env.Decode(); err == nil {
		t.Fatal("expected error for unknown action kind")
	}
}

func TestEnvelopeDecodeMissingParamsSurvive(t *testing.T) {
	// Missing parameters are the validator's concern, not the decoder's.
	action, err := Envelope{Action: "move_to"}.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if action.(MoveTo).Destination != nil {
		t.Error("missing destination should decode as nil")
	}

	action, err = Envelope{Action: "respond_to_interaction_bid", Parameters: map[string]any{"bid_id": "b1"}}.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if action.(RespondToBid).Accept != nil {
		t.Error("missing accept should decode as nil")
	}
}

func TestEnvelopeDecodeBadTypes(t *testing.T) {
	bad := []Envelope{
		{Action: "interact_with", Parameters: map[string]any{"entity_id": 42}},
		{Action: "respond_to_interaction_bid", Parameters: map[string]any{"accept": "yes"}},
		{Action: "move_to", Parameters: map[string]any{"destination": "over there"}},
		{Action: "batch_reject_interaction_bids", Parameters: map[string]any{"ids": "some"}},
	}
	for _, env := range bad {
		if _, err := env.Decode(); err == nil {
			t.Errorf("%s: expected type error for %v", env.Action, env.Parameters)
		}
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	actions := []Action{
		MoveTo{Destination: &GridPos{X: 1, Y: 2}},
		InteractWith{EntityID: "bed_1", InteractionName: "sleep"},
		RespondToBid{BidID: "b1", Accept: boolPtr(false), Reason: "busy"},
		BatchRejectBids{All: true, Reason: "tired"},
		Wait{},
	}
	for _, a := range actions {
		data, err := json.Marshal(NewEnvelope(a))
		if err != nil {
			t.Fatalf("%s: marshal: %v", a.Kind(), err)
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("%s: unmarshal: %v", a.Kind(), err)
		}
		decoded, err := env.Decode()
		if err != nil {
			t.Fatalf("%s: decode: %v", a.Kind(), err)
		}
		if decoded.Kind() != a.Kind() {
			t.Errorf("round trip changed kind: %s -> %s", a.Kind(), decoded.Kind())
		}
	}
}

func TestFormatAction(t *testing.T) {
	if got := FormatAction(Wait{}); got != "wait(no parameters)" {
		t.Errorf("FormatAction(Wait) = %q", got)
	}
	got := FormatAction(InteractWith{EntityID: "bed_1", InteractionName: "sleep"})
	if !strings.Contains(got, "entity_id=bed_1") || !strings.Contains(got, "interaction_name=sleep") {
		t.Errorf("FormatAction(InteractWith) = %q", got)
	}
}
