package core

import (
	"strings"
	"testing"
)

func TestMindEventDescribe(t *testing.T) {
	tests := []struct {
		name  string
		event MindEvent
		want  string
	}{
		{
			name:  "bid pending",
			event: MindEvent{Type: EventBidPending, Payload: EventPayload{InteractionName: "conversation"}},
			want:  "Interaction bid pending: conversation",
		},
		{
			name:  "bid rejected with reason",
			event: MindEvent{Type: EventBidRejected, Payload: EventPayload{InteractionName: "conversation", Reason: "busy"}},
			want:  "Interaction bid rejected: conversation (Reason: busy)",
		},
		{
			name:  "movement arrived",
			event: MindEvent{Type: EventMovementCompleted, Payload: EventPayload{Status: MovementArrived, ActualDestination: &GridPos{X: 2, Y: 3}}},
			want:  "Arrived at (2, 3)",
		},
		{
			name: "movement stopped short",
			event: MindEvent{Type: EventMovementCompleted, Payload: EventPayload{
				Status:              MovementStoppedShort,
				ActualDestination:   &GridPos{X: 2, Y: 3},
				IntendedDestination: &GridPos{X: 5, Y: 5},
			}},
			want: "Moved to (2, 3), intended destination (5, 5) was blocked",
		},
		{
			name:  "action chosen",
			event: MindEvent{Type: EventActionChosen, Payload: EventPayload{Action: "wait"}},
			want:  "Chose action: wait",
		},
		{
			name:  "error",
			event: MindEvent{Type: EventError, Payload: EventPayload{Message: "boom"}},
			want:  "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Describe(); got != tt.want {
				t.Errorf("Describe = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBidRegistry(t *testing.T) {
	r := NewBidRegistry()
	r.Add(PendingBid{BidID: "b1", BidderID: "npc_2", BidderName: "Alice", InteractionName: "conversation"})
	r.Add(PendingBid{BidID: "b2", BidderID: "npc_2", BidderName: "Alice", InteractionName: "trade"})
	r.Add(PendingBid{BidID: "b3", BidderID: "npc_3", BidderName: "Bob", InteractionName: "conversation"})
	r.Add(PendingBid{}) // no id, ignored

	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	if got := strings.Join(r.IDs(), ","); got != "b1,b2,b3" {
		t.Errorf("IDs = %s", got)
	}
	if got := strings.Join(r.BidderIDs(), ","); got != "npc_2,npc_3" {
		t.Errorf("BidderIDs = %s", got)
	}

	if !r.Remove("b1") {
		t.Error("Remove(b1) should report present")
	}
	if r.Remove("b1") {
		t.Error("second Remove(b1) should report absent")
	}

	if n := r.RemoveByBidder("npc_2"); n != 1 {
		t.Errorf("RemoveByBidder = %d, want 1", n)
	}
	if n := r.RemoveAll(); n != 1 {
		t.Errorf("RemoveAll = %d, want 1", n)
	}
	if r.Len() != 0 {
		t.Errorf("Len after clear = %d", r.Len())
	}
}

func TestBidFromEvent(t *testing.T) {
	bid, ok := BidFromEvent(MindEvent{
		Type:    EventBidPending,
		Payload: EventPayload{BidID: "b1", BidderID: "npc_2", InteractionName: "conversation"},
	})
	if !ok {
		t.Fatal("expected bid from pending event")
	}
	if bid.BidderName != "npc_2" {
		t.Errorf("BidderName should fall back to BidderID, got %q", bid.BidderName)
	}

	if _, ok := BidFromEvent(MindEvent{Type: EventInteractionStarted}); ok {
		t.Error("non-bid event should not produce a bid")
	}
	if _, ok := BidFromEvent(MindEvent{Type: EventBidPending}); ok {
		t.Error("bid event without id should not produce a bid")
	}
}
