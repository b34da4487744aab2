package core

import (
	"errors"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func lockedObservation() *Observation {
	return &Observation{
		EntityID:              "npc_1",
		CurrentSimulationTime: 100,
		Status: &StatusObservation{
			Position:       GridPos{X: 3, Y: 4},
			MovementLocked: true,
			CurrentInteraction: &ActiveInteraction{
				InteractionID:   "int_1",
				InteractionName: "conversation",
			},
			ControllerState: ControllerInteracting,
		},
	}
}

func visionObservation() *Observation {
	return &Observation{
		EntityID:              "npc_1",
		CurrentSimulationTime: 100,
		Status: &StatusObservation{
			Position:        GridPos{X: 3, Y: 4},
			ControllerState: ControllerIdle,
		},
		Vision: &VisionObservation{
			VisibleEntities: []EntityData{
				{
					EntityID:    "bed_1",
					DisplayName: "Bed",
					Position:    GridPos{X: 5, Y: 5},
					Interactions: map[string]InteractionData{
						"sleep": {Description: "Sleep in the bed", NeedsFilled: []string{"energy"}},
					},
				},
			},
		},
	}
}

func TestMovementLock(t *testing.T) {
	obs := lockedObservation()

	rejected := []Action{
		MoveTo{Destination: &GridPos{X: 1, Y: 1}},
		MoveDirection{Direction: "north"},
		Wander{},
	}
	for _, a := range rejected {
		err := ValidateAction(a, obs, NewBidRegistry())
		if err == nil {
			t.Fatalf("%s: expected rejection while movement locked", a.Kind())
		}
		var locked *MovementLockedError
		if !errors.As(err, &locked) {
			t.Fatalf("%s: expected MovementLockedError, got %v", a.Kind(), err)
		}
	}

	accepted := []Action{
		Wait{},
		Continue{},
		CancelInteraction{},
	}
	for _, a := range accepted {
		if err := ValidateAction(a, obs, NewBidRegistry()); err != nil {
			t.Fatalf("%s: expected acceptance while movement locked, got %v", a.Kind(), err)
		}
	}
}

func TestInteractWithHallucinatedEntity(t *testing.T) {
	obs := visionObservation()

	err := ValidateAction(InteractWith{EntityID: "ghost_9", InteractionName: "sleep"}, obs, nil)
	var unknown *UnknownEntityError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownEntityError, got %v", err)
	}
	if !strings.Contains(err.Error(), "bed_1") {
		t.Errorf("error should list visible ids, got %q", err.Error())
	}
}

func TestInteractWithUnknownInteraction(t *testing.T) {
	obs := visionObservation()

	err := ValidateAction(InteractWith{EntityID: "bed_1", InteractionName: "eat"}, obs, nil)
	var unknown *UnknownInteractionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownInteractionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "sleep") {
		t.Errorf("error should list available interactions, got %q", err.Error())
	}
}

func TestInteractWithNoVisionAcceptedProvisionally(t *testing.T) {
	obs := &Observation{EntityID: "npc_1", CurrentSimulationTime: 10}

	err := ValidateAction(InteractWith{EntityID: "anything", InteractionName: "whatever"}, obs, nil)
	if err != nil {
		t.Fatalf("expected provisional acceptance without vision, got %v", err)
	}
}

func TestInteractWithMissingParameters(t *testing.T) {
	obs := visionObservation()

	err := ValidateAction(InteractWith{InteractionName: "sleep"}, obs, nil)
	var missing *MissingParameterError
	if !errors.As(err, &missing) || missing.Param != "entity_id" {
		t.Fatalf("expected missing entity_id, got %v", err)
	}

	err = ValidateAction(InteractWith{EntityID: "bed_1"}, obs, nil)
	if !errors.As(err, &missing) || missing.Param != "interaction_name" {
		t.Fatalf("expected missing interaction_name, got %v", err)
	}
}

func TestMoveToRequiresDestination(t *testing.T) {
	obs := visionObservation()

	err := ValidateAction(MoveTo{}, obs, nil)
	var missing *MissingParameterError
	if !errors.As(err, &missing) || missing.Param != "destination" {
		t.Fatalf("expected missing destination, got %v", err)
	}

	if err := ValidateAction(MoveTo{Destination: &GridPos{X: 7, Y: 2}}, obs, nil); err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestRespondToBid(t *testing.T) {
	bids := NewBidRegistry()
	bids.Add(PendingBid{BidID: "bid_1", BidderID: "npc_2", BidderName: "Alice", InteractionName: "conversation"})
	obs := visionObservation()

	tests := []struct {
		name      string
		action    RespondToBid
		wantParam string
		wantBid   bool
	}{
		{name: "accept", action: RespondToBid{BidID: "bid_1", Accept: boolPtr(true)}},
		{name: "reject with reason", action: RespondToBid{BidID: "bid_1", Accept: boolPtr(false), Reason: "busy"}},
		{name: "missing bid_id", action: RespondToBid{Accept: boolPtr(true)}, wantParam: "bid_id"},
		{name: "missing accept", action: RespondToBid{BidID: "bid_1"}, wantParam: "accept"},
		{name: "reject without reason", action: RespondToBid{BidID: "bid_1", Accept: boolPtr(false)}, wantParam: "reason"},
		{name: "unknown bid", action: RespondToBid{BidID: "bid_404", Accept: boolPtr(true)}, wantBid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAction(tt.action, obs, bids)
			switch {
			case tt.wantParam != "":
				var missing *MissingParameterError
				if !errors.As(err, &missing) || missing.Param != tt.wantParam {
					t.Fatalf("expected missing %s, got %v", tt.wantParam, err)
				}
			case tt.wantBid:
				var unknown *UnknownBidError
				if !errors.As(err, &unknown) {
					t.Fatalf("expected UnknownBidError, got %v", err)
				}
				if !strings.Contains(err.Error(), "bid_1") {
					t.Errorf("error should list known bids, got %q", err.Error())
				}
			default:
				if err != nil {
					t.Fatalf("expected acceptance, got %v", err)
				}
			}
		})
	}
}

func TestBatchRejectBids(t *testing.T) {
	bids := NewBidRegistry()
	bids.Add(PendingBid{BidID: "bid_1", BidderID: "npc_2", BidderName: "Alice"})
	bids.Add(PendingBid{BidID: "bid_2", BidderID: "npc_3", BidderName: "Bob"})
	obs := visionObservation()

	if err := ValidateAction(BatchRejectBids{All: true, Reason: "tired"}, obs, bids); err != nil {
		t.Fatalf("wildcard: expected acceptance, got %v", err)
	}
	if err := ValidateAction(BatchRejectBids{IDs: []string{"bid_1", "npc_3"}, Reason: "tired"}, obs, bids); err != nil {
		t.Fatalf("bid and bidder ids: expected acceptance, got %v", err)
	}

	err := ValidateAction(BatchRejectBids{IDs: []string{"bid_9"}, Reason: "tired"}, obs, bids)
	var unknown *UnknownBidTargetError
	if !errors.As(err, &unknown) || unknown.Entry != "bid_9" {
		t.Fatalf("expected UnknownBidTargetError for bid_9, got %v", err)
	}

	err = ValidateAction(BatchRejectBids{All: true}, obs, bids)
	var missing *MissingParameterError
	if !errors.As(err, &missing) || missing.Param != "reason" {
		t.Fatalf("expected missing reason, got %v", err)
	}

	err = ValidateAction(BatchRejectBids{Reason: "tired"}, obs, bids)
	if !errors.As(err, &missing) || missing.Param != "ids" {
		t.Fatalf("expected missing ids, got %v", err)
	}
}

func TestActInInteraction(t *testing.T) {
	idle := visionObservation()
	err := ValidateAction(ActInInteraction{Message: "hi"}, idle, nil)
	var noActive *NoActiveInteractionError
	if !errors.As(err, &noActive) {
		t.Fatalf("expected NoActiveInteractionError, got %v", err)
	}

	conv := lockedObservation()
	err = ValidateAction(ActInInteraction{}, conv, nil)
	var missing *MissingParameterError
	if !errors.As(err, &missing) || missing.Param != "message" {
		t.Fatalf("expected missing message in conversation, got %v", err)
	}
	if err := ValidateAction(ActInInteraction{Message: "hello"}, conv, nil); err != nil {
		t.Fatalf("expected acceptance with message, got %v", err)
	}

	resting := lockedObservation()
	resting.Status.CurrentInteraction.InteractionName = "sleep"
	if err := ValidateAction(ActInInteraction{}, resting, nil); err != nil {
		t.Fatalf("non-conversation interaction should not require message, got %v", err)
	}
}

func TestIsActionError(t *testing.T) {
	if !IsActionError(&MovementLockedError{Kind: ActionWander}) {
		t.Error("MovementLockedError should classify as action error")
	}
	if IsActionError(errors.New("plain")) {
		t.Error("plain error should not classify as action error")
	}
}
