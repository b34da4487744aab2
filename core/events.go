package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// EventType enumerates the mind events the simulation can deliver.
type EventType string

const (
	EventBidPending             EventType = "INTERACTION_BID_PENDING"
	EventBidRejected            EventType = "INTERACTION_BID_REJECTED"
	EventBidReceived            EventType = "INTERACTION_BID_RECEIVED"
	EventInteractionStarted     EventType = "INTERACTION_STARTED"
	EventInteractionCanceled    EventType = "INTERACTION_CANCELED"
	EventInteractionFinished    EventType = "INTERACTION_FINISHED"
	EventInteractionObservation EventType = "INTERACTION_OBSERVATION"
	EventMovementCompleted      EventType = "MOVEMENT_COMPLETED"
	EventActionChosen           EventType = "ACTION_CHOSEN"
	EventError                  EventType = "ERROR"
)

// Movement completion statuses reported by the simulation.
const (
	MovementArrived      = "ARRIVED"
	MovementStoppedShort = "STOPPED_SHORT"
	MovementBlocked      = "BLOCKED"
)

// EventPayload carries the typed fields an event may use. Unused fields
// stay zero and are omitted on the wire.
type EventPayload struct {
	InteractionName string `json:"interaction_name,omitempty"`
	Reason          string `json:"reason,omitempty"`
	Message         string `json:"message,omitempty"`

	BidID      string `json:"bid_id,omitempty"`
	BidderID   string `json:"bidder_id,omitempty"`
	BidderName string `json:"bidder_name,omitempty"`

	Status              string   `json:"status,omitempty"`
	ActualDestination   *GridPos `json:"actual_destination,omitempty"`
	IntendedDestination *GridPos `json:"intended_destination,omitempty"`

	Action     string         `json:"action,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// MindEvent is one event delivered to (or recorded by) a mind.
type MindEvent struct {
	Timestamp int64        `json:"timestamp"`
	Type      EventType    `json:"event_type"`
	Payload   EventPayload `json:"payload"`
}

// Describe renders the event as one natural-language line for prompts.
func (e MindEvent) Describe() string {
	p := e.Payload
	name := p.InteractionName
	if name == "" {
		name = "unknown"
	}

	switch e.Type {
	case EventBidPending:
		return fmt.Sprintf("Interaction bid pending: %s", name)
	case EventBidReceived:
		return fmt.Sprintf("Interaction bid received: %s", name)
	case EventBidRejected:
		if p.Reason != "" {
			return fmt.Sprintf("Interaction bid rejected: %s (Reason: %s)", name, p.Reason)
		}
		return fmt.Sprintf("Interaction bid rejected: %s", name)
	case EventInteractionStarted:
		return fmt.Sprintf("Interaction started: %s", name)
	case EventInteractionCanceled:
		return fmt.Sprintf("Interaction canceled: %s", name)
	case EventInteractionFinished:
		return fmt.Sprintf("Interaction finished: %s", name)
	case EventInteractionObservation:
		if p.Message != "" {
			return fmt.Sprintf("Interaction update: %s", p.Message)
		}
		return fmt.Sprintf("Interaction update: %s", name)
	case EventMovementCompleted:
		return describeMovement(p)
	case EventActionChosen:
		if len(p.Parameters) > 0 {
			entries := make([]string, 0, len(p.Parameters))
			for _, k := range sortedKeys(p.Parameters) {
				entries = append(entries, fmt.Sprintf("%s=%v", k, p.Parameters[k]))
			}
			return fmt.Sprintf("Chose action: %s(%s)", p.Action, strings.Join(entries, ", "))
		}
		return fmt.Sprintf("Chose action: %s", p.Action)
	case EventError:
		msg := p.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return fmt.Sprintf("Error: %s", msg)
	default:
		return fmt.Sprintf("Unknown event type: %s", e.Type)
	}
}

func describeMovement(p EventPayload) string {
	switch p.Status {
	case MovementArrived:
		if p.ActualDestination != nil {
			return fmt.Sprintf("Arrived at %s", p.ActualDestination)
		}
		return "Arrived at destination"
	case MovementStoppedShort:
		if p.ActualDestination != nil && p.IntendedDestination != nil {
			return fmt.Sprintf("Moved to %s, intended destination %s was blocked",
				p.ActualDestination, p.IntendedDestination)
		}
		return "Stopped short of intended destination"
	case MovementBlocked:
		if p.IntendedDestination != nil {
			return fmt.Sprintf("Could not move to %s, no valid path", p.IntendedDestination)
		}
		return "Could not move, no valid path"
	default:
		return fmt.Sprintf("Movement completed with status %s", p.Status)
	}
}

// PendingBid is one inbound interaction bid awaiting a response.
type PendingBid struct {
	BidID           string `json:"bid_id"`
	BidderID        string `json:"bidder_id"`
	BidderName      string `json:"bidder_name"`
	InteractionName string `json:"interaction_name"`
}

// BidRegistry tracks pending interaction bids for one mind. Bids are
// added from inbound events and removed exactly when an accepted
// respond_to_interaction_bid action references them.
type BidRegistry struct {
	mu   sync.RWMutex
	bids map[string]PendingBid
}

// NewBidRegistry returns an empty registry.
func NewBidRegistry() *BidRegistry {
	return &BidRegistry{bids: make(map[string]PendingBid)}
}

// Add registers a pending bid, replacing any bid with the same id.
func (r *BidRegistry) Add(bid PendingBid) {
	if bid.BidID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids[bid.BidID] = bid
}

// Get returns the bid with the given id.
func (r *BidRegistry) Get(bidID string) (PendingBid, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bid, ok := r.bids[bidID]
	return bid, ok
}

// Remove deletes a bid; it reports whether the bid was present.
func (r *BidRegistry) Remove(bidID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bids[bidID]
	delete(r.bids, bidID)
	return ok
}

// RemoveAll clears every pending bid and returns how many were removed.
func (r *BidRegistry) RemoveAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.bids)
	r.bids = make(map[string]PendingBid)
	return n
}

// RemoveByBidder deletes all bids from the given bidder entity.
func (r *BidRegistry) RemoveByBidder(bidderID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, bid := range r.bids {
		if bid.BidderID == bidderID {
			delete(r.bids, id)
			n++
		}
	}
	return n
}

// Len returns the number of pending bids.
func (r *BidRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bids)
}

// IDs returns the pending bid ids in sorted order.
func (r *BidRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.bids))
	for id := range r.bids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BidderIDs returns the distinct bidder entity ids in sorted order.
func (r *BidRegistry) BidderIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.bids))
	for _, bid := range r.bids {
		seen[bid.BidderID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns the pending bids ordered by bid id.
func (r *BidRegistry) Snapshot() []PendingBid {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bids := make([]PendingBid, 0, len(r.bids))
	for _, bid := range r.bids {
		bids = append(bids, bid)
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].BidID < bids[j].BidID })
	return bids
}

// BidFromEvent extracts a pending bid from a bid event payload.
func BidFromEvent(e MindEvent) (PendingBid, bool) {
	if e.Type != EventBidPending && e.Type != EventBidReceived {
		return PendingBid{}, false
	}
	if e.Payload.BidID == "" {
		return PendingBid{}, false
	}
	name := e.Payload.BidderName
	if name == "" {
		name = e.Payload.BidderID
	}
	return PendingBid{
		BidID:           e.Payload.BidID,
		BidderID:        e.Payload.BidderID,
		BidderName:      name,
		InteractionName: e.Payload.InteractionName,
	}, true
}
