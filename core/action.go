package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ActionKind enumerates the action variants the simulation executes.
type ActionKind string

const (
	ActionMoveTo            ActionKind = "move_to"
	ActionMoveDirection     ActionKind = "move_direction"
	ActionInteractWith      ActionKind = "interact_with"
	ActionWander            ActionKind = "wander"
	ActionWait              ActionKind = "wait"
	ActionContinue          ActionKind = "continue"
	ActionCancelInteraction ActionKind = "cancel_interaction"
	ActionActInInteraction  ActionKind = "act_in_interaction"
	ActionRespondToBid      ActionKind = "respond_to_interaction_bid"
	ActionBatchRejectBids   ActionKind = "batch_reject_interaction_bids"
)

// ActionKinds lists every valid action kind.
var ActionKinds = []ActionKind{
	ActionMoveTo,
	ActionMoveDirection,
	ActionInteractWith,
	ActionWander,
	ActionWait,
	ActionContinue,
	ActionCancelInteraction,
	ActionActInInteraction,
	ActionRespondToBid,
	ActionBatchRejectBids,
}

// Action is one decided action. Each variant carries only the fields it
// needs; the generic parameter map exists only at the wire boundary
// (see Envelope).
type Action interface {
	Kind() ActionKind
	// parameters returns the wire-format parameter map. Nil-valued and
	// empty fields are omitted.
	parameters() map[string]any
}

// MoveTo moves the agent to a grid position. Destination is a pointer
// so a missing parameter is distinguishable from (0, 0).
type MoveTo struct {
	Destination *GridPos
}

func (MoveTo) Kind() ActionKind { return ActionMoveTo }

func (a MoveTo) parameters() map[string]any {
	if a.Destination == nil {
		return nil
	}
	return map[string]any{"destination": *a.Destination}
}

// MoveDirection moves the agent one step in a named direction.
type MoveDirection struct {
	Direction string
}

func (MoveDirection) Kind() ActionKind { return ActionMoveDirection }

func (a MoveDirection) parameters() map[string]any {
	if a.Direction == "" {
		return nil
	}
	return map[string]any{"direction": a.Direction}
}

// InteractWith starts an interaction with a visible entity.
type InteractWith struct {
	EntityID        string
	InteractionName string
}

func (InteractWith) Kind() ActionKind { return ActionInteractWith }

func (a InteractWith) parameters() map[string]any {
	p := map[string]any{}
	if a.EntityID != "" {
		p["entity_id"] = a.EntityID
	}
	if a.InteractionName != "" {
		p["interaction_name"] = a.InteractionName
	}
	return p
}

// Wander moves the agent aimlessly.
type Wander struct{}

func (Wander) Kind() ActionKind           { return ActionWander }
func (Wander) parameters() map[string]any { return nil }

// Wait keeps the agent idle and observing. It is also the safe
// fallback when action selection cannot produce valid output.
type Wait struct{}

func (Wait) Kind() ActionKind           { return ActionWait }
func (Wait) parameters() map[string]any { return nil }

// Continue keeps the current movement or interaction going unchanged.
type Continue struct{}

func (Continue) Kind() ActionKind           { return ActionContinue }
func (Continue) parameters() map[string]any { return nil }

// CancelInteraction cancels the agent's active interaction.
type CancelInteraction struct{}

func (CancelInteraction) Kind() ActionKind           { return ActionCancelInteraction }
func (CancelInteraction) parameters() map[string]any { return nil }

// ActInInteraction participates in the active interaction. Message is
// required when the interaction is a conversation.
type ActInInteraction struct {
	Message string
}

func (ActInInteraction) Kind() ActionKind { return ActionActInInteraction }

func (a ActInInteraction) parameters() map[string]any {
	if a.Message == "" {
		return nil
	}
	return map[string]any{"message": a.Message}
}

// RespondToBid accepts or rejects a pending interaction bid. Accept is
// a pointer so a missing parameter is distinguishable from false.
type RespondToBid struct {
	BidID  string
	Accept *bool
	Reason string
}

func (RespondToBid) Kind() ActionKind { return ActionRespondToBid }

func (a RespondToBid) parameters() map[string]any {
	p := map[string]any{}
	if a.BidID != "" {
		p["bid_id"] = a.BidID
	}
	if a.Accept != nil {
		p["accept"] = *a.Accept
	}
	if a.Reason != "" {
		p["reason"] = a.Reason
	}
	return p
}

// BatchRejectBids rejects several pending bids at once. All reflects
// the "*" wildcard; otherwise IDs holds bid ids or bidder entity ids.
type BatchRejectBids struct {
	All    bool
	IDs    []string
	Reason string
}

func (BatchRejectBids) Kind() ActionKind { return ActionBatchRejectBids }

func (a BatchRejectBids) parameters() map[string]any {
	p := map[string]any{}
	if a.All {
		p["ids"] = "*"
	} else if a.IDs != nil {
		p["ids"] = a.IDs
	}
	if a.Reason != "" {
		p["reason"] = a.Reason
	}
	return p
}

// FormatAction renders an action as "kind(k=v, ...)" for prompts and
// event history.
func FormatAction(a Action) string {
	params := a.parameters()
	if len(params) == 0 {
		return fmt.Sprintf("%s(no parameters)", a.Kind())
	}
	entries := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		entries = append(entries, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return fmt.Sprintf("%s(%s)", a.Kind(), strings.Join(entries, ", "))
}

// Envelope is the wire form of an action: a kind tag plus a loose
// parameter map. It exists only at serialization boundaries (model
// output, transport responses); everything inside the mind works with
// the typed variants.
type Envelope struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// NewEnvelope converts a typed action to its wire form.
func NewEnvelope(a Action) Envelope {
	return Envelope{Action: string(a.Kind()), Parameters: a.parameters()}
}

// Decode converts the wire form into a typed action. Unknown kinds and
// malformed parameter values fail; missing parameters do not — those
// are the validator's concern, so their absence survives decoding
// (nil pointers, empty strings).
func (e Envelope) Decode() (Action, error) {
	switch ActionKind(e.Action) {
	case ActionMoveTo:
		dest, err := decodeGridPos(e.Parameters, "destination")
		if err != nil {
			return nil, err
		}
		return MoveTo{Destination: dest}, nil
	case ActionMoveDirection:
		dir, err := decodeString(e.Parameters, "direction")
		if err != nil {
			return nil, err
		}
		return MoveDirection{Direction: dir}, nil
	case ActionInteractWith:
		entityID, err := decodeString(e.Parameters, "entity_id")
		if err != nil {
			return nil, err
		}
		name, err := decodeString(e.Parameters, "interaction_name")
		if err != nil {
			return nil, err
		}
		return InteractWith{EntityID: entityID, InteractionName: name}, nil
	case ActionWander:
		return Wander{}, nil
	case ActionWait:
		return Wait{}, nil
	case ActionContinue:
		return Continue{}, nil
	case ActionCancelInteraction:
		return CancelInteraction{}, nil
	case ActionActInInteraction:
		msg, err := decodeString(e.Parameters, "message")
		if err != nil {
			return nil, err
		}
		return ActInInteraction{Message: msg}, nil
	case ActionRespondToBid:
		bidID, err := decodeString(e.Parameters, "bid_id")
		if err != nil {
			return nil, err
		}
		reason, err := decodeString(e.Parameters, "reason")
		if err != nil {
			return nil, err
		}
		accept, err := decodeBool(e.Parameters, "accept")
		if err != nil {
			return nil, err
		}
		return RespondToBid{BidID: bidID, Accept: accept, Reason: reason}, nil
	case ActionBatchRejectBids:
		reason, err := decodeString(e.Parameters, "reason")
		if err != nil {
			return nil, err
		}
		all, ids, err := decodeIDList(e.Parameters, "ids")
		if err != nil {
			return nil, err
		}
		return BatchRejectBids{All: all, IDs: ids, Reason: reason}, nil
	default:
		return nil, fmt.Errorf("unknown action %q (valid: %s)", e.Action, joinKinds())
	}
}

func joinKinds() string {
	names := make([]string, len(ActionKinds))
	for i, k := range ActionKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func decodeString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", key, v)
	}
	return s, nil
}

func decodeBool(params map[string]any, key string) (*bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be a boolean, got %T", key, v)
	}
	return &b, nil
}

// decodeGridPos accepts either a [x, y] array or an {"x": .., "y": ..}
// object; models produce both.
func decodeGridPos(params map[string]any, key string) (*GridPos, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case []any:
		if len(t) != 2 {
			return nil, fmt.Errorf("parameter %q must have exactly two coordinates, got %d", key, len(t))
		}
		x, okX := asInt(t[0])
		y, okY := asInt(t[1])
		if !okX || !okY {
			return nil, fmt.Errorf("parameter %q coordinates must be numbers", key)
		}
		return &GridPos{X: x, Y: y}, nil
	case map[string]any:
		x, okX := asInt(t["x"])
		y, okY := asInt(t["y"])
		if !okX || !okY {
			return nil, fmt.Errorf("parameter %q must contain numeric x and y", key)
		}
		return &GridPos{X: x, Y: y}, nil
	default:
		return nil, fmt.Errorf("parameter %q must be a [x, y] array or {x, y} object, got %T", key, v)
	}
}

// decodeIDList handles the "*" wildcard or a list of id strings.
func decodeIDList(params map[string]any, key string) (all bool, ids []string, err error) {
	v, ok := params[key]
	if !ok || v == nil {
		return false, nil, nil
	}
	switch t := v.(type) {
	case string:
		if t == "*" {
			return true, nil, nil
		}
		return false, nil, fmt.Errorf("parameter %q must be \"*\" or a list of ids, got %q", key, t)
	case []any:
		ids = make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return false, nil, fmt.Errorf("parameter %q entries must be strings, got %T", key, item)
			}
			ids = append(ids, s)
		}
		return false, ids, nil
	default:
		return false, nil, fmt.Errorf("parameter %q must be \"*\" or a list of ids, got %T", key, v)
	}
}

// asInt converts a decoded JSON number to int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
