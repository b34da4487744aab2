package core

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed input (observation or event
// payloads). It is raised before any pipeline stage runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ActionError is implemented by every contextual action-validation
// failure so callers can classify them as one error kind.
type ActionError interface {
	error
	actionError()
}

// MovementLockedError rejects movement actions while the agent is
// locked in an interaction.
type MovementLockedError struct {
	Kind ActionKind
}

func (e *MovementLockedError) Error() string {
	return fmt.Sprintf("movement actions not available - character is locked in current interaction; "+
		"%q rejected, use %q or %q instead", e.Kind, ActionCancelInteraction, ActionContinue)
}

func (*MovementLockedError) actionError() {}

// MissingParameterError rejects an action missing a required parameter.
type MissingParameterError struct {
	Kind  ActionKind
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required parameter %q missing for action %q", e.Param, e.Kind)
}

func (*MissingParameterError) actionError() {}

// UnknownEntityError rejects interact_with against an entity that is
// not currently visible.
type UnknownEntityError struct {
	EntityID string
	Visible  []string
}

func (e *UnknownEntityError) Error() string {
	visible := "none visible"
	if len(e.Visible) > 0 {
		visible = strings.Join(e.Visible, ", ")
	}
	return fmt.Sprintf("entity %q not found; visible entities: %s", e.EntityID, visible)
}

func (*UnknownEntityError) actionError() {}

// UnknownInteractionError rejects interact_with naming an interaction
// the target entity does not offer.
type UnknownInteractionError struct {
	Interaction string
	EntityID    string
	Available   []string
}

func (e *UnknownInteractionError) Error() string {
	available := "none"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("interaction %q not available on entity %q; available: %s",
		e.Interaction, e.EntityID, available)
}

func (*UnknownInteractionError) actionError() {}

// UnknownBidError rejects a bid response referencing an id with no
// pending bid.
type UnknownBidError struct {
	BidID string
	Known []string
}

func (e *UnknownBidError) Error() string {
	known := "none"
	if len(e.Known) > 0 {
		known = strings.Join(e.Known, ", ")
	}
	return fmt.Sprintf("invalid bid_id %q; pending bids: %s", e.BidID, known)
}

func (*UnknownBidError) actionError() {}

// UnknownBidTargetError rejects a batch-reject entry matching neither a
// pending bid id nor a bidder entity id.
type UnknownBidTargetError struct {
	Entry     string
	BidIDs    []string
	BidderIDs []string
}

func (e *UnknownBidTargetError) Error() string {
	return fmt.Sprintf("%q is not a pending bid_id or bidder entity_id; bid_ids: [%s], entity_ids: [%s]",
		e.Entry, strings.Join(e.BidIDs, ", "), strings.Join(e.BidderIDs, ", "))
}

func (*UnknownBidTargetError) actionError() {}

// NoActiveInteractionError rejects act_in_interaction when the agent is
// not in an interaction.
type NoActiveInteractionError struct{}

func (*NoActiveInteractionError) Error() string {
	return fmt.Sprintf("%q requires an active interaction", ActionActInInteraction)
}

func (*NoActiveInteractionError) actionError() {}

// IsActionError reports whether err is a contextual action-validation
// failure.
func IsActionError(err error) bool {
	var ae ActionError
	return errors.As(err, &ae)
}
