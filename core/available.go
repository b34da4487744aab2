package core

import (
	"fmt"
	"strings"
)

// AvailableAction describes one action the agent may currently take,
// presented to the model during action selection.
type AvailableAction struct {
	Name        ActionKind        `json:"name"`
	Description string            `json:"description"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

// Describe renders the descriptor for prompts.
func (a AvailableAction) Describe() string {
	if len(a.Parameters) == 0 {
		return fmt.Sprintf("%s: %s", a.Name, a.Description)
	}
	entries := make([]string, 0, len(a.Parameters))
	for _, k := range sortedKeys(a.Parameters) {
		entries = append(entries, fmt.Sprintf("%s: %s", k, a.Parameters[k]))
	}
	return fmt.Sprintf("%s: %s (params: %s)", a.Name, a.Description, strings.Join(entries, ", "))
}

// AvailableActions builds the action descriptors for the current
// observation and pending bids. Bid responses come first so the model
// sees them before general movement; batch rejection is only surfaced
// when at least two bids are pending.
func AvailableActions(obs *Observation, bids *BidRegistry) []AvailableAction {
	var actions []AvailableAction

	if bids != nil && bids.Len() > 0 {
		pending := bids.Snapshot()

		if len(pending) >= 2 {
			entries := make([]string, 0, len(pending))
			for _, bid := range pending {
				entries = append(entries, fmt.Sprintf("%s from %s", shortID(bid.BidID), bid.BidderName))
			}
			actions = append(actions, AvailableAction{
				Name: ActionBatchRejectBids,
				Description: fmt.Sprintf("Reject multiple interaction bids at once (%d pending: %s)",
					len(pending), strings.Join(entries, ", ")),
				Parameters: map[string]string{
					"ids":    "'*' to reject all, or a list of bid IDs, or a list of entity IDs to reject all bids from those entities",
					"reason": "Reason for rejecting these bids",
				},
			})
		}

		for _, bid := range pending {
			actions = append(actions, AvailableAction{
				Name: ActionRespondToBid,
				Description: fmt.Sprintf("Respond to %s bid %s from %s",
					bid.InteractionName, bid.BidID, bid.BidderName),
				Parameters: map[string]string{
					"bid_id": bid.BidID,
					"accept": "Boolean - true to accept the bid, false to reject the bid",
					"reason": "Reason for accepting/rejecting (required when rejecting)",
				},
			})
		}
	}

	actions = append(actions,
		AvailableAction{
			Name:        ActionMoveTo,
			Description: "Move to a specific grid position",
			Parameters:  map[string]string{"destination": "Grid coordinates as [x, y]"},
		},
		AvailableAction{
			Name:        ActionWander,
			Description: "Wander around aimlessly",
		},
		AvailableAction{
			Name:        ActionWait,
			Description: "Wait and observe surroundings",
		},
	)

	if obs != nil && obs.Status != nil {
		actions = append(actions, conditionalActions(obs.Status)...)
	}

	if obs != nil && obs.Vision != nil {
		actions = append(actions, interactionActions(obs.Vision)...)
	}

	return actions
}

// conditionalActions covers continue / act_in_interaction /
// cancel_interaction, which are only offered when the controller is in
// a matching state.
func conditionalActions(status *StatusObservation) []AvailableAction {
	var actions []AvailableAction

	switch status.ControllerState {
	case ControllerMoving:
		actions = append(actions, AvailableAction{
			Name:        ActionContinue,
			Description: "Continue current movement without changes",
		})
	case ControllerInteracting:
		if status.CurrentInteraction != nil {
			actions = append(actions, AvailableAction{
				Name: ActionContinue,
				Description: fmt.Sprintf("Wait/pause in the current %s for a short moment",
					status.CurrentInteraction.InteractionName),
			})
		}
	}

	if status.CurrentInteraction != nil {
		name := status.CurrentInteraction.InteractionName
		var params map[string]string
		if name == "conversation" {
			params = map[string]string{"message": "The message to send in the conversation"}
		}
		actions = append(actions,
			AvailableAction{
				Name:        ActionActInInteraction,
				Description: fmt.Sprintf("Participate in the current %s", name),
				Parameters:  params,
			},
			AvailableAction{
				Name:        ActionCancelInteraction,
				Description: "Cancel the current interaction",
			},
		)
	}

	return actions
}

// interactionActions surfaces one interact_with entry per visible
// entity interaction, with need effects folded into the description.
func interactionActions(vision *VisionObservation) []AvailableAction {
	var actions []AvailableAction
	for _, entity := range vision.VisibleEntities {
		for _, name := range sortedKeys(entity.Interactions) {
			data := entity.Interactions[name]

			desc := data.Description
			if desc == "" {
				desc = fmt.Sprintf("Interact with %s", entity.DisplayName)
			}
			var effects []string
			if len(data.NeedsFilled) > 0 {
				effects = append(effects, "fills: "+strings.Join(data.NeedsFilled, ", "))
			}
			if len(data.NeedsDrained) > 0 {
				effects = append(effects, "drains: "+strings.Join(data.NeedsDrained, ", "))
			}
			if len(effects) > 0 {
				desc = fmt.Sprintf("%s (%s)", desc, strings.Join(effects, "; "))
			}

			actions = append(actions, AvailableAction{
				Name:        ActionInteractWith,
				Description: fmt.Sprintf("%s: %s", entity.DisplayName, desc),
				Parameters: map[string]string{
					"entity_id":        fmt.Sprintf("Target entity ID (use: %s)", entity.EntityID),
					"interaction_name": fmt.Sprintf("Interaction type (use: %s)", name),
				},
			})
		}
	}
	return actions
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
