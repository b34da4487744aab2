package core

// ValidateAction is the contextual legality check run on every decided
// action before it is handed to the simulation. It is a pure function
// of the proposed action, the current observation, and the pending-bid
// registry; it never mutates any of them.
//
// Rules are evaluated in a fixed order: movement lock first, then the
// per-variant structural and existence checks.
func ValidateAction(a Action, obs *Observation, bids *BidRegistry) error {
	if err := checkMovementLock(a, obs); err != nil {
		return err
	}

	switch act := a.(type) {
	case InteractWith:
		return validateInteractWith(act, obs)
	case MoveTo:
		if act.Destination == nil {
			return &MissingParameterError{Kind: ActionMoveTo, Param: "destination"}
		}
	case RespondToBid:
		return validateRespondToBid(act, bids)
	case BatchRejectBids:
		return validateBatchReject(act, bids)
	case ActInInteraction:
		return validateActInInteraction(act, obs)
	}
	// wander, wait, continue, cancel_interaction, move_direction carry
	// no further structural requirements.
	return nil
}

func checkMovementLock(a Action, obs *Observation) error {
	if obs == nil || obs.Status == nil || !obs.Status.MovementLocked {
		return nil
	}
	switch a.Kind() {
	case ActionMoveTo, ActionMoveDirection, ActionWander:
		return &MovementLockedError{Kind: a.Kind()}
	}
	return nil
}

func validateInteractWith(a InteractWith, obs *Observation) error {
	if a.EntityID == "" {
		return &MissingParameterError{Kind: ActionInteractWith, Param: "entity_id"}
	}
	if a.InteractionName == "" {
		return &MissingParameterError{Kind: ActionInteractWith, Param: "interaction_name"}
	}

	// Without vision data entity existence cannot be checked; accept
	// provisionally rather than reject actions we cannot disprove.
	if obs == nil || obs.Vision == nil {
		return nil
	}

	entity, ok := obs.VisibleEntity(a.EntityID)
	if !ok {
		return &UnknownEntityError{EntityID: a.EntityID, Visible: obs.VisibleEntityIDs()}
	}
	if _, ok := entity.Interactions[a.InteractionName]; !ok {
		return &UnknownInteractionError{
			Interaction: a.InteractionName,
			EntityID:    a.EntityID,
			Available:   sortedKeys(entity.Interactions),
		}
	}
	return nil
}

func validateRespondToBid(a RespondToBid, bids *BidRegistry) error {
	if a.BidID == "" {
		return &MissingParameterError{Kind: ActionRespondToBid, Param: "bid_id"}
	}
	if a.Accept == nil {
		return &MissingParameterError{Kind: ActionRespondToBid, Param: "accept"}
	}
	if bids == nil {
		return &UnknownBidError{BidID: a.BidID}
	}
	if _, ok := bids.Get(a.BidID); !ok {
		return &UnknownBidError{BidID: a.BidID, Known: bids.IDs()}
	}
	if !*a.Accept && a.Reason == "" {
		return &MissingParameterError{Kind: ActionRespondToBid, Param: "reason"}
	}
	return nil
}

func validateBatchReject(a BatchRejectBids, bids *BidRegistry) error {
	if !a.All && len(a.IDs) == 0 {
		return &MissingParameterError{Kind: ActionBatchRejectBids, Param: "ids"}
	}
	if a.Reason == "" {
		return &MissingParameterError{Kind: ActionBatchRejectBids, Param: "reason"}
	}
	if a.All {
		return nil
	}

	var bidIDs, bidderIDs []string
	if bids != nil {
		bidIDs = bids.IDs()
		bidderIDs = bids.BidderIDs()
	}
	known := make(map[string]struct{}, len(bidIDs)+len(bidderIDs))
	for _, id := range bidIDs {
		known[id] = struct{}{}
	}
	for _, id := range bidderIDs {
		known[id] = struct{}{}
	}
	for _, entry := range a.IDs {
		if _, ok := known[entry]; !ok {
			return &UnknownBidTargetError{Entry: entry, BidIDs: bidIDs, BidderIDs: bidderIDs}
		}
	}
	return nil
}

func validateActInInteraction(a ActInInteraction, obs *Observation) error {
	if obs == nil || obs.Status == nil || obs.Status.CurrentInteraction == nil {
		return &NoActiveInteractionError{}
	}
	if obs.Status.CurrentInteraction.InteractionName == "conversation" && a.Message == "" {
		return &MissingParameterError{Kind: ActionActInInteraction, Param: "message"}
	}
	return nil
}
