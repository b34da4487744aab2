package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// sortedKeys returns map keys in deterministic order for prompt and
// error formatting.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GridPos is a 2-D grid coordinate. It serializes as a two-element
// array [x, y] to match the simulation's wire format.
type GridPos struct {
	X int
	Y int
}

func (p GridPos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func (p GridPos) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

func (p *GridPos) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("grid position must be a [x, y] array: %w", err)
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// ControllerState values reported by the simulation's entity controller.
const (
	ControllerIdle        = "idle"
	ControllerMoving      = "moving"
	ControllerInteracting = "interacting"
)

// ActiveInteraction identifies the interaction an entity is currently in.
type ActiveInteraction struct {
	InteractionID   string `json:"interaction_id,omitempty"`
	InteractionName string `json:"interaction_name"`
}

// StatusObservation is the physical and controller state of the agent.
type StatusObservation struct {
	Position           GridPos            `json:"position"`
	MovementLocked     bool               `json:"movement_locked"`
	CurrentInteraction *ActiveInteraction `json:"current_interaction,omitempty"`
	ControllerState    string             `json:"controller_state,omitempty"`
}

// NeedsObservation reports named need levels sharing a common maximum.
type NeedsObservation struct {
	Needs    map[string]float64 `json:"needs"`
	MaxValue float64            `json:"max_value"`
}

// InteractionData describes one interaction affordance on an entity.
type InteractionData struct {
	Description  string   `json:"description,omitempty"`
	NeedsFilled  []string `json:"needs_filled,omitempty"`
	NeedsDrained []string `json:"needs_drained,omitempty"`
}

// EntityData is a visible entity with its interaction affordances.
type EntityData struct {
	EntityID     string                     `json:"entity_id"`
	DisplayName  string                     `json:"display_name"`
	Position     GridPos                    `json:"position"`
	Interactions map[string]InteractionData `json:"interactions,omitempty"`
}

// VisionObservation is the agent's visual perception for one tick.
type VisionObservation struct {
	VisibleEntities []EntityData `json:"visible_entities"`
}

// ConversationMessage is a single message in a conversation thread.
type ConversationMessage struct {
	SpeakerID   string `json:"speaker_id"`
	SpeakerName string `json:"speaker_name"`
	Message     string `json:"message"`
	Timestamp   *int64 `json:"timestamp,omitempty"`
}

// ConversationObservation is the recent state of one conversation the
// agent participates in. The simulation sends only the last K messages;
// the mind aggregates full histories across ticks.
type ConversationObservation struct {
	InteractionID       string                `json:"interaction_id"`
	InteractionName     string                `json:"interaction_name"`
	Participants        []string              `json:"participants"`
	ConversationHistory []ConversationMessage `json:"conversation_history"`
}

// Observation is the complete perception snapshot for one decision
// cycle. It is produced by the simulation and read-only to the mind.
type Observation struct {
	EntityID              string `json:"entity_id"`
	CurrentSimulationTime int64  `json:"current_simulation_time"`

	Status        *StatusObservation        `json:"status,omitempty"`
	Needs         *NeedsObservation         `json:"needs,omitempty"`
	Vision        *VisionObservation        `json:"vision,omitempty"`
	Conversations []ConversationObservation `json:"conversations,omitempty"`
}

// Validate checks the observation's structural requirements. It is run
// before any pipeline stage; failures identify the offending field.
func (o *Observation) Validate() error {
	if o == nil {
		return &ValidationError{Field: "observation", Message: "observation is required"}
	}
	if o.EntityID == "" {
		return &ValidationError{Field: "entity_id", Message: "entity_id is required"}
	}
	if o.CurrentSimulationTime < 0 {
		return &ValidationError{
			Field:   "current_simulation_time",
			Message: fmt.Sprintf("must be non-negative, got %d", o.CurrentSimulationTime),
		}
	}
	if o.Vision != nil {
		for i, e := range o.Vision.VisibleEntities {
			if e.EntityID == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("vision.visible_entities[%d].entity_id", i),
					Message: "entity_id is required",
				}
			}
		}
	}
	for i, c := range o.Conversations {
		if c.InteractionID == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("conversations[%d].interaction_id", i),
				Message: "interaction_id is required",
			}
		}
	}
	return nil
}

// VisibleEntity returns the visible entity with the given id, if any.
func (o *Observation) VisibleEntity(entityID string) (EntityData, bool) {
	if o.Vision == nil {
		return EntityData{}, false
	}
	for _, e := range o.Vision.VisibleEntities {
		if e.EntityID == entityID {
			return e, true
		}
	}
	return EntityData{}, false
}

// VisibleEntityIDs returns the ids of all currently visible entities.
func (o *Observation) VisibleEntityIDs() []string {
	if o.Vision == nil {
		return nil
	}
	ids := make([]string, 0, len(o.Vision.VisibleEntities))
	for _, e := range o.Vision.VisibleEntities {
		ids = append(ids, e.EntityID)
	}
	return ids
}

// Describe renders the observation as natural language for prompts.
func (o *Observation) Describe() string {
	var parts []string

	if o.Status != nil {
		parts = append(parts, fmt.Sprintf("Position: %s", o.Status.Position))
		parts = append(parts, fmt.Sprintf("Movement locked: %t", o.Status.MovementLocked))
		if o.Status.CurrentInteraction != nil {
			parts = append(parts, fmt.Sprintf("Current interaction: %s", o.Status.CurrentInteraction.InteractionName))
		}
		if o.Status.ControllerState != "" {
			parts = append(parts, fmt.Sprintf("Controller state: %s", o.Status.ControllerState))
		}
	}

	if o.Needs != nil && len(o.Needs.Needs) > 0 {
		parts = append(parts, "Needs: "+describeNeeds(o.Needs))
	}

	if o.Vision != nil && len(o.Vision.VisibleEntities) > 0 {
		parts = append(parts, describeVision(o.Vision))
	}

	for _, conv := range o.Conversations {
		if text := describeConversation(o.EntityID, conv); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "No observations"
	}
	return strings.Join(parts, "\n\n")
}

// describeNeeds buckets need levels so the model reads urgency instead
// of raw numbers. 100 = fully satisfied, 0 = depleted.
func describeNeeds(n *NeedsObservation) string {
	names := sortedKeys(n.Needs)
	entries := make([]string, 0, len(names))
	for _, name := range names {
		v := n.Needs[name]
		status := "critical"
		switch {
		case v >= 70:
			status = "satisfied"
		case v >= 30:
			status = "declining"
		}
		entries = append(entries, fmt.Sprintf("%s: %.0f%% (%s)", name, v, status))
	}
	return strings.Join(entries, ", ")
}

func describeVision(v *VisionObservation) string {
	lines := []string{"Visible entities:"}
	for _, e := range v.VisibleEntities {
		lines = append(lines, fmt.Sprintf("  - %s (ID: %s, Position: %s)", e.DisplayName, e.EntityID, e.Position))
		if len(e.Interactions) == 0 {
			continue
		}
		entries := make([]string, 0, len(e.Interactions))
		for _, name := range sortedKeys(e.Interactions) {
			entries = append(entries, describeInteraction(name, e.Interactions[name]))
		}
		lines = append(lines, "    Interactions: "+strings.Join(entries, "; "))
	}
	return strings.Join(lines, "\n")
}

func describeInteraction(name string, data InteractionData) string {
	desc := data.Description
	if desc == "" {
		desc = name
	}
	var effects []string
	if len(data.NeedsFilled) > 0 {
		effects = append(effects, "+"+strings.Join(data.NeedsFilled, ","))
	}
	if len(data.NeedsDrained) > 0 {
		effects = append(effects, "-"+strings.Join(data.NeedsDrained, ","))
	}
	if len(effects) > 0 {
		return fmt.Sprintf("%s: %s [%s]", name, desc, strings.Join(effects, ", "))
	}
	return fmt.Sprintf("%s: %s", name, desc)
}

// describeConversation renders message history, marking the agent's own
// messages so the model does not respond to itself.
func describeConversation(selfID string, conv ConversationObservation) string {
	if len(conv.ConversationHistory) == 0 {
		return ""
	}
	lines := make([]string, 0, len(conv.ConversationHistory))
	for _, m := range conv.ConversationHistory {
		if m.SpeakerID == selfID {
			lines = append(lines, fmt.Sprintf("[YOU] %s: %s", m.SpeakerName, m.Message))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", m.SpeakerName, m.Message))
		}
	}
	return "Conversation:\n" + strings.Join(lines, "\n")
}
