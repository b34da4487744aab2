package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/genai"
)

// StageActionSelection is the stage name for action selection.
const StageActionSelection = "action_selection"

// maxRecentEvents caps how much event history goes into the prompt.
const maxRecentEvents = 20

type actionSelectionOutput struct {
	ChosenAction core.Envelope `json:"chosen_action"`
}

func validateActionSelection(out *actionSelectionOutput) error {
	// Structural decode only; contextual legality is checked by the
	// caller against the live observation.
	if _, err := out.ChosenAction.Decode(); err != nil {
		return err
	}
	return nil
}

// ActionSelectionStage asks the model to pick one action from the
// available set. Generation failure after retries does not propagate:
// the stage substitutes a safe wait action instead.
type ActionSelectionStage struct {
	fn *genai.Func[actionSelectionOutput]
}

// NewActionSelectionStage builds the stage.
func NewActionSelectionStage(client genai.Client, maxRetries int) *ActionSelectionStage {
	return &ActionSelectionStage{
		fn: genai.NewFunc(StageActionSelection, genai.MustPrompt(actionSelectionTemplate), client,
			genai.WithMaxRetries[actionSelectionOutput](maxRetries),
			genai.WithValidation(validateActionSelection),
		),
	}
}

func (s *ActionSelectionStage) Name() string { return StageActionSelection }

// Process sets state.ChosenAction and records an action-chosen event.
func (s *ActionSelectionStage) Process(ctx context.Context, state *State) error {
	out, tokens, err := s.fn.Call(ctx, map[string]string{
		"working_memory":     state.WorkingMemory.Describe(),
		"cognitive_context":  formatCognitiveContext(state.CognitiveContext),
		"personality_traits": formatTraits(state.PersonalityTraits),
		"available_actions":  formatAvailableActions(state.AvailableActions),
		"recent_events":      formatRecentEvents(state.RecentEvents),
	})
	state.TokensUsed[StageActionSelection] += tokens
	if err != nil {
		var genErr *genai.GenerationError
		if errors.As(err, &genErr) {
			log.Printf("[PIPELINE] action selection failed, falling back to wait: %v", err)
			state.ChosenAction = core.Wait{}
			return nil
		}
		return err
	}

	action, err := out.ChosenAction.Decode()
	if err != nil {
		// Decode already passed during validation; treat as internal.
		return fmt.Errorf("decode chosen action: %w", err)
	}
	state.ChosenAction = action

	var ts int64
	if state.Observation != nil {
		ts = state.Observation.CurrentSimulationTime
	}
	state.RecentEvents = append(state.RecentEvents, core.MindEvent{
		Timestamp: ts,
		Type:      core.EventActionChosen,
		Payload: core.EventPayload{
			Action:     string(action.Kind()),
			Parameters: core.NewEnvelope(action).Parameters,
		},
	})
	return nil
}

func formatCognitiveContext(cc map[string]any) string {
	var b strings.Builder
	if v, ok := cc[KeySituation].(string); ok && v != "" {
		fmt.Fprintf(&b, "Situation: %s\n", v)
	}
	if goals, ok := cc[KeyGoals].([]string); ok && len(goals) > 0 {
		fmt.Fprintf(&b, "Current Goals: %s\n", strings.Join(goals, ", "))
	}
	if v, ok := cc[KeyEmotional].(string); ok && v != "" {
		fmt.Fprintf(&b, "Emotional State: %s", v)
	}
	if b.Len() == 0 {
		return "No specific context"
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTraits(traits []string) string {
	if len(traits) == 0 {
		return "No specific traits"
	}
	return strings.Join(traits, ", ")
}

func formatAvailableActions(actions []core.AvailableAction) string {
	if len(actions) == 0 {
		return "No actions available."
	}
	lines := make([]string, 0, len(actions))
	for _, a := range actions {
		lines = append(lines, "- "+a.Describe())
	}
	return strings.Join(lines, "\n")
}

func formatRecentEvents(events []core.MindEvent) string {
	if len(events) == 0 {
		return "No recent events."
	}
	if len(events) > maxRecentEvents {
		events = events[len(events)-maxRecentEvents:]
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, "- "+e.Describe())
	}
	return strings.Join(lines, "\n")
}
