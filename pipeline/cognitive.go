package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/genai"
)

// StageCognitiveUpdate is the stage name for the cognitive update.
const StageCognitiveUpdate = "cognitive_update"

// Cognitive context keys shared with action selection.
const (
	KeySituation = "situation_assessment"
	KeyGoals     = "current_goals"
	KeyEmotional = "emotional_state"
)

type cognitiveUpdateOutput struct {
	SituationAssessment  string             `json:"situation_assessment"`
	CurrentGoals         []string           `json:"current_goals"`
	EmotionalState       string             `json:"emotional_state"`
	UpdatedWorkingMemory core.WorkingMemory `json:"updated_working_memory"`
	NewMemories          []core.NewMemory   `json:"new_memories"`
}

func validateCognitiveUpdate(out *cognitiveUpdateOutput) error {
	if strings.TrimSpace(out.SituationAssessment) == "" {
		return fmt.Errorf("situation_assessment is empty")
	}
	for i, mem := range out.NewMemories {
		if err := mem.Validate(); err != nil {
			return fmt.Errorf("new_memories[%d]: %w", i, err)
		}
	}
	return nil
}

// CognitiveUpdateStage integrates the observation and retrieved
// memories into a fully replaced working memory, and buffers any new
// long-term memories this moment formed.
type CognitiveUpdateStage struct {
	fn *genai.Func[cognitiveUpdateOutput]
}

// NewCognitiveUpdateStage builds the stage.
func NewCognitiveUpdateStage(client genai.Client, maxRetries int) *CognitiveUpdateStage {
	return &CognitiveUpdateStage{
		fn: genai.NewFunc(StageCognitiveUpdate, genai.MustPrompt(cognitiveUpdateTemplate), client,
			genai.WithMaxRetries[cognitiveUpdateOutput](maxRetries),
			genai.WithValidation(validateCognitiveUpdate),
		),
	}
}

func (s *CognitiveUpdateStage) Name() string { return StageCognitiveUpdate }

// Process replaces state.WorkingMemory, fills the cognitive context,
// and appends new memories onto the daily buffer.
func (s *CognitiveUpdateStage) Process(ctx context.Context, state *State) error {
	out, tokens, err := s.fn.Call(ctx, map[string]string{
		"working_memory":     state.WorkingMemory.Describe(),
		"retrieved_memories": formatMemories(state),
		"observation":        state.Observation.Describe(),
	})
	state.TokensUsed[StageCognitiveUpdate] += tokens
	if err != nil {
		return err
	}

	state.WorkingMemory = out.UpdatedWorkingMemory
	state.CognitiveContext[KeySituation] = out.SituationAssessment
	state.CognitiveContext[KeyGoals] = out.CurrentGoals
	state.CognitiveContext[KeyEmotional] = out.EmotionalState
	state.DailyMemories = append(state.DailyMemories, out.NewMemories...)
	return nil
}

func formatMemories(state *State) string {
	if len(state.RetrievedMemories) == 0 {
		return "No relevant memories found."
	}
	lines := make([]string, 0, len(state.RetrievedMemories))
	for _, mem := range state.RetrievedMemories {
		lines = append(lines, "- "+mem.String())
	}
	return strings.Join(lines, "\n")
}
