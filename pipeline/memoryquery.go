package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/playhaven-ai/mind-go-sdk/genai"
)

// StageMemoryQuery is the stage name for memory query generation.
const StageMemoryQuery = "memory_query"

type memoryQueryOutput struct {
	Queries []string `json:"queries"`
}

func validateMemoryQueries(out *memoryQueryOutput) error {
	if len(out.Queries) < 1 || len(out.Queries) > 5 {
		return fmt.Errorf("expected 1 to 5 queries, got %d", len(out.Queries))
	}
	for i, q := range out.Queries {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("query %d is empty", i+1)
		}
	}
	return nil
}

// MemoryQueryStage asks the model for diverse search queries over
// long-term memory, based on working memory and the observation.
type MemoryQueryStage struct {
	fn *genai.Func[memoryQueryOutput]
}

// NewMemoryQueryStage builds the stage.
func NewMemoryQueryStage(client genai.Client, maxRetries int) *MemoryQueryStage {
	return &MemoryQueryStage{
		fn: genai.NewFunc(StageMemoryQuery, genai.MustPrompt(memoryQueryTemplate), client,
			genai.WithMaxRetries[memoryQueryOutput](maxRetries),
			genai.WithValidation(validateMemoryQueries),
		),
	}
}

func (s *MemoryQueryStage) Name() string { return StageMemoryQuery }

// Process replaces state.MemoryQueries with freshly generated queries.
func (s *MemoryQueryStage) Process(ctx context.Context, state *State) error {
	out, tokens, err := s.fn.Call(ctx, map[string]string{
		"working_memory": state.WorkingMemory.Describe(),
		"observation":    state.Observation.Describe(),
	})
	state.TokensUsed[StageMemoryQuery] += tokens
	if err != nil {
		return err
	}

	state.MemoryQueries = out.Queries
	return nil
}
