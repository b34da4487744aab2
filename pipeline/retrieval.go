package pipeline

import (
	"context"
	"fmt"

	"github.com/playhaven-ai/mind-go-sdk/memory"
)

// StageMemoryRetrieval is the stage name for memory retrieval.
const StageMemoryRetrieval = "memory_retrieval"

// Retrieval defaults, matching the store's search tuning.
const (
	DefaultMemoriesPerQuery = 2
	DefaultImportanceWeight = 0.3
	DefaultRecencyWeight    = 0.2
)

// MemoryRetrievalStage searches long-term memory with the queries the
// previous stage generated. Results are concatenated across queries in
// first-seen order and deduplicated by memory id.
type MemoryRetrievalStage struct {
	store            memory.Store
	perQuery         int
	importanceWeight float64
	recencyWeight    float64
}

// NewMemoryRetrievalStage builds the stage with default search tuning.
func NewMemoryRetrievalStage(store memory.Store) *MemoryRetrievalStage {
	return &MemoryRetrievalStage{
		store:            store,
		perQuery:         DefaultMemoriesPerQuery,
		importanceWeight: DefaultImportanceWeight,
		recencyWeight:    DefaultRecencyWeight,
	}
}

func (s *MemoryRetrievalStage) Name() string { return StageMemoryRetrieval }

// Process fills state.RetrievedMemories. Empty queries yield an empty
// result list without touching the store.
func (s *MemoryRetrievalStage) Process(ctx context.Context, state *State) error {
	retrieved := []memory.Memory{}
	seen := make(map[string]struct{})

	var now int64
	if state.Observation != nil {
		now = state.Observation.CurrentSimulationTime
	}

	for _, query := range state.MemoryQueries {
		results, err := s.store.Search(ctx, memory.SearchRequest{
			Query:            query,
			TopK:             s.perQuery,
			ImportanceWeight: s.importanceWeight,
			RecencyWeight:    s.recencyWeight,
			Now:              now,
		})
		if err != nil {
			return fmt.Errorf("search %q: %w", query, err)
		}
		for _, mem := range results {
			if _, dup := seen[mem.ID]; dup {
				continue
			}
			seen[mem.ID] = struct{}{}
			retrieved = append(retrieved, mem)
		}
	}

	state.RetrievedMemories = retrieved
	return nil
}
