package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/memory"
)

// fakeStore returns canned results per query and records calls.
type fakeStore struct {
	results map[string][]memory.Memory
	queries []string
}

func (s *fakeStore) Add(ctx context.Context, req memory.AddRequest) (memory.Memory, error) {
	return memory.Memory{ID: "memory_fake", Content: req.Content, Importance: req.Importance}, nil
}

func (s *fakeStore) Search(ctx context.Context, req memory.SearchRequest) ([]memory.Memory, error) {
	s.queries = append(s.queries, req.Query)
	return s.results[req.Query], nil
}

func (s *fakeStore) Count() int { return 0 }

func (s *fakeStore) Clear(ctx context.Context) error { return nil }

func TestRetrievalDedup(t *testing.T) {
	store := &fakeStore{results: map[string][]memory.Memory{
		"q1": {{ID: "a"}, {ID: "b"}},
		"q2": {{ID: "b"}, {ID: "c"}},
		"q3": {{ID: "a"}},
	}}
	stage := NewMemoryRetrievalStage(store)

	state := NewState(&core.Observation{EntityID: "npc_1", CurrentSimulationTime: 100})
	state.MemoryQueries = []string{"q1", "q2", "q3"}

	require.NoError(t, stage.Process(context.Background(), state))

	ids := make([]string, len(state.RetrievedMemories))
	for i, m := range state.RetrievedMemories {
		ids[i] = m.ID
	}
	// Each id at most once, in first-seen order.
	require.Equal(t, []string{"a", "b", "c"}, ids)
	require.Equal(t, []string{"q1", "q2", "q3"}, store.queries)
}

func TestRetrievalEmptyQueries(t *testing.T) {
	store := &fakeStore{}
	stage := NewMemoryRetrievalStage(store)

	state := NewState(&core.Observation{EntityID: "npc_1"})
	require.NoError(t, stage.Process(context.Background(), state))

	require.NotNil(t, state.RetrievedMemories)
	require.Empty(t, state.RetrievedMemories)
	require.Empty(t, store.queries, "no queries means no store calls")
}
