// Package pipeline implements the cognitive decision pipeline: a fixed
// four-stage sequence that turns one observation into one chosen
// action while updating the agent's working memory.
//
// Stages run strictly in order (memory query generation, memory
// retrieval, cognitive update, action selection); each is a pure
// function over the shared State and records its own token cost and
// elapsed time under its stage name. Stage objects hold only immutable
// configuration and are safe to share across concurrent cycles for
// different minds.
package pipeline

import (
	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/memory"
)

// State is the per-decision-cycle record threaded through all stages.
// It is created fresh per cycle from the mind's persisted working
// memory and discarded afterwards except for the fields the mind
// explicitly copies back (WorkingMemory, DailyMemories, RecentEvents).
type State struct {
	// Input from the simulation.
	Observation       *core.Observation
	AvailableActions  []core.AvailableAction
	PersonalityTraits []string

	// Working state.
	WorkingMemory     core.WorkingMemory
	MemoryQueries     []string
	RetrievedMemories []memory.Memory
	RecentEvents      []core.MindEvent

	// Memories formed this cycle, buffered until consolidation.
	DailyMemories []core.NewMemory

	// Flexible cognitive context written by the cognitive update.
	CognitiveContext map[string]any

	// Output.
	ChosenAction core.Action

	// Observability, keyed by stage name.
	TokensUsed map[string]int
	TimeMS     map[string]int64
}

// NewState builds a fresh cycle state around an observation.
func NewState(obs *core.Observation) *State {
	return &State{
		Observation:      obs,
		CognitiveContext: make(map[string]any),
		TokensUsed:       make(map[string]int),
		TimeMS:           make(map[string]int64),
	}
}
