// Package mind ties the cognitive pipeline, long-term memory, and bid
// tracking together into per-NPC runtime state, plus the registry and
// snapshot persistence around it.
package mind

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/playhaven-ai/mind-go-sdk/core"
	"github.com/playhaven-ai/mind-go-sdk/genai"
	"github.com/playhaven-ai/mind-go-sdk/memory"
	chromemstore "github.com/playhaven-ai/mind-go-sdk/memory/store/chromem"
	"github.com/playhaven-ai/mind-go-sdk/pipeline"
)

// seedImportance is the importance given to configured initial
// memories.
const seedImportance = 5.0

// Mind is the runtime state for a single NPC. All mutable state is
// guarded by mu: decision cycles for one mind are serialized, and a
// cycle's working-memory write-back is only committed after the whole
// pipeline succeeds and the chosen action validates.
type Mind struct {
	mu sync.Mutex

	id       string
	entityID string
	traits   []string

	pipeline *pipeline.Pipeline
	store    memory.Store

	workingMemory   core.WorkingMemory
	dailyMemories   []core.NewMemory
	recentEvents    []core.MindEvent
	bids            *core.BidRegistry
	conversations   map[string][]core.ConversationMessage
	lastObservation *core.Observation
}

// Option configures a Mind at construction.
type Option func(*options)

type options struct {
	store      memory.Store
	memoryPath string
	maxRetries int
}

// WithStore injects a memory store, bypassing the default chromem
// store. Used for testing and alternative backends.
func WithStore(store memory.Store) Option {
	return func(o *options) { o.store = store }
}

// WithMemoryPath enables on-disk memory persistence at path.
func WithMemoryPath(path string) Option {
	return func(o *options) { o.memoryPath = path }
}

// WithMaxRetries bounds generation retries per pipeline stage.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// New creates a mind from config, seeding any configured initial
// memories into long-term storage.
func New(ctx context.Context, id string, cfg Config, client genai.Client, embedder memory.Embedder, opts ...Option) (*Mind, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{maxRetries: genai.DefaultMaxRetries}
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		var err error
		if o.memoryPath != "" {
			store, err = chromemstore.NewPersistent(o.memoryPath, id, embedder)
		} else {
			store, err = chromemstore.New(id, embedder)
		}
		if err != nil {
			return nil, fmt.Errorf("create memory store: %w", err)
		}
	}

	for _, content := range cfg.InitialLongTermMemories {
		if _, err := store.Add(ctx, memory.AddRequest{Content: content, Importance: seedImportance}); err != nil {
			return nil, fmt.Errorf("seed memory: %w", err)
		}
	}

	var wm core.WorkingMemory
	if cfg.InitialWorkingMemory != nil {
		wm = *cfg.InitialWorkingMemory
	}

	return &Mind{
		id:            id,
		entityID:      cfg.EntityID,
		traits:        cfg.Traits,
		pipeline:      pipeline.New(client, store, pipeline.WithMaxRetries(o.maxRetries)),
		store:         store,
		workingMemory: wm,
		bids:          core.NewBidRegistry(),
		conversations: make(map[string][]core.ConversationMessage),
	}, nil
}

// ID returns the mind's identifier.
func (m *Mind) ID() string { return m.id }

// EntityID returns the mind's entity in the simulation.
func (m *Mind) EntityID() string { return m.entityID }

// DecideAction runs one full decision cycle: validate the observation,
// merge inbound events, run the pipeline, validate the chosen action,
// and commit the cycle's state. On any error the mind's persisted
// state is left untouched.
func (m *Mind) DecideAction(ctx context.Context, obs *core.Observation, events []core.MindEvent) (core.Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := obs.Validate(); err != nil {
		return nil, err
	}

	for _, e := range events {
		if bid, ok := core.BidFromEvent(e); ok {
			m.bids.Add(bid)
		}
		m.recentEvents = append(m.recentEvents, e)
	}
	m.updateConversations(obs.Conversations)

	state := pipeline.NewState(obs)
	state.WorkingMemory = m.workingMemory
	state.PersonalityTraits = m.traits
	state.AvailableActions = core.AvailableActions(obs, m.bids)
	state.RecentEvents = append([]core.MindEvent(nil), m.recentEvents...)

	if err := m.pipeline.Process(ctx, state); err != nil {
		return nil, err
	}

	action := state.ChosenAction
	if err := core.ValidateAction(action, obs, m.bids); err != nil {
		return nil, err
	}

	// Commit only after the pipeline and validation both succeed.
	m.workingMemory = state.WorkingMemory
	m.dailyMemories = append(m.dailyMemories, state.DailyMemories...)
	m.recentEvents = state.RecentEvents
	m.lastObservation = obs

	if respond, ok := action.(core.RespondToBid); ok {
		m.bids.Remove(respond.BidID)
	}

	log.Printf("[MIND] %s: chose %s (tokens=%d)", m.id, core.FormatAction(action), totalTokens(state.TokensUsed))
	return action, nil
}

// ConsolidateMemories drains the daily buffer into long-term storage
// and returns the number written. The buffer is cleared even when some
// writes fail; failures are reported after all items were attempted.
func (m *Mind) ConsolidateMemories(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drained := m.dailyMemories
	m.dailyMemories = nil

	var ts *int64
	var loc *core.GridPos
	if m.lastObservation != nil {
		t := m.lastObservation.CurrentSimulationTime
		ts = &t
		if m.lastObservation.Status != nil {
			loc = &m.lastObservation.Status.Position
		}
	}

	count := 0
	var errs []error
	for _, nm := range drained {
		_, err := m.store.Add(ctx, memory.AddRequest{
			Content:    nm.Content,
			Importance: nm.Importance,
			Timestamp:  ts,
			Location:   loc,
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		count++
	}

	if len(errs) > 0 {
		return count, fmt.Errorf("consolidate: %w", errors.Join(errs...))
	}
	log.Printf("[MIND] %s: consolidated %d memories", m.id, count)
	return count, nil
}

// StateInfo is a read-only view of a mind for introspection.
type StateInfo struct {
	MindID              string             `json:"mind_id"`
	EntityID            string             `json:"entity_id"`
	Traits              []string           `json:"traits"`
	WorkingMemory       core.WorkingMemory `json:"working_memory"`
	DailyMemoriesCount  int                `json:"daily_memories_count"`
	LongTermMemoryCount int                `json:"long_term_memory_count"`
	ActiveConversations []string           `json:"active_conversations"`
	PendingBids         []core.PendingBid  `json:"pending_bids"`
}

// State returns a snapshot view of the mind's current state.
func (m *Mind) State() StateInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	convs := make([]string, 0, len(m.conversations))
	for id := range m.conversations {
		convs = append(convs, id)
	}
	sort.Strings(convs)

	return StateInfo{
		MindID:              m.id,
		EntityID:            m.entityID,
		Traits:              append([]string(nil), m.traits...),
		WorkingMemory:       m.workingMemory,
		DailyMemoriesCount:  len(m.dailyMemories),
		LongTermMemoryCount: m.store.Count(),
		ActiveConversations: convs,
		PendingBids:         m.bids.Snapshot(),
	}
}

// updateConversations folds conversation observations into the
// aggregated per-interaction history, deduplicating by message
// timestamp. Messages without timestamps are always appended.
func (m *Mind) updateConversations(conversations []core.ConversationObservation) {
	for _, conv := range conversations {
		history := m.conversations[conv.InteractionID]

		existing := make(map[int64]struct{}, len(history))
		for _, msg := range history {
			if msg.Timestamp != nil {
				existing[*msg.Timestamp] = struct{}{}
			}
		}

		for _, msg := range conv.ConversationHistory {
			if msg.Timestamp != nil {
				if _, dup := existing[*msg.Timestamp]; dup {
					continue
				}
				existing[*msg.Timestamp] = struct{}{}
			}
			history = append(history, msg)
		}
		m.conversations[conv.InteractionID] = history
	}
}

func totalTokens(tokens map[string]int) int {
	total := 0
	for _, n := range tokens {
		total += n
	}
	return total
}
