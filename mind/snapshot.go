package mind

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playhaven-ai/mind-go-sdk/core"
)

// Snapshot is the serializable part of a mind's runtime state, used to
// survive process restarts. Long-term memories are not included; the
// store persists them itself.
type Snapshot struct {
	MindID        string                                `json:"mind_id"`
	EntityID      string                                `json:"entity_id"`
	Traits        []string                              `json:"traits"`
	WorkingMemory core.WorkingMemory                    `json:"working_memory"`
	DailyMemories []core.NewMemory                      `json:"daily_memories"`
	RecentEvents  []core.MindEvent                      `json:"recent_events"`
	Conversations map[string][]core.ConversationMessage `json:"conversations"`
	PendingBids   []core.PendingBid                     `json:"pending_bids"`
}

// Snapshot captures the mind's current serializable state.
func (m *Mind) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	convs := make(map[string][]core.ConversationMessage, len(m.conversations))
	for id, history := range m.conversations {
		convs[id] = append([]core.ConversationMessage(nil), history...)
	}

	return Snapshot{
		MindID:        m.id,
		EntityID:      m.entityID,
		Traits:        append([]string(nil), m.traits...),
		WorkingMemory: m.workingMemory,
		DailyMemories: append([]core.NewMemory(nil), m.dailyMemories...),
		RecentEvents:  append([]core.MindEvent(nil), m.recentEvents...),
		Conversations: convs,
		PendingBids:   m.bids.Snapshot(),
	}
}

// Restore overwrites the mind's runtime state from a snapshot.
func (m *Mind) Restore(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workingMemory = snap.WorkingMemory
	m.dailyMemories = append([]core.NewMemory(nil), snap.DailyMemories...)
	m.recentEvents = append([]core.MindEvent(nil), snap.RecentEvents...)

	m.conversations = make(map[string][]core.ConversationMessage, len(snap.Conversations))
	for id, history := range snap.Conversations {
		m.conversations[id] = append([]core.ConversationMessage(nil), history...)
	}

	m.bids = core.NewBidRegistry()
	for _, bid := range snap.PendingBids {
		m.bids.Add(bid)
	}
}

// SnapshotStore persists mind snapshots in Redis.
type SnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotStore wraps a Redis client. A zero ttl keeps snapshots
// until explicitly deleted.
func NewSnapshotStore(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{rdb: rdb, ttl: ttl}
}

func snapshotKey(mindID string) string {
	return "mind:snapshot:" + mindID
}

// Save writes a snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, snapshotKey(snap.MindID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot; a missing snapshot returns (nil, nil).
func (s *SnapshotStore) Load(ctx context.Context, mindID string) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, snapshotKey(mindID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a snapshot.
func (s *SnapshotStore) Delete(ctx context.Context, mindID string) error {
	if err := s.rdb.Del(ctx, snapshotKey(mindID)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
