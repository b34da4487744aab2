package mind

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/playhaven-ai/mind-go-sdk/core"
)

func newTestSnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewSnapshotStore(rdb, 0)
}

func testSnapshot() Snapshot {
	ts := int64(100)
	return Snapshot{
		MindID:   "npc_1",
		EntityID: "npc_1",
		Traits:   []string{"curious"},
		WorkingMemory: core.WorkingMemory{
			SituationAssessment: "At the market.",
			ActiveGoals:         []string{"buy bread"},
			EmotionalState:      "content",
		},
		DailyMemories: []core.NewMemory{{Content: "Bought bread.", Importance: 3}},
		RecentEvents: []core.MindEvent{{
			Timestamp: 90,
			Type:      core.EventActionChosen,
			Payload:   core.EventPayload{Action: "wait"},
		}},
		Conversations: map[string][]core.ConversationMessage{
			"int_1": {{SpeakerID: "npc_2", SpeakerName: "Alice", Message: "Hi", Timestamp: &ts}},
		},
		PendingBids: []core.PendingBid{{BidID: "bid_1", BidderID: "npc_2", BidderName: "Alice", InteractionName: "conversation"}},
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSnapshotStore(t)
	snap := testSnapshot()

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, "npc_1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, snap, *loaded)
}

func TestSnapshotStoreMissing(t *testing.T) {
	store := newTestSnapshotStore(t)
	loaded, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err, "a missing snapshot is not an error")
	require.Nil(t, loaded)
}

func TestSnapshotStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestSnapshotStore(t)

	require.NoError(t, store.Save(ctx, testSnapshot()))
	require.NoError(t, store.Delete(ctx, "npc_1"))

	loaded, err := store.Load(ctx, "npc_1")
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestMindSnapshotRestore(t *testing.T) {
	client := &queueClient{}
	m := newTestMind(t, client)

	snap := testSnapshot()
	m.Restore(snap)

	state := m.State()
	require.Equal(t, "At the market.", state.WorkingMemory.SituationAssessment)
	require.Equal(t, 1, state.DailyMemoriesCount)
	require.Equal(t, []string{"int_1"}, state.ActiveConversations)
	require.Len(t, state.PendingBids, 1)

	// A fresh snapshot of the restored mind carries the same state.
	again := m.Snapshot()
	require.Equal(t, snap.WorkingMemory, again.WorkingMemory)
	require.Equal(t, snap.DailyMemories, again.DailyMemories)
	require.Equal(t, snap.PendingBids, again.PendingBids)
}
