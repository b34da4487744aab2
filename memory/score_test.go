package memory

import (
	"fmt"
	"testing"

	"github.com/playhaven-ai/mind-go-sdk/core"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCompositeScoreImportanceMonotonicity(t *testing.T) {
	// Equal content and recency, importance 2 vs 9: with importance
	// weight >= 0.5 the more important memory must rank first.
	now := int64(10000)
	low := Memory{ID: "low", Importance: 2, Timestamp: int64Ptr(now)}
	high := Memory{ID: "high", Importance: 9, Timestamp: int64Ptr(now)}

	const similarity = 0.8
	lowScore := CompositeScore(low, similarity, now, 0.5, 0.2)
	highScore := CompositeScore(high, similarity, now, 0.5, 0.2)
	if highScore <= lowScore {
		t.Errorf("importance 9 (%f) should outrank importance 2 (%f)", highScore, lowScore)
	}
}

func TestCompositeScoreRecencyDecay(t *testing.T) {
	// Timestamps 900 simulated seconds apart, queried at the newer
	// timestamp with recency weight 0.5: the newer memory ranks first.
	now := int64(5000)
	newer := Memory{ID: "newer", Importance: 5, Timestamp: int64Ptr(now)}
	older := Memory{ID: "older", Importance: 5, Timestamp: int64Ptr(now - 900)}

	const similarity = 0.8
	newerScore := CompositeScore(newer, similarity, now, 0.2, 0.5)
	olderScore := CompositeScore(older, similarity, now, 0.2, 0.5)
	if newerScore <= olderScore {
		t.Errorf("newer (%f) should outrank older (%f)", newerScore, olderScore)
	}
}

func TestCompositeScoreNoTimestamp(t *testing.T) {
	m := Memory{ID: "m", Importance: 10}
	got := CompositeScore(m, 1.0, 100, 0.3, 0.2)
	want := 0.5*1.0 + 0.3*1.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %f, want %f", got, want)
	}
}

func TestRankStable(t *testing.T) {
	candidates := []Scored{
		{Memory: Memory{ID: "a"}, Score: 0.5},
		{Memory: Memory{ID: "b"}, Score: 0.9},
		{Memory: Memory{ID: "c"}, Score: 0.5},
	}
	ranked := Rank(candidates)
	got := fmt.Sprintf("%s,%s,%s", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	if got != "b,a,c" {
		t.Errorf("rank order = %s, want b,a,c", got)
	}
}

func TestMemoryString(t *testing.T) {
	plain := Memory{ID: "memory_1", Content: "The well is dry."}
	if got := plain.String(); got != "[memory_1] The well is dry." {
		t.Errorf("String = %q", got)
	}

	full := Memory{
		ID:        "memory_2",
		Content:   "Met Alice at the market.",
		Timestamp: int64Ptr(3600),
		Location:  &core.GridPos{X: 4, Y: 9},
	}
	if got := full.String(); got != "[memory_2 | T:3600 | L:(4,9)] Met Alice at the market." {
		t.Errorf("String = %q", got)
	}
}
