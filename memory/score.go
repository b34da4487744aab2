package memory

import "sort"

// CompositeScore combines cosine similarity with normalized importance
// and a recency decay. Weights are the importance and recency weights
// from the search request; similarity carries whatever weight is left.
// A memory with no timestamp gets zero recency contribution.
func CompositeScore(m Memory, similarity float64, now int64, importanceWeight, recencyWeight float64) float64 {
	simWeight := 1 - importanceWeight - recencyWeight

	score := simWeight * similarity
	score += importanceWeight * (m.Importance / 10)

	if m.Timestamp != nil {
		ageHours := float64(now-*m.Timestamp) / 3600
		if ageHours < 0 {
			ageHours = 0
		}
		score += recencyWeight * (1 / (1 + ageHours/24))
	}

	return score
}

// Scored pairs a memory with its composite score during ranking.
type Scored struct {
	Memory Memory
	Score  float64
}

// Rank sorts candidates by score descending and returns the memories.
// The sort is stable so equal scores keep store order.
func Rank(candidates []Scored) []Memory {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	out := make([]Memory, len(candidates))
	for i, c := range candidates {
		out[i] = c.Memory
	}
	return out
}
