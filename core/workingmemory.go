package core

import (
	"fmt"
	"strings"
)

// WorkingMemory is the agent's mutable short-term summary. Each
// cognitive update replaces it wholesale; it is never merged.
type WorkingMemory struct {
	SituationAssessment string         `json:"situation_assessment"`
	ActiveGoals         []string       `json:"active_goals"`
	RecentEvents        []string       `json:"recent_events"`
	CurrentPlan         []string       `json:"current_plan"`
	EmotionalState      string         `json:"emotional_state"`
	Extra               map[string]any `json:"extra,omitempty"`
}

// Describe renders working memory as natural language for prompts.
func (w WorkingMemory) Describe() string {
	var parts []string
	if w.SituationAssessment != "" {
		parts = append(parts, "Situation: "+w.SituationAssessment)
	}
	if len(w.ActiveGoals) > 0 {
		parts = append(parts, "Goals: "+strings.Join(w.ActiveGoals, "; "))
	}
	if len(w.CurrentPlan) > 0 {
		parts = append(parts, "Plan: "+strings.Join(w.CurrentPlan, " -> "))
	}
	if len(w.RecentEvents) > 0 {
		parts = append(parts, "Recent events: "+strings.Join(w.RecentEvents, "; "))
	}
	if w.EmotionalState != "" {
		parts = append(parts, "Emotional state: "+w.EmotionalState)
	}
	if len(parts) == 0 {
		return "Empty working memory"
	}
	return strings.Join(parts, "\n")
}

// NewMemory is a memory formed during a decision cycle, buffered until
// consolidation writes it to long-term storage.
type NewMemory struct {
	Content    string  `json:"content"`
	Importance float64 `json:"importance"`
}

// Validate checks the content and the importance range for model-formed
// memories.
func (m NewMemory) Validate() error {
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("new memory content must not be empty")
	}
	if m.Importance < 1 || m.Importance > 10 {
		return fmt.Errorf("new memory importance must be in [1, 10], got %g", m.Importance)
	}
	return nil
}
