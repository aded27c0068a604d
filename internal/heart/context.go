package heart

import (
	"math"
	"sort"
)

// ContextMemory is a scored memory selected for context assembly.
type ContextMemory struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
	Excerpt  bool    `json:"excerpt,omitempty"`
}

// ContextResult is the assembled recall response.
type ContextResult struct {
	Budget   int             `json:"budget"`
	Used     int             `json:"used"`
	Memories []ContextMemory `json:"memories"`
}

// RecallContext assembles the memories most relevant to query within a
// character budget. Matches are scored by importance and recency
// (exponential decay, roughly a 7-day half-life) and greedily packed;
// the last memory may be truncated to an excerpt.
func (h *Heart) RecallContext(query string, budget int) *ContextResult {
	if budget <= 0 {
		budget = 4000
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	matches := h.searchLocked(query)
	result := &ContextResult{Budget: budget, Memories: []ContextMemory{}}
	if len(matches) == 0 {
		return result
	}

	now := h.now()
	type scored struct {
		cm    ContextMemory
		score float64
	}
	candidates := make([]scored, 0, len(matches))
	for _, m := range matches {
		ageDays := now.Sub(m.Timestamp).Hours() / 24
		recency := math.Exp(-0.1 * ageDays)
		score := m.Importance*0.6 + recency*0.4
		candidates = append(candidates, scored{
			cm:    ContextMemory{ID: m.ID, Category: m.Category, Content: m.Content},
			score: score,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	used := 0
	for _, c := range candidates {
		c.cm.Score = math.Round(c.score*100) / 100
		if used+len(c.cm.Content) <= budget {
			result.Memories = append(result.Memories, c.cm)
			used += len(c.cm.Content)
			continue
		}
		if remaining := budget - used; remaining >= 100 {
			c.cm.Content = c.cm.Content[:remaining] + "..."
			c.cm.Excerpt = true
			result.Memories = append(result.Memories, c.cm)
			used += remaining
		}
		break
	}

	result.Used = used
	return result
}
