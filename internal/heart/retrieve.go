package heart

import (
	"sort"
	"strings"

	"github.com/soulkit/companion/internal/model"
)

// RetrieveParams holds parameters for retrieving memories.
type RetrieveParams struct {
	Category string   // exact match, empty matches all
	Tags     []string // entry must share at least one tag
	Limit    int      // 0 means 10
}

// SearchParams holds parameters for searching memory content.
type SearchParams struct {
	Query string
	Limit int // 0 means 5
}

// RetrieveMemories returns entries matching the filters, ordered by
// importance descending with ties broken by recency.
func (h *Heart) RetrieveMemories(p RetrieveParams) []model.MemoryEntry {
	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var matches []model.MemoryEntry
	for _, entry := range h.entries {
		if p.Category != "" && entry.Category != p.Category {
			continue
		}
		if len(p.Tags) > 0 && !sharesTag(entry.Tags, p.Tags) {
			continue
		}
		matches = append(matches, entry)
	}

	sortEntries(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// SearchMemories finds entries whose content contains query,
// case-insensitively, ranked by importance descending.
func (h *Heart) SearchMemories(p SearchParams) []model.MemoryEntry {
	limit := p.Limit
	if limit <= 0 {
		limit = 5
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	matches := h.searchLocked(p.Query)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (h *Heart) searchLocked(query string) []model.MemoryEntry {
	needle := strings.ToLower(query)

	var matches []model.MemoryEntry
	for _, entry := range h.entries {
		if strings.Contains(strings.ToLower(entry.Content), needle) {
			matches = append(matches, entry)
		}
	}
	sortEntries(matches)
	return matches
}

// sortEntries orders entries by importance descending, ties broken by
// more recent timestamp, then by higher id for determinism.
func sortEntries(entries []model.MemoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Importance != entries[j].Importance {
			return entries[i].Importance > entries[j].Importance
		}
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].ID > entries[j].ID
	})
}

func sharesTag(have, want []string) bool {
	for _, w := range want {
		for _, t := range have {
			if t == w {
				return true
			}
		}
	}
	return false
}
