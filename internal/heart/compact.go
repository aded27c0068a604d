package heart

import (
	"fmt"

	"github.com/soulkit/companion/internal/model"
)

// compactCategories are the categories eligible for summarization.
var compactCategories = []string{"conversation", "learning", "experience"}

// Compact summarizes aged entries. For each eligible category with more
// than CompactMin entries older than CompactAge, one synthetic summary
// entry is appended. Originals are retained unless PruneOriginals is
// set. Returns the number of summaries written.
func (h *Heart) Compact() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := h.now().Add(-h.opts.CompactAge)

	// Snapshot for rollback: compaction touches many entries at once.
	oldEntries := make(map[int64]model.MemoryEntry, len(h.entries))
	for id, entry := range h.entries {
		oldEntries[id] = entry
	}
	oldNext := h.nextID

	summaries := 0
	for _, category := range compactCategories {
		var oldIDs []int64
		for id, entry := range h.entries {
			if entry.Category == category && entry.Timestamp.Before(cutoff) {
				oldIDs = append(oldIDs, id)
			}
		}
		if len(oldIDs) <= h.opts.CompactMin {
			continue
		}

		id := h.nextID
		h.entries[id] = model.MemoryEntry{
			ID:         id,
			Timestamp:  h.now(),
			Category:   category + "_summary",
			Content:    fmt.Sprintf("Summary of %d %s entries", len(oldIDs), category),
			Importance: 0.3,
		}
		h.nextID++
		summaries++

		if h.opts.PruneOriginals {
			for _, oldID := range oldIDs {
				delete(h.entries, oldID)
			}
		}
	}

	if summaries == 0 {
		return 0, nil
	}

	if err := h.saveLocked(); err != nil {
		h.entries = oldEntries
		h.nextID = oldNext
		return 0, err
	}
	return summaries, nil
}
