package heart

import "fmt"

// LinkMemories records a bidirectional relation between two entries.
// Linking is idempotent; linking an entry to itself or to an unknown id
// is a *ValidationError.
func (h *Heart) LinkMemories(fromID, toID int64) error {
	if fromID == toID {
		return &ValidationError{Field: "id", Reason: "cannot link a memory to itself"}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	from, ok := h.entries[fromID]
	if !ok {
		return &ValidationError{Field: "id", Reason: fmt.Sprintf("memory %d not found", fromID)}
	}
	to, ok := h.entries[toID]
	if !ok {
		return &ValidationError{Field: "id", Reason: fmt.Sprintf("memory %d not found", toID)}
	}

	oldFrom, oldTo := from.RelatedIDs, to.RelatedIDs
	from.RelatedIDs = appendID(from.RelatedIDs, toID)
	to.RelatedIDs = appendID(to.RelatedIDs, fromID)
	h.entries[fromID] = from
	h.entries[toID] = to

	if err := h.saveLocked(); err != nil {
		from.RelatedIDs = oldFrom
		to.RelatedIDs = oldTo
		h.entries[fromID] = from
		h.entries[toID] = to
		return err
	}
	return nil
}

func appendID(ids []int64, id int64) []int64 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(append([]int64(nil), ids...), id)
}
