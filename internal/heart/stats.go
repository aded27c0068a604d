package heart

import "os"

// Stats summarizes the heart's contents.
type Stats struct {
	Path           string             `json:"path"`
	FileSizeBytes  int64              `json:"file_size_bytes"`
	TotalMemories  int                `json:"total_memories"`
	ByCategory     map[string]int     `json:"by_category"`
	Traits         map[string]float64 `json:"personality_traits"`
	Trust          float64            `json:"trust_level"`
	Affinity       float64            `json:"affinity"`
	BondStrength   float64            `json:"emotional_bond_strength"`
	DominantEmotion string            `json:"dominant_emotion"`
	SharedExperiences int             `json:"shared_experiences"`
}

// Stats returns memory statistics for status displays.
func (h *Heart) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := Stats{
		Path:              h.path,
		TotalMemories:     len(h.entries),
		ByCategory:        map[string]int{},
		Traits:            make(map[string]float64, len(h.traits)),
		Trust:             h.emotions.Trust,
		Affinity:          h.emotions.Affinity,
		BondStrength:      h.emotions.BondStrength,
		DominantEmotion:   string(h.emotions.DominantEmotion),
		SharedExperiences: h.emotions.SharedExperiences,
	}

	if info, err := os.Stat(h.path); err == nil {
		st.FileSizeBytes = info.Size()
	}
	for _, entry := range h.entries {
		st.ByCategory[entry.Category]++
	}
	for name, trait := range h.traits {
		st.Traits[name] = trait.Value
	}
	return st
}
