package heart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soulkit/companion/internal/model"
)

// document is the on-disk schema of the heart file. Timestamps are
// RFC 3339 strings; memory entries are keyed by string-encoded id.
type document struct {
	Timestamp      string                     `json:"timestamp"`
	MemoryEntries  map[string]memoryRecord    `json:"memory_entries"`
	Traits         map[string]traitRecord     `json:"personality_traits"`
	Emotions       emotionRecord              `json:"emotional_profile"`
	NameProfile    json.RawMessage            `json:"name_profile,omitempty"`
	PersonaProfile json.RawMessage            `json:"persona_profile,omitempty"`
}

type memoryRecord struct {
	Timestamp  string   `json:"timestamp"`
	Category   string   `json:"category"`
	Content    string   `json:"content"`
	Importance float64  `json:"importance_score"`
	Tags       []string `json:"tags,omitempty"`
	RelatedIDs []int64  `json:"related_memories,omitempty"`
}

type traitRecord struct {
	Name       string   `json:"name"`
	Value      float64  `json:"value"`
	Influences []string `json:"influences,omitempty"`
}

type emotionRecord struct {
	Trust             float64 `json:"trust_level"`
	Affinity          float64 `json:"affinity"`
	BondStrength      float64 `json:"emotional_bond_strength"`
	DominantEmotion   string  `json:"dominant_emotion"`
	SharedExperiences int     `json:"shared_experiences"`
}

// Save rewrites the whole document. On failure the in-memory state is
// untouched and the previous file contents survive (write to a temp
// file, then rename).
func (h *Heart) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.saveLocked()
}

func (h *Heart) saveLocked() error {
	doc := document{
		Timestamp:     h.now().Format(time.RFC3339Nano),
		MemoryEntries: make(map[string]memoryRecord, len(h.entries)),
		Traits:        make(map[string]traitRecord, len(h.traits)),
		Emotions: emotionRecord{
			Trust:             h.emotions.Trust,
			Affinity:          h.emotions.Affinity,
			BondStrength:      h.emotions.BondStrength,
			DominantEmotion:   string(h.emotions.DominantEmotion),
			SharedExperiences: h.emotions.SharedExperiences,
		},
		NameProfile:    h.name,
		PersonaProfile: h.persona,
	}

	for id, entry := range h.entries {
		doc.MemoryEntries[strconv.FormatInt(id, 10)] = memoryRecord{
			Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
			Category:   entry.Category,
			Content:    entry.Content,
			Importance: entry.Importance,
			Tags:       entry.Tags,
			RelatedIDs: entry.RelatedIDs,
		}
	}
	for name, trait := range h.traits {
		doc.Traits[name] = traitRecord{Name: trait.Name, Value: trait.Value, Influences: trait.Influences}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return &StorageError{Op: "mkdir", Err: err}
	}

	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	if err := os.Rename(tmp, h.path); err != nil {
		os.Remove(tmp)
		return &StorageError{Op: "rename", Err: err}
	}
	return nil
}

// load reads the document at h.path into memory. It returns false with
// a nil error when no file exists; the caller then seeds defaults.
func (h *Heart) load() (bool, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &StorageError{Op: "read", Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, &CorruptionError{Path: h.path, Err: err}
	}

	entries := make(map[int64]model.MemoryEntry, len(doc.MemoryEntries))
	var maxID int64
	for idStr, rec := range doc.MemoryEntries {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return false, &CorruptionError{Path: h.path, Err: fmt.Errorf("memory id %q: %w", idStr, err)}
		}
		ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
		if err != nil {
			return false, &CorruptionError{Path: h.path, Err: fmt.Errorf("memory %d timestamp: %w", id, err)}
		}
		entries[id] = model.MemoryEntry{
			ID:         id,
			Timestamp:  ts,
			Category:   rec.Category,
			Content:    rec.Content,
			Importance: rec.Importance,
			Tags:       rec.Tags,
			RelatedIDs: rec.RelatedIDs,
		}
		if id > maxID {
			maxID = id
		}
	}

	traits := make(map[string]model.PersonalityTrait, len(doc.Traits))
	for name, rec := range doc.Traits {
		traits[name] = model.PersonalityTrait{Name: rec.Name, Value: rec.Value, Influences: rec.Influences}
	}

	emotion := model.EmotionalState(doc.Emotions.DominantEmotion)
	if !model.ValidEmotions[emotion] {
		return false, &CorruptionError{Path: h.path, Err: fmt.Errorf("unknown dominant_emotion %q", doc.Emotions.DominantEmotion)}
	}

	h.entries = entries
	h.traits = traits
	h.nextID = maxID + 1
	h.emotions = model.EmotionalProfile{
		Trust:             doc.Emotions.Trust,
		Affinity:          doc.Emotions.Affinity,
		BondStrength:      doc.Emotions.BondStrength,
		DominantEmotion:   emotion,
		SharedExperiences: doc.Emotions.SharedExperiences,
	}
	h.name = doc.NameProfile
	h.persona = doc.PersonaProfile
	return true, nil
}
