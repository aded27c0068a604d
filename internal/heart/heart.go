// Package heart implements the companion's durable memory store.
//
// The heart is a single JSON document on disk holding memory entries,
// personality trait weights, the emotional bond profile, and the naming
// and persona profiles. Every mutation writes through to disk; the file
// is the sole source of truth across restarts.
package heart

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/soulkit/companion/internal/model"
)

// Options configures a Heart at construction. Zero fields fall back to
// DefaultOptions values.
type Options struct {
	// SeedTraits are the personality weights for a freshly created heart.
	SeedTraits map[string]float64
	// SeedEmotion is the emotional profile for a freshly created heart.
	SeedEmotion model.EmotionalProfile
	// CompactAge is how old an entry must be before compaction counts it.
	CompactAge time.Duration
	// CompactMin is the per-category entry count above which a summary is written.
	CompactMin int
	// PruneOriginals removes summarized entries instead of retaining them.
	PruneOriginals bool
}

// DefaultOptions returns the seed personality and compaction defaults.
func DefaultOptions() Options {
	return Options{
		SeedTraits: map[string]float64{
			"helpfulness":  0.9,
			"curiosity":    0.8,
			"empathy":      0.7,
			"playfulness":  0.6,
			"caution":      0.5,
			"adaptability": 0.8,
		},
		SeedEmotion: model.EmotionalProfile{
			Trust:           0.5,
			Affinity:        0.5,
			BondStrength:    0.0,
			DominantEmotion: model.EmotionCurious,
		},
		CompactAge: 7 * 24 * time.Hour,
		CompactMin: 10,
	}
}

// Heart is the persistent store. All mutating calls serialize behind one
// mutex; each mutation rewrites the whole document.
type Heart struct {
	mu   sync.Mutex
	path string
	opts Options
	now  func() time.Time

	entries  map[int64]model.MemoryEntry
	traits   map[string]model.PersonalityTrait
	emotions model.EmotionalProfile
	name     json.RawMessage
	persona  json.RawMessage
	nextID   int64
}

// New opens the heart document at path, or seeds and persists a default
// one if no file exists. A malformed file is a *CorruptionError.
func New(path string, opts Options) (*Heart, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &ValidationError{Field: "path", Reason: "must not be empty"}
	}
	fillDefaults(&opts)

	h := &Heart{
		path:    path,
		opts:    opts,
		now:     time.Now,
		entries: map[int64]model.MemoryEntry{},
		traits:  map[string]model.PersonalityTrait{},
		nextID:  1,
	}

	loaded, err := h.load()
	if err != nil {
		return nil, err
	}
	if !loaded {
		h.seed()
		if err := h.saveLocked(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func fillDefaults(opts *Options) {
	def := DefaultOptions()
	if opts.SeedTraits == nil {
		opts.SeedTraits = def.SeedTraits
	}
	if opts.SeedEmotion == (model.EmotionalProfile{}) {
		opts.SeedEmotion = def.SeedEmotion
	}
	if opts.CompactAge <= 0 {
		opts.CompactAge = def.CompactAge
	}
	if opts.CompactMin <= 0 {
		opts.CompactMin = def.CompactMin
	}
}

func (h *Heart) seed() {
	for name, value := range h.opts.SeedTraits {
		h.traits[name] = model.PersonalityTrait{Name: name, Value: value}
	}
	h.emotions = h.opts.SeedEmotion
}

// StoreMemory appends a memory entry and persists it, returning the
// assigned id. Importance is clamped to [0,1]; ids are unique and
// strictly increasing for the life of the store instance.
func (h *Heart) StoreMemory(category, content string, importance float64, tags []string) (int64, error) {
	if strings.TrimSpace(category) == "" {
		return 0, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if math.IsNaN(importance) {
		return 0, &ValidationError{Field: "importance", Reason: "must be a number"}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.storeLocked(category, content, importance, tags)
}

func (h *Heart) storeLocked(category, content string, importance float64, tags []string) (int64, error) {
	id := h.nextID
	h.entries[id] = model.MemoryEntry{
		ID:         id,
		Timestamp:  h.now(),
		Category:   category,
		Content:    content,
		Importance: clamp01(importance),
		Tags:       append([]string(nil), tags...),
	}
	h.nextID++

	if err := h.saveLocked(); err != nil {
		delete(h.entries, id)
		h.nextID = id
		return 0, err
	}
	return id, nil
}

// UpdateTrait nudges a personality trait toward proposed via a damped
// average: clamp((old+proposed)/2, 0, 1). Traits are never overwritten
// outright. A non-empty reason also logs a personality_update memory.
func (h *Heart) UpdateTrait(name string, proposed float64, reason string) error {
	if math.IsNaN(proposed) {
		return &ValidationError{Field: "value", Reason: "must be a number"}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	trait, ok := h.traits[name]
	if !ok {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("unknown trait %q", name)}
	}

	old := trait
	trait.Value = clamp01((trait.Value + proposed) / 2)
	h.traits[name] = trait

	if reason != "" {
		content := fmt.Sprintf("Trait %q adjusted to %.2f. Reason: %s", name, trait.Value, reason)
		if _, err := h.storeLocked("personality_update", content, 0.7, nil); err != nil {
			h.traits[name] = old
			return err
		}
		return nil
	}

	if err := h.saveLocked(); err != nil {
		h.traits[name] = old
		return err
	}
	return nil
}

// EmotionUpdate names the emotional profile fields that may change.
// Nil fields are left untouched.
type EmotionUpdate struct {
	Trust             *float64
	Affinity          *float64
	BondStrength      *float64
	DominantEmotion   *model.EmotionalState
	SharedExperiences *int
}

// UpdateEmotions applies the supplied fields to the emotional profile
// and persists the result. Floats are clamped to [0,1].
func (h *Heart) UpdateEmotions(u EmotionUpdate) error {
	if u.DominantEmotion != nil && !model.ValidEmotions[*u.DominantEmotion] {
		return &ValidationError{Field: "dominant_emotion", Reason: fmt.Sprintf("unknown emotion %q", *u.DominantEmotion)}
	}
	if u.SharedExperiences != nil && *u.SharedExperiences < 0 {
		return &ValidationError{Field: "shared_experiences", Reason: "must not be negative"}
	}
	for _, f := range []*float64{u.Trust, u.Affinity, u.BondStrength} {
		if f != nil && math.IsNaN(*f) {
			return &ValidationError{Field: "emotional_profile", Reason: "values must be numbers"}
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	old := h.emotions
	if u.Trust != nil {
		h.emotions.Trust = clamp01(*u.Trust)
	}
	if u.Affinity != nil {
		h.emotions.Affinity = clamp01(*u.Affinity)
	}
	if u.BondStrength != nil {
		h.emotions.BondStrength = clamp01(*u.BondStrength)
	}
	if u.DominantEmotion != nil {
		h.emotions.DominantEmotion = *u.DominantEmotion
	}
	if u.SharedExperiences != nil {
		h.emotions.SharedExperiences = *u.SharedExperiences
	}

	if err := h.saveLocked(); err != nil {
		h.emotions = old
		return err
	}
	return nil
}

// SetNameProfile stores the naming profile block verbatim.
func (h *Heart) SetNameProfile(raw json.RawMessage) error {
	return h.setProfile(&h.name, "name_profile", raw)
}

// SetPersonaProfile stores the persona profile block verbatim.
func (h *Heart) SetPersonaProfile(raw json.RawMessage) error {
	return h.setProfile(&h.persona, "persona_profile", raw)
}

func (h *Heart) setProfile(dst *json.RawMessage, field string, raw json.RawMessage) error {
	if len(raw) > 0 && !json.Valid(raw) {
		return &ValidationError{Field: field, Reason: "must be valid JSON"}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	old := *dst
	*dst = append(json.RawMessage(nil), raw...)
	if err := h.saveLocked(); err != nil {
		*dst = old
		return err
	}
	return nil
}

// NameProfile returns the stored naming profile block, nil if unset.
func (h *Heart) NameProfile() json.RawMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append(json.RawMessage(nil), h.name...)
}

// PersonaProfile returns the stored persona profile block, nil if unset.
func (h *Heart) PersonaProfile() json.RawMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append(json.RawMessage(nil), h.persona...)
}

// EmotionalProfile returns a copy of the current emotional profile.
func (h *Heart) EmotionalProfile() model.EmotionalProfile {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.emotions
}

// Traits returns a copy of the personality trait map.
func (h *Heart) Traits() map[string]model.PersonalityTrait {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]model.PersonalityTrait, len(h.traits))
	for name, trait := range h.traits {
		out[name] = trait
	}
	return out
}

// Entries returns all memory entries ordered by id.
func (h *Heart) Entries() []model.MemoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entriesLocked()
}

func (h *Heart) entriesLocked() []model.MemoryEntry {
	out := make([]model.MemoryEntry, 0, len(h.entries))
	for id := int64(1); id < h.nextID; id++ {
		if entry, ok := h.entries[id]; ok {
			out = append(out, entry)
		}
	}
	return out
}

// Path returns the heart document location.
func (h *Heart) Path() string {
	return h.path
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
