package heart

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soulkit/companion/internal/model"
)

func newTestHeart(t *testing.T) *Heart {
	t.Helper()
	dir := t.TempDir()
	h, err := New(filepath.Join(dir, "heart.json"), Options{})
	if err != nil {
		t.Fatalf("create heart: %v", err)
	}
	return h
}

func TestSeedDefaults(t *testing.T) {
	h := newTestHeart(t)

	wantTraits := map[string]float64{
		"helpfulness":  0.9,
		"curiosity":    0.8,
		"empathy":      0.7,
		"playfulness":  0.6,
		"caution":      0.5,
		"adaptability": 0.8,
	}
	traits := h.Traits()
	if len(traits) != len(wantTraits) {
		t.Fatalf("expected %d traits, got %d", len(wantTraits), len(traits))
	}
	for name, want := range wantTraits {
		if got := traits[name].Value; got != want {
			t.Errorf("trait %s = %v, want %v", name, got, want)
		}
	}

	p := h.EmotionalProfile()
	if p.Trust != 0.5 || p.Affinity != 0.5 || p.BondStrength != 0 {
		t.Errorf("unexpected emotional profile: %+v", p)
	}
	if p.DominantEmotion != "curious" {
		t.Errorf("dominant emotion = %q, want curious", p.DominantEmotion)
	}
	if p.SharedExperiences != 0 {
		t.Errorf("shared experiences = %d, want 0", p.SharedExperiences)
	}

	// Seeding persists immediately.
	if _, err := os.Stat(h.Path()); err != nil {
		t.Errorf("heart file not written: %v", err)
	}
}

func TestStoreMemoryClampsImportance(t *testing.T) {
	h := newTestHeart(t)

	cases := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.3, 0.3},
		{1, 1},
		{1.7, 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}
	for _, tc := range cases {
		if _, err := h.StoreMemory("learning", "x", tc.in, nil); err != nil {
			t.Fatalf("store importance=%v: %v", tc.in, err)
		}
		entries := h.Entries()
		got := entries[len(entries)-1].Importance
		if got != tc.want {
			t.Errorf("importance %v clamped to %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestStoreMemoryValidation(t *testing.T) {
	h := newTestHeart(t)

	var verr *ValidationError
	if _, err := h.StoreMemory("", "content", 0.5, nil); !errors.As(err, &verr) {
		t.Errorf("empty category: got %v, want ValidationError", err)
	}
	if _, err := h.StoreMemory("  ", "content", 0.5, nil); !errors.As(err, &verr) {
		t.Errorf("blank category: got %v, want ValidationError", err)
	}
	if _, err := h.StoreMemory("learning", "content", math.NaN(), nil); !errors.As(err, &verr) {
		t.Errorf("NaN importance: got %v, want ValidationError", err)
	}
	if len(h.Entries()) != 0 {
		t.Error("rejected calls must not change state")
	}
}

func TestMemoryIDsStrictlyIncrease(t *testing.T) {
	h := newTestHeart(t)

	var prev int64
	for i := 0; i < 5; i++ {
		id, err := h.StoreMemory("conversation", "hello", 0.5, nil)
		if err != nil {
			t.Fatalf("store: %v", err)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heart.json")

	h, err := New(path, Options{})
	if err != nil {
		t.Fatalf("create heart: %v", err)
	}

	id1, _ := h.StoreMemory("conversation", "first chat", 0.8, []string{"greeting", "morning"})
	id2, _ := h.StoreMemory("learning", "user likes tea", 0.6, []string{"preference"})
	if err := h.LinkMemories(id1, id2); err != nil {
		t.Fatalf("link: %v", err)
	}
	if err := h.UpdateTrait("curiosity", 1.0, ""); err != nil {
		t.Fatalf("update trait: %v", err)
	}
	trust := 0.9
	emotion := model.EmotionHappy
	if err := h.UpdateEmotions(EmotionUpdate{Trust: &trust, DominantEmotion: &emotion}); err != nil {
		t.Fatalf("update emotions: %v", err)
	}

	namBlock := json.RawMessage(`{"ai_name":"Iris","custom_field":{"nested":true}}`)
	if err := h.SetNameProfile(namBlock); err != nil {
		t.Fatalf("set name profile: %v", err)
	}

	reopened, err := New(path, Options{})
	if err != nil {
		t.Fatalf("reopen heart: %v", err)
	}

	want := h.Entries()
	got := reopened.Entries()
	if len(got) != len(want) {
		t.Fatalf("entry count %d, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Category != w.Category || g.Content != w.Content || g.Importance != w.Importance {
			t.Errorf("entry %d mismatch: %+v vs %+v", i, g, w)
		}
		if !g.Timestamp.Equal(w.Timestamp) {
			t.Errorf("entry %d timestamp %v, want %v", i, g.Timestamp, w.Timestamp)
		}
		if len(g.Tags) != len(w.Tags) || len(g.RelatedIDs) != len(w.RelatedIDs) {
			t.Errorf("entry %d tags/links mismatch", i)
		}
	}

	if got, want := reopened.Traits()["curiosity"].Value, h.Traits()["curiosity"].Value; got != want {
		t.Errorf("curiosity = %v, want %v", got, want)
	}
	if got, want := reopened.EmotionalProfile(), h.EmotionalProfile(); got != want {
		t.Errorf("emotional profile = %+v, want %+v", got, want)
	}
	if got := reopened.NameProfile(); string(got) != string(namBlock) {
		t.Errorf("name profile = %s, want %s", got, namBlock)
	}

	// New ids continue after the highest loaded id.
	id3, _ := reopened.StoreMemory("experience", "walk", 0.5, nil)
	if id3 <= id2 {
		t.Errorf("id %d should exceed %d after reload", id3, id2)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heart.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := New(path, Options{})
	var cerr *CorruptionError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want CorruptionError", err)
	}
}

func TestLoadBadEmotion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heart.json")
	doc := `{"timestamp":"2026-01-01T00:00:00Z","memory_entries":{},"personality_traits":{},` +
		`"emotional_profile":{"trust_level":0.5,"affinity":0.5,"emotional_bond_strength":0,` +
		`"dominant_emotion":"rage","shared_experiences":0}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := New(path, Options{})
	var cerr *CorruptionError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want CorruptionError", err)
	}
}

func TestRetrieveOrdering(t *testing.T) {
	h := newTestHeart(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	h.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	h.StoreMemory("conversation", "older equal", 0.5, nil)
	h.StoreMemory("conversation", "newer equal", 0.5, nil)
	h.StoreMemory("conversation", "most important", 0.9, nil)
	h.StoreMemory("learning", "other category", 1.0, nil)

	got := h.RetrieveMemories(RetrieveParams{Category: "conversation"})
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Content != "most important" {
		t.Errorf("first = %q, want most important", got[0].Content)
	}
	// Equal importance: more recent first.
	if got[1].Content != "newer equal" || got[2].Content != "older equal" {
		t.Errorf("tie order = %q, %q", got[1].Content, got[2].Content)
	}
}

func TestRetrieveFilters(t *testing.T) {
	h := newTestHeart(t)

	h.StoreMemory("conversation", "tagged", 0.5, []string{"tea", "morning"})
	h.StoreMemory("conversation", "untagged", 0.5, nil)
	h.StoreMemory("learning", "tagged other", 0.5, []string{"tea"})

	got := h.RetrieveMemories(RetrieveParams{Tags: []string{"tea"}})
	if len(got) != 2 {
		t.Errorf("tag filter: got %d, want 2", len(got))
	}

	got = h.RetrieveMemories(RetrieveParams{Category: "learning", Tags: []string{"tea"}})
	if len(got) != 1 || got[0].Content != "tagged other" {
		t.Errorf("combined filter: got %+v", got)
	}

	got = h.RetrieveMemories(RetrieveParams{Limit: 1})
	if len(got) != 1 {
		t.Errorf("limit: got %d, want 1", len(got))
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	h := newTestHeart(t)

	h.StoreMemory("conversation", "User loves Green Tea", 0.4, nil)
	h.StoreMemory("conversation", "weather was sunny", 0.9, nil)
	h.StoreMemory("learning", "tea ceremony history", 0.8, nil)

	got := h.SearchMemories(SearchParams{Query: "TEA"})
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Content != "tea ceremony history" {
		t.Errorf("ranked first = %q, want highest importance", got[0].Content)
	}
}

func TestUpdateTraitDamped(t *testing.T) {
	h := newTestHeart(t)

	if err := h.UpdateTrait("curiosity", 1.0, ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := h.Traits()["curiosity"].Value; math.Abs(got-0.9) > 1e-9 {
		t.Errorf("curiosity = %v, want 0.9 (damped average, not overwrite)", got)
	}

	var verr *ValidationError
	if err := h.UpdateTrait("bravado", 0.5, ""); !errors.As(err, &verr) {
		t.Errorf("unknown trait: got %v, want ValidationError", err)
	}
}

func TestUpdateTraitReasonLogsMemory(t *testing.T) {
	h := newTestHeart(t)

	if err := h.UpdateTrait("empathy", 0.9, "user shared a worry"); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := h.RetrieveMemories(RetrieveParams{Category: "personality_update"})
	if len(got) != 1 {
		t.Fatalf("got %d personality_update entries, want 1", len(got))
	}
	if got[0].Importance != 0.7 {
		t.Errorf("importance = %v, want 0.7", got[0].Importance)
	}
}

func TestUpdateEmotionsPartial(t *testing.T) {
	h := newTestHeart(t)

	trust := 0.8
	if err := h.UpdateEmotions(EmotionUpdate{Trust: &trust}); err != nil {
		t.Fatalf("update: %v", err)
	}

	p := h.EmotionalProfile()
	if p.Trust != 0.8 {
		t.Errorf("trust = %v, want 0.8", p.Trust)
	}
	if p.Affinity != 0.5 || p.DominantEmotion != "curious" {
		t.Errorf("untouched fields changed: %+v", p)
	}

	over := 1.5
	if err := h.UpdateEmotions(EmotionUpdate{BondStrength: &over}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := h.EmotionalProfile().BondStrength; got != 1 {
		t.Errorf("bond = %v, want clamped to 1", got)
	}

	var verr *ValidationError
	bad := -1
	if err := h.UpdateEmotions(EmotionUpdate{SharedExperiences: &bad}); !errors.As(err, &verr) {
		t.Errorf("negative shared experiences: got %v, want ValidationError", err)
	}
}

func TestLinkMemories(t *testing.T) {
	h := newTestHeart(t)

	id1, _ := h.StoreMemory("conversation", "a", 0.5, nil)
	id2, _ := h.StoreMemory("conversation", "b", 0.5, nil)

	if err := h.LinkMemories(id1, id2); err != nil {
		t.Fatalf("link: %v", err)
	}
	// Idempotent.
	if err := h.LinkMemories(id1, id2); err != nil {
		t.Fatalf("relink: %v", err)
	}

	entries := h.Entries()
	if len(entries[0].RelatedIDs) != 1 || entries[0].RelatedIDs[0] != id2 {
		t.Errorf("entry %d related = %v, want [%d]", id1, entries[0].RelatedIDs, id2)
	}
	if len(entries[1].RelatedIDs) != 1 || entries[1].RelatedIDs[0] != id1 {
		t.Errorf("entry %d related = %v, want [%d]", id2, entries[1].RelatedIDs, id1)
	}

	var verr *ValidationError
	if err := h.LinkMemories(id1, id1); !errors.As(err, &verr) {
		t.Errorf("self link: got %v, want ValidationError", err)
	}
	if err := h.LinkMemories(id1, 999); !errors.As(err, &verr) {
		t.Errorf("unknown id: got %v, want ValidationError", err)
	}
}

func TestSaveFailureLeavesStateUnchanged(t *testing.T) {
	h := newTestHeart(t)

	if _, err := h.StoreMemory("conversation", "kept", 0.5, nil); err != nil {
		t.Fatalf("store: %v", err)
	}

	// Point the heart at a non-empty directory so the rename must fail.
	h.path = filepath.Dir(h.path)

	_, err := h.StoreMemory("conversation", "lost", 0.5, nil)
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want StorageError", err)
	}

	entries := h.Entries()
	if len(entries) != 1 || entries[0].Content != "kept" {
		t.Errorf("in-memory state changed after failed save: %+v", entries)
	}
	if h.nextID != 2 {
		t.Errorf("nextID = %d, want 2 (failed write not committed)", h.nextID)
	}
}

func TestStats(t *testing.T) {
	h := newTestHeart(t)

	h.StoreMemory("conversation", "a", 0.5, nil)
	h.StoreMemory("conversation", "b", 0.5, nil)
	h.StoreMemory("learning", "c", 0.5, nil)

	st := h.Stats()
	if st.TotalMemories != 3 {
		t.Errorf("total = %d, want 3", st.TotalMemories)
	}
	if st.ByCategory["conversation"] != 2 || st.ByCategory["learning"] != 1 {
		t.Errorf("by category = %v", st.ByCategory)
	}
	if st.Traits["helpfulness"] != 0.9 {
		t.Errorf("traits = %v", st.Traits)
	}
	if st.DominantEmotion != "curious" {
		t.Errorf("dominant emotion = %q", st.DominantEmotion)
	}
	if st.FileSizeBytes == 0 {
		t.Error("file size should be non-zero")
	}
}
