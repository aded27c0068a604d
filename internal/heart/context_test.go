package heart

import (
	"strings"
	"testing"
)

func TestRecallContextPacksByScore(t *testing.T) {
	h := newTestHeart(t)

	h.StoreMemory("learning", "tea: user prefers green tea in the morning", 0.9, nil)
	h.StoreMemory("conversation", "tea: small talk about tea bags", 0.2, nil)
	h.StoreMemory("learning", "unrelated note about weather", 0.9, nil)

	result := h.RecallContext("tea", 4000)
	if len(result.Memories) != 2 {
		t.Fatalf("got %d memories, want 2", len(result.Memories))
	}
	if !strings.Contains(result.Memories[0].Content, "green tea") {
		t.Errorf("highest scored = %q", result.Memories[0].Content)
	}
	if result.Used == 0 || result.Used > result.Budget {
		t.Errorf("used = %d with budget %d", result.Used, result.Budget)
	}
	for _, m := range result.Memories {
		if m.Score <= 0 {
			t.Errorf("memory %d score = %v", m.ID, m.Score)
		}
	}
}

func TestRecallContextBudgetExcerpt(t *testing.T) {
	h := newTestHeart(t)

	long := strings.Repeat("the topic is tea and ", 30)
	h.StoreMemory("learning", long, 0.9, nil)

	result := h.RecallContext("tea", 200)
	if len(result.Memories) != 1 {
		t.Fatalf("got %d memories, want 1", len(result.Memories))
	}
	if !result.Memories[0].Excerpt {
		t.Error("expected a truncated excerpt")
	}
	if result.Used != 200 {
		t.Errorf("used = %d, want the full budget", result.Used)
	}
}

func TestRecallContextNoMatches(t *testing.T) {
	h := newTestHeart(t)
	h.StoreMemory("learning", "nothing relevant", 0.9, nil)

	result := h.RecallContext("zebra", 1000)
	if len(result.Memories) != 0 || result.Used != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
