package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/soulkit/companion/internal/heart"
)

func newTestHeart(t *testing.T) *heart.Heart {
	t.Helper()
	h, err := heart.New(filepath.Join(t.TempDir(), "heart.json"), heart.DefaultOptions())
	if err != nil {
		t.Fatalf("create heart: %v", err)
	}
	return h
}

func TestWriteSnapshot(t *testing.T) {
	h := newTestHeart(t)
	if _, err := h.StoreMemory("learning", "user prefers green tea", 0.8, []string{"preference"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := h.StoreMemory("conversation", "talked about hiking", 0.5, nil); err != nil {
		t.Fatalf("store: %v", err)
	}

	w, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer w.Close()

	ctx := context.Background()
	id, err := w.WriteSnapshot(ctx, h)
	if err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if id == "" {
		t.Fatal("expected a snapshot id")
	}

	var total int
	if err := w.db.QueryRowContext(ctx, `SELECT total_memories FROM snapshots WHERE id = ?`, id).Scan(&total); err != nil {
		t.Fatalf("query snapshot: %v", err)
	}
	if total != 2 {
		t.Errorf("total_memories = %d, want 2", total)
	}

	var memories int
	if err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE snapshot_id = ?`, id).Scan(&memories); err != nil {
		t.Fatalf("query memories: %v", err)
	}
	if memories != 2 {
		t.Errorf("archived %d memories, want 2", memories)
	}

	var traits int
	if err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM traits WHERE snapshot_id = ?`, id).Scan(&traits); err != nil {
		t.Fatalf("query traits: %v", err)
	}
	if traits != len(h.Traits()) {
		t.Errorf("archived %d traits, want %d", traits, len(h.Traits()))
	}

	var dominant string
	if err := w.db.QueryRowContext(ctx,
		`SELECT dominant_emotion FROM emotional_profiles WHERE snapshot_id = ?`, id).Scan(&dominant); err != nil {
		t.Fatalf("query profile: %v", err)
	}
	if dominant != "curious" {
		t.Errorf("dominant emotion = %q, want curious", dominant)
	}
}

func TestSnapshotsCount(t *testing.T) {
	h := newTestHeart(t)

	w, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer w.Close()

	ctx := context.Background()
	if n, err := w.Snapshots(ctx); err != nil || n != 0 {
		t.Fatalf("snapshots = %d, %v, want 0 on a fresh archive", n, err)
	}

	a, err := w.WriteSnapshot(ctx, h)
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	b, err := w.WriteSnapshot(ctx, h)
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	if a == b {
		t.Error("snapshot ids must be unique")
	}

	if n, err := w.Snapshots(ctx); err != nil || n != 2 {
		t.Errorf("snapshots = %d, %v, want 2", n, err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	h := newTestHeart(t)
	ctx := context.Background()
	if _, err := w.WriteSnapshot(ctx, h); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()

	// Reopening migrates against the existing schema and keeps data.
	w2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer w2.Close()
	if n, err := w2.Snapshots(ctx); err != nil || n != 1 {
		t.Errorf("snapshots after reopen = %d, %v, want 1", n, err)
	}
}
