// Package archive exports heart snapshots into a SQLite database for
// offline analysis. The heart's JSON document remains the single source
// of truth; an archive is a derived artifact written on demand.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/soulkit/companion/internal/heart"
)

// Writer appends heart snapshots to a SQLite archive.
type Writer struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens or creates an archive database at the given path.
func Open(dbPath string) (*Writer, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	w := &Writer{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := w.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return w, nil
}

func (w *Writer) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), w.entropy).String()
}

func (w *Writer) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id             TEXT PRIMARY KEY,
		created_at     TEXT NOT NULL,
		heart_path     TEXT NOT NULL,
		total_memories INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memories (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
		memory_id   INTEGER NOT NULL,
		created_at  TEXT NOT NULL,
		category    TEXT NOT NULL,
		content     TEXT NOT NULL,
		importance  REAL NOT NULL,
		tags        TEXT,
		related     TEXT,
		PRIMARY KEY (snapshot_id, memory_id)
	);
	CREATE INDEX IF NOT EXISTS idx_memories_category ON memories(snapshot_id, category);

	CREATE TABLE IF NOT EXISTS traits (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
		name        TEXT NOT NULL,
		value       REAL NOT NULL,
		PRIMARY KEY (snapshot_id, name)
	);

	CREATE TABLE IF NOT EXISTS emotional_profiles (
		snapshot_id        TEXT PRIMARY KEY REFERENCES snapshots(id),
		trust              REAL NOT NULL,
		affinity           REAL NOT NULL,
		bond_strength      REAL NOT NULL,
		dominant_emotion   TEXT NOT NULL,
		shared_experiences INTEGER NOT NULL
	);
	`
	_, err := w.db.Exec(schema)
	return err
}

// WriteSnapshot archives the heart's current contents and returns the
// snapshot id.
func (w *Writer) WriteSnapshot(ctx context.Context, h *heart.Heart) (string, error) {
	entries := h.Entries()
	traits := h.Traits()
	profile := h.EmotionalProfile()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := w.newID()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, created_at, heart_path, total_memories) VALUES (?, ?, ?, ?)`,
		id, now, h.Path(), len(entries))
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	for _, entry := range entries {
		var tagsJSON, relatedJSON *string
		if len(entry.Tags) > 0 {
			b, _ := json.Marshal(entry.Tags)
			s := string(b)
			tagsJSON = &s
		}
		if len(entry.RelatedIDs) > 0 {
			b, _ := json.Marshal(entry.RelatedIDs)
			s := string(b)
			relatedJSON = &s
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO memories (snapshot_id, memory_id, created_at, category, content, importance, tags, related)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, entry.ID, entry.Timestamp.UTC().Format(time.RFC3339Nano),
			entry.Category, entry.Content, entry.Importance, tagsJSON, relatedJSON)
		if err != nil {
			return "", fmt.Errorf("insert memory %d: %w", entry.ID, err)
		}
	}

	for name, trait := range traits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO traits (snapshot_id, name, value) VALUES (?, ?, ?)`,
			id, name, trait.Value)
		if err != nil {
			return "", fmt.Errorf("insert trait %s: %w", name, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO emotional_profiles (snapshot_id, trust, affinity, bond_strength, dominant_emotion, shared_experiences)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, profile.Trust, profile.Affinity, profile.BondStrength,
		string(profile.DominantEmotion), profile.SharedExperiences)
	if err != nil {
		return "", fmt.Errorf("insert emotional profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Snapshots returns the count of archived snapshots.
func (w *Writer) Snapshots(ctx context.Context) (int, error) {
	var n int
	err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n)
	return n, err
}

// Close closes the archive database.
func (w *Writer) Close() error {
	return w.db.Close()
}
