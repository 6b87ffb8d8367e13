package testsupport

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"modeltidy/internal/config"
	"modeltidy/internal/store"
)

// fixtureSchema mirrors the subset of InvokeAI's models table modeltidy reads.
const fixtureSchema = `
CREATE TABLE IF NOT EXISTS models (
    id TEXT NOT NULL PRIMARY KEY,
    name TEXT,
    type TEXT,
    hash TEXT,
    path TEXT,
    file_size INTEGER,
    created_at TEXT
);`

// CreateModelDB creates an empty fixture database at the config's database path.
func CreateModelDB(t testing.TB, cfg *config.Config) {
	t.Helper()

	db, err := sql.Open("sqlite", cfg.Database())
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(fixtureSchema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}
}

// MustOpenStore creates the fixture database and opens a store.Store over it,
// registering cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	CreateModelDB(t, cfg)
	s, err := store.Open(cfg.Database())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// RecordSpec describes a fixture model record.
type RecordSpec struct {
	ID        string
	Name      string
	Type      string
	Hash      string
	Path      string
	FileSize  int64
	CreatedAt time.Time
}

// SeedRecord inserts a record directly into the fixture database.
func SeedRecord(t testing.TB, cfg *config.Config, spec RecordSpec) {
	t.Helper()

	db, err := sql.Open("sqlite", cfg.Database())
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	if spec.Type == "" {
		spec.Type = "main"
	}
	if spec.CreatedAt.IsZero() {
		spec.CreatedAt = time.Now().UTC()
	}

	_, err = db.ExecContext(
		context.Background(),
		`INSERT INTO models (id, name, type, hash, path, file_size, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		spec.ID,
		spec.Name,
		spec.Type,
		spec.Hash,
		spec.Path,
		spec.FileSize,
		spec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("seed record %s: %v", spec.ID, err)
	}
}
