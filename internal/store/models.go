package store

import (
	"strings"
	"time"
)

// ExternalHash is the sentinel hash value marking a record that references a
// file outside the managed models tree. Such records never have an
// identifier folder and never participate in duplicate detection.
const ExternalHash = "N/A"

// Record is one row of the models table.
type Record struct {
	// RowID is SQLite's rowid, used as a deterministic insertion-order
	// tie-break when creation timestamps collide.
	RowID     int64
	ID        string
	Name      string
	Type      string
	Hash      string
	Path      string
	FileSize  int64
	CreatedAt time.Time
}

// External reports whether the record points at a file outside the models tree.
func (r Record) External() bool {
	return strings.TrimSpace(r.Hash) == "" || r.Hash == ExternalHash
}

// ContentHash returns the record's hash, normalizing absent values to the
// ExternalHash sentinel.
func (r Record) ContentHash() string {
	if strings.TrimSpace(r.Hash) == "" {
		return ExternalHash
	}
	return r.Hash
}

// Health captures diagnostic information about the model database.
type Health struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	ColumnsPresent   []string
	MissingColumns   []string
	TotalRecords     int
	Error            string
}
