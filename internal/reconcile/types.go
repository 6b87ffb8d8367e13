package reconcile

import (
	"modeltidy/internal/scan"
	"modeltidy/internal/store"
)

// Category labels the consistency state of one reconciled entry.
type Category string

const (
	// CategoryPointer marks payloads that are git-lfs pointers, not weights.
	CategoryPointer Category = "lfs-pointer"
	// CategoryMissing marks records whose identifier folder is absent.
	CategoryMissing Category = "missing"
	// CategoryOrphaned marks identifier folders with no database record.
	CategoryOrphaned Category = "orphaned"
	// CategoryInPlace marks records referencing files outside the models tree.
	CategoryInPlace Category = "in-place"
	// CategoryOK marks records with a healthy payload on disk.
	CategoryOK Category = "ok"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryOK, CategoryMissing, CategoryOrphaned, CategoryPointer, CategoryInPlace}

// Entry joins at most one record with at most one on-disk folder. At least
// one side is always present.
type Entry struct {
	// ID uniquely targets the entry in Apply requests: the record ID when a
	// record exists, otherwise "orphan-{identifier}".
	ID         string
	Identifier string
	Record     *store.Record
	File       *scan.Entry
	Category   Category
	// DuplicateKey is the shared content hash when the entry belongs to a
	// duplicate group; empty otherwise. Orthogonal to Category.
	DuplicateKey string
}

// DisplayName returns the record name when present, else the payload filename.
func (e Entry) DisplayName() string {
	if e.Record != nil && e.Record.Name != "" {
		return e.Record.Name
	}
	if e.File != nil {
		return e.File.Path
	}
	return e.ID
}

// SizeBytes prefers the authoritative on-disk size over the recorded one.
func (e Entry) SizeBytes() int64 {
	if e.File != nil {
		return e.File.SizeBytes
	}
	if e.Record != nil {
		return e.Record.FileSize
	}
	return 0
}

// DuplicateGroup collects records sharing a content hash. Members are ordered
// keeper-first; the keeper is never removed by pruning.
type DuplicateGroup struct {
	Hash string
	// Members holds entry IDs ordered by record creation time (ties broken by
	// database insertion order).
	Members []string
}

// Keeper returns the entry ID retained during pruning.
func (g DuplicateGroup) Keeper() string {
	return g.Members[0]
}

// Removable returns the entry IDs eligible for pruning.
func (g DuplicateGroup) Removable() []string {
	return g.Members[1:]
}

// Snapshot is the result of one reconciliation pass.
type Snapshot struct {
	Entries  []Entry
	Groups   []DuplicateGroup
	Warnings []string
}

// Counts returns per-category totals. Summed over all categories they equal
// len(Entries) exactly: every entry has one category.
func (s *Snapshot) Counts() map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, entry := range s.Entries {
		counts[entry.Category]++
	}
	return counts
}

// Entry returns the entry with the given ID, or nil.
func (s *Snapshot) Entry(id string) *Entry {
	for i := range s.Entries {
		if s.Entries[i].ID == id {
			return &s.Entries[i]
		}
	}
	return nil
}

// Group returns the duplicate group with the given hash, or nil.
func (s *Snapshot) Group(hash string) *DuplicateGroup {
	for i := range s.Groups {
		if s.Groups[i].Hash == hash {
			return &s.Groups[i]
		}
	}
	return nil
}
