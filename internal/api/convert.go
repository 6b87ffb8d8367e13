package api

import (
	"time"

	"modeltidy/internal/preflight"
	"modeltidy/internal/reconcile"
	"modeltidy/internal/sweeper"
)

// FromEntry converts an internal reconciled entry into its DTO.
func FromEntry(entry reconcile.Entry) ModelEntry {
	out := ModelEntry{
		ID:           entry.ID,
		Identifier:   entry.Identifier,
		Name:         entry.DisplayName(),
		Category:     string(entry.Category),
		SizeBytes:    entry.SizeBytes(),
		DuplicateKey: entry.DuplicateKey,
	}
	if entry.Record != nil {
		out.Type = entry.Record.Type
		out.Hash = entry.Record.Hash
		out.Path = entry.Record.Path
		if !entry.Record.CreatedAt.IsZero() {
			out.CreatedAt = entry.Record.CreatedAt.UTC().Format(time.RFC3339)
		}
	}
	if entry.File != nil {
		out.Path = entry.File.Path
		out.Symlink = entry.File.IsSymlink
	}
	return out
}

// FromSnapshot converts a reconciliation snapshot into a transport report.
func FromSnapshot(snapshot *reconcile.Snapshot) *Report {
	report := &Report{
		Entries:  make([]ModelEntry, 0, len(snapshot.Entries)),
		Counts:   make(map[string]int, len(reconcile.Categories)),
		Groups:   make([]DuplicateGroupView, 0, len(snapshot.Groups)),
		Warnings: snapshot.Warnings,
	}
	for _, entry := range snapshot.Entries {
		report.Entries = append(report.Entries, FromEntry(entry))
	}
	for category, count := range snapshot.Counts() {
		report.Counts[string(category)] = count
	}
	for _, group := range snapshot.Groups {
		view := DuplicateGroupView{
			Hash:      group.Hash,
			Keeper:    group.Keeper(),
			Removable: group.Removable(),
		}
		for _, id := range group.Removable() {
			if entry := snapshot.Entry(id); entry != nil {
				view.ReclaimableBytes += entry.SizeBytes()
			}
		}
		report.Groups = append(report.Groups, view)
	}
	return report
}

// FromOutcome converts a sweep outcome into its DTO.
func FromOutcome(kind sweeper.Kind, outcome *sweeper.Outcome) *SweepResult {
	result := &SweepResult{
		Action:    string(kind),
		Succeeded: outcome.Succeeded,
		Warnings:  outcome.Warnings,
	}
	for _, failure := range outcome.Failed {
		result.Failed = append(result.Failed, EntryFailure{ID: failure.ID, Reason: failure.Reason})
	}
	return result
}

// FromPreflight converts preflight results into their DTOs.
func FromPreflight(results []preflight.Result) []CheckView {
	views := make([]CheckView, 0, len(results))
	for _, result := range results {
		views = append(views, CheckView{Name: result.Name, Passed: result.Passed, Detail: result.Detail})
	}
	return views
}
