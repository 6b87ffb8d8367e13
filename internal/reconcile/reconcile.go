package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"modeltidy/internal/logging"
	"modeltidy/internal/scan"
	"modeltidy/internal/store"
)

// OrphanIDPrefix distinguishes entry IDs synthesized for folders without records.
const OrphanIDPrefix = "orphan-"

// Reconciler builds snapshots from the store and the filesystem inventory.
type Reconciler struct {
	store   *store.Store
	scanner *scan.Scanner
	logger  *slog.Logger
}

// New constructs a Reconciler.
func New(st *store.Store, scanner *scan.Scanner, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		store:   st,
		scanner: scanner,
		logger:  logging.WithComponent(logger, "reconciler"),
	}
}

// Reconcile reads the store and scans modelsRoot concurrently, then joins and
// classifies the results. Store or root unavailability fails the whole pass;
// per-entry problems become snapshot warnings.
func (r *Reconciler) Reconcile(ctx context.Context, modelsRoot string) (*Snapshot, error) {
	var (
		records   []store.Record
		inventory *scan.Inventory
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		records, err = r.store.List(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		inventory, err = r.scanner.Scan(groupCtx, modelsRoot)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	snapshot, err := r.join(records, inventory)
	if err != nil {
		return nil, err
	}

	counts := snapshot.Counts()
	r.logger.Info("reconciliation pass completed",
		logging.Int("entries", len(snapshot.Entries)),
		logging.Int("ok", counts[CategoryOK]),
		logging.Int("missing", counts[CategoryMissing]),
		logging.Int("orphaned", counts[CategoryOrphaned]),
		logging.Int("pointers", counts[CategoryPointer]),
		logging.Int("in_place", counts[CategoryInPlace]),
		logging.Int("duplicate_groups", len(snapshot.Groups)),
	)
	return snapshot, nil
}

// join pairs records with inventory entries and classifies each pairing.
func (r *Reconciler) join(records []store.Record, inventory *scan.Inventory) (*Snapshot, error) {
	snapshot := &Snapshot{Warnings: append([]string(nil), inventory.Warnings...)}

	claimed := make(map[string]bool, len(records))
	for i := range records {
		record := &records[i]
		var file *scan.Entry
		identifier := ""
		if id, ok := scan.IdentifierFromPath(record.Path); ok {
			identifier = id
			if found, present := inventory.Entries[id]; present {
				file = &found
				claimed[id] = true
			}
		}

		category, err := Classify(record, file)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", record.ID, err)
		}
		snapshot.Entries = append(snapshot.Entries, Entry{
			ID:         record.ID,
			Identifier: identifier,
			Record:     record,
			File:       file,
			Category:   category,
		})
	}

	// Folders nothing in the store claims.
	orphanIDs := make([]string, 0)
	for id := range inventory.Entries {
		if !claimed[id] {
			orphanIDs = append(orphanIDs, id)
		}
	}
	sort.Strings(orphanIDs)
	for _, id := range orphanIDs {
		found := inventory.Entries[id]
		category, err := Classify(nil, &found)
		if err != nil {
			return nil, fmt.Errorf("folder %s: %w", id, err)
		}
		snapshot.Entries = append(snapshot.Entries, Entry{
			ID:         OrphanIDPrefix + id,
			Identifier: id,
			File:       &found,
			Category:   category,
		})
	}

	snapshot.Groups = tagDuplicates(snapshot.Entries)
	return snapshot, nil
}
