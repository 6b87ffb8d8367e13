package sweeper

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"modeltidy/internal/fileutil"
	"modeltidy/internal/logging"
	"modeltidy/internal/reconcile"
)

// deletableCategories are the entry states eligible for operator-initiated
// deletion. Healthy entries are only ever removed through pruning, and then
// only as non-keeper duplicates.
var deletableCategories = map[reconcile.Category]struct{}{
	reconcile.CategoryMissing:  {},
	reconcile.CategoryOrphaned: {},
	reconcile.CategoryPointer:  {},
	reconcile.CategoryInPlace:  {},
}

func (e *Engine) deleteBatch(ctx context.Context, snapshot *reconcile.Snapshot, targets []string) *Outcome {
	return e.forEach(ctx, targets, func(ctx context.Context, id string, col *collector) {
		entry := snapshot.Entry(id)
		if entry == nil {
			col.fail(id, "not present in current snapshot")
			return
		}
		if _, ok := deletableCategories[entry.Category]; !ok {
			col.fail(id, fmt.Sprintf("category %q is not deletable", entry.Category))
			return
		}
		e.safeDelete(ctx, *entry, col)
	})
}

// safeDelete moves the entry's payload into the review directory and then
// removes its database record. The move always lands before the row delete,
// so no path through here loses file data: any failure leaves either the
// original payload or a reviewable copy on disk.
func (e *Engine) safeDelete(ctx context.Context, entry reconcile.Entry, col *collector) {
	moved, err := e.moveAside(entry)
	if err != nil {
		col.fail(entry.ID, fmt.Sprintf("move aside: %v", err))
		return
	}
	if moved != "" {
		e.logger.Info("payload moved to review",
			logging.String(logging.FieldRecordID, entry.ID),
			logging.String("destination", moved))
	}
	if entry.Record == nil {
		col.succeed(entry.ID)
		return
	}
	if _, err := e.store.DeleteByID(ctx, entry.Record.ID); err != nil {
		// The payload is already in the review directory. Flag the stale row
		// loudly instead of trying to move anything back.
		col.fail(entry.ID, fmt.Sprintf("record delete: %v", err))
		col.warn(fmt.Sprintf("orphaned-after-move: %s moved to %s but its record remains; delete failed: %v", entry.ID, moved, err))
		e.logger.Warn("record delete failed after move",
			logging.String(logging.FieldRecordID, entry.ID),
			logging.String("destination", moved),
			logging.Error(err),
			logging.Alert("orphaned-after-move"))
		return
	}
	col.succeed(entry.ID)
}

// moveAside relocates the entry's on-disk payload under the review directory
// and returns the destination, or "" when there was nothing to move. Missing
// entries and in-place records whose external file is gone fall in the latter
// bucket; their delete is a pure record removal.
func (e *Engine) moveAside(entry reconcile.Entry) (string, error) {
	switch {
	case entry.File != nil:
		src := filepath.Dir(entry.File.Path)
		dst := e.reviewDestination(entry.Identifier)
		if err := fileutil.MoveTree(src, dst); err != nil {
			return "", err
		}
		return dst, nil
	case entry.Category == reconcile.CategoryInPlace && entry.Record != nil:
		src := entry.Record.Path
		if !fileutil.Exists(src) {
			return "", nil
		}
		dst := e.reviewDestination(filepath.Base(src))
		if err := fileutil.MoveFile(src, dst); err != nil {
			return "", err
		}
		return dst, nil
	default:
		return "", nil
	}
}

// reviewDestination picks a collision-free path under the review directory.
// Destinations are claimed under a lock before any move starts, so parallel
// batch entries sharing a basename never land on the same path. An occupied
// destination gets a timestamp suffix, then a sequence number.
func (e *Engine) reviewDestination(name string) string {
	e.reviewMu.Lock()
	defer e.reviewMu.Unlock()

	dst := filepath.Join(e.cfg.Paths.ReviewDir, name)
	if e.claim(dst) {
		return dst
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	stamp := e.now().UTC().Format("20060102-150405.000000000")
	for seq := 1; ; seq++ {
		suffixed := base + "-" + stamp
		if seq > 1 {
			suffixed = fmt.Sprintf("%s-%d", suffixed, seq)
		}
		dst := filepath.Join(e.cfg.Paths.ReviewDir, suffixed+ext)
		if e.claim(dst) {
			return dst
		}
	}
}

// claim marks dst as taken for the lifetime of this engine. It reports false
// when dst already exists on disk or was handed out to an earlier entry.
// Callers must hold reviewMu.
func (e *Engine) claim(dst string) bool {
	if _, taken := e.claimed[dst]; taken {
		return false
	}
	if fileutil.Exists(dst) {
		return false
	}
	e.claimed[dst] = struct{}{}
	return true
}
