package sweeper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"modeltidy/internal/logging"
	"modeltidy/internal/reconcile"
)

// stageableCategories are the entry states whose payloads may be staged for
// re-import. Healthy and in-place entries are already registered.
var stageableCategories = map[reconcile.Category]struct{}{
	reconcile.CategoryMissing:  {},
	reconcile.CategoryOrphaned: {},
	reconcile.CategoryPointer:  {},
}

func (e *Engine) stageImportBatch(ctx context.Context, snapshot *reconcile.Snapshot, targets []string) *Outcome {
	return e.forEach(ctx, targets, func(_ context.Context, id string, col *collector) {
		entry := snapshot.Entry(id)
		if entry == nil {
			col.fail(id, "not present in current snapshot")
			return
		}
		if _, ok := stageableCategories[entry.Category]; !ok {
			col.fail(id, fmt.Sprintf("category %q is not stageable", entry.Category))
			return
		}
		e.stageImport(*entry, col)
	})
}

// stageImport drops a symlink to the entry's payload into the import
// directory. The database is never touched; registration happens later when
// the external importer picks the link up.
func (e *Engine) stageImport(entry reconcile.Entry, col *collector) {
	if entry.File == nil || entry.File.Path == "" {
		col.fail(entry.ID, "no payload file on disk to stage")
		return
	}
	src := entry.File.Path
	dst := filepath.Join(e.cfg.Paths.ImportDir, filepath.Base(src))
	if existing, err := os.Readlink(dst); err == nil {
		if existing == src {
			// Already staged; repeating the batch is a no-op.
			col.succeed(entry.ID)
			return
		}
		col.fail(entry.ID, fmt.Sprintf("%s already links to %s", dst, existing))
		return
	}
	if err := os.Symlink(src, dst); err != nil {
		col.fail(entry.ID, fmt.Sprintf("stage symlink: %v", err))
		return
	}
	e.logger.Info("payload staged for import",
		logging.String(logging.FieldRecordID, entry.ID),
		logging.String("link", dst))
	col.succeed(entry.ID)
}
