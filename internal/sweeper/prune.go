package sweeper

import (
	"context"
	"fmt"

	"modeltidy/internal/logging"
	"modeltidy/internal/reconcile"
)

func (e *Engine) pruneBatch(ctx context.Context, snapshot *reconcile.Snapshot, targets []string) *Outcome {
	return e.forEach(ctx, targets, func(ctx context.Context, hash string, col *collector) {
		group := snapshot.Group(hash)
		if group == nil {
			col.fail(hash, "no duplicate group with this hash in current snapshot")
			return
		}
		e.pruneGroup(ctx, snapshot, *group, col)
	})
}

// pruneGroup deletes every non-keeper member of one duplicate group. The
// keeper is never touched; each removable member goes through the same
// move-then-delete sequence as a plain delete.
func (e *Engine) pruneGroup(ctx context.Context, snapshot *reconcile.Snapshot, group reconcile.DuplicateGroup, col *collector) {
	e.logger.Info("pruning duplicate group",
		logging.String("hash", group.Hash),
		logging.String("keeper", group.Keeper()),
		logging.Int("removable", len(group.Removable())))
	for _, id := range group.Removable() {
		entry := snapshot.Entry(id)
		if entry == nil {
			col.fail(id, fmt.Sprintf("group %s member missing from snapshot", group.Hash))
			continue
		}
		e.safeDelete(ctx, *entry, col)
	}
}
