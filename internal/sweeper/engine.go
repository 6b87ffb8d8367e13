package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"modeltidy/internal/config"
	"modeltidy/internal/logging"
	"modeltidy/internal/reconcile"
	"modeltidy/internal/store"
)

// Kind selects the mutation a request performs.
type Kind string

const (
	// KindDelete moves each target entry aside into the review directory and
	// removes its database record.
	KindDelete Kind = "delete"
	// KindStageImport symlinks each target payload into the import directory.
	KindStageImport Kind = "stage-import"
	// KindPrune performs a delete of every non-keeper member of each target
	// duplicate group.
	KindPrune Kind = "prune"
)

// Request describes one mutation batch. Targets are entry IDs for delete and
// stage-import, group hashes for prune.
type Request struct {
	Kind    Kind
	Targets []string
}

// Failure records one entry that could not be processed.
type Failure struct {
	ID     string
	Reason string
}

// Outcome summarizes a batch. Succeeded and Failed together cover every
// processed entry; Warnings carry conditions that need operator attention but
// did not fail the entry outright.
type Outcome struct {
	Succeeded []string
	Failed    []Failure
	Warnings  []string
}

// Engine applies mutation batches against the store and the models tree.
type Engine struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger

	lockPath string
	now      func() time.Time

	reviewMu sync.Mutex
	claimed  map[string]struct{}
}

// New constructs an engine. The logger may be nil.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Engine, error) {
	if cfg == nil || st == nil {
		return nil, Wrap(ErrConfiguration, "", "new", "engine requires config and store", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		store:    st,
		logger:   logging.WithComponent(logger, "sweeper"),
		lockPath: filepath.Join(cfg.Paths.LogDir, "modeltidy.lock"),
		now:      time.Now,
		claimed:  make(map[string]struct{}),
	}, nil
}

// LockPath returns the advisory lock file guarding mutation batches.
func (e *Engine) LockPath() string {
	return e.lockPath
}

// Apply runs one mutation batch against the given snapshot. Entries are
// processed in parallel, each one best-effort; the returned error is non-nil
// only when the batch as a whole could not run (bad request, lock contention).
func (e *Engine) Apply(ctx context.Context, snapshot *reconcile.Snapshot, req Request) (*Outcome, error) {
	if snapshot == nil {
		return nil, Wrap(ErrValidation, string(req.Kind), "apply", "snapshot is required", nil)
	}
	if len(req.Targets) == 0 {
		return nil, Wrap(ErrValidation, string(req.Kind), "apply", "no targets selected", nil)
	}

	var run func(context.Context, *reconcile.Snapshot, []string) *Outcome
	switch req.Kind {
	case KindDelete:
		run = e.deleteBatch
	case KindStageImport:
		run = e.stageImportBatch
	case KindPrune:
		run = e.pruneBatch
	default:
		return nil, Wrap(ErrValidation, string(req.Kind), "apply", "unknown action", nil)
	}

	unlock, err := e.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	started := e.now()
	outcome := run(ctx, snapshot, req.Targets)
	outcome.sort()
	e.logger.Info("batch finished",
		logging.String("action", string(req.Kind)),
		logging.Int("succeeded", len(outcome.Succeeded)),
		logging.Int("failed", len(outcome.Failed)),
		logging.Int("warnings", len(outcome.Warnings)),
		logging.Duration("elapsed", e.now().Sub(started)))
	return outcome, nil
}

// acquireLock takes the advisory mutation lock, waiting up to the configured
// timeout. Reconnaissance passes never take it; only mutations serialize.
func (e *Engine) acquireLock(ctx context.Context) (func(), error) {
	lock := flock.New(e.lockPath)
	timeout := time.Duration(e.cfg.Sweep.LockTimeoutSeconds) * time.Second
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil && lockCtx.Err() == nil {
		return nil, Wrap(ErrTransient, "", "lock", fmt.Sprintf("acquire %s", e.lockPath), err)
	}
	if !ok {
		return nil, Wrap(ErrLocked, "", "lock", fmt.Sprintf("%s held after %s", e.lockPath, timeout), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			e.logger.Warn("release mutation lock", logging.Error(err))
		}
	}, nil
}

// forEach fans targets out over the configured worker pool, collecting results
// under a single collector lock. Per-target processing stays strictly ordered
// inside fn; only distinct targets run concurrently.
func (e *Engine) forEach(ctx context.Context, targets []string, fn func(context.Context, string, *collector)) *Outcome {
	workers := e.cfg.Sweep.Workers
	if workers <= 0 {
		workers = 1
	}
	col := &collector{}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for _, target := range targets {
		target := target
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				col.fail(target, "canceled")
				return nil
			}
			fn(groupCtx, target, col)
			return nil
		})
	}
	_ = group.Wait()
	return &col.outcome
}

type collector struct {
	mu      sync.Mutex
	outcome Outcome
}

func (c *collector) succeed(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcome.Succeeded = append(c.outcome.Succeeded, id)
}

func (c *collector) fail(id, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcome.Failed = append(c.outcome.Failed, Failure{ID: id, Reason: reason})
}

func (c *collector) warn(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcome.Warnings = append(c.outcome.Warnings, message)
}

func (o *Outcome) sort() {
	sort.Strings(o.Succeeded)
	sort.Slice(o.Failed, func(i, j int) bool { return o.Failed[i].ID < o.Failed[j].ID })
	sort.Strings(o.Warnings)
}
