package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"modeltidy/internal/config"
	"modeltidy/internal/preflight"
	"modeltidy/internal/reconcile"
	"modeltidy/internal/sweeper"
)

// SweepRequest carries the inputs for one mutation batch. Targets are entry
// IDs for delete and stage-import, group hashes for prune; when empty, every
// eligible entry (optionally narrowed by Categories) is selected.
type SweepRequest struct {
	Config     *config.Config
	Logger     *slog.Logger
	Kind       sweeper.Kind
	Targets    []string
	Categories []string
}

// RunSweep reconciles a fresh snapshot, resolves the target set, and applies
// the batch. Preflight runs first so a misconfigured environment fails before
// the first file move.
func RunSweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	if req.Config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if results := preflight.RunAll(ctx, req.Config); !preflight.AllPassed(results) {
		return nil, fmt.Errorf("preflight failed: %s", describeFailures(results))
	}

	snapshot, st, err := buildSnapshot(ctx, req.Config, req.Logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	targets, err := resolveTargets(snapshot, req)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return &SweepResult{Action: string(req.Kind)}, nil
	}

	engine, err := sweeper.New(req.Config, st, req.Logger)
	if err != nil {
		return nil, err
	}
	outcome, err := engine.Apply(ctx, snapshot, sweeper.Request{Kind: req.Kind, Targets: targets})
	if err != nil {
		return nil, err
	}
	return FromOutcome(req.Kind, outcome), nil
}

// resolveTargets turns a request into the concrete target list the engine
// consumes. Explicit targets pass through untouched; an empty list selects
// every eligible entry or group.
func resolveTargets(snapshot *reconcile.Snapshot, req SweepRequest) ([]string, error) {
	if len(req.Targets) > 0 {
		if len(req.Categories) > 0 {
			return nil, fmt.Errorf("explicit targets and category filters are mutually exclusive")
		}
		return req.Targets, nil
	}

	if req.Kind == sweeper.KindPrune {
		hashes := make([]string, 0, len(snapshot.Groups))
		for _, group := range snapshot.Groups {
			hashes = append(hashes, group.Hash)
		}
		return hashes, nil
	}

	allowed, err := categoryFilter(req.Kind, req.Categories)
	if err != nil {
		return nil, err
	}
	var targets []string
	for _, entry := range snapshot.Entries {
		if _, ok := allowed[entry.Category]; ok {
			targets = append(targets, entry.ID)
		}
	}
	return targets, nil
}

// eligible lists the categories each batch kind may touch when selecting
// implicitly. Healthy entries are never swept up by a blanket selection.
var eligible = map[sweeper.Kind][]reconcile.Category{
	sweeper.KindDelete: {
		reconcile.CategoryMissing,
		reconcile.CategoryOrphaned,
		reconcile.CategoryPointer,
		reconcile.CategoryInPlace,
	},
	sweeper.KindStageImport: {
		reconcile.CategoryMissing,
		reconcile.CategoryOrphaned,
		reconcile.CategoryPointer,
	},
}

func categoryFilter(kind sweeper.Kind, names []string) (map[reconcile.Category]struct{}, error) {
	allowed := make(map[reconcile.Category]struct{}, len(eligible[kind]))
	for _, category := range eligible[kind] {
		allowed[category] = struct{}{}
	}
	if len(names) == 0 {
		return allowed, nil
	}
	narrowed := make(map[reconcile.Category]struct{}, len(names))
	for _, name := range names {
		category := reconcile.Category(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := allowed[category]; !ok {
			return nil, fmt.Errorf("category %q is not eligible for %s", name, kind)
		}
		narrowed[category] = struct{}{}
	}
	return narrowed, nil
}

func describeFailures(results []preflight.Result) string {
	var parts []string
	for _, result := range results {
		if !result.Passed {
			parts = append(parts, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return strings.Join(parts, "; ")
}
