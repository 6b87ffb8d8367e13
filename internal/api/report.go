package api

import (
	"context"
	"fmt"
	"log/slog"

	"modeltidy/internal/config"
	"modeltidy/internal/logging"
	"modeltidy/internal/reconcile"
	"modeltidy/internal/scan"
	"modeltidy/internal/store"
)

// ReportRequest carries the inputs for one reconciliation pass.
type ReportRequest struct {
	Config *config.Config
	Logger *slog.Logger
}

// BuildReport reconciles the model database against the models directory and
// returns the transport report. The pass is read-only.
func BuildReport(ctx context.Context, req ReportRequest) (*Report, error) {
	snapshot, st, err := buildSnapshot(ctx, req.Config, req.Logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return FromSnapshot(snapshot), nil
}

// buildSnapshot opens the store and runs one reconciliation pass. The caller
// owns closing the returned store.
func buildSnapshot(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*reconcile.Snapshot, *store.Store, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	st, err := store.Open(cfg.Database())
	if err != nil {
		return nil, nil, fmt.Errorf("open model database: %w", err)
	}

	scanner := scan.NewScanner(cfg.Scan.Workers, logger)
	snapshot, err := reconcile.New(st, scanner, logger).Reconcile(ctx, cfg.Models())
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("reconcile models: %w", err)
	}
	return snapshot, st, nil
}
