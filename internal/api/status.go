package api

import (
	"context"
	"fmt"

	"modeltidy/internal/config"
	"modeltidy/internal/preflight"
	"modeltidy/internal/store"
)

// StatusRequest carries the inputs for the status command.
type StatusRequest struct {
	Config *config.Config
	// ConfigPath is the file the config was loaded from, empty when defaults
	// were used.
	ConfigPath string
}

// GatherStatus runs the preflight checks and summarizes environment health.
func GatherStatus(ctx context.Context, req StatusRequest) (*Status, error) {
	cfg := req.Config
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	results := preflight.RunAll(ctx, cfg)
	health := store.CheckHealth(ctx, cfg.Database())

	return &Status{
		ConfigPath:   req.ConfigPath,
		DatabasePath: cfg.Database(),
		ModelsDir:    cfg.Models(),
		ReviewDir:    cfg.Paths.ReviewDir,
		ImportDir:    cfg.Paths.ImportDir,
		TotalRecords: health.TotalRecords,
		Checks:       FromPreflight(results),
		Healthy:      preflight.AllPassed(results),
	}, nil
}
