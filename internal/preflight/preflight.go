package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"modeltidy/internal/config"
	"modeltidy/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDatabase(ctx, cfg.Database()),
		CheckDirectoryAccess("Models directory", cfg.Models()),
		CheckDirectoryAccess("Review directory", cfg.Paths.ReviewDir),
		CheckDirectoryAccess("Import directory", cfg.Paths.ImportDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	return results
}

// AllPassed reports whether every result in the set passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// CheckDatabase verifies the model database exists, opens, and carries the
// columns modeltidy reads.
func CheckDatabase(ctx context.Context, dbPath string) Result {
	const name = "Model database"

	health := store.CheckHealth(ctx, dbPath)
	switch {
	case !health.DatabaseExists:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", dbPath)}
	case !health.DatabaseReadable:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", dbPath, health.Error)}
	case !health.TableExists:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: models table missing)", dbPath)}
	case len(health.MissingColumns) > 0:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: missing columns %s)", dbPath, strings.Join(health.MissingColumns, ", "))}
	case health.Error != "":
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", dbPath, health.Error)}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d records)", dbPath, health.TotalRecords)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
