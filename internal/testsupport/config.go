package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"modeltidy/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The InvokeAI layout ({root}/databases, {root}/models) is created on disk.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InvokeAIRoot = filepath.Join(base, "invokeai")
	cfg.Paths.DatabasePath = ""
	cfg.Paths.ModelsDir = ""
	cfg.Paths.ReviewDir = filepath.Join(base, "review")
	cfg.Paths.ImportDir = filepath.Join(base, "import")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, dir := range []string{
		filepath.Join(cfg.Paths.InvokeAIRoot, "databases"),
		cfg.Models(),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InvokeAIRoot)
}

// WithScanWorkers overrides scanner parallelism on the test config.
func WithScanWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Workers = workers
	}
}

// WithSweepWorkers overrides mutation batch parallelism on the test config.
func WithSweepWorkers(workers int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sweep.Workers = workers
	}
}
