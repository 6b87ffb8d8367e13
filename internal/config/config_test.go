package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modeltidy/internal/config"
)

func TestDefaultProvidesWorkingBaseline(t *testing.T) {
	cfg := config.Default()
	if cfg.Scan.Workers <= 0 {
		t.Fatalf("expected positive scan workers, got %d", cfg.Scan.Workers)
	}
	if cfg.Sweep.Workers <= 0 {
		t.Fatalf("expected positive sweep workers, got %d", cfg.Sweep.Workers)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected default log format %q", cfg.Logging.Format)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
invokeai_root = "` + filepath.Join(dir, "invokeai") + `"
review_dir = "` + filepath.Join(dir, "review") + `"
import_dir = "` + filepath.Join(dir, "import") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[scan]
workers = 0

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Scan.Workers <= 0 {
		t.Fatalf("expected scan workers defaulted, got %d", cfg.Scan.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowered log level, got %q", cfg.Logging.Level)
	}
	if got, want := cfg.Database(), filepath.Join(dir, "invokeai", "databases", "invokeai.db"); got != want {
		t.Fatalf("Database() = %s, want %s", got, want)
	}
	if got, want := cfg.Models(), filepath.Join(dir, "invokeai", "models"); got != want {
		t.Fatalf("Models() = %s, want %s", got, want)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("INVOKEAI_ROOT", t.TempDir())
	missing := filepath.Join(t.TempDir(), "absent.toml")
	cfg, _, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Sweep.LockTimeoutSeconds <= 0 {
		t.Fatalf("expected default lock timeout, got %d", cfg.Sweep.LockTimeoutSeconds)
	}
}

func TestValidateRejectsOverlappingDirectories(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.InvokeAIRoot = "/data/invokeai"
	cfg.Paths.ModelsDir = "/data/invokeai/models"
	cfg.Paths.ReviewDir = "/data/invokeai/models"
	cfg.Paths.ImportDir = "/data/invokeai/import"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "review_dir") {
		t.Fatalf("unexpected validation message: %v", err)
	}
}

func TestValidateRequiresRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.InvokeAIRoot = ""
	cfg.Paths.DatabasePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when no database location is configured")
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "invokeai_root") {
		t.Fatal("sample config missing invokeai_root")
	}
}
