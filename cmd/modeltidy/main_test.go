package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"modeltidy/internal/config"
	"modeltidy/internal/testsupport"
)

const testIdentifier = "aaaa1746-d2b6-4a26-b775-aeb4e945d0a3"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	testsupport.CreateModelDB(t, cfg)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
invokeai_root = %q
review_dir = %q
import_dir = %q
log_dir = %q
`,
		cfg.Paths.InvokeAIRoot,
		cfg.Paths.ReviewDir,
		cfg.Paths.ImportDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestCLIReportCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	payload := testsupport.WriteModelPayload(t, env.cfg, testIdentifier, "model.safetensors", 2048)
	testsupport.SeedRecord(t, env.cfg, testsupport.RecordSpec{
		ID: "rec-ok", Name: "alpha", Hash: "h1", Path: payload,
	})
	testsupport.SeedRecord(t, env.cfg, testsupport.RecordSpec{
		ID: "rec-missing", Name: "ghost", Hash: "h2",
		Path: filepath.Join(env.cfg.Models(), "bbbb2857-e3c7-5b37-c886-bfc5f056e1b4", "model.safetensors"),
	})

	out, _, err := runCLI(t, []string{"report"}, env.configPath, "")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	requireContains(t, out, "alpha")
	requireContains(t, out, "ghost")
	requireContains(t, out, "1 ok, 1 missing")

	out, _, err = runCLI(t, []string{"report", "--category", "missing"}, env.configPath, "")
	if err != nil {
		t.Fatalf("report --category: %v", err)
	}
	requireContains(t, out, "ghost")
	if strings.Contains(out, "alpha") {
		t.Fatalf("category filter leaked ok entries:\n%s", out)
	}
}

func TestCLIReportJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedRecord(t, env.cfg, testsupport.RecordSpec{
		ID: "rec-missing", Name: "ghost", Hash: "h1",
		Path: filepath.Join(env.cfg.Models(), testIdentifier, "model.safetensors"),
	})

	out, _, err := runCLI(t, []string{"report", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("report --json: %v", err)
	}
	var payload struct {
		Counts map[string]int `json:"counts"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("report --json produced invalid JSON: %v\n%s", err, out)
	}
	if payload.Counts["missing"] != 1 {
		t.Fatalf("unexpected counts: %v", payload.Counts)
	}
}

func TestCLICleanCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteModelPayload(t, env.cfg, testIdentifier, "stray.safetensors", 256)

	out, _, err := runCLI(t, []string{"clean", "--yes"}, env.configPath, "")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, out, "1 succeeded")

	if _, err := os.Stat(filepath.Join(env.cfg.Models(), testIdentifier)); !os.IsNotExist(err) {
		t.Fatalf("orphan folder still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.ReviewDir, testIdentifier, "stray.safetensors")); err != nil {
		t.Fatalf("payload not in review: %v", err)
	}
}

func TestCLICleanPromptAborts(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteModelPayload(t, env.cfg, testIdentifier, "stray.safetensors", 256)

	out, _, err := runCLI(t, []string{"clean"}, env.configPath, "n\n")
	if err != nil {
		t.Fatalf("clean (declined): %v", err)
	}
	requireContains(t, out, "Aborted")
	if _, err := os.Stat(filepath.Join(env.cfg.Models(), testIdentifier)); err != nil {
		t.Fatalf("declined clean still moved the folder: %v", err)
	}
}

func TestCLIStageImportCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	payload := testsupport.WriteModelPayload(t, env.cfg, testIdentifier, "stray.safetensors", 256)

	out, _, err := runCLI(t, []string{"stage-import"}, env.configPath, "")
	if err != nil {
		t.Fatalf("stage-import: %v", err)
	}
	requireContains(t, out, "1 succeeded")

	link := filepath.Join(env.cfg.Paths.ImportDir, "stray.safetensors")
	resolved, err := os.Readlink(link)
	if err != nil {
		t.Fatalf("staged link: %v", err)
	}
	if resolved != payload {
		t.Fatalf("link resolves to %s, want %s", resolved, payload)
	}
}

func TestCLIDedupeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	first := testsupport.WriteModelPayload(t, env.cfg, testIdentifier, "model.safetensors", 512)
	second := testsupport.WriteModelPayload(t, env.cfg, "bbbb2857-e3c7-5b37-c886-bfc5f056e1b4", "model.safetensors", 512)
	testsupport.SeedRecord(t, env.cfg, testsupport.RecordSpec{ID: "rec-keep", Hash: "h1", Path: first})
	testsupport.SeedRecord(t, env.cfg, testsupport.RecordSpec{ID: "rec-dupe", Hash: "h1", Path: second})

	out, _, err := runCLI(t, []string{"dedupe", "--yes"}, env.configPath, "")
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	requireContains(t, out, "1 succeeded")

	if _, err := os.Stat(first); err != nil {
		t.Fatalf("keeper payload moved: %v", err)
	}
	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Fatalf("duplicate payload still present: %v", err)
	}
}

func TestCLIStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedRecord(t, env.cfg, testsupport.RecordSpec{ID: "rec-1", Hash: "h1", Path: "/x"})

	out, _, err := runCLI(t, []string{"status"}, env.configPath, "")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Model database")
	requireContains(t, out, "[OK]")

	out, _, err = runCLI(t, []string{"status", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var payload struct {
		Healthy      bool `json:"healthy"`
		TotalRecords int  `json:"totalRecords"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("status --json produced invalid JSON: %v\n%s", err, out)
	}
	if !payload.Healthy || payload.TotalRecords != 1 {
		t.Fatalf("unexpected status payload: %+v", payload)
	}
}

func TestCLIVerifyCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteModelPayload(t, env.cfg, testIdentifier, "model.safetensors", 128)
	testsupport.SeedRecord(t, env.cfg, testsupport.RecordSpec{
		ID: "rec-1", Hash: "sha256:" + strings.Repeat("0", 64),
		Path: filepath.Join(env.cfg.Models(), testIdentifier, "model.safetensors"),
	})

	out, _, err := runCLI(t, []string{"verify"}, env.configPath, "")
	if err == nil {
		t.Fatalf("verify should fail on a mismatch, output:\n%s", out)
	}
	requireContains(t, out, "mismatch rec-1")
}
