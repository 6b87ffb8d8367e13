package api_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"modeltidy/internal/api"
	"modeltidy/internal/config"
	"modeltidy/internal/fileutil"
	"modeltidy/internal/reconcile"
	"modeltidy/internal/sweeper"
	"modeltidy/internal/testsupport"
)

const (
	idA = "aaaa1746-d2b6-4a26-b775-aeb4e945d0a3"
	idB = "bbbb2857-e3c7-5b37-c886-bfc5f056e1b4"
)

func modelPath(cfg *config.Config, identifier, name string) string {
	return filepath.Join(cfg.Models(), identifier, name)
}

func TestBuildReportProducesCountsAndGroups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.CreateModelDB(t, cfg)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	testsupport.WriteModelPayload(t, cfg, idA, "model.safetensors", 1024)
	testsupport.WriteModelPayload(t, cfg, idB, "model.safetensors", 1024)
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-a", Name: "alpha", Hash: "h1", Path: modelPath(cfg, idA, "model.safetensors"), CreatedAt: base,
	})
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-b", Name: "beta", Hash: "h1", Path: modelPath(cfg, idB, "model.safetensors"), CreatedAt: base.Add(time.Hour),
	})
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-c", Name: "gone", Hash: "h2", Path: modelPath(cfg, "cccc3968-f4d8-6c48-d997-c0d6f167f2c5", "model.safetensors"),
	})

	report, err := api.BuildReport(context.Background(), api.ReportRequest{Config: cfg})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if report.Counts[string(reconcile.CategoryOK)] != 2 {
		t.Fatalf("counts = %v, want 2 ok", report.Counts)
	}
	if report.Counts[string(reconcile.CategoryMissing)] != 1 {
		t.Fatalf("counts = %v, want 1 missing", report.Counts)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("groups = %+v", report.Groups)
	}
	group := report.Groups[0]
	if group.Keeper != "rec-a" || len(group.Removable) != 1 {
		t.Fatalf("unexpected group %+v", group)
	}
	if group.ReclaimableBytes != 1024 {
		t.Fatalf("reclaimable = %d, want 1024", group.ReclaimableBytes)
	}
}

func TestRunSweepDeleteSelectsByCategory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.CreateModelDB(t, cfg)

	testsupport.WriteModelPayload(t, cfg, idA, "stray.safetensors", 256)
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-missing", Hash: "h1", Path: modelPath(cfg, idB, "model.safetensors"),
	})

	result, err := api.RunSweep(context.Background(), api.SweepRequest{
		Config:     cfg,
		Kind:       sweeper.KindDelete,
		Categories: []string{"orphaned"},
	})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0] != reconcile.OrphanIDPrefix+idA {
		t.Fatalf("unexpected sweep result: %+v", result)
	}

	// The missing record was outside the category filter and survives.
	report, err := api.BuildReport(context.Background(), api.ReportRequest{Config: cfg})
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	if report.Counts[string(reconcile.CategoryMissing)] != 1 {
		t.Fatalf("missing record swept up: %v", report.Counts)
	}
	if report.Counts[string(reconcile.CategoryOrphaned)] != 0 {
		t.Fatalf("orphan survived delete: %v", report.Counts)
	}
}

func TestRunSweepRejectsTargetsWithCategories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.CreateModelDB(t, cfg)

	_, err := api.RunSweep(context.Background(), api.SweepRequest{
		Config:     cfg,
		Kind:       sweeper.KindDelete,
		Targets:    []string{"rec-1"},
		Categories: []string{"missing"},
	})
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected mutual exclusion error, got %v", err)
	}
}

func TestRunSweepPruneSelectsAllGroups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.CreateModelDB(t, cfg)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	testsupport.WriteModelPayload(t, cfg, idA, "model.safetensors", 512)
	testsupport.WriteModelPayload(t, cfg, idB, "model.safetensors", 512)
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-keep", Hash: "h1", Path: modelPath(cfg, idA, "model.safetensors"), CreatedAt: base,
	})
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-dupe", Hash: "h1", Path: modelPath(cfg, idB, "model.safetensors"), CreatedAt: base.Add(time.Hour),
	})

	result, err := api.RunSweep(context.Background(), api.SweepRequest{Config: cfg, Kind: sweeper.KindPrune})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0] != "rec-dupe" {
		t.Fatalf("unexpected prune result: %+v", result)
	}
	if !fileutil.Exists(modelPath(cfg, idA, "model.safetensors")) {
		t.Fatal("keeper payload moved")
	}
}

func TestRunSweepFailsPreflightWithoutDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	_, err := api.RunSweep(context.Background(), api.SweepRequest{Config: cfg, Kind: sweeper.KindDelete})
	if err == nil || !strings.Contains(err.Error(), "preflight failed") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestVerifyModelsFlagsMismatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.CreateModelDB(t, cfg)

	good := testsupport.WriteModelPayload(t, cfg, idA, "good.safetensors", 128)
	goodHash, err := fileutil.HashFile(good)
	if err != nil {
		t.Fatal(err)
	}
	bad := testsupport.WriteModelPayload(t, cfg, idB, "bad.safetensors", 256)

	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-good", Hash: "sha256:" + goodHash, Path: good,
	})
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-bad", Hash: "sha256:" + strings.Repeat("0", 64), Path: bad,
	})
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{
		ID: "rec-skip", Hash: "blake3:abcdef", Path: testsupport.WriteModelPayload(t, cfg, "dddd4079-0511-7d59-eaa8-d1e7f278f3d6", "skip.safetensors", 64),
	})

	result, err := api.VerifyModels(context.Background(), api.VerifyRequest{Config: cfg})
	if err != nil {
		t.Fatalf("VerifyModels failed: %v", err)
	}
	if result.Checked != 2 || result.Skipped != 1 {
		t.Fatalf("checked=%d skipped=%d, want 2/1", result.Checked, result.Skipped)
	}
	if len(result.Mismatches) != 1 || result.Mismatches[0].ID != "rec-bad" {
		t.Fatalf("unexpected mismatches: %+v", result.Mismatches)
	}
}

func TestGatherStatusReportsHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.CreateModelDB(t, cfg)
	testsupport.SeedRecord(t, cfg, testsupport.RecordSpec{ID: "rec-1", Hash: "h1", Path: "/x"})

	status, err := api.GatherStatus(context.Background(), api.StatusRequest{Config: cfg, ConfigPath: "/tmp/config.toml"})
	if err != nil {
		t.Fatalf("GatherStatus failed: %v", err)
	}
	if !status.Healthy {
		t.Fatalf("expected healthy status: %+v", status.Checks)
	}
	if status.TotalRecords != 1 {
		t.Fatalf("total records = %d", status.TotalRecords)
	}
	if status.DatabasePath != cfg.Database() {
		t.Fatalf("database path = %s", status.DatabasePath)
	}
}

func TestGatherStatusUnhealthyWithoutDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	status, err := api.GatherStatus(context.Background(), api.StatusRequest{Config: cfg})
	if err != nil {
		t.Fatalf("GatherStatus failed: %v", err)
	}
	if status.Healthy {
		t.Fatal("expected unhealthy status without a database")
	}
}
