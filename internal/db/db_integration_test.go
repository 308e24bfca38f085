//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sergiomunoz/opportunity-pipeline/internal/tracking"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestIntegration_RunLifecycle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "after:2025/05/01", "Jordan Rivera")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	defer db.DeleteRun(ctx, runID)

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run == nil || run.Status != "running" {
		t.Fatalf("unexpected run: %+v", run)
	}

	err = db.CompleteRun(ctx, runID, "completed", RunCounts{
		EmailsFetched: 12, Opportunities: 4, RepliesSent: 2,
	})
	if err != nil {
		t.Fatalf("complete run: %v", err)
	}

	run, err = db.GetRun(ctx, runID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Status != "completed" || run.Opportunities != 4 || run.CompletedAt == nil {
		t.Fatalf("unexpected completed run: %+v", run)
	}
}

func TestIntegration_ArtifactRoundTrip(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, "", "")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	defer db.DeleteRun(ctx, runID)

	payload := map[string]any{"job_id": "acme-platform-eng", "score": 88.5}
	if err := db.SaveArtifact(ctx, runID, StageMatches, payload); err != nil {
		t.Fatalf("save artifact: %v", err)
	}
	// Upsert replaces the first write.
	payload["score"] = 90.0
	if err := db.SaveArtifact(ctx, runID, StageMatches, payload); err != nil {
		t.Fatalf("save artifact again: %v", err)
	}

	var got map[string]any
	ok, err := db.GetArtifact(ctx, runID, StageMatches, &got)
	if err != nil || !ok {
		t.Fatalf("get artifact: ok=%v err=%v", ok, err)
	}
	if got["score"].(float64) != 90.0 {
		t.Fatalf("unexpected artifact: %+v", got)
	}

	ok, err = db.GetArtifact(ctx, runID, StageSummary, &got)
	if err != nil {
		t.Fatalf("get missing artifact: %v", err)
	}
	if ok {
		t.Fatal("expected no artifact for unsaved stage")
	}

	artifacts, err := db.ListArtifacts(ctx, runID)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].Stage != StageMatches {
		t.Fatalf("unexpected artifact list: %+v", artifacts)
	}
}

func TestIntegration_ApplicationPersistence(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	jobID := "it-" + uuid.NewString()
	apps := []tracking.TrackedApplication{{
		JobID:         jobID,
		Company:       "Acme",
		Status:        tracking.StatusInterviewing,
		AppliedAt:     time.Now().UTC(),
		LastUpdatedAt: time.Now().UTC(),
	}}
	if err := db.SaveApplications(ctx, apps); err != nil {
		t.Fatalf("save applications: %v", err)
	}
	defer db.DeleteApplication(ctx, jobID)

	loaded, err := db.LoadApplications(ctx)
	if err != nil {
		t.Fatalf("load applications: %v", err)
	}
	var found *tracking.TrackedApplication
	for i := range loaded {
		if loaded[i].JobID == jobID {
			found = &loaded[i]
		}
	}
	if found == nil || found.Status != tracking.StatusInterviewing {
		t.Fatalf("application not round-tripped: %+v", found)
	}
}
