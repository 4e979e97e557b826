package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"rawconvert/internal/batch"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:         id,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Formats:    []string{"png", "jpeg"},
		Ratio:      0.15,
		Workers:    4,
		Total:      4,
		Completed:  2,
		Failed:     1,
		Skipped:    1,
		Jobs: []JobRecord{
			{Position: 1, SourcePath: "/in/DSC_0001.NEF", Outcome: batch.OutcomeCompleted, Elapsed: 3 * time.Second},
			{Position: 2, SourcePath: "/in/DSC_0002.NEF", Outcome: batch.OutcomeFailed, Detail: "unsupported thumbnail format", Elapsed: time.Second},
			{Position: 3, SourcePath: "/in/DSC_0003.NEF", Outcome: batch.OutcomeCompleted, Elapsed: 2 * time.Second},
			{Position: 4, SourcePath: "/in/notes.txt", Outcome: batch.OutcomeSkipped, Detail: "not NEF"},
		},
	}
}

func TestRecordAndReadRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Minute)
	if err := store.RecordRun(ctx, sampleRun("run-1", started)); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != "run-1" || run.Completed != 2 || run.Failed != 1 || run.Skipped != 1 || run.Stopped {
		t.Fatalf("unexpected run: %+v", run)
	}
	if len(run.Formats) != 2 || run.Formats[0] != "png" {
		t.Fatalf("formats not round-tripped: %v", run.Formats)
	}

	jobs, err := store.JobsForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("JobsForRun failed: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected 4 job records, got %d", len(jobs))
	}
	if jobs[1].Outcome != batch.OutcomeFailed || jobs[1].Detail != "unsupported thumbnail format" {
		t.Fatalf("unexpected failed job record: %+v", jobs[1])
	}
	if jobs[3].Outcome != batch.OutcomeSkipped || jobs[3].Detail != "not NEF" {
		t.Fatalf("unexpected skipped job record: %+v", jobs[3])
	}
	if jobs[0].Detail != "" {
		t.Fatalf("completed job must have empty detail, got %q", jobs[0].Detail)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		run := sampleRun(id, base.Add(time.Duration(i)*time.Minute))
		run.Jobs = nil
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Fatalf("unexpected order: %+v", runs)
	}
}

func TestPruneKeepsNewestRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		run := sampleRun(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	if err := store.Prune(ctx, 2); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs after prune, got %d", len(runs))
	}

	// Cascade removes job rows of pruned runs.
	jobs, err := store.JobsForRun(ctx, "a")
	if err != nil {
		t.Fatalf("JobsForRun failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected cascaded job deletion, got %d rows", len(jobs))
	}
}

func TestRecordRunRequiresID(t *testing.T) {
	store := openTestStore(t)
	if err := store.RecordRun(context.Background(), Run{}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
