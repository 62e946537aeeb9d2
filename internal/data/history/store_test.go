package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_SaveAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	first, err := store.SaveRun(Run{
		Root:            "solvers.geometry.Convex",
		Policy:          "wide",
		Workspace:       "/tmp/ws",
		ArtifactPath:    "/tmp/out/Main.java",
		ArtifactSHA256:  "abc123",
		UnitCount:       4,
		NamespaceCount:  2,
		DiagnosticCount: 1,
		Duration:        42 * time.Millisecond,
		Timestamp:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if first.ID == "" {
		t.Error("SaveRun must assign a run ID")
	}

	_, err = store.SaveRun(Run{
		Root:      "solvers.geometry.Convex",
		Policy:    "wide",
		Timestamp: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("second SaveRun failed: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Timestamp.After(runs[1].Timestamp) {
		t.Error("runs must be ordered newest first")
	}
	if runs[1].UnitCount != 4 || runs[1].ArtifactSHA256 != "abc123" {
		t.Errorf("run fields not round-tripped: %+v", runs[1])
	}
	if runs[1].Duration != 42*time.Millisecond {
		t.Errorf("duration not round-tripped: %v", runs[1].Duration)
	}
}

func TestStore_OpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("expected error when history path is a directory")
	}
}

func TestStore_OpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("expected error for empty history path")
	}
}
