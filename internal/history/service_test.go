package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"scopeline/workbench/internal/brd"
)

func snapshotFixture(vision string) brd.WorkspaceSnapshot {
	return brd.WorkspaceSnapshot{
		ProjectID: "proj-1",
		FetchedAt: time.Now(),
		BusinessContext: brd.BusinessContext{
			Vision: vision,
		},
		Requirements: brd.Requirements{
			MustHave: []brd.Feature{
				{ID: "feat-1", Title: "Intake form", ConfirmationStatus: brd.StatusAIGenerated},
			},
		},
	}
}

func TestRecordSnapshotAndHistory(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir, "Avery Chen")

	if err := svc.RecordSnapshot("proj-1", snapshotFixture("v1"), "Loaded workspace"); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "proj-1")); err != nil {
		t.Fatalf("repo directory missing: %v", err)
	}

	if err := svc.RecordSnapshot("proj-1", snapshotFixture("v2"), "Reloaded after rollback"); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}

	revisions, err := svc.History("proj-1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(revisions) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revisions))
	}
	if revisions[0].Message != "Reloaded after rollback" {
		t.Fatalf("expected newest-first ordering, got %q", revisions[0].Message)
	}
	if revisions[0].Author != "Avery Chen" {
		t.Fatalf("unexpected author %q", revisions[0].Author)
	}
	if len(revisions[0].Hash) != 7 {
		t.Fatalf("expected short hash, got %q", revisions[0].Hash)
	}
}

func TestRecordSnapshotSkipsUnchangedContent(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir, "Avery Chen")

	snap := snapshotFixture("v1")
	if err := svc.RecordSnapshot("proj-1", snap, "Loaded workspace"); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}

	// FetchedAt differs but the content does not.
	snap.FetchedAt = snap.FetchedAt.Add(time.Minute)
	if err := svc.RecordSnapshot("proj-1", snap, "Reloaded"); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}

	revisions, err := svc.History("proj-1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(revisions) != 1 {
		t.Fatalf("expected identical reload to be skipped, got %d revisions", len(revisions))
	}
}

func TestSnapshotAtAndDiff(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir, "Avery Chen")

	if err := svc.RecordSnapshot("proj-1", snapshotFixture("original vision"), "Loaded"); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}
	if err := svc.RecordSnapshot("proj-1", snapshotFixture("revised vision"), "Vision updated"); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}

	revisions, err := svc.History("proj-1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(revisions) != 2 {
		t.Fatalf("expected 2 revisions, got %d", len(revisions))
	}

	older, err := svc.SnapshotAt("proj-1", revisions[1].Hash)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if older.BusinessContext.Vision != "original vision" {
		t.Fatalf("unexpected recorded vision %q", older.BusinessContext.Vision)
	}

	diff, err := svc.Diff("proj-1", revisions[1].Hash, revisions[0].Hash)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if !strings.Contains(diff, "-    \"vision\": \"original vision\"") {
		t.Fatalf("diff missing removed line:\n%s", diff)
	}
	if !strings.Contains(diff, "+    \"vision\": \"revised vision\"") {
		t.Fatalf("diff missing added line:\n%s", diff)
	}
}

func TestHistoryUnknownProject(t *testing.T) {
	svc := New(t.TempDir(), "Avery Chen")
	if _, err := svc.History("missing", 10); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("History() error = %v, want ErrNoHistory", err)
	}
}

func TestLimitCapsHistory(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir, "Avery Chen")

	for i := 0; i < 5; i++ {
		snap := snapshotFixture(fmt.Sprintf("vision %d", i))
		if err := svc.RecordSnapshot("proj-1", snap, fmt.Sprintf("Load %d", i)); err != nil {
			t.Fatalf("RecordSnapshot() error = %v", err)
		}
	}

	revisions, err := svc.History("proj-1", 2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(revisions) != 2 {
		t.Fatalf("expected limit to cap revisions, got %d", len(revisions))
	}
}

func TestConcurrentRecordSameProject(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir, "Avery Chen")

	const writers = 8
	var wg sync.WaitGroup
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			snap := snapshotFixture(fmt.Sprintf("vision-%02d", idx))
			if err := svc.RecordSnapshot("proj-1", snap, fmt.Sprintf("Load %02d", idx)); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			t.Fatalf("RecordSnapshot() concurrent error = %v", err)
		}
	}

	revisions, err := svc.History("proj-1", 100)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(revisions) != writers {
		t.Fatalf("expected %d revisions, got %d", writers, len(revisions))
	}
}
