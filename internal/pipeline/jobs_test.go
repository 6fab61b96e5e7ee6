package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJobStore_PutGetCleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)

	job := &Job{ID: "j1", Status: StatusQueued, UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get("j1"); got != job {
		t.Fatal("stored job not returned")
	}
	if store.Get("missing") != nil {
		t.Error("missing job should be nil")
	}

	job.UpdatedAt = time.Now().Add(-time.Minute)
	store.Cleanup()
	if store.Get("j1") != nil {
		t.Error("expired job survived cleanup")
	}
}

func TestJob_StatusTransitions(t *testing.T) {
	job := &Job{ID: "j1", Status: StatusQueued}
	before := job.UpdatedAt

	job.SetStatus(StatusChunking, "chunking")
	if job.Status != StatusChunking || job.Phase != "chunking" {
		t.Errorf("status not updated: %s/%s", job.Status, job.Phase)
	}
	if !job.UpdatedAt.After(before) {
		t.Error("UpdatedAt not bumped")
	}
}

func TestJob_ProgressAccumulates(t *testing.T) {
	job := &Job{ID: "j1"}
	job.SetChunkCounts(4, 20)
	job.AddEmbedded(8)
	job.AddEmbedded(12)
	job.AddError("one batch failed")

	snap := job.Snapshot()
	if snap.Progress.Parents != 4 || snap.Progress.Children != 20 {
		t.Errorf("chunk counts: %+v", snap.Progress)
	}
	if snap.Progress.ChildrenEmbedded != 20 {
		t.Errorf("embedded count: %d", snap.Progress.ChildrenEmbedded)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("errors: %v", snap.Progress.Errors)
	}
}

func TestJob_SnapshotErrorsNeverNil(t *testing.T) {
	job := &Job{ID: "j1"}
	if job.Snapshot().Progress.Errors == nil {
		t.Error("snapshot errors should marshal as [], not null")
	}
}

func TestJob_FileDataRoundTrip(t *testing.T) {
	job := &Job{ID: "j1"}
	job.SetFileData([]byte("payload"))
	if string(job.FileData()) != "payload" {
		t.Error("file data round trip failed")
	}
}

func TestContentHashHex(t *testing.T) {
	a := ContentHashHex([]byte("same"))
	b := ContentHashHex([]byte("same"))
	c := ContentHashHex([]byte("different"))
	if a != b {
		t.Error("same content hashed differently")
	}
	if a == c {
		t.Error("different content collided")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	if Backoff(0) < time.Second {
		t.Error("attempt 0 below base")
	}
	// 1<<10 seconds would be ~17 minutes; the cap plus jitter stays
	// under 45s.
	if d := Backoff(10); d > 45*time.Second {
		t.Errorf("backoff not capped: %v", d)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(context.Canceled) {
		t.Error("cancellation must not be retried")
	}
	if IsRetryable(context.DeadlineExceeded) {
		t.Error("deadline must not be retried")
	}
	if !IsRetryable(errors.New("connection reset")) {
		t.Error("transient error should be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil error is not retryable")
	}
}
