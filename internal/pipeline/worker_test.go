package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/headingkit/internal/config"
	"github.com/dgallion1/headingkit/internal/sections"
)

func intPtr(n int) *int { return &n }

func TestWorker_Process(t *testing.T) {
	docs := []Document{
		{Name: "whole.md", Text: "# b\n## y\n## x\n# a"},
		{Name: "group.md", Text: "# b\n## y\n## x\n# a", Line: intPtr(1)},
		{Name: "single.md", Text: "# only"},
		{Name: "copy.md", Text: "# b\n## y\n## x\n# a"},
		{Name: "sorted.md", Text: "# a\n# b"},
	}
	job := NewJob("header", false, docs)

	NewWorker(slog.New(slog.DiscardHandler), 2).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	if len(snap.Results) != len(docs) {
		t.Fatalf("expected %d results, got %d", len(docs), len(snap.Results))
	}

	tests := []struct {
		status DocStatus
		text   string
		groups int
	}{
		{DocSorted, "# a\n# b\n## x\n## y", 2},
		{DocSorted, "# b\n## x\n## y\n# a", 1},
		{DocUnchanged, "# only", 0},
		{DocDuplicate, "# a\n# b\n## x\n## y", 2},
		{DocUnchanged, "# a\n# b", 0},
	}
	for i, tt := range tests {
		r := snap.Results[i]
		if r.Name != docs[i].Name {
			t.Errorf("result %d: expected name %q, got %q", i, docs[i].Name, r.Name)
		}
		if r.Status != tt.status {
			t.Errorf("%s: expected status %q, got %q", r.Name, tt.status, r.Status)
		}
		if r.Text != tt.text {
			t.Errorf("%s: expected %q, got %q", r.Name, tt.text, r.Text)
		}
		if r.Groups != tt.groups {
			t.Errorf("%s: expected %d groups, got %d", r.Name, tt.groups, r.Groups)
		}
	}
	if snap.Results[3].DuplicateOf != "whole.md" {
		t.Errorf("expected duplicate of whole.md, got %q", snap.Results[3].DuplicateOf)
	}
	if snap.Results[0].ContentHash == snap.Results[1].ContentHash {
		t.Error("expected the target line to be part of the content hash")
	}
	if snap.Progress.Sorted != 2 {
		t.Errorf("expected 2 sorted documents, got %d", snap.Progress.Sorted)
	}
}

func TestWorker_ProcessSkipsAndFails(t *testing.T) {
	docs := []Document{
		{Name: "lonely.md", Text: "# only", Line: intPtr(0)},
		{Name: "plain.md", Text: "## b\nx\n## a\ny", Line: intPtr(0)},
		{Name: "bad-fold.md", Text: "## b\nx\n## a\ny", Line: intPtr(0), Folds: []sections.Fold{{From: 1, To: 2}}},
	}
	job := NewJob("header", false, docs)

	NewWorker(slog.New(slog.DiscardHandler), 1).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Errorf("expected status %q, got %q", StatusPartial, snap.Status)
	}
	if got := snap.Results[0].Status; got != DocSkipped {
		t.Errorf("expected lonely document skipped, got %q", got)
	}
	if got := snap.Results[1].Status; got != DocSorted {
		t.Errorf("expected plain.md sorted, got %q", got)
	}
	if got := snap.Results[2].Status; got != DocFailed {
		t.Errorf("expected straddling fold to fail, got %q", got)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Progress.Errors)
	}
}

func TestWorker_UnknownSort(t *testing.T) {
	job := NewJob("color", false, []Document{{Name: "a.md", Text: "# a"}})
	NewWorker(slog.New(slog.DiscardHandler), 1).Process(context.Background(), job)

	if snap := job.Snapshot(); snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
}

func TestOrchestrator_SubmitAndProcess(t *testing.T) {
	o := NewOrchestrator(config.PipelineConfig{
		WorkerCount:       2,
		MaxQueueSize:      4,
		MaxConcurrentDocs: 2,
		JobTTL:            time.Hour,
	}, slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("title", true, []Document{{Name: "a.md", Text: "# a\n# c\n# b"}})
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.GetJob(job.ID) != job {
		t.Fatal("expected the submitted job to be stored")
	}

	deadline := time.Now().Add(5 * time.Second)
	for job.Snapshot().Status != StatusCompleted {
		if time.Now().After(deadline) {
			t.Fatalf("job did not complete, status %q", job.Snapshot().Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := job.Snapshot().Results[0].Text; got != "# c\n# b\n# a" {
		t.Errorf("expected descending order, got %q", got)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Workers are never started, so the queue fills up.
	o := NewOrchestrator(config.PipelineConfig{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}, slog.New(slog.DiscardHandler))

	if err := o.Submit(NewJob("header", false, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job := NewJob("header", false, nil)
	if err := o.Submit(job); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("unexpected state %q/%q", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
	stats := o.Stats()
	if stats.StoredJobs != 2 || stats.ActiveJobs != 0 || stats.MaxQueueSize != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	o := NewOrchestrator(config.PipelineConfig{WorkerCount: 1, MaxQueueSize: 2, JobTTL: time.Hour}, slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	job := NewJob("header", false, []Document{{Name: "a.md", Text: "# b\n# a"}})
	if err := o.Submit(job); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "stopped" {
		t.Errorf("unexpected state %q/%q", snap.Status, snap.Phase)
	}
}
