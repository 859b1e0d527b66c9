package poller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"lingobridge/internal/adapters/storage/localfs"
	"lingobridge/internal/jobs"
	"lingobridge/internal/pkg/logger"
	"lingobridge/internal/renamer"
	"lingobridge/internal/storage/urlsign"
	"lingobridge/internal/translator"
)

type fakeTranslator struct {
	status func(jobID string) (*translator.JobStatus, error)
}

func (f *fakeTranslator) Submit(ctx context.Context, req translator.BatchRequest) (string, error) {
	return "job-1", nil
}

func (f *fakeTranslator) GetStatus(ctx context.Context, jobID string) (*translator.JobStatus, error) {
	return f.status(jobID)
}

func newTestLogger() *logger.Logger {
	var buf bytes.Buffer
	return logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})
}

func newTestPoller(t *testing.T, tc translator.Client, store jobs.Store, maxWait time.Duration) (*Poller, *localfs.LocalFS) {
	t.Helper()

	signer := urlsign.New("test-secret", "http://localhost:8080")
	bs := localfs.New(t.TempDir(), signer)
	rn := renamer.New(bs, "translated-", newTestLogger())

	return New(Deps{
		Translator:    tc,
		Jobs:          store,
		Renamer:       rn,
		Log:           newTestLogger(),
		Interval:      2 * time.Millisecond,
		MaxWait:       maxWait,
		MaxConcurrent: 4,
	}), bs
}

func drain(t *testing.T, p *Poller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Drain(ctx); err != nil {
		t.Fatalf("poller did not drain: %v", err)
	}
}

func TestWatchSuccess(t *testing.T) {
	ctx := context.Background()
	store := jobs.NewMemoryStore()

	var polls atomic.Int64
	tc := &fakeTranslator{status: func(string) (*translator.JobStatus, error) {
		if polls.Add(1) < 3 {
			return &translator.JobStatus{Status: "Running", Raw: map[string]any{"status": "Running"}}, nil
		}
		return &translator.JobStatus{Status: "Succeeded", Raw: map[string]any{"status": "Succeeded"}}, nil
	}}

	p, bs := newTestPoller(t, tc, store, time.Minute)

	// One source blob (excluded) and one translated output.
	if _, err := bs.Put(ctx, "source.docx", "", strings.NewReader("src")); err != nil {
		t.Fatal(err)
	}
	if _, err := bs.Put(ctx, "output.docx", "", strings.NewReader("out")); err != nil {
		t.Fatal(err)
	}

	if err := store.Create(ctx, &jobs.Job{
		ID:          "job-1",
		Status:      jobs.StatusRunning,
		SourceBlobs: []string{"source.docx"},
	}); err != nil {
		t.Fatal(err)
	}

	p.Watch(ctx, "job-1")
	drain(t, p)

	job, ok, err := store.Get(ctx, "job-1")
	if err != nil || !ok {
		t.Fatalf("job lookup failed: ok=%v err=%v", ok, err)
	}
	if job.Status != jobs.StatusSucceeded {
		t.Errorf("expected Succeeded, got %s", job.Status)
	}
	if job.RawStatus["status"] != "Succeeded" {
		t.Errorf("expected raw status to be recorded, got %v", job.RawStatus)
	}
	if len(job.Renamed) != 1 || job.Renamed[0] != "translated-output.docx" {
		t.Errorf("unexpected renamed list: %v", job.Renamed)
	}
	if polls.Load() < 3 {
		t.Errorf("expected at least 3 polls, got %d", polls.Load())
	}
}

func TestWatchUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	store := jobs.NewMemoryStore()

	tc := &fakeTranslator{status: func(string) (*translator.JobStatus, error) {
		return &translator.JobStatus{Status: "Failed", Raw: map[string]any{"status": "Failed"}}, nil
	}}

	p, _ := newTestPoller(t, tc, store, time.Minute)

	if err := store.Create(ctx, &jobs.Job{ID: "job-1", Status: jobs.StatusRunning}); err != nil {
		t.Fatal(err)
	}

	p.Watch(ctx, "job-1")
	drain(t, p)

	job, _, _ := store.Get(ctx, "job-1")
	if job.Status != jobs.StatusFailed {
		t.Errorf("expected Failed, got %s", job.Status)
	}
	if len(job.Renamed) != 0 {
		t.Errorf("failed job must not trigger renames, got %v", job.Renamed)
	}
}

func TestWatchPollError(t *testing.T) {
	ctx := context.Background()
	store := jobs.NewMemoryStore()

	tc := &fakeTranslator{status: func(string) (*translator.JobStatus, error) {
		return nil, errors.New("connection refused")
	}}

	p, _ := newTestPoller(t, tc, store, time.Minute)

	if err := store.Create(ctx, &jobs.Job{ID: "job-1", Status: jobs.StatusRunning}); err != nil {
		t.Fatal(err)
	}

	p.Watch(ctx, "job-1")
	drain(t, p)

	job, _, _ := store.Get(ctx, "job-1")
	if job.Status != jobs.StatusError {
		t.Errorf("expected Error, got %s", job.Status)
	}
	if !strings.Contains(job.Error, "connection refused") {
		t.Errorf("expected error message to be recorded, got %q", job.Error)
	}
}

func TestWatchMaxWaitExceeded(t *testing.T) {
	ctx := context.Background()
	store := jobs.NewMemoryStore()

	tc := &fakeTranslator{status: func(string) (*translator.JobStatus, error) {
		return &translator.JobStatus{Status: "Running", Raw: map[string]any{"status": "Running"}}, nil
	}}

	p, _ := newTestPoller(t, tc, store, 10*time.Millisecond)

	if err := store.Create(ctx, &jobs.Job{ID: "job-1", Status: jobs.StatusRunning}); err != nil {
		t.Fatal(err)
	}

	p.Watch(ctx, "job-1")
	drain(t, p)

	job, _, _ := store.Get(ctx, "job-1")
	if job.Status != jobs.StatusError {
		t.Errorf("expected Error after max wait, got %s", job.Status)
	}
	if !strings.Contains(job.Error, "terminal state") {
		t.Errorf("expected timeout message, got %q", job.Error)
	}
}

func TestWatchShutdownLeavesJobRunning(t *testing.T) {
	store := jobs.NewMemoryStore()

	tc := &fakeTranslator{status: func(string) (*translator.JobStatus, error) {
		return &translator.JobStatus{Status: "Running", Raw: map[string]any{"status": "Running"}}, nil
	}}

	p, _ := newTestPoller(t, tc, store, time.Minute)

	if err := store.Create(context.Background(), &jobs.Job{ID: "job-1", Status: jobs.StatusRunning}); err != nil {
		t.Fatal(err)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	p.Watch(watchCtx, "job-1")

	time.Sleep(10 * time.Millisecond)
	cancel()
	drain(t, p)

	job, _, _ := store.Get(context.Background(), "job-1")
	if job.Status != jobs.StatusRunning {
		t.Errorf("shutdown must not mark the job failed, got %s", job.Status)
	}
}
