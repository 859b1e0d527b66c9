package jobs

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	job := &Job{ID: "job-1", Status: StatusRunning, TargetLanguages: []string{"fr", "de"}}
	if err := s.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Get(ctx, "job-1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected job to exist")
	}
	if got.Status != StatusRunning {
		t.Errorf("expected status Running, got %s", got.Status)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected unknown id to report not found")
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Create(ctx, &Job{ID: "job-1", Status: StatusRunning}); err != nil {
		t.Fatal(err)
	}

	updated, err := s.Update(ctx, "job-1", func(j *Job) {
		j.Status = StatusSucceeded
		j.Renamed = []string{"translated-a.docx"}
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != StatusSucceeded {
		t.Errorf("expected Succeeded, got %s", updated.Status)
	}

	got, _, _ := s.Get(ctx, "job-1")
	if got.Status != StatusSucceeded {
		t.Error("update was not persisted")
	}
	if len(got.Renamed) != 1 || got.Renamed[0] != "translated-a.docx" {
		t.Errorf("unexpected renamed list: %v", got.Renamed)
	}
}

func TestMemoryStoreUpdateUnknown(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Update(context.Background(), "nope", func(j *Job) {})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Create(ctx, &Job{ID: "job-1", Status: StatusRunning}); err != nil {
		t.Fatal(err)
	}

	got, _, _ := s.Get(ctx, "job-1")
	got.Status = StatusFailed

	again, _, _ := s.Get(ctx, "job-1")
	if again.Status != StatusRunning {
		t.Error("mutating a returned record leaked into the store")
	}
}
