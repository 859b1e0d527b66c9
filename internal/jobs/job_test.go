package jobs

import "testing"

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusRunning, false},
		{StatusSucceeded, true},
		{StatusFailed, true},
		{StatusCancelled, true},
		{StatusError, true},
		{Status("NotStarted"), false},
		{Status("Cancelling"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("Terminal(%q) = %v, want %v", tt.status, got, tt.terminal)
			}
		})
	}
}

func TestJobClone(t *testing.T) {
	job := &Job{
		ID:          "job-1",
		Status:      StatusRunning,
		RawStatus:   map[string]any{"status": "Running"},
		SourceBlobs: []string{"a.docx"},
	}

	cp := job.clone()
	cp.RawStatus["status"] = "Succeeded"
	cp.SourceBlobs[0] = "changed"

	if job.RawStatus["status"] != "Running" {
		t.Error("clone shares raw status map with original")
	}
	if job.SourceBlobs[0] != "a.docx" {
		t.Error("clone shares source blob slice with original")
	}
}
