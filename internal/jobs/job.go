// Package jobs holds the translation job table: the record shape, the Store
// contract and its memory/redis/postgres backends.
package jobs

import "time"

// Status strings mirror what the translator service reports, plus "Error"
// for failures of our own polling loop.
type Status string

const (
	StatusRunning   Status = "Running"
	StatusSucceeded Status = "Succeeded"
	StatusFailed    Status = "Failed"
	StatusCancelled Status = "Cancelled"
	StatusError     Status = "Error"
)

// Terminal reports whether polling should stop at this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled, StatusError:
		return true
	}
	return false
}

// Job is one batch translation job. The id is assigned by the translator
// service. Records are mutated in place by the poller and never deleted
// during process lifetime.
type Job struct {
	ID              string         `json:"id"`
	Status          Status         `json:"status"`
	RawStatus       map[string]any `json:"raw_status,omitempty"`
	Error           string         `json:"error,omitempty"`
	Renamed         []string       `json:"renamed,omitempty"`
	SourceBlobs     []string       `json:"source_blobs,omitempty"`
	TargetLanguages []string       `json:"target_languages,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// clone returns a copy safe to hand out while the poller keeps mutating the
// stored record.
func (j *Job) clone() *Job {
	cp := *j
	if j.RawStatus != nil {
		cp.RawStatus = make(map[string]any, len(j.RawStatus))
		for k, v := range j.RawStatus {
			cp.RawStatus[k] = v
		}
	}
	cp.Renamed = append([]string(nil), j.Renamed...)
	cp.SourceBlobs = append([]string(nil), j.SourceBlobs...)
	cp.TargetLanguages = append([]string(nil), j.TargetLanguages...)
	return &cp
}
