package jobs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("job not found")

// Store is the job table contract. Backends: memory (default, process
// lifetime only), redis, postgres.
type Store interface {
	Create(ctx context.Context, job *Job) error
	// Get returns the record and whether it exists.
	Get(ctx context.Context, id string) (*Job, bool, error)
	// Update applies fn to the stored record and persists the result.
	// Returns ErrNotFound when the id is unknown.
	Update(ctx context.Context, id string, fn func(*Job)) (*Job, error)

	Ping(ctx context.Context) error
	Close() error
}
