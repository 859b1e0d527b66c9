package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS translation_jobs (
    id               TEXT PRIMARY KEY,
    status           TEXT NOT NULL,
    raw_status       JSONB,
    error_text       TEXT,
    renamed          TEXT[],
    source_blobs     TEXT[],
    target_languages TEXT[],
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL
)`

// PostgresStore persists job records in a translation_jobs table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("translation_jobs schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	cp := job.clone()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now

	raw, err := marshalRaw(cp.RawStatus)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO translation_jobs (id, status, raw_status, error_text, renamed, source_blobs, target_languages, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (id) DO UPDATE SET
		   status=EXCLUDED.status, raw_status=EXCLUDED.raw_status, error_text=EXCLUDED.error_text,
		   renamed=EXCLUDED.renamed, source_blobs=EXCLUDED.source_blobs,
		   target_languages=EXCLUDED.target_languages, updated_at=EXCLUDED.updated_at`,
		cp.ID, string(cp.Status), raw, nullIfEmpty(cp.Error),
		cp.Renamed, cp.SourceBlobs, cp.TargetLanguages, cp.CreatedAt, cp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", cp.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Job, bool, error) {
	job, err := s.get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return job, true, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, fn func(*Job)) (*Job, error) {
	job, err := s.get(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	fn(job)
	job.UpdatedAt = time.Now().UTC()

	raw, err := marshalRaw(job.RawStatus)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE translation_jobs
		 SET status=$2, raw_status=$3, error_text=$4, renamed=$5, updated_at=$6
		 WHERE id=$1`,
		id, string(job.Status), raw, nullIfEmpty(job.Error), job.Renamed, job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update job %s: %w", id, err)
	}
	return job, nil
}

func (s *PostgresStore) get(ctx context.Context, id string) (*Job, error) {
	var (
		job    Job
		status string
		raw    []byte
		errTxt *string
	)

	err := s.pool.QueryRow(ctx,
		`SELECT id, status, raw_status, error_text, renamed, source_blobs, target_languages, created_at, updated_at
		 FROM translation_jobs WHERE id=$1`, id,
	).Scan(&job.ID, &status, &raw, &errTxt,
		&job.Renamed, &job.SourceBlobs, &job.TargetLanguages, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	job.Status = Status(status)
	if errTxt != nil {
		job.Error = *errTxt
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &job.RawStatus); err != nil {
			return nil, fmt.Errorf("decode raw_status for job %s: %w", id, err)
		}
	}
	return &job, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func marshalRaw(raw map[string]any) ([]byte, error) {
	if raw == nil {
		return nil, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode raw_status: %w", err)
	}
	return b, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
