package jobs

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"lingobridge/internal/config"
)

// NewStore builds the job table backend selected by JOB_STORE.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.JobStore {
	case "memory":
		return NewMemoryStore(), nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis job store: %w", err)
		}
		return NewRedisStore(rdb), nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres job store requires DATABASE_URL")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres job store: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres job store ping: %w", err)
		}
		return NewPostgresStore(ctx, pool)

	default:
		return nil, fmt.Errorf("unknown job store: %s", cfg.JobStore)
	}
}
