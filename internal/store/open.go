package store

import (
	"context"
	"fmt"
	"time"

	"student-enrollment/internal/common/config"
	"student-enrollment/internal/common/database"
	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/logger"
)

const connectRetryDelay = 2 * time.Second

// Backend is an opened store with its liveness check and cleanup.
type Backend struct {
	Store  Store
	Pinger Pinger
	Close  func()
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// Open connects the backend named by cfg.Store.Driver, retrying the
// connection up to cfg.Store.MaxRetries times.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backend, error) {
	retries := cfg.Store.MaxRetries
	if retries < 1 {
		retries = 1
	}

	switch cfg.Store.Driver {
	case "memory":
		m := NewMemoryStore()
		return &Backend{Store: m, Pinger: m, Close: func() {}}, nil

	case "postgres":
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
			return err
		}, retries, connectRetryDelay, log, "PostgreSQL connection")
		if err != nil {
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}

		s := NewPostgresStore(pg, cfg.Store.Table)
		if err := s.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return &Backend{Store: s, Pinger: s, Close: func() { pg.Close() }}, nil

	case "redis":
		var rc *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(ctx, cfg.Database.Redis)
			return err
		}, retries, connectRetryDelay, log, "Redis connection")
		if err != nil {
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}

		s := NewRedisStore(rc.Client, cfg.Store.KeyPrefix)
		return &Backend{Store: s, Pinger: s, Close: func() { rc.Close() }}, nil

	case "elasticsearch":
		var esClient *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, retries, connectRetryDelay, log, "Elasticsearch connection")
		if err != nil {
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}

		s := NewElasticsearchStore(esClient.Client, cfg.Store.IndexPrefix)
		return &Backend{Store: s, Pinger: s, Close: func() {}}, nil
	}

	return nil, fmt.Errorf("store driver %q is not supported", cfg.Store.Driver)
}
