package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-enrollment/internal/common/config"
	apperrors "student-enrollment/internal/common/errors"
	"student-enrollment/internal/common/logger"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "memory"}}

	be, err := Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer be.Close()

	assert.IsType(t, &MemoryStore{}, be.Store)
	assert.NoError(t, be.Pinger.Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "firestore"}}

	_, err := Open(context.Background(), cfg, logger.NewTestLogger(t))
	assert.ErrorContains(t, err, `"firestore" is not supported`)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{Store: config.StoreConfig{Driver: "redis", KeyPrefix: "t:"}}
	cfg.Database.Redis.Address = mr.Addr()

	be, err := Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer be.Close()

	assert.IsType(t, &RedisStore{}, be.Store)
	assert.NoError(t, be.Pinger.Ping(context.Background()))
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{Store: config.StoreConfig{Driver: "redis", MaxRetries: 1}}
	cfg.Database.Redis.Address = addr

	_, err := Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDatabaseConnectionFailed))
	assert.Contains(t, apperrors.AsStandardError(err).Details, "Redis connection failed after 1 attempts")
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := retryWithBackoff(func() error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}, 5, time.Millisecond, log, "test connection")

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		cause := errors.New("connection refused")
		err := retryWithBackoff(func() error {
			calls++
			return cause
		}, 2, time.Millisecond, log, "test connection")

		assert.ErrorIs(t, err, cause)
		assert.ErrorContains(t, err, "test connection failed after 2 attempts")
		assert.Equal(t, 2, calls)
	})
}
