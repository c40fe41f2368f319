package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/domain/shared"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestRetriesConcurrentModification(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return shared.ErrConcurrentModification
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoesNotRetryBusinessErrors(t *testing.T) {
	for _, sentinel := range []error{
		shared.ErrInsufficientStock,
		shared.ErrInvalidState,
		shared.ErrConflict,
		shared.ErrNotFound,
	} {
		attempts := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			attempts++
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, attempts, "%v should not be retried", sentinel)
	}
}

func TestAttemptBudget(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 4

	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return shared.ErrConcurrentModification
	})
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)
	assert.Equal(t, 4, attempts)
}

func TestDisabledRunsOnce(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false

	attempts := 0
	_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return shared.ErrConcurrentModification
	})
	assert.Equal(t, 1, attempts)
}

func TestRetriesMySQLDeadlock(t *testing.T) {
	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}
	assert.True(t, IsRetryableError(deadlock, DefaultConfig))

	lockTimeout := &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.True(t, IsRetryableError(lockTimeout, DefaultConfig))

	duplicate := &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.False(t, IsRetryableError(duplicate, DefaultConfig))
}

func TestRetryPredicate(t *testing.T) {
	custom := errors.New("replica lag")
	cfg := fastConfig()
	cfg.RetryPredicate = func(err error) bool { return errors.Is(err, custom) }

	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return custom
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestContextCancellationStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error {
		attempts++
		cancel()
		return shared.ErrConcurrentModification
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	cfg := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 300*time.Millisecond, ExponentialBackoffWithJitter(3, cfg))
	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
}
