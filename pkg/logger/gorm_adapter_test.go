package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"cantina/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func newObservedAdapter(t *testing.T, level logger.LogLevel) (*GormLoggerAdapter, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewGormLoggerAdapterWithConfig(level, &GormLoggerConfig{
		SlowThreshold: 200 * time.Millisecond,
		AddCaller:     false,
	})
	adapter.logger = zap.New(core)
	return adapter, logs
}

func TestGormAdapterLevelFiltering(t *testing.T) {
	adapter, logs := newObservedAdapter(t, logger.Warn)

	adapter.Info(context.Background(), "should be filtered")
	adapter.Warn(context.Background(), "should appear")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	if logs.All()[0].Message != "should appear" {
		t.Errorf("unexpected message: %s", logs.All()[0].Message)
	}
}

func TestGormAdapterTraceError(t *testing.T) {
	adapter, logs := newObservedAdapter(t, logger.Error)

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "UPDATE menu_items SET available_quantity = 0", 0
	}, errors.New("connection reset"))

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Level != zapcore.ErrorLevel {
		t.Errorf("expected error level, got %v", entry.Level)
	}
}

func TestGormAdapterIgnoresRecordNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewGormLoggerAdapterWithConfig(logger.Error, &GormLoggerConfig{
		IgnoreRecordNotFoundError: true,
	})
	adapter.logger = zap.New(core)

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM orders WHERE id = ?", 0
	}, logger.ErrRecordNotFound)

	if logs.Len() != 0 {
		t.Fatalf("record-not-found should be suppressed, got %d entries", logs.Len())
	}
}

func TestGormAdapterSlowQuery(t *testing.T) {
	adapter, logs := newObservedAdapter(t, logger.Warn)

	begin := time.Now().Add(-time.Second)
	adapter.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM orders", 10
	}, nil)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 slow-query entry, got %d", logs.Len())
	}
	if logs.All()[0].Level != zapcore.WarnLevel {
		t.Errorf("expected warn level, got %v", logs.All()[0].Level)
	}
}

func TestGormAdapterRequestIDField(t *testing.T) {
	adapter, logs := newObservedAdapter(t, logger.Info)

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	adapter.Info(ctx, "with request id")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	if fields["request_id"] != "req-42" {
		t.Errorf("expected request_id field, got %v", fields)
	}
}

func TestGormAdapterLogMode(t *testing.T) {
	adapter := NewGormLoggerAdapter(logger.Warn)
	if adapter.LogMode(logger.Info) == nil {
		t.Fatal("LogMode should return a new adapter")
	}
}
