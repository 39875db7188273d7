package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/defect-triage/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger.Info("processed", "rows", 4)
	assert.Contains(t, buf.String(), `"rows":4`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestUserError(t *testing.T) {
	err := NewUserError("Error reading file", ErrFileRead)
	assert.Equal(t, "Error reading file: file could not be read", err.Error())
	assert.ErrorIs(t, err, ErrFileRead)
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()
	opts := service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non retryable stops early", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return &RetryableError{Err: errors.New("bad request"), Retryable: false}
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.False(t, IsRetryable(err))
	})

	t.Run("exhausted", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return ErrRateLimit
		}, opts)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, ErrRateLimit)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return Permanent(ErrMissingConfig)
		}, opts)
		assert.ErrorIs(t, err, ErrMissingConfig)
		assert.Equal(t, 1, calls)
		assert.NoError(t, Permanent(nil))
	})

	t.Run("canceled operation is not retried", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return fmt.Errorf("upload: %w", context.Canceled)
		}, opts)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled while waiting", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		slow := service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour}
		err := WithRetry(cctx, func() error {
			cancel()
			return errors.New("transient")
		}, slow)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain transport error", errors.New("connection reset"), true},
		{"rate limit", fmt.Errorf("sheets: %w", ErrRateLimit), true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"permanent", Permanent(errors.New("not found")), false},
		{"permanent rate limit", Permanent(ErrRateLimit), false},
		{"explicitly retryable", &RetryableError{Err: context.Canceled, Retryable: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
