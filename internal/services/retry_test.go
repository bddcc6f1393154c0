package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hirehub/internal/apperrors"
)

var fastRetry = RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 10 * time.Millisecond, Multiplier: 2}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"upstream timeout", apperrors.Upstream(apperrors.UpstreamTimeout, errors.New("slow")), true},
		{"upstream unavailable", apperrors.Upstream(apperrors.UpstreamUnavailable, errors.New("503")), true},
		{"rate limited", apperrors.Upstream(apperrors.UpstreamRateLimited, errors.New("429")), true},
		{"malformed", apperrors.Upstream(apperrors.UpstreamMalformed, errors.New("bad json")), false},
		{"not configured", apperrors.ErrAINotConfigured, false},
		{"breaker open", gobreaker.ErrOpenState, false},
		{"regular error", errors.New("something"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestRetryDoSuccess(t *testing.T) {
	calls := 0
	got, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestRetryDoRetryThenSuccess(t *testing.T) {
	calls := 0
	got, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		if calls < 3 {
			return "", apperrors.Upstream(apperrors.UpstreamUnavailable, errors.New("503"))
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryDoExhausted(t *testing.T) {
	rc := fastRetry
	rc.MaxRetries = 2
	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		return "", apperrors.Upstream(apperrors.UpstreamTimeout, errors.New("slow"))
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls) // initial + 2 retries
}

func TestRetryDoNonRetryable(t *testing.T) {
	calls := 0
	_, err := RetryDo(context.Background(), fastRetry, func() (string, error) {
		calls++
		return "", errors.New("permanent error")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryDoContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RetryDo(ctx, fastRetry, func() (string, error) {
		return "", apperrors.Upstream(apperrors.UpstreamUnavailable, errors.New("503"))
	})
	assert.ErrorIs(t, err, context.Canceled)
}
