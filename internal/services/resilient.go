package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"alfredoptarigan/hirehub/internal/apperrors"
)

type ResilienceConfig struct {
	// Timeout bounds each attempt, not the whole call.
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Retry         RetryConfig
	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type resilientCompleter struct {
	next    Completer
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	retry   RetryConfig
}

// NewResilientCompleter wraps next with a per-attempt timeout, a client-side
// rate limit, retry with backoff and a circuit breaker.
func NewResilientCompleter(next Completer, cfg ResilienceConfig) Completer {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "ai-provider",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// Only provider-side failures count against the breaker.
			return err == nil || !isProviderFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("🔌 Circuit breaker %s: %s -> %s\n", name, from, to)
		},
	})

	return &resilientCompleter{
		next:    next,
		timeout: cfg.Timeout,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		breaker: breaker,
		retry:   cfg.Retry,
	}
}

func (r *resilientCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	text, err := RetryDo(ctx, r.retry, func() (string, error) {
		return r.attempt(ctx, req)
	})
	if err != nil {
		return "", normalizeUpstream(ctx, err)
	}
	return text, nil
}

func (r *resilientCompleter) attempt(ctx context.Context, req CompletionRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", apperrors.Upstream(apperrors.UpstreamRateLimited, err)
	}

	out, err := r.breaker.Execute(func() (interface{}, error) {
		attemptCtx := ctx
		if r.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		text, err := r.next.Complete(attemptCtx, req)
		if err != nil {
			return nil, classifyProviderError(attemptCtx, err)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func classifyProviderError(attemptCtx context.Context, err error) error {
	var upstreamErr *apperrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return apperrors.Upstream(apperrors.UpstreamTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return apperrors.Upstream(apperrors.UpstreamUnavailable, err)
}

func isProviderFailure(err error) bool {
	if errors.Is(err, apperrors.ErrAINotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}
	var upstreamErr *apperrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Kind == apperrors.UpstreamTimeout || upstreamErr.Kind == apperrors.UpstreamUnavailable
	}
	return true
}

// normalizeUpstream guarantees callers always receive a typed upstream error.
func normalizeUpstream(ctx context.Context, err error) error {
	var upstreamErr *apperrors.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &apperrors.UpstreamError{Kind: apperrors.UpstreamUnavailable, Retryable: true, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Upstream(apperrors.UpstreamTimeout, err)
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return apperrors.Upstream(apperrors.UpstreamUnavailable, fmt.Errorf("ai completion: %w", err))
}
