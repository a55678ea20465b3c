package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

type RetryConfig struct {
	// Attempts is the total number of calls, including the first one.
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

type retryProvider struct {
	next Provider
	cfg  RetryConfig
}

// WithRetry retries transient failures with capped exponential backoff.
// Invalid output is retried at most once; cancellation and truncation are returned immediately.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &retryProvider{next: p, cfg: cfg}
}

func (r *retryProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	var (
		lastErr        error
		retriedInvalid bool
	)

	for attempt := 0; attempt < r.cfg.Attempts; attempt++ {
		resp, err := r.next.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err, &retriedInvalid) || attempt == r.cfg.Attempts-1 {
			break
		}

		timer := time.NewTimer(r.delay(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (r *retryProvider) Model() string { return r.next.Model() }

func retryable(err error, retriedInvalid *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var truncated *TruncatedError
	if errors.As(err, &truncated) {
		return false
	}

	var invalid *InvalidOutputError
	if errors.As(err, &invalid) {
		if *retriedInvalid {
			return false
		}
		*retriedInvalid = true
	}
	return true
}

func (r *retryProvider) delay(attempt int, err error) time.Duration {
	var limited *RateLimitError
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}

	d := r.cfg.BaseDelay << attempt
	if r.cfg.MaxDelay > 0 && (d > r.cfg.MaxDelay || d <= 0) {
		d = r.cfg.MaxDelay
	}
	if d <= 0 {
		return 0
	}
	// +/-20% jitter
	spread := int64(d) / 5
	if spread > 0 {
		d += time.Duration(rand.Int64N(2*spread+1) - spread)
	}
	return d
}
