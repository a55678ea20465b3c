package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

type rateLimitedProvider struct {
	next    Provider
	limiter *rate.Limiter
}

// WithRateLimit allows perSecond requests per second with a burst of the same size.
// A non-positive rate disables limiting.
func WithRateLimit(p Provider, perSecond float64) Provider {
	if perSecond <= 0 {
		return p
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedProvider{next: p, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *rateLimitedProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}
	return r.next.Complete(ctx, req)
}

func (r *rateLimitedProvider) Model() string { return r.next.Model() }
