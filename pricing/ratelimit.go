package pricing

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited keeps a provider under its upstream's request budget.
type RateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

func NewRateLimited(next Provider, perSecond float64, burst int) *RateLimited {
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *RateLimited) Name() string { return r.next.Name() }

func (r *RateLimited) Quote(ctx context.Context, ticker string) (Quote, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Quote{}, fmt.Errorf("%s: rate limit: %w", r.next.Name(), err)
	}
	return r.next.Quote(ctx, ticker)
}
