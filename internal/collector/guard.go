package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"StockCloseness/internal/model"
)

// GuardedFetcher rate-limits a remote Fetcher and trips a circuit breaker after repeated failures.
type GuardedFetcher struct {
	inner   Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedFetcher wraps inner with a limit of perMinute requests. perMinute <= 0 disables limiting.
func NewGuardedFetcher(inner Fetcher, perMinute int) *GuardedFetcher {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
	st := gobreaker.Settings{Name: inner.Name()}
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	return &GuardedFetcher{
		inner:   inner,
		limiter: limiter,
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

func (g *GuardedFetcher) Name() string { return g.inner.Name() }

func (g *GuardedFetcher) FetchDailyCloses(ctx context.Context, ticker string, days int) (model.PriceSeries, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return model.PriceSeries{}, fmt.Errorf("rate limit: %w", err)
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.FetchDailyCloses(ctx, ticker, days)
	})
	if err != nil {
		return model.PriceSeries{}, err
	}
	return out.(model.PriceSeries), nil
}

// State reports the circuit breaker state.
func (g *GuardedFetcher) State() gobreaker.State { return g.breaker.State() }
