package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"StockCloseness/internal/model"
)

type lruEntry struct {
	series  model.PriceSeries
	expires time.Time
}

// LRUStore is an in-process Store with a fixed capacity and per-entry TTL.
type LRUStore struct {
	cache *lru.Cache[string, lruEntry]
	ttl   time.Duration
	now   func() time.Time
}

// NewLRUStore creates an LRUStore. ttl <= 0 disables expiry.
func NewLRUStore(size int, ttl time.Duration) (*LRUStore, error) {
	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore{cache: c, ttl: ttl, now: time.Now}, nil
}

func (s *LRUStore) Get(_ context.Context, key string) (model.PriceSeries, bool, error) {
	e, ok := s.cache.Get(key)
	if !ok {
		return model.PriceSeries{}, false, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		s.cache.Remove(key)
		return model.PriceSeries{}, false, nil
	}
	return e.series, true, nil
}

func (s *LRUStore) Set(_ context.Context, key string, series model.PriceSeries) error {
	e := lruEntry{series: series}
	if s.ttl > 0 {
		e.expires = s.now().Add(s.ttl)
	}
	s.cache.Add(key, e)
	return nil
}

// Len returns the number of cached series.
func (s *LRUStore) Len() int { return s.cache.Len() }

func (s *LRUStore) Close() error {
	s.cache.Purge()
	return nil
}
