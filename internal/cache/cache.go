package cache

import (
	"context"
	"fmt"
	"strings"

	"StockCloseness/internal/model"
)

// Store caches fetched price series.
type Store interface {
	Get(ctx context.Context, key string) (model.PriceSeries, bool, error)
	Set(ctx context.Context, key string, series model.PriceSeries) error
	Close() error
}

// Key builds the cache key for a fetch of ticker over days from source.
func Key(source, ticker string, days int) string {
	return fmt.Sprintf("closeness:%s:%s:%d", source, strings.ToUpper(ticker), days)
}
