package collector

import (
	"context"

	"StockCloseness/internal/model"
)

// Fetcher loads daily closes for one ticker, oldest to newest.
// days bounds the result to the most recent observations; days <= 0 means all.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, ticker string, days int) (model.PriceSeries, error)
	Name() string
}

// Lister is implemented by fetchers that can enumerate the tickers they hold.
type Lister interface {
	Tickers() ([]string, error)
}
