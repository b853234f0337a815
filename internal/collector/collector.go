package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"StockCloseness/internal/cache"
	"StockCloseness/internal/calculator"
	"StockCloseness/internal/model"
)

// ErrNoInstruments is returned when a load produces nothing to rank.
var ErrNoInstruments = errors.New("no instruments loaded")

// MockFetcher returns fixed series for development and testing.
type MockFetcher struct {
	Series map[string]model.PriceSeries
	Err    map[string]error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, ticker string, days int) (model.PriceSeries, error) {
	m.Calls++
	if err, ok := m.Err[ticker]; ok {
		return model.PriceSeries{}, err
	}
	s, ok := m.Series[ticker]
	if !ok || s.Len() == 0 {
		return model.PriceSeries{}, ErrEmptySeries
	}
	return s.Tail(days), nil
}

// MockSeries builds a daily series from closes, one per day ending at end.
func MockSeries(ticker string, end time.Time, closes ...float64) model.PriceSeries {
	s := model.PriceSeries{Ticker: ticker, Points: make([]model.PricePoint, len(closes))}
	for i, c := range closes {
		s.Points[i] = model.PricePoint{
			Date:  end.AddDate(0, 0, i-len(closes)+1),
			Close: decimal.NewFromFloat(c),
		}
	}
	return s
}

// Collector loads a universe of instruments through a Fetcher.
type Collector struct {
	Fetcher  Fetcher
	Cache    cache.Store
	Lookback int
	Mode     calculator.ReturnMode
	Log      zerolog.Logger
}

// NewCollector creates a new Collector. store may be nil.
func NewCollector(fetcher Fetcher, store cache.Store, lookback int, mode calculator.ReturnMode, log zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Cache: store, Lookback: lookback, Mode: mode, Log: log}
}

// Load fetches every ticker and derives instruments. When tickers is empty and the
// fetcher can list its holdings, those are loaded instead. A ticker that fails or
// has no usable rows is logged and left out.
func (c *Collector) Load(ctx context.Context, tickers []string) ([]model.Instrument, error) {
	if len(tickers) == 0 {
		lister, ok := c.Fetcher.(Lister)
		if !ok {
			return nil, fmt.Errorf("%s: no tickers configured", c.Fetcher.Name())
		}
		listed, err := lister.Tickers()
		if err != nil {
			return nil, fmt.Errorf("list tickers: %w", err)
		}
		tickers = listed
	}

	instruments := make([]model.Instrument, 0, len(tickers))
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := c.fetch(ctx, ticker)
		if err != nil {
			c.Log.Warn().Err(err).Str("ticker", ticker).Msg("skipping instrument")
			continue
		}
		series = series.Tail(c.Lookback)
		if series.Len() == 0 {
			c.Log.Warn().Str("ticker", ticker).Msg("empty series, skipping instrument")
			continue
		}
		inst := calculator.NewInstrument(series, c.Mode)
		c.Log.Info().Str("ticker", inst.Ticker).Int("days", series.Len()).Msg("loaded")
		instruments = append(instruments, inst)
	}
	if len(instruments) == 0 {
		return nil, ErrNoInstruments
	}
	return instruments, nil
}

func (c *Collector) fetch(ctx context.Context, ticker string) (model.PriceSeries, error) {
	key := cache.Key(c.Fetcher.Name(), ticker, c.Lookback)
	if c.Cache != nil {
		if s, ok, err := c.Cache.Get(ctx, key); err != nil {
			c.Log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if ok {
			return s, nil
		}
	}
	s, err := c.Fetcher.FetchDailyCloses(ctx, ticker, c.Lookback)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	if s.Ticker == "" {
		s.Ticker = ticker
	}
	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, s); err != nil {
			c.Log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return s, nil
}
