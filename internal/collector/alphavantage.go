package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"StockCloseness/internal/model"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// compact responses carry the latest 100 sessions.
const alphaVantageCompactSize = 100

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage daily adjusted series.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string) *AlphaVantageFetcher {
	return &AlphaVantageFetcher{
		BaseURL: alphaVantageBaseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avDaily is the expected JSON shape of TIME_SERIES_DAILY_ADJUSTED.
type avDaily struct {
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
}

func (f *AlphaVantageFetcher) FetchDailyCloses(ctx context.Context, ticker string, days int) (model.PriceSeries, error) {
	outputSize := "compact"
	if days <= 0 || days > alphaVantageCompactSize {
		outputSize = "full"
	}
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	q.Set("symbol", ticker)
	q.Set("apikey", f.APIKey)
	q.Set("outputsize", outputSize)
	endpoint := f.BaseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.PriceSeries{}, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload avDaily
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.PriceSeries{}, fmt.Errorf("alphavantage decode: %w", err)
	}
	switch {
	case payload.ErrorMessage != "":
		return model.PriceSeries{}, fmt.Errorf("alphavantage api error: %s", payload.ErrorMessage)
	case payload.TimeSeries == nil && payload.Note != "":
		return model.PriceSeries{}, fmt.Errorf("alphavantage throttled: %s", payload.Note)
	case payload.TimeSeries == nil && payload.Information != "":
		return model.PriceSeries{}, fmt.Errorf("alphavantage: %s", payload.Information)
	case len(payload.TimeSeries) == 0:
		return model.PriceSeries{}, fmt.Errorf("no data found for %s: %w", ticker, ErrEmptySeries)
	}

	series := model.PriceSeries{Ticker: ticker, Points: make([]model.PricePoint, 0, len(payload.TimeSeries))}
	for day, fields := range payload.TimeSeries {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		price, err := decimal.NewFromString(fields["5. adjusted close"])
		if err != nil {
			continue
		}
		series.Points = append(series.Points, model.PricePoint{Date: date, Close: price})
	}
	if len(series.Points) == 0 {
		return model.PriceSeries{}, ErrEmptySeries
	}

	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Date.Before(series.Points[j].Date) })
	return series.Tail(days), nil
}
