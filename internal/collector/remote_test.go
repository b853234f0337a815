package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCloseness/internal/model"
)

func TestAlphaVantage_ParsesAdjustedClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", r.URL.Query().Get("function"))
		assert.Equal(t, "IBM", r.URL.Query().Get("symbol"))
		assert.Equal(t, "key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "compact", r.URL.Query().Get("outputsize"))
		w.Write([]byte(`{"Time Series (Daily)": {
			"2024-03-04": {"4. close": "190.0", "5. adjusted close": "189.5"},
			"2024-03-01": {"5. adjusted close": "185.25"},
			"2024-03-05": {"5. adjusted close": "bad"},
			"2024-02-29": {"5. adjusted close": "184"}
		}}`))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher("key", "")
	f.BaseURL = srv.URL
	s, err := f.FetchDailyCloses(context.Background(), "IBM", 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.True(t, s.Points[0].Close.Equal(decimal.RequireFromString("185.25")))
	assert.True(t, s.Points[1].Close.Equal(decimal.RequireFromString("189.5")))
}

func TestAlphaVantage_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", 200, `{"Error Message": "Invalid API call"}`},
		{"throttled", 200, `{"Note": "Thank you for using Alpha Vantage"}`},
		{"empty", 200, `{}`},
		{"status", 500, `oops`},
		{"garbage", 200, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			f := NewAlphaVantageFetcher("key", "")
			f.BaseURL = srv.URL
			_, err := f.FetchDailyCloses(context.Background(), "IBM", 30)
			assert.Error(t, err)
		})
	}
}

func TestYahoo_ParsesCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/^GSPC", r.URL.Path)
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		w.Write([]byte(`{"chart": {"result": [{
			"timestamp": [1709510400, 1709596800, 1709683200],
			"indicators": {"quote": [{"close": [5100.5, null, 5150.25]}]}
		}]}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	s, err := f.FetchDailyCloses(context.Background(), "SPX500", 10)
	require.NoError(t, err)
	assert.Equal(t, "SPX500", s.Ticker)
	require.Equal(t, 2, s.Len())
	assert.True(t, s.Points[1].Close.Equal(decimal.NewFromFloat(5150.25)))
}

func TestYahoo_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	}))
	defer srv.Close()
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyCloses(context.Background(), "NOPE", 10)
	assert.ErrorContains(t, err, "No data found")
}

func TestYahooRange(t *testing.T) {
	assert.Equal(t, "1mo", yahooRange(20))
	assert.Equal(t, "3mo", yahooRange(30))
	assert.Equal(t, "1y", yahooRange(250))
	assert.Equal(t, "2y", yahooRange(0))
}

type failingFetcher struct{ calls int }

func (f *failingFetcher) Name() string { return "failing" }

func (f *failingFetcher) FetchDailyCloses(context.Context, string, int) (model.PriceSeries, error) {
	f.calls++
	return model.PriceSeries{}, errors.New("upstream down")
}

func TestGuardedFetcher_TripsBreaker(t *testing.T) {
	inner := &failingFetcher{}
	g := NewGuardedFetcher(inner, 0)
	for i := 0; i < 3; i++ {
		_, err := g.FetchDailyCloses(context.Background(), "X", 10)
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())

	_, err := g.FetchDailyCloses(context.Background(), "X", 10)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls)
}

func TestGuardedFetcher_HonoursContext(t *testing.T) {
	g := NewGuardedFetcher(&MockFetcher{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.FetchDailyCloses(ctx, "X", 10)
	assert.Error(t, err)
}
