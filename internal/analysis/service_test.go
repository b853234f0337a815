package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCloseness/internal/calculator"
	"StockCloseness/internal/collector"
	"StockCloseness/internal/directory"
	"StockCloseness/internal/model"
)

var end = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

func universe() []model.Instrument {
	series := []model.PriceSeries{
		collector.MockSeries("A", end, 100, 102, 101, 105, 110),
		collector.MockSeries("B", end, 50, 51, 50.5, 52.5, 55),
		collector.MockSeries("C", end, 10, 40, 4, 60, 2),
	}
	out := make([]model.Instrument, len(series))
	for i, s := range series {
		out[i] = calculator.NewInstrument(s, calculator.LogReturns)
	}
	return out
}

func newService(workers int) *Service {
	dir := directory.New([]model.CompanyInfo{
		{Ticker: "A", Industry: "Tech"},
		{Ticker: "Z", Industry: "Retail"},
	})
	return NewService(universe(), dir, 3, workers)
}

func TestFind(t *testing.T) {
	s := newService(1)
	inst, err := s.Find(" a ")
	require.NoError(t, err)
	assert.Equal(t, "A", inst.Ticker)

	_, err = s.Find("Z")
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorContains(t, err, "Retail")

	_, err = s.Find("QQQ")
	assert.ErrorIs(t, err, ErrUnknownTicker)
}

func TestClosest(t *testing.T) {
	for _, workers := range []int{1, 4} {
		s := newService(workers)
		target, results, err := s.Closest(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, "A", target.Ticker)
		require.NotEmpty(t, results)
		assert.Equal(t, "B", results[0].Ticker)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	}
}

func TestOpposite(t *testing.T) {
	s := newService(1)
	_, results, err := s.Opposite(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "C", results[0].Ticker)
	assert.Less(t, results[0].Similarity, 0.2)
}

func TestCorrelated(t *testing.T) {
	s := newService(1)
	_, results, err := s.Correlated(context.Background(), "B")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].Ticker)
}

func TestCompare(t *testing.T) {
	s := newService(1)
	cmp, err := s.Compare("A", "B")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cmp.Pair.Pearson, 1e-6)
	assert.Equal(t, 4, cmp.Pair.Overlap)

	_, err = s.Compare("A", "NOPE")
	assert.ErrorIs(t, err, ErrUnknownTicker)
}

func TestRank_UnknownTarget(t *testing.T) {
	s := newService(1)
	_, _, err := s.Closest(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrUnknownTicker)
}
