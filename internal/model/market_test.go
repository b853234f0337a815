package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func series(closes ...int64) PriceSeries {
	s := PriceSeries{Ticker: "TST"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Points = append(s.Points, PricePoint{Date: start.AddDate(0, 0, i), Close: decimal.NewFromInt(c)})
	}
	return s
}

func TestTail_KeepsMostRecent(t *testing.T) {
	s := series(1, 2, 3, 4, 5)
	tail := s.Tail(3)
	assert.Equal(t, 3, tail.Len())
	assert.True(t, tail.Points[0].Close.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "TST", tail.Ticker)
}

func TestTail_NonPositiveKeepsAll(t *testing.T) {
	s := series(1, 2, 3)
	assert.Equal(t, 3, s.Tail(0).Len())
	assert.Equal(t, 3, s.Tail(10).Len())
}

func TestTail_DoesNotAlias(t *testing.T) {
	s := series(1, 2, 3)
	tail := s.Tail(2)
	tail.Points[0].Close = decimal.NewFromInt(99)
	assert.True(t, s.Points[1].Close.Equal(decimal.NewFromInt(2)))
}

func TestPrices(t *testing.T) {
	prices := series(7, 8).Prices()
	assert.Len(t, prices, 2)
	assert.True(t, prices[1].Equal(decimal.NewFromInt(8)))
}
