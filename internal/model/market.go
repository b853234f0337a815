package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time
	Close decimal.Decimal
}

// PriceSeries holds the closes of one ticker, oldest to newest.
type PriceSeries struct {
	Ticker string
	Points []PricePoint
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// Prices extracts the closes in order.
func (s PriceSeries) Prices() []decimal.Decimal {
	prices := make([]decimal.Decimal, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.Close
	}
	return prices
}

// Tail returns a copy limited to the most recent n observations.
// n <= 0 keeps everything.
func (s PriceSeries) Tail(n int) PriceSeries {
	points := s.Points
	if n > 0 && len(points) > n {
		points = points[len(points)-n:]
	}
	out := make([]PricePoint, len(points))
	copy(out, points)
	return PriceSeries{Ticker: s.Ticker, Points: out}
}

// Instrument is a ticker with its prices and the returns derived from them.
// Build it with calculator.NewInstrument so returns stay consistent with prices.
type Instrument struct {
	Ticker  string
	Series  PriceSeries
	Returns []float64
}

// RankedResult is one row of a ranking query.
type RankedResult struct {
	Ticker     string
	Pearson    float64
	Similarity float64
}

// CompanyInfo is descriptive metadata for a ticker.
type CompanyInfo struct {
	Ticker      string `yaml:"ticker"`
	Name        string `yaml:"name"`
	Industry    string `yaml:"industry"`
	Description string `yaml:"description"`
}
