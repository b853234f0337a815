package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"StockCloseness/internal/model"
)

// ReturnMode selects how period-over-period returns are computed.
type ReturnMode int

const (
	// LogReturns emits ln(p[i]/p[i-1]). It is the zero value and the default.
	LogReturns ReturnMode = iota
	// SimpleReturns emits (p[i]-p[i-1])/p[i-1].
	SimpleReturns
)

func (m ReturnMode) String() string {
	if m == SimpleReturns {
		return "simple"
	}
	return "log"
}

// ComputeReturns derives returns from prices ordered oldest to newest.
// A transition whose previous price is zero is skipped, so the result can be
// shorter than len(prices)-1.
func ComputeReturns(prices []decimal.Decimal, mode ReturnMode) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1].IsZero() {
			continue
		}
		prev := prices[i-1].InexactFloat64()
		cur := prices[i].InexactFloat64()
		if mode == SimpleReturns {
			returns = append(returns, (cur-prev)/prev)
		} else {
			returns = append(returns, math.Log(cur/prev))
		}
	}
	return returns
}

// NewInstrument builds an Instrument whose returns are derived from series.
func NewInstrument(series model.PriceSeries, mode ReturnMode) model.Instrument {
	return model.Instrument{
		Ticker:  series.Ticker,
		Series:  series,
		Returns: ComputeReturns(series.Prices(), mode),
	}
}
