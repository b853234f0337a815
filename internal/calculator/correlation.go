package calculator

import (
	"math"

	"StockCloseness/internal/model"
)

// Pearson returns the linear correlation of two equal-length series.
// Empty or mismatched inputs, and a constant input, yield 0.
func Pearson(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	meanX := mean(x)
	meanY := mean(y)

	var sumXY, sumX2, sumY2 float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sumXY += dx * dy
		sumX2 += dx * dx
		sumY2 += dy * dy
	}
	if sumX2 == 0 || sumY2 == 0 {
		return 0
	}
	return sumXY / math.Sqrt(sumX2*sumY2)
}

// Pair holds the pairwise statistics of two instruments over their aligned returns.
// StationarySpread reports whether the OLS residual spread of b on a has a
// variance below DefaultStationaryThreshold.
type Pair struct {
	Pearson          float64
	Similarity       float64
	Overlap          int
	StationarySpread bool
}

// Compare aligns the returns of a and b and scores them.
func Compare(a, b model.Instrument) Pair {
	x, y := Align(a.Returns, b.Returns)
	fit := FitResiduals(x, y)
	return Pair{
		Pearson:          Pearson(x, y),
		Similarity:       Similarity(x, y),
		Overlap:          len(x),
		StationarySpread: fit.Fitted() && IsStationary(fit.Residuals, DefaultStationaryThreshold),
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
