package calculator

import (
	"fmt"
	"math"
)

// DefaultStationaryThreshold is the variance under which IsStationary holds.
const DefaultStationaryThreshold = 0.001

var correlationBands = []struct {
	MinPercent float64
	Label      string
}{
	{80, "very strongly moves together"},
	{60, "moves fairly often in the same direction"},
	{30, "moves sometimes in the same direction"},
	{0, "moves mostly independently"},
	{-30, "moves mostly independently or slightly opposite"},
	{-60, "moves fairly often in the opposite direction"},
}

// DescribeCorrelation renders a correlation as a rounded percentage and a plain-language band.
func DescribeCorrelation(corr float64) string {
	pct := math.Round(corr * 100)
	label := "moves very strongly in the opposite direction"
	for _, b := range correlationBands {
		if pct >= b.MinPercent {
			label = b.Label
			break
		}
	}
	return fmt.Sprintf("%.0f%% → %s", pct, label)
}

// IsStationary is a crude mean-reversion check: population variance below threshold.
// Compare applies it to the residual spread. Ranking does not use it.
func IsStationary(series []float64, threshold float64) bool {
	if len(series) < 2 {
		return false
	}
	m := mean(series)
	sum := 0.0
	for _, v := range series {
		sum += (v - m) * (v - m)
	}
	return sum/float64(len(series)) < threshold
}
