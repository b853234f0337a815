package calculator

import "math"

// SimilarityThreshold is the score at or above which two series count as similar.
const SimilarityThreshold = 0.5

// Similarity maps the residual variance of an OLS fit of y on x into [0,1]
// as 1/(1+variance), where variance is the mean squared residual.
//
// This is a ranking heuristic used in place of a cointegration test. No unit
// root test is run and the score has no significance interpretation.
// A fit that cannot be computed scores 0; residuals that collapse to zero score 1.
func Similarity(x, y []float64) float64 {
	fit := FitResiduals(x, y)
	if len(fit.Residuals) < 2 {
		return 0
	}

	sumSq := 0.0
	for _, r := range fit.Residuals {
		sumSq += r * r
	}
	variance := sumSq / float64(len(fit.Residuals))

	if math.IsNaN(variance) || variance <= 0 {
		return 1.0
	}
	return clamp(1.0/(1.0+variance), 0, 1)
}

// IsSimilar reports whether Similarity(x, y) reaches SimilarityThreshold.
func IsSimilar(x, y []float64) bool {
	return Similarity(x, y) >= SimilarityThreshold
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
