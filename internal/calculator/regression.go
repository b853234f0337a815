package calculator

// Regression is an ordinary least squares fit of y = Alpha + Beta*x.
// Residuals is nil when no fit could be computed.
type Regression struct {
	Alpha     float64
	Beta      float64
	Residuals []float64
}

// Fitted reports whether the regression produced residuals.
func (r Regression) Fitted() bool { return len(r.Residuals) > 0 }

// FitResiduals regresses y on x and returns the residuals y[i] - (alpha + beta*x[i]).
// Mismatched lengths, fewer than two points, or a constant x give the zero Regression.
func FitResiduals(x, y []float64) Regression {
	if len(x) != len(y) || len(x) < 2 {
		return Regression{}
	}
	meanX := mean(x)
	meanY := mean(y)

	var numerator, denominator float64
	for i := range x {
		numerator += (x[i] - meanX) * (y[i] - meanY)
		denominator += (x[i] - meanX) * (x[i] - meanX)
	}
	if denominator == 0 {
		return Regression{}
	}

	beta := numerator / denominator
	alpha := meanY - beta*meanX

	residuals := make([]float64, len(x))
	for i := range x {
		residuals[i] = y[i] - (alpha + beta*x[i])
	}
	return Regression{Alpha: alpha, Beta: beta, Residuals: residuals}
}
