package calculator

// MinOverlap is the fewest shared observations a pairwise comparison needs.
const MinOverlap = 2

// Align truncates a and b to their common trailing window.
// Both outputs are empty when fewer than MinOverlap observations overlap.
func Align(a, b []float64) (x, y []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < MinOverlap {
		return []float64{}, []float64{}
	}
	x = make([]float64, n)
	y = make([]float64, n)
	copy(x, a[len(a)-n:])
	copy(y, b[len(b)-n:])
	return x, y
}
