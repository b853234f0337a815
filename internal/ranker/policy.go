package ranker

import "StockCloseness/internal/calculator"

// DefaultK is the result count used when a policy leaves K unset.
const DefaultK = 3

// OppositeSimilarityThreshold bounds the "most opposite" similarity ranking.
const OppositeSimilarityThreshold = 0.2

// OppositeCorrelationThreshold bounds the "most opposite" correlation ranking.
const OppositeCorrelationThreshold = 0.0

// Metric selects which pairwise statistic a policy ranks on.
type Metric int

const (
	ByCorrelation Metric = iota
	BySimilarity
)

func (m Metric) String() string {
	if m == BySimilarity {
		return "similarity"
	}
	return "correlation"
}

// Order is the sort direction of a ranking.
type Order int

const (
	Descending Order = iota
	Ascending
)

// Bound restricts which scores survive the filter stage.
type Bound int

const (
	// Unbounded keeps every score.
	Unbounded Bound = iota
	// AtLeast keeps scores >= Threshold.
	AtLeast
	// Below keeps scores < Threshold.
	Below
)

// Policy describes one ranking query.
type Policy struct {
	Name      string
	Metric    Metric
	Order     Order
	Bound     Bound
	Threshold float64
	// SkipDegenerate drops candidates whose aligned overlap is too short to score.
	SkipDegenerate bool
	K              int
}

func (p Policy) limit() int {
	if p.K <= 0 {
		return DefaultK
	}
	return p.K
}

// TopCorrelated ranks candidates by Pearson correlation, highest first.
func TopCorrelated(k int) Policy {
	return Policy{
		Name:           "top-correlated",
		Metric:         ByCorrelation,
		Order:          Descending,
		Bound:          Unbounded,
		SkipDegenerate: true,
		K:              k,
	}
}

// TopSimilar ranks candidates by similarity score, keeping those at or above
// calculator.SimilarityThreshold, highest first.
func TopSimilar(k int) Policy {
	return Policy{
		Name:      "top-similar",
		Metric:    BySimilarity,
		Order:     Descending,
		Bound:     AtLeast,
		Threshold: calculator.SimilarityThreshold,
		K:         k,
	}
}

// MostOpposite ranks candidates with a similarity score under
// OppositeSimilarityThreshold, lowest first.
func MostOpposite(k int) Policy {
	return Policy{
		Name:      "most-opposite",
		Metric:    BySimilarity,
		Order:     Ascending,
		Bound:     Below,
		Threshold: OppositeSimilarityThreshold,
		K:         k,
	}
}

// MostOppositeCorrelation ranks negatively correlated candidates, most negative first.
func MostOppositeCorrelation(k int) Policy {
	return Policy{
		Name:           "most-opposite-correlation",
		Metric:         ByCorrelation,
		Order:          Ascending,
		Bound:          Below,
		Threshold:      OppositeCorrelationThreshold,
		SkipDegenerate: true,
		K:              k,
	}
}
