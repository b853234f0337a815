package ranker

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"StockCloseness/internal/calculator"
	"StockCloseness/internal/model"
)

type scored struct {
	result  model.RankedResult
	value   float64
	overlap int
}

// Rank scores every pool member against target under p and returns the ordered top K.
// The target itself is never part of the result. An empty result is valid.
func Rank(target model.Instrument, pool []model.Instrument, p Policy) []model.RankedResult {
	candidates := score(target, pool, p.Metric)
	return finish(candidates, p)
}

// RankParallel is Rank with pairwise scoring spread across workers.
// Output is identical to Rank for the same inputs.
func RankParallel(ctx context.Context, target model.Instrument, pool []model.Instrument, p Policy, workers int) ([]model.RankedResult, error) {
	slots := make([]*scored, len(pool))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range pool {
		if isSelf(target, pool[i]) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s := scorePair(target, pool[i], p.Metric)
			slots[i] = &s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]scored, 0, len(pool))
	for _, s := range slots {
		if s != nil {
			candidates = append(candidates, *s)
		}
	}
	return finish(candidates, p), nil
}

func finish(candidates []scored, p Policy) []model.RankedResult {
	candidates = filter(candidates, p)
	sortStable(candidates, p.Order)
	candidates = take(candidates, p.limit())

	out := make([]model.RankedResult, len(candidates))
	for i, c := range candidates {
		out[i] = c.result
	}
	return out
}

// score computes the pairwise statistics for every candidate except the target, in pool order.
func score(target model.Instrument, pool []model.Instrument, metric Metric) []scored {
	out := make([]scored, 0, len(pool))
	for _, c := range pool {
		if isSelf(target, c) {
			continue
		}
		out = append(out, scorePair(target, c, metric))
	}
	return out
}

func scorePair(target, candidate model.Instrument, metric Metric) scored {
	pair := calculator.Compare(target, candidate)
	s := scored{
		result: model.RankedResult{
			Ticker:     candidate.Ticker,
			Pearson:    pair.Pearson,
			Similarity: pair.Similarity,
		},
		value:   pair.Pearson,
		overlap: pair.Overlap,
	}
	if metric == BySimilarity {
		s.value = pair.Similarity
	}
	return s
}

// filter drops NaN scores, degenerate pairs when the policy asks, and scores outside the bound.
func filter(candidates []scored, p Policy) []scored {
	out := candidates[:0:0]
	for _, c := range candidates {
		if math.IsNaN(c.value) {
			continue
		}
		if p.SkipDegenerate && c.overlap < calculator.MinOverlap {
			continue
		}
		switch p.Bound {
		case AtLeast:
			if c.value < p.Threshold {
				continue
			}
		case Below:
			if c.value >= p.Threshold {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// sortStable orders by score; equal scores keep their pool order.
func sortStable(candidates []scored, order Order) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if order == Ascending {
			return candidates[i].value < candidates[j].value
		}
		return candidates[i].value > candidates[j].value
	})
}

func take(candidates []scored, k int) []scored {
	if len(candidates) > k {
		return candidates[:k]
	}
	return candidates
}

func isSelf(target, candidate model.Instrument) bool {
	return strings.EqualFold(target.Ticker, candidate.Ticker)
}
