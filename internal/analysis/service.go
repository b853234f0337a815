package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"StockCloseness/internal/calculator"
	"StockCloseness/internal/model"
	"StockCloseness/internal/ranker"
)

var (
	// ErrUnknownTicker means the ticker has neither prices nor metadata.
	ErrUnknownTicker = errors.New("ticker not found")
	// ErrNoData means the ticker is known to the directory but no prices were loaded.
	ErrNoData = errors.New("no stock data loaded")
)

// Lookup resolves company metadata.
type Lookup interface {
	Lookup(ticker string) (model.CompanyInfo, bool)
}

// Comparison is the head-to-head result of two instruments.
type Comparison struct {
	First  model.Instrument
	Second model.Instrument
	Pair   calculator.Pair
}

// Service answers ranking queries over a loaded universe.
type Service struct {
	Instruments []model.Instrument
	Directory   Lookup
	TopK        int
	Workers     int
}

// NewService creates a Service. directory may be nil.
func NewService(instruments []model.Instrument, directory Lookup, topK, workers int) *Service {
	return &Service{Instruments: instruments, Directory: directory, TopK: topK, Workers: workers}
}

// Find returns the loaded instrument for ticker, case-insensitively.
func (s *Service) Find(ticker string) (model.Instrument, error) {
	ticker = strings.TrimSpace(ticker)
	for _, inst := range s.Instruments {
		if strings.EqualFold(inst.Ticker, ticker) {
			return inst, nil
		}
	}
	if info, ok := s.Info(ticker); ok {
		return model.Instrument{}, fmt.Errorf("%q is defined (%s): %w", strings.ToUpper(ticker), info.Industry, ErrNoData)
	}
	return model.Instrument{}, fmt.Errorf("%q: %w", strings.ToUpper(ticker), ErrUnknownTicker)
}

// Info looks up metadata; ok is false without a directory.
func (s *Service) Info(ticker string) (model.CompanyInfo, bool) {
	if s.Directory == nil {
		return model.CompanyInfo{}, false
	}
	return s.Directory.Lookup(ticker)
}

// Closest ranks the instruments most similar to ticker.
func (s *Service) Closest(ctx context.Context, ticker string) (model.Instrument, []model.RankedResult, error) {
	return s.rank(ctx, ticker, ranker.TopSimilar(s.TopK))
}

// Opposite ranks the instruments least similar to ticker.
func (s *Service) Opposite(ctx context.Context, ticker string) (model.Instrument, []model.RankedResult, error) {
	return s.rank(ctx, ticker, ranker.MostOpposite(s.TopK))
}

// Correlated ranks the instruments with the highest return correlation to ticker.
func (s *Service) Correlated(ctx context.Context, ticker string) (model.Instrument, []model.RankedResult, error) {
	return s.rank(ctx, ticker, ranker.TopCorrelated(s.TopK))
}

// Compare scores two instruments against each other.
func (s *Service) Compare(first, second string) (Comparison, error) {
	a, err := s.Find(first)
	if err != nil {
		return Comparison{}, err
	}
	b, err := s.Find(second)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{First: a, Second: b, Pair: calculator.Compare(a, b)}, nil
}

func (s *Service) rank(ctx context.Context, ticker string, p ranker.Policy) (model.Instrument, []model.RankedResult, error) {
	target, err := s.Find(ticker)
	if err != nil {
		return model.Instrument{}, nil, err
	}
	if s.Workers > 1 {
		results, err := ranker.RankParallel(ctx, target, s.Instruments, p, s.Workers)
		if err != nil {
			return model.Instrument{}, nil, fmt.Errorf("rank %s: %w", p.Name, err)
		}
		return target, results, nil
	}
	return target, ranker.Rank(target, s.Instruments, p), nil
}
