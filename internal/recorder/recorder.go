package recorder

import (
	"time"

	"StockCloseness/internal/model"
)

// RankingSnapshot holds one ranking query and its ordered results.
type RankingSnapshot struct {
	RunID    string
	At       time.Time
	Target   string
	Policy   string
	Lookback int
	Results  []model.RankedResult
}

// Tickers returns the ranked tickers in order.
func (s *RankingSnapshot) Tickers() []string {
	out := make([]string, len(s.Results))
	for i, r := range s.Results {
		out[i] = r.Ticker
	}
	return out
}

// Recorder persists ranking history for later analysis.
type Recorder interface {
	RecordRanking(snap *RankingSnapshot) error
	// LastRanking returns the tickers of the most recent ranking for target under policy.
	LastRanking(target, policy string) ([]string, bool, error)
	Close() error
}
