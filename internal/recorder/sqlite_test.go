package recorder

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCloseness/internal/model"
)

func openTest(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), zerolog.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_LastRanking(t *testing.T) {
	r := openTest(t)

	_, ok, err := r.LastRanking("KO", "top-similar")
	require.NoError(t, err)
	assert.False(t, ok)

	base := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)
	first := &RankingSnapshot{At: base, Target: "ko", Policy: "top-similar", Lookback: 30,
		Results: []model.RankedResult{{Ticker: "PEP", Pearson: 0.8, Similarity: 0.9}}}
	second := &RankingSnapshot{At: base.Add(24 * time.Hour), Target: "KO", Policy: "top-similar", Lookback: 30,
		Results: []model.RankedResult{{Ticker: "KDP"}, {Ticker: "PEP"}}}
	require.NoError(t, r.RecordRanking(first))
	require.NoError(t, r.RecordRanking(second))
	assert.NotEmpty(t, first.RunID)
	assert.NotEqual(t, first.RunID, second.RunID)

	tickers, ok, err := r.LastRanking("KO", "top-similar")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"KDP", "PEP"}, tickers)

	_, ok, err = r.LastRanking("KO", "most-opposite")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteRecorder_EmptyResults(t *testing.T) {
	r := openTest(t)
	require.NoError(t, r.RecordRanking(&RankingSnapshot{Target: "KO", Policy: "most-opposite"}))
	tickers, ok, err := r.LastRanking("KO", "most-opposite")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, tickers)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRanking(&RankingSnapshot{}))
	_, ok, err := r.LastRanking("KO", "x")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, r.Close())
}

func TestSnapshotTickers(t *testing.T) {
	s := &RankingSnapshot{Results: []model.RankedResult{{Ticker: "A"}, {Ticker: "B"}}}
	assert.Equal(t, []string{"A", "B"}, s.Tickers())
}
