package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Symbol,Date,Open,High,Low,Close,Volume
AAPL,2024-03-05,170,172,169,171.50,1000
AAPL,2024-03-04,169,171,168,170.25,1000

AAPL,not-a-date,1,1,1,1,1
AAPL,2024-03-03,1,1,1
AAPL,2024-03-02,168,169,167,n/a,1000
AAPL,03/01/2024,167,169,166,"$168.00",1000
`

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCSV_SkipsBadRowsAndOrdersOldestFirst(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "AAPL.csv", sampleCSV)
	s, err := LoadCSV(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", s.Ticker)
	require.Equal(t, 3, s.Len())
	assert.True(t, s.Points[0].Close.Equal(decimal.RequireFromString("168")))
	assert.True(t, s.Points[2].Close.Equal(decimal.RequireFromString("171.5")))
	assert.True(t, s.Points[0].Date.Before(s.Points[1].Date))
}

func TestLoadCSV_Lookback(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "AAPL.csv", sampleCSV)
	s, err := LoadCSV(path, 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.True(t, s.Points[0].Close.Equal(decimal.RequireFromString("170.25")))
}

func TestLoadCSV_Empty(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadCSV(writeCSV(t, dir, "E.csv", ""), 30)
	assert.True(t, errors.Is(err, ErrEmptySeries))
	_, err = LoadCSV(writeCSV(t, dir, "H.csv", "Symbol,Date,Open,High,Low,Close\n"), 30)
	assert.True(t, errors.Is(err, ErrEmptySeries))
}

func TestLoadCSV_Missing(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), 30)
	assert.Error(t, err)
}

func TestCSVLoader_Tickers(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "MSFT.csv", sampleCSV)
	writeCSV(t, dir, "AAPL.csv", sampleCSV)
	writeCSV(t, dir, "notes.txt", "x")
	l := NewCSVLoader(dir)
	tickers, err := l.Tickers()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)

	s, err := l.FetchDailyCloses(context.Background(), "MSFT", 30)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", s.Ticker)
}
