package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockCloseness/internal/model"
)

// ErrEmptySeries is returned when a source yields no usable observations.
var ErrEmptySeries = errors.New("no usable price rows")

const (
	csvDateColumn  = 1
	csvCloseColumn = 5
	csvMinColumns  = 6
)

var csvDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"2006/01/02",
}

// CSVLoader reads one <TICKER>.csv per instrument from a folder.
// Each file has a header row; column 1 holds the date and column 5 the close.
type CSVLoader struct {
	Folder string
}

// NewCSVLoader creates a loader over folder.
func NewCSVLoader(folder string) *CSVLoader {
	return &CSVLoader{Folder: folder}
}

func (l *CSVLoader) Name() string { return "csv" }

// Tickers lists the tickers that have a CSV file, sorted.
func (l *CSVLoader) Tickers() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(l.Folder, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list csv files: %w", err)
	}
	tickers := make([]string, 0, len(files))
	for _, f := range files {
		tickers = append(tickers, strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)))
	}
	return tickers, nil
}

func (l *CSVLoader) FetchDailyCloses(_ context.Context, ticker string, days int) (model.PriceSeries, error) {
	return LoadCSV(filepath.Join(l.Folder, ticker+".csv"), days)
}

// LoadCSV parses a single price file. Malformed rows are skipped rather than failing the load.
func LoadCSV(path string, days int) (model.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	series := model.PriceSeries{Ticker: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return model.PriceSeries{}, fmt.Errorf("read csv header: %w", err)
		}
		return model.PriceSeries{}, ErrEmptySeries
	}
	for scanner.Scan() {
		if p, ok := parseCSVRow(scanner.Text()); ok {
			series.Points = append(series.Points, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return model.PriceSeries{}, fmt.Errorf("read csv: %w", err)
	}
	if len(series.Points) == 0 {
		return model.PriceSeries{}, ErrEmptySeries
	}

	// Exports are usually newest first.
	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})
	return series.Tail(days), nil
}

func parseCSVRow(line string) (model.PricePoint, bool) {
	if strings.TrimSpace(line) == "" {
		return model.PricePoint{}, false
	}
	parts := strings.Split(line, ",")
	if len(parts) < csvMinColumns {
		return model.PricePoint{}, false
	}
	date, ok := parseDate(strings.TrimSpace(parts[csvDateColumn]))
	if !ok {
		return model.PricePoint{}, false
	}
	price, err := parsePrice(parts[csvCloseColumn])
	if err != nil {
		return model.PricePoint{}, false
	}
	return model.PricePoint{Date: date, Close: price}, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.Trim(s, `"`)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	s = strings.TrimPrefix(s, "$")
	return decimal.NewFromString(s)
}
