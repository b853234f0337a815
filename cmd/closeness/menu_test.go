package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockCloseness/internal/analysis"
	"StockCloseness/internal/calculator"
	"StockCloseness/internal/collector"
	"StockCloseness/internal/directory"
	"StockCloseness/internal/model"
)

func menuService() (*analysis.Service, *directory.Directory) {
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	series := []model.PriceSeries{
		collector.MockSeries("A", end, 10, 11, 12, 13, 14, 15),
		collector.MockSeries("B", end, 20, 22, 24, 26, 28, 30),
		collector.MockSeries("C", end, 10, 80, 5, 90, 3, 70),
	}
	instruments := make([]model.Instrument, len(series))
	for i, s := range series {
		instruments[i] = calculator.NewInstrument(s, calculator.LogReturns)
	}
	dir := directory.New([]model.CompanyInfo{
		{Ticker: "B", Industry: "Tech", Description: "Makes widgets (Bee Corp)"},
		{Ticker: "MSFT", Industry: "Software"},
	})
	return analysis.NewService(instruments, dir, 3, 1), dir
}

func runMenu(input string) string {
	svc, dir := menuService()
	var out bytes.Buffer
	newMenu(svc, dir, strings.NewReader(input), &out).Run(context.Background())
	return out.String()
}

func TestMenu_Closest(t *testing.T) {
	out := runMenu("1\na\n5\n")
	assert.Contains(t, out, "most closely cointegrated with A")
	assert.Contains(t, out, "B (Tech) - Bee Corp")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Goodbye!"))
}

func TestMenu_Compare(t *testing.T) {
	out := runMenu("2\nA\nB\n")
	assert.Contains(t, out, "--- Stock 1 Details ---")
	assert.Contains(t, out, "--- Stock 2 Details ---")
	assert.Contains(t, out, "Goodbye!")
}

func TestMenu_RepromptsUntilLoaded(t *testing.T) {
	out := runMenu("3\nZZZ\nmsft\nA\n5\n")
	assert.Contains(t, out, "Ticker 'ZZZ' not found. Please try again.")
	assert.Contains(t, out, "'MSFT' is defined (Software), but no stock data was loaded for it.")
	assert.Contains(t, out, "least likely to be cointegrated with A")
}

func TestMenu_InvalidChoice(t *testing.T) {
	out := runMenu("9\n")
	assert.Contains(t, out, "Invalid choice. Try again.")
	assert.Contains(t, out, "Goodbye!")
}

func TestMenu_StopsOnCancelledContext(t *testing.T) {
	svc, dir := menuService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	newMenu(svc, dir, strings.NewReader("1\nA\n"), &out).Run(ctx)
	assert.Equal(t, "Goodbye!\n", out.String())
}
