package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"StockCloseness/internal/analysis"
	"StockCloseness/internal/calculator"
	"StockCloseness/internal/model"
	"StockCloseness/internal/notifier"
)

const menuText = `
Select an option:
1. One stock against %[1]d closest stocks (cointegration only)
2. One stock against another stock
3. One stock against %[1]d most opposite stocks (non-cointegrated)
4. One stock against %[1]d most correlated stocks
5. Quit
Choice: `

// menu is the interactive console loop over a loaded universe.
type menu struct {
	svc    *analysis.Service
	lookup notifier.Lookup
	in     *bufio.Scanner
	out    io.Writer
}

func newMenu(svc *analysis.Service, lookup notifier.Lookup, in io.Reader, out io.Writer) *menu {
	return &menu{svc: svc, lookup: lookup, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user quits, input ends or ctx is cancelled.
func (m *menu) Run(ctx context.Context) {
	k := m.svc.TopK
	if k <= 0 {
		k = 3
	}
	for ctx.Err() == nil {
		fmt.Fprintf(m.out, menuText, k)
		choice, ok := m.readLine()
		if !ok {
			break
		}
		switch choice {
		case "1":
			m.ranking(ctx, m.svc.Closest, notifier.FormatClosest)
		case "2":
			m.compare()
		case "3":
			m.ranking(ctx, m.svc.Opposite, notifier.FormatOpposite)
		case "4":
			m.ranking(ctx, m.svc.Correlated, notifier.FormatCorrelated)
		case "5", "q", "Q":
			fmt.Fprintln(m.out, "Goodbye!")
			return
		default:
			fmt.Fprintln(m.out, "Invalid choice. Try again.")
		}
	}
	fmt.Fprintln(m.out, "Goodbye!")
}

type rankFunc func(ctx context.Context, ticker string) (model.Instrument, []model.RankedResult, error)

type formatFunc func(target string, results []model.RankedResult, lookup notifier.Lookup) string

func (m *menu) ranking(ctx context.Context, rank rankFunc, format formatFunc) {
	target, ok := m.promptStock("Enter the ticker of the target stock: ")
	if !ok {
		return
	}
	_, results, err := rank(ctx, target.Ticker)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.TrimRight(format(target.Ticker, results, m.lookup), "\n"))
}

func (m *menu) compare() {
	first, ok := m.promptStock("Enter the ticker of the first stock: ")
	if !ok {
		return
	}
	second, ok := m.promptStock("Enter the ticker of the second stock: ")
	if !ok {
		return
	}
	cmp := analysis.Comparison{First: first, Second: second, Pair: calculator.Compare(first, second)}
	fmt.Fprintln(m.out)
	fmt.Fprint(m.out, notifier.FormatComparison(cmp, m.lookup))
}

// promptStock asks until a loaded ticker is entered. ok is false when input ends.
func (m *menu) promptStock(prompt string) (model.Instrument, bool) {
	for {
		fmt.Fprint(m.out, prompt)
		line, ok := m.readLine()
		if !ok {
			return model.Instrument{}, false
		}
		input := strings.ToUpper(line)
		inst, err := m.svc.Find(input)
		switch {
		case err == nil:
			return inst, true
		case errors.Is(err, analysis.ErrNoData):
			info, _ := m.svc.Info(input)
			fmt.Fprintf(m.out, "'%s' is defined (%s), but no stock data was loaded for it.\n", input, info.Industry)
		default:
			fmt.Fprintf(m.out, "Ticker '%s' not found. Please try again.\n", input)
		}
	}
}

func (m *menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}
