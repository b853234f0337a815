package notifier

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"StockCloseness/internal/analysis"
	"StockCloseness/internal/calculator"
	"StockCloseness/internal/model"
)

// Lookup resolves company metadata for display.
type Lookup interface {
	Lookup(ticker string) (model.CompanyInfo, bool)
}

const snippetLimit = 50

// FormatLine renders one instrument with its scores. similarity < 0 prints as N/A.
func FormatLine(ticker string, lookup Lookup, pearson, similarity float64) string {
	name := "N/A Name"
	industry := "N/A Industry"
	snippet := "N/A Description"

	pearsonText := "N/A"
	if !math.IsNaN(pearson) {
		pearsonText = fmt.Sprintf("%.4f", pearson)
	}
	similarityText := "N/A"
	if similarity >= 0 && !math.IsNaN(similarity) {
		similarityText = fmt.Sprintf("%.1f%%", similarity*100)
	}

	if info, ok := lookupInfo(lookup, ticker); ok {
		industry = info.Industry
		name, snippet = splitDescription(info)
	}

	return fmt.Sprintf("%s (%s) - %s | Pearson: %s | Cointegration: %s | %s",
		ticker, industry, name, pearsonText, similarityText, snippet)
}

// splitDescription takes the company name from the last parenthesised part of the
// description, e.g. "Soft drinks maker (The Coca-Cola Company)".
func splitDescription(info model.CompanyInfo) (name, snippet string) {
	desc := info.Description
	open := strings.LastIndex(desc, "(")
	closing := strings.LastIndex(desc, ")")
	if open != -1 && closing != -1 && closing > open {
		name = strings.TrimSpace(desc[open+1 : closing])
		snippet = strings.TrimRight(strings.TrimSpace(desc[:open]), ",")
		return name, snippet
	}
	name = desc
	if info.Name != "" {
		name = info.Name
	}
	snippet = truncate(desc, snippetLimit)
	return name, snippet
}

// truncate shortens s to at most limit characters, ending in "...", without splitting a rune.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// FormatClosest renders a similarity ranking.
func FormatClosest(target string, results []model.RankedResult, lookup Lookup) string {
	return formatRanking(
		fmt.Sprintf("Top %d stocks most closely cointegrated with %s:", len(results), target),
		"No cointegrated stocks found.", results, lookup)
}

// FormatOpposite renders a "most opposite" ranking.
func FormatOpposite(target string, results []model.RankedResult, lookup Lookup) string {
	return formatRanking(
		fmt.Sprintf("Top %d stocks least likely to be cointegrated with %s:", len(results), target),
		"No non-cointegrated stocks found.", results, lookup)
}

// FormatCorrelated renders a correlation ranking.
func FormatCorrelated(target string, results []model.RankedResult, lookup Lookup) string {
	return formatRanking(
		fmt.Sprintf("Top %d stocks most correlated with %s:", len(results), target),
		"No correlated stocks found.", results, lookup)
}

func formatRanking(title, empty string, results []model.RankedResult, lookup Lookup) string {
	if len(results) == 0 {
		return empty
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, r := range results {
		b.WriteString(FormatLine(r.Ticker, lookup, r.Pearson, r.Similarity))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatComparison renders a head-to-head comparison.
func FormatComparison(cmp analysis.Comparison, lookup Lookup) string {
	var b strings.Builder
	b.WriteString("--- Stock 1 Details ---\n")
	b.WriteString(FormatLine(cmp.First.Ticker, lookup, cmp.Pair.Pearson, cmp.Pair.Similarity))
	b.WriteString("\n\n--- Stock 2 Details ---\n")
	b.WriteString(FormatLine(cmp.Second.Ticker, lookup, cmp.Pair.Pearson, cmp.Pair.Similarity))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Correlation: %s over %d returns\n", calculator.DescribeCorrelation(cmp.Pair.Pearson), cmp.Pair.Overlap))
	b.WriteString("Residual spread: ")
	switch {
	case cmp.Pair.Overlap < calculator.MinOverlap:
		b.WriteString("N/A")
	case cmp.Pair.StationarySpread:
		b.WriteString("stationary")
	default:
		b.WriteString("not stationary")
	}
	b.WriteString("\n")
	return b.String()
}

func lookupInfo(lookup Lookup, ticker string) (model.CompanyInfo, bool) {
	if lookup == nil {
		return model.CompanyInfo{}, false
	}
	return lookup.Lookup(ticker)
}
