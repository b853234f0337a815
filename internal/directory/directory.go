package directory

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"StockCloseness/internal/model"
)

// Directory maps tickers to company metadata.
type Directory struct {
	entries map[string]model.CompanyInfo
}

type file struct {
	Companies []model.CompanyInfo `yaml:"companies"`
}

// New builds a Directory from entries. Later duplicates win.
func New(entries []model.CompanyInfo) *Directory {
	d := &Directory{entries: make(map[string]model.CompanyInfo, len(entries))}
	for _, e := range entries {
		key := normalize(e.Ticker)
		if key == "" {
			continue
		}
		e.Ticker = key
		d.entries[key] = e
	}
	return d
}

// Load reads a YAML company list. An empty path yields an empty Directory.
func Load(path string) (*Directory, error) {
	if path == "" {
		return New(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse directory: %w", err)
	}
	return New(f.Companies), nil
}

// Lookup returns the metadata for ticker, case-insensitively.
func (d *Directory) Lookup(ticker string) (model.CompanyInfo, bool) {
	if d == nil {
		return model.CompanyInfo{}, false
	}
	info, ok := d.entries[normalize(ticker)]
	return info, ok
}

// Len returns the number of known companies.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
