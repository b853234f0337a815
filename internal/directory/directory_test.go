package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCloseness/internal/model"
)

func TestLookup_CaseInsensitive(t *testing.T) {
	d := New([]model.CompanyInfo{{Ticker: "aapl", Name: "Apple Inc.", Industry: "Technology"}})
	info, ok := d.Lookup(" AAPL ")
	require.True(t, ok)
	assert.Equal(t, "AAPL", info.Ticker)
	assert.Equal(t, "Technology", info.Industry)

	_, ok = d.Lookup("MSFT")
	assert.False(t, ok)
}

func TestLookup_NilDirectory(t *testing.T) {
	var d *Directory
	_, ok := d.Lookup("AAPL")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.yaml")
	body := `companies:
  - ticker: KO
    industry: Beverages
    description: Soft drinks maker (The Coca-Cola Company)
  - ticker: PEP
    industry: Beverages
    description: Snacks and drinks (PepsiCo)
  - ticker: ""
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	info, ok := d.Lookup("ko")
	require.True(t, ok)
	assert.Equal(t, "Beverages", info.Industry)
}

func TestLoad_EmptyPath(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
