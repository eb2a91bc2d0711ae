package ratetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCurrency(t *testing.T) {
	t.Parallel()

	tbl := Default()

	rate, ok := tbl.Rate("KES")
	require.True(t, ok)
	assert.Equal(t, 0.0077, rate)

	_, ok = tbl.Rate("XYZ")
	assert.False(t, ok)

	codes := tbl.Codes()
	require.Len(t, codes, 14)
	assert.Equal(t, "USD", codes[0])
	assert.Equal(t, "CNY", codes[len(codes)-1])
}

func TestDefaultVocabularies(t *testing.T) {
	t.Parallel()

	tbl := Default()

	tests := []struct {
		name    string
		vocab   Vocabulary
		variant string
		want    string
	}{
		{"state", tbl.Geography, "california", "CA"},
		{"country", tbl.Geography, "scotland", "UK"},
		{"peril", tbl.Peril, "typhoon", "Hurricane"},
		{"peril symbol", tbl.Peril, "d&o", "D&O"},
		{"business", tbl.Business, "oil and gas", "Oil & Gas"},
		{"repeated key takes last label", tbl.Business, "pharmaceutical", "Healthcare"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.vocab.Lookup(tt.variant)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepeatedKeyKeepsFirstPosition(t *testing.T) {
	t.Parallel()

	entries := Default().Business.Entries()
	assert.Equal(t, "pharmaceutical", entries[2].Key)
	assert.Equal(t, "Healthcare", entries[2].Value)
}

func TestRiskTableLookup(t *testing.T) {
	t.Parallel()

	tbl := Default()

	assert.Equal(t, 9.5, tbl.GeographyRisk.Lookup("FL"))
	assert.Equal(t, 5.0, tbl.GeographyRisk.Lookup("ZZ"))
	assert.Equal(t, 1.6, tbl.PerilRisk.Lookup("Tsunami"))
	assert.Equal(t, 1.0, tbl.PerilRisk.Lookup("Hail"))
	assert.Equal(t, 0.6, tbl.BusinessRisk.Lookup("Financial Services"))
	assert.False(t, tbl.BusinessRisk.Has(DefaultKey))
	assert.True(t, tbl.Peril.IsLabel("Marine Cargo"))
	assert.False(t, tbl.Peril.IsLabel("marine cargo"))
}

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	doc := `
currency_rates:
  usd: 1
  eur: 1.2
peril:
  Quake: Earthquake
  fire: Fire
peril_risk:
  Earthquake: 2.0
  DEFAULT: 0.5
`
	tbl, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"USD", "EUR"}, tbl.Codes())
	got, ok := tbl.Peril.Lookup("quake")
	require.True(t, ok)
	assert.Equal(t, "Earthquake", got)
	assert.Equal(t, 2, tbl.Peril.Len())
	assert.Equal(t, 0.5, tbl.PerilRisk.Lookup("Fire"))

	// untouched sections keep built-ins
	assert.Equal(t, 9.5, tbl.GeographyRisk.Lookup("FL"))
	assert.Equal(t, Default().Business.Len(), tbl.Business.Len())
}

func TestParseValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"zero rate", "currency_rates:\n  USD: 0\n", "rate must be positive"},
		{"bad code", "currency_rates:\n  DOLLAR: 1\n", "3 letters"},
		{"blank label", "geography:\n  texas: \"\"\n", "blank variant or label"},
		{"negative multiplier", "business_risk:\n  Retail: -1\n", "must be >= 0"},
		{"not a mapping", "peril: [fire]\n", "expected a mapping"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	tbl, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 14, tbl.Currency.Len())

	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("geography_risk:\n  DEFAULT: 4\n"), 0o644))

	tbl, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, tbl.GeographyRisk.Lookup("ZZ"))
	assert.Equal(t, 0, tbl.GeographyRisk.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
