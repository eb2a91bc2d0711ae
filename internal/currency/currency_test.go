package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/ratetable"
)

func TestParseString(t *testing.T) {
	t.Parallel()

	n := New(ratetable.Default())

	tests := []struct {
		name      string
		raw       string
		want      float64
		defaulted bool
	}{
		{"dollar millions with code", "$50M USD", 50_000_000, false},
		{"billions in shillings", "2.5B KES", 19_250_000, false},
		{"not found", "Not Found", 0, true},
		{"unknown phrase", "amount unknown", 0, true},
		{"literal zero", "0", 0, false},
		{"empty", "", 0, true},
		{"plain number", "1500000", 1_500_000, false},
		{"comma grouped", "USD 1,250,000.50", 1_250_000.50, false},
		{"euro symbol", "€2M", 2_347_800, false},
		{"pound word million", "£3 million", 3_973_500, false},
		{"canadian dollar", "CAD$100K", 74_250, false},
		{"thousand word", "750 thousand", 750_000, false},
		{"bn suffix", "1.2bn", 1_200_000_000, false},
		{"mil suffix", "4 MIL", 4_000_000, false},
		{"yen", "¥1,000,000", 6_870, false},
		{"yuan", "¥100 YUAN", 14.05, false},
		{"rand", "R 1M RAND", 55_400, false},
		{"no digits", "lots of money", 0, true},
		{"only one family applies", "2 B M", 2_000_000_000, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, out := n.ParseString(tt.raw)
			assert.InDelta(t, tt.want, got, 0.01)
			assert.Equal(t, tt.defaulted, out.Defaulted)
		})
	}
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	n := New(ratetable.Default())

	got, out := n.Parse(model.Number(2e6))
	assert.Equal(t, 2e6, got)
	assert.False(t, out.Defaulted)

	got, _ = n.Parse(model.Number(-10))
	assert.Equal(t, 0.0, got)

	got, out = n.Parse(model.Null())
	assert.Equal(t, 0.0, got)
	assert.Equal(t, model.ReasonNullInput, out.Reason)

	_, out = n.Parse(model.Bool(true))
	assert.Equal(t, model.ReasonUnsupported, out.Reason)

	got, _ = n.Parse(model.String("$5M"))
	assert.Equal(t, 5e6, got)
}

func TestDetectCode(t *testing.T) {
	t.Parallel()

	n := New(ratetable.Default())

	tests := []struct {
		in   string
		want string
	}{
		{"$100", "USD"},
		{"100 AUD", "AUD"},
		{"€100", "EUR"},
		{"£100", "GBP"},
		{"¥100", "JPY"},
		{"¥100 CNY", "CNY"},
		{"100 RAND", "ZAR"},
		{"100", "USD"},
		{"100 CHF", "CHF"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, n.DetectCode(tt.in))
		})
	}
}

func TestParseNeverNegative(t *testing.T) {
	t.Parallel()

	n := New(ratetable.Default())
	for _, raw := range []string{"-500", "$-2M", "(1,000)", "-", "...", "1e9"} {
		got, _ := n.ParseString(raw)
		assert.GreaterOrEqual(t, got, 0.0, raw)
	}
}
