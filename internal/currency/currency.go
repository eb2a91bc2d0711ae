// Package currency parses free-text monetary values into non-negative USD amounts.
package currency

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/ratetable"
)

// nullTokens read as zero before any parsing.
var nullTokens = map[string]bool{
	"nan":       true,
	"none":      true,
	"":          true,
	"0":         true,
	"not found": true,
}

// nullPhrases anywhere in the value read as zero.
var nullPhrases = []string{"not found", "unknown", "n/a", "nil"}

// dollarCodes disambiguate a bare "$".
var dollarCodes = []string{"CAD", "AUD", "SGD", "HKD"}

// magnitude is one family of unit suffixes. A unit must not touch other
// letters; digits may precede it so "50M" and "2.5BN" both match.
type magnitude struct {
	re   *regexp.Regexp
	mult decimal.Decimal
}

var magnitudes = []magnitude{
	{regexp.MustCompile(`(?i)(?:^|[^A-Z])(BILLIONS|BILLION|BN|B)(?:[^A-Z]|$)`), decimal.New(1, 9)},
	{regexp.MustCompile(`(?i)(?:^|[^A-Z])(MILLIONS|MILLION|MIL|MN|M)(?:[^A-Z]|$)`), decimal.New(1, 6)},
	{regexp.MustCompile(`(?i)(?:^|[^A-Z])(THOUSANDS|THOUSAND|TH|K)(?:[^A-Z]|$)`), decimal.New(1, 3)},
}

var (
	numberRe = regexp.MustCompile(`[\d,]+\.?\d*`)
	symbolRe = `[€$£¥R]`
)

// Normalizer converts monetary text to USD using the configured rates.
type Normalizer struct {
	tables *ratetable.Tables
	strip  *regexp.Regexp
}

// New returns a Normalizer over tables.
func New(tables *ratetable.Tables) *Normalizer {
	alts := []string{symbolRe}
	for _, code := range tables.Codes() {
		alts = append(alts, regexp.QuoteMeta(code))
	}
	return &Normalizer{
		tables: tables,
		strip:  regexp.MustCompile(strings.Join(alts, "|")),
	}
}

// Parse converts a cell to USD. It never fails: null-like, unparsable, or
// unsupported input yields 0 with a Defaulted outcome.
func (n *Normalizer) Parse(v model.Value) (float64, model.Outcome) {
	switch v.Kind {
	case model.KindNull:
		return 0, model.Defaulted(model.ReasonNullInput)
	case model.KindBool:
		return 0, model.Defaulted(model.ReasonUnsupported)
	case model.KindNumber:
		if v.Num < 0 {
			return 0, model.Parsed()
		}
		return v.Num, model.Parsed()
	}
	return n.ParseString(v.Str)
}

// ParseString converts free text such as "$50M USD" or "2.5B KES" to USD.
func (n *Normalizer) ParseString(raw string) (float64, model.Outcome) {
	lower := strings.ToLower(raw)
	if nullTokens[lower] {
		if lower == "0" {
			return 0, model.Parsed()
		}
		return 0, model.Defaulted(model.ReasonNullInput)
	}

	s := strings.ToUpper(strings.TrimSpace(raw))
	lower = strings.ToLower(s)
	for _, p := range nullPhrases {
		if strings.Contains(lower, p) {
			return 0, model.Defaulted(model.ReasonNullInput)
		}
	}

	code := n.DetectCode(s)
	amount, ok := n.amount(s)
	if !ok {
		return 0, model.Defaulted(model.ReasonUnparsable)
	}

	rate, found := n.tables.Rate(code)
	if !found {
		rate = 1.0
	}
	usd, _ := amount.Mul(decimal.NewFromFloat(rate)).Float64()
	if usd < 0 {
		usd = 0
	}
	return usd, model.Parsed()
}

// DetectCode returns the currency of an upper-cased value: the first known
// code found as a substring, else a symbol rule, else USD.
func (n *Normalizer) DetectCode(s string) string {
	for _, code := range n.tables.Codes() {
		if strings.Contains(s, code) {
			return code
		}
	}

	switch {
	case strings.Contains(s, "$"):
		for _, code := range dollarCodes {
			if strings.Contains(s, code) {
				return code
			}
		}
		return "USD"
	case strings.Contains(s, "€") || strings.Contains(s, "EUR"):
		return "EUR"
	case strings.Contains(s, "£") || strings.Contains(s, "GBP"):
		return "GBP"
	case strings.Contains(s, "¥"):
		if strings.Contains(s, "CNY") || strings.Contains(s, "YUAN") {
			return "CNY"
		}
		return "JPY"
	case strings.Contains(s, "R") && (strings.Contains(s, "RAND") || strings.Contains(s, "ZAR")):
		return "ZAR"
	}
	return "USD"
}

// amount strips symbols and codes, applies the first matching magnitude
// family, and reads the first numeric token.
func (n *Normalizer) amount(s string) (decimal.Decimal, bool) {
	clean := strings.TrimSpace(n.strip.ReplaceAllString(s, ""))

	mult := decimal.New(1, 0)
	for _, m := range magnitudes {
		if loc := m.re.FindStringSubmatchIndex(clean); loc != nil {
			mult = m.mult
			clean = clean[:loc[2]] + clean[loc[3]:]
			break
		}
	}

	token := numberRe.FindString(strings.ReplaceAll(clean, " ", ""))
	token = strings.ReplaceAll(token, ",", "")
	if token == "" {
		return decimal.Zero, false
	}
	token = strings.TrimSuffix(token, ".")
	d, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, false
	}
	return d.Mul(mult), true
}
