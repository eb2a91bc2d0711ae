package ratetable

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a rate-table override. Sections left out keep
// their built-in values; a present section replaces the built-in one.
type File struct {
	CurrencyRates *Ordered[float64]  `yaml:"currency_rates"`
	Geography     *Ordered[string]   `yaml:"geography"`
	Peril         *Ordered[string]   `yaml:"peril"`
	Business      *Ordered[string]   `yaml:"business"`
	GeographyRisk map[string]float64 `yaml:"geography_risk"`
	PerilRisk     map[string]float64 `yaml:"peril_risk"`
	BusinessRisk  map[string]float64 `yaml:"business_risk"`
}

// LoadFile reads a YAML override file and applies it over the built-in tables.
// An empty path returns the built-in tables.
func LoadFile(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ratetable: read %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML override document and applies it over the built-in tables.
func Parse(data []byte) (*Tables, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "ratetable: parse")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	t := Default()
	if f.CurrencyRates != nil {
		t.Currency = upperKeys(*f.CurrencyRates)
	}
	if f.Geography != nil {
		t.Geography = vocabularyOf(*f.Geography)
	}
	if f.Peril != nil {
		t.Peril = vocabularyOf(*f.Peril)
	}
	if f.Business != nil {
		t.Business = vocabularyOf(*f.Business)
	}
	if f.GeographyRisk != nil {
		t.GeographyRisk = NewRiskTable(f.GeographyRisk, t.GeographyRisk.Default)
	}
	if f.PerilRisk != nil {
		t.PerilRisk = NewRiskTable(f.PerilRisk, t.PerilRisk.Default)
	}
	if f.BusinessRisk != nil {
		t.BusinessRisk = NewRiskTable(f.BusinessRisk, t.BusinessRisk.Default)
	}
	return t, nil
}

// Validate checks an override file for non-positive rates, negative
// multipliers, and blank variants or labels.
func (f *File) Validate() error {
	var errs []string

	if f.CurrencyRates != nil {
		for _, e := range f.CurrencyRates.Entries() {
			if len(strings.TrimSpace(e.Key)) != 3 {
				errs = append(errs, fmt.Sprintf("currency code %q must have 3 letters", e.Key))
			}
			if e.Value <= 0 {
				errs = append(errs, fmt.Sprintf("currency %s rate must be positive, got %g", e.Key, e.Value))
			}
		}
	}

	vocabs := []struct {
		name string
		o    *Ordered[string]
	}{
		{"geography", f.Geography},
		{"peril", f.Peril},
		{"business", f.Business},
	}
	for _, v := range vocabs {
		if v.o == nil {
			continue
		}
		for _, e := range v.o.Entries() {
			if strings.TrimSpace(e.Key) == "" || strings.TrimSpace(e.Value) == "" {
				errs = append(errs, fmt.Sprintf("%s has a blank variant or label (%q: %q)", v.name, e.Key, e.Value))
			}
		}
	}

	risks := []struct {
		name string
		m    map[string]float64
	}{
		{"geography_risk", f.GeographyRisk},
		{"peril_risk", f.PerilRisk},
		{"business_risk", f.BusinessRisk},
	}
	for _, r := range risks {
		for k, v := range r.m {
			if v < 0 {
				errs = append(errs, fmt.Sprintf("%s[%s] must be >= 0, got %g", r.name, k, v))
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("ratetable: invalid tables: %s", strings.Join(errs, "; "))
	}
	return nil
}

func upperKeys(o Ordered[float64]) Ordered[float64] {
	entries := make([]Entry[float64], 0, o.Len())
	for _, e := range o.Entries() {
		entries = append(entries, Entry[float64]{Key: strings.ToUpper(strings.TrimSpace(e.Key)), Value: e.Value})
	}
	return NewOrdered(entries...)
}
