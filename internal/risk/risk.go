// Package risk computes per-axis risk multipliers, the weighted composite
// score, and its batch-relative normalization.
package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/ratetable"
)

// Risk category labels.
const (
	CategoryLow      = "Low Risk"
	CategoryMedium   = "Medium Risk"
	CategoryHigh     = "High Risk"
	CategoryVeryHigh = "Very High Risk"
)

// NeutralScore is assigned to every record of a batch with no spread.
const NeutralScore = 5.0

// Weights are the coefficients of the composite score.
type Weights struct {
	Geography    float64
	Business     float64
	Peril        float64
	Severity     float64
	Frequency    float64
	LossRatio    float64
	ESG          float64
	Catastrophe  float64
	SeverityGain float64
}

// DefaultWeights returns the composite score coefficients. The component
// weights sum to 1.
func DefaultWeights() Weights {
	return Weights{
		Geography:    0.20,
		Business:     0.25,
		Peril:        0.20,
		Severity:     0.10,
		Frequency:    0.05,
		LossRatio:    0.10,
		ESG:          0.05,
		Catastrophe:  0.05,
		SeverityGain: 50,
	}
}

// WeightSum returns the sum of the component weights.
func WeightSum(w Weights) float64 {
	return w.Geography + w.Business + w.Peril + w.Severity +
		w.Frequency + w.LossRatio + w.ESG + w.Catastrophe
}

// ValidateWeights checks that weights are non-negative and sum to 1.
func ValidateWeights(w Weights) error {
	var errs []string

	weights := map[string]float64{
		"geography":   w.Geography,
		"business":    w.Business,
		"peril":       w.Peril,
		"severity":    w.Severity,
		"frequency":   w.Frequency,
		"loss_ratio":  w.LossRatio,
		"esg":         w.ESG,
		"catastrophe": w.Catastrophe,
	}
	for name, v := range weights {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", name))
		}
	}
	if sum := WeightSum(w); math.Abs(sum-1) > 1e-9 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.4f", sum))
	}
	if w.SeverityGain <= 0 {
		errs = append(errs, "severity gain must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("risk: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Axes holds the three per-axis multipliers of a record.
type Axes struct {
	Geography float64
	Business  float64
	Peril     float64
}

// Scorer computes axis multipliers and composite scores.
type Scorer struct {
	tables  *ratetable.Tables
	weights Weights
}

// New returns a Scorer over tables with the default weights.
func New(tables *ratetable.Tables) *Scorer {
	return &Scorer{tables: tables, weights: DefaultWeights()}
}

// geoKeyColumns are consulted in order for the geography risk key.
var geoKeyColumns = []string{model.FieldState, model.FieldTerritory, model.FieldCountry}

// GeoKey returns the upper-cased location code used for geography risk.
// The State, Territory and Country columns win in that order. Otherwise the
// comma parts of Geography are scanned and the first one naming a rated
// location is used, so "Miami, Florida, USA" keys on FL. Empty when nothing
// usable is found, which scores as DEFAULT.
func (s *Scorer) GeoKey(rec model.Record) string {
	for _, c := range geoKeyColumns {
		k := code(rec.Get(c))
		if k == "" {
			continue
		}
		if rated := s.ratedKey(k); rated != "" {
			return rated
		}
		return k
	}
	geo := rec.Get(model.FieldGeography)
	if geo.Kind != model.KindString {
		return ""
	}
	for _, part := range strings.Split(geo.Str, ",") {
		if rated := s.ratedKey(code(model.String(part))); rated != "" {
			return rated
		}
	}
	return ""
}

// ratedKey maps an upper-cased code or place name to a geography risk key.
func (s *Scorer) ratedKey(k string) string {
	if k == "" {
		return ""
	}
	if s.tables.GeographyRisk.Has(k) {
		return k
	}
	if label, ok := s.tables.Geography.Lookup(strings.ToLower(k)); ok && s.tables.GeographyRisk.Has(label) {
		return label
	}
	return ""
}

func code(v model.Value) string {
	if v.Kind != model.KindString {
		return ""
	}
	s := strings.ToUpper(strings.TrimSpace(v.Str))
	switch s {
	case "", "UNKNOWN", "UNKNOWN LOCATION", "NAN":
		return ""
	}
	return s
}

// first returns the first non-null cell among columns.
func first(rec model.Record, columns []string) string {
	for _, c := range columns {
		if v := rec.Get(c); !v.IsNull() {
			return v.Text()
		}
	}
	return ""
}

// Axes looks up the geography, business, and peril multipliers of rec.
func (s *Scorer) Axes(rec model.Record) Axes {
	return Axes{
		Geography: s.tables.GeographyRisk.Lookup(s.GeoKey(rec)),
		Business:  s.tables.BusinessRisk.Lookup(first(rec, model.BusinessColumns)),
		Peril:     s.PerilRisk(first(rec, model.PerilColumns)),
	}
}

// PerilRisk returns the multiplier of a peril label. A joined multi-peril
// label scores as its riskiest component.
func (s *Scorer) PerilRisk(label string) float64 {
	if !strings.Contains(label, "&") || s.tables.PerilRisk.Has(label) {
		return s.tables.PerilRisk.Lookup(label)
	}
	best := math.Inf(-1)
	for _, p := range strings.Split(label, "&") {
		best = math.Max(best, s.tables.PerilRisk.Lookup(strings.TrimSpace(p)))
	}
	return best
}

// Combined returns the weighted composite score of rec, rounded to 2 decimals.
func (s *Scorer) Combined(rec model.Record, a Axes) float64 {
	w := s.weights
	severity := rec.Get(model.FieldLossSeverity).FloatOr(0)
	frequency := rec.Get(model.FieldLossFrequency).FloatOr(0)
	lossRatio := rec.Get(model.FieldLossRatio).FloatOr(0)
	esg := rec.Get(model.FieldESGScore).FloatOr(0.5)
	cat := rec.Get(model.FieldCatastropheExposure).FloatOr(0.5)

	score := w.Geography*a.Geography +
		w.Business*a.Business +
		w.Peril*a.Peril +
		w.Severity*(w.SeverityGain*severity) +
		w.Frequency*frequency +
		w.LossRatio*lossRatio +
		w.ESG*(1-esg) +
		w.Catastrophe*cat
	return round2(score)
}

// Score writes the axis multipliers and composite score into rec and returns
// the composite.
func (s *Scorer) Score(rec model.Record) float64 {
	a := s.Axes(rec)
	combined := s.Combined(rec, a)
	rec[model.FieldGeographicRiskScore] = model.Number(a.Geography)
	rec[model.FieldBusinessTypeRiskScore] = model.Number(a.Business)
	rec[model.FieldPerilRiskScore] = model.Number(a.Peril)
	rec[model.FieldCombinedRiskScore] = model.Number(combined)
	return combined
}

// Normalize rescales composite scores to [0,10] across the batch. A batch
// whose scores have no spread, or whose maximum is not positive, scores
// NeutralScore throughout. Results depend on the batch they are computed in.
func Normalize(combined []float64) []float64 {
	out := make([]float64, len(combined))
	if len(combined) == 0 {
		return out
	}
	lo, hi := combined[0], combined[0]
	for _, c := range combined[1:] {
		lo, hi = math.Min(lo, c), math.Max(hi, c)
	}
	if hi <= 0 || hi == lo {
		for i := range out {
			out[i] = NeutralScore
		}
		return out
	}
	for i, c := range combined {
		out[i] = min(max(round2((c-lo)/(hi-lo)*10), 0), 10)
	}
	return out
}

// Category buckets a normalized score: [0,3] Low, (3,6] Medium, (6,8] High,
// (8,10] Very High.
func Category(score float64) string {
	switch {
	case score <= 3:
		return CategoryLow
	case score <= 6:
		return CategoryMedium
	case score <= 8:
		return CategoryHigh
	default:
		return CategoryVeryHigh
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
