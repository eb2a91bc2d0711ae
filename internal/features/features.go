// Package features derives ratios and loss aggregates from normalized
// submission fields.
package features

import (
	"sort"
	"strings"

	"github.com/resure-ai/resure/internal/model"
)

// Loss trend labels.
const (
	TrendIncreasing   = "Increasing"
	TrendDecreasing   = "Decreasing"
	TrendStable       = "Stable"
	TrendInsufficient = "Insufficient Data"
)

// Size buckets over SumInsured, lower bound inclusive.
var sizeBuckets = []struct {
	min   float64
	label string
}{
	{1e9, "Mega"},
	{2e8, "Very Large"},
	{5e7, "Large"},
	{1e7, "Medium"},
	{1e6, "Small"},
}

// emptyTokens do not count toward completeness.
var emptyTokens = map[string]bool{
	"":          true,
	"0":         true,
	"unknown":   true,
	"other":     true,
	"nan":       true,
	"not found": true,
	"none":      true,
}

// Features is the set of values derived for one record.
type Features struct {
	PremiumRate      float64
	LossFrequency    int
	AvgAnnualLoss    float64
	LossSeverity     float64
	LossTrend        string
	RiskSizeCategory string
	PremiumAdequacy  float64
	DataCompleteness float64
	RetentionRatio   float64

	// History reports how the loss history cell was read.
	History model.Outcome
}

// Derive computes the features of a normalized record. Missing numeric
// inputs read as zero.
func Derive(rec model.Record) Features {
	si := rec.Get(model.FieldSumInsured).FloatOr(0)
	premium := rec.Get(model.FieldPastPremium).FloatOr(0)
	claim := rec.Get(model.FieldClaimRatio).FloatOr(0)
	retention := rec.Get(model.FieldRetention).FloatOr(0)

	history := rec.Get(model.FieldLossHistory)
	events, outcome := model.ParseLossHistory(history)

	f := Features{
		LossFrequency:    model.LossHistoryLen(history),
		AvgAnnualLoss:    AvgAnnualLoss(events),
		LossTrend:        LossTrend(events),
		RiskSizeCategory: SizeCategory(si),
		PremiumAdequacy:  1.0,
		DataCompleteness: Completeness(rec),
		History:          outcome,
	}
	if si > 0 {
		f.PremiumRate = premium / si
		f.LossSeverity = f.AvgAnnualLoss / si
		f.RetentionRatio = retention / si
	}
	if claim > 0 {
		f.PremiumAdequacy = f.PremiumRate / claim
	}
	return f
}

// Apply writes the features into rec.
func (f Features) Apply(rec model.Record) {
	rec[model.FieldPremiumRate] = model.Number(f.PremiumRate)
	rec[model.FieldLossFrequency] = model.Number(float64(f.LossFrequency))
	rec[model.FieldAvgAnnualLoss] = model.Number(f.AvgAnnualLoss)
	rec[model.FieldLossSeverity] = model.Number(f.LossSeverity)
	rec[model.FieldLossTrend] = model.String(f.LossTrend)
	rec[model.FieldRiskSizeCategory] = model.String(f.RiskSizeCategory)
	rec[model.FieldPremiumAdequacy] = model.Number(f.PremiumAdequacy)
	rec[model.FieldDataCompleteness] = model.Number(f.DataCompleteness)
	rec[model.FieldRetentionRatio] = model.Number(f.RetentionRatio)
}

// Columns lists the columns Apply writes, in output order.
var Columns = []string{
	model.FieldPremiumRate, model.FieldLossFrequency, model.FieldAvgAnnualLoss,
	model.FieldLossSeverity, model.FieldLossTrend, model.FieldRiskSizeCategory,
	model.FieldPremiumAdequacy, model.FieldDataCompleteness, model.FieldRetentionRatio,
}

// AvgAnnualLoss divides total loss by the number of distinct loss years.
func AvgAnnualLoss(events []model.LossEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	years := make(map[int]bool)
	total := 0.0
	for _, e := range events {
		total += e.Amount
		years[e.Year] = true
	}
	return total / float64(max(len(years), 1))
}

// LossTrend compares the last year's total loss to the first year's. A rise
// of more than 10% is Increasing, a fall of more than 10% Decreasing.
func LossTrend(events []model.LossEvent) string {
	totals := make(map[int]float64)
	for _, e := range events {
		totals[e.Year] += e.Amount
	}
	if len(totals) < 2 {
		return TrendInsufficient
	}
	years := make([]int, 0, len(totals))
	for y := range totals {
		years = append(years, y)
	}
	sort.Ints(years)

	first, last := totals[years[0]], totals[years[len(years)-1]]
	switch {
	case last > first*1.1:
		return TrendIncreasing
	case last < first*0.9:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// SizeCategory buckets a sum insured.
func SizeCategory(si float64) string {
	for _, b := range sizeBuckets {
		if si >= b.min {
			return b.label
		}
	}
	return "Micro"
}

// Completeness is the share of the designated fields holding a real value.
func Completeness(rec model.Record) float64 {
	filled := 0
	for _, f := range model.CompletenessFields {
		if Populated(rec.Get(f)) {
			filled++
		}
	}
	return float64(filled) / float64(len(model.CompletenessFields))
}

// Populated reports whether a cell holds a value other than an empty token
// or a fill sentinel.
func Populated(v model.Value) bool {
	if v.IsNull() {
		return false
	}
	if v.Kind == model.KindNumber && v.Num == 0 {
		return false
	}
	s := strings.ToLower(strings.TrimSpace(v.Text()))
	return !emptyTokens[s]
}

// ClampUnit clamps LossRatio, ESGScore, and CatastropheExposure to [0,1]
// when present as numbers.
func ClampUnit(rec model.Record) {
	for _, f := range []string{model.FieldLossRatio, model.FieldESGScore, model.FieldCatastropheExposure} {
		v := rec.Get(f)
		if v.Kind != model.KindNumber {
			continue
		}
		rec[f] = model.Number(min(max(v.Num, 0), 1))
	}
}
