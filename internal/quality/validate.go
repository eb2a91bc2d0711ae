// Package quality flags anomalies, duplicates, and incomplete records, and
// summarizes a scored batch.
package quality

import (
	"strings"

	"github.com/resure-ai/resure/internal/model"
)

// Flag tokens.
const (
	FlagNoSumInsured     = "NO_SUM_INSURED"
	FlagNoPeril          = "NO_PERIL"
	FlagNoGeography      = "NO_GEOGRAPHY"
	FlagHighRisk         = "HIGH_RISK"
	FlagHighPremiumRate  = "HIGH_PREMIUM_RATE"
	FlagLowPremiumRate   = "LOW_PREMIUM_RATE"
	FlagLowCompleteness  = "LOW_COMPLETENESS"
	FlagDuplicate        = "DUPLICATE"
	FlagUnusualSize      = "UNUSUAL_SIZE_FOR_BUSINESS"
	Clean                = "CLEAN"
	flagSeparator        = "|"
	summarySeparator     = " | "
	minDuplicateKeyCount = 3
)

// clampColumns may not hold negative amounts.
var clampColumns = []string{model.FieldSumInsured, model.FieldPastPremium, model.FieldRetention, model.FieldAvgAnnualLoss}

// largeRiskBusinesses may carry a sum insured above 500M without a flag.
var largeRiskBusinesses = map[string]bool{"Energy": true, "Oil & Gas": true, "Chemical": true}

var unresolvedPeril = map[string]bool{"unknown": true, "nan": true, "": true}

var unresolvedGeography = map[string]bool{"unknown": true, "unknown location": true, "nan": true, "": true}

// Results counts what validation found across a batch.
type Results struct {
	NegativeValuesFixed   int `json:"negative_values_fixed"`
	ExtremeRatiosFlagged  int `json:"extreme_ratios_flagged"`
	DuplicatesFound       int `json:"duplicates_found"`
	LowQualityRecords     int `json:"low_quality_records"`
	DataAnomalies         int `json:"data_anomalies"`
	HighSILowPremium      int `json:"high_si_low_premium"`
	ZeroSIPositivePremium int `json:"zero_si_positive_premium"`
}

// ClampNegatives zeroes negative monetary cells of rec and returns how many
// it changed.
func ClampNegatives(rec model.Record) int {
	n := 0
	for _, c := range clampColumns {
		v := rec.Get(c)
		if v.Kind == model.KindNumber && v.Num < 0 {
			rec[c] = model.Number(0)
			n++
		}
	}
	return n
}

// MarkDuplicates sets IsDuplicate on every row. When the table carries at
// least three of the duplicate key columns, rows repeating an earlier key are
// marked true; the first occurrence stays false. It returns the number of
// duplicates.
func MarkDuplicates(t *model.Table) int {
	var keyCols []string
	for _, c := range model.DuplicateKeyFields {
		if t.Has(c) {
			keyCols = append(keyCols, c)
		}
	}

	for i := range t.Rows {
		t.Set(i, model.FieldIsDuplicate, model.Bool(false))
	}
	if len(keyCols) < minDuplicateKeyCount {
		return 0
	}

	first := make(map[string]int, len(t.Rows))
	dups := 0
	for i, r := range t.Rows {
		k := duplicateKey(r, keyCols)
		if _, seen := first[k]; seen {
			r[model.FieldIsDuplicate] = model.Bool(true)
			dups++
			continue
		}
		first[k] = i
	}
	return dups
}

func duplicateKey(r model.Record, cols []string) string {
	var b strings.Builder
	for _, c := range cols {
		v := r.Get(c)
		b.WriteString(v.Kind.String())
		b.WriteByte(':')
		b.WriteString(v.Text())
		b.WriteByte(0x1f)
	}
	return b.String()
}

// firstText returns the lower-cased text of the first present column, empty
// when none is present.
func firstText(rec model.Record, columns []string) string {
	for _, c := range columns {
		if rec.Has(c) {
			return strings.ToLower(strings.TrimSpace(rec.Get(c).Text()))
		}
	}
	return ""
}

func firstLabel(rec model.Record, columns []string) string {
	for _, c := range columns {
		if rec.Has(c) {
			return rec.Get(c).Text()
		}
	}
	return ""
}

// Flags returns the quality flags of a scored record.
func Flags(rec model.Record) []string {
	var flags []string

	si := rec.Get(model.FieldSumInsured).FloatOr(0)
	rate := rec.Get(model.FieldPremiumRate).FloatOr(0)

	if si == 0 {
		flags = append(flags, FlagNoSumInsured)
	}
	if unresolvedPeril[firstText(rec, model.PerilColumns)] {
		flags = append(flags, FlagNoPeril)
	}
	if unresolvedGeography[firstText(rec, model.GeographyColumns)] {
		flags = append(flags, FlagNoGeography)
	}
	if rec.Get(model.FieldNormalizedRiskScore).FloatOr(0) > 8 {
		flags = append(flags, FlagHighRisk)
	}
	if rate > 0.2 {
		flags = append(flags, FlagHighPremiumRate)
	}
	if rate < 0.001 && si > 0 {
		flags = append(flags, FlagLowPremiumRate)
	}
	if rec.Get(model.FieldDataCompleteness).FloatOr(0) < 0.5 {
		flags = append(flags, FlagLowCompleteness)
	}
	if d := rec.Get(model.FieldIsDuplicate); d.Kind == model.KindBool && d.Bool {
		flags = append(flags, FlagDuplicate)
	}
	if si > 5e8 && !largeRiskBusinesses[firstLabel(rec, model.BusinessColumns)] {
		flags = append(flags, FlagUnusualSize)
	}
	return flags
}

// FlagString joins flags with "|", or returns CLEAN when there are none.
func FlagString(flags []string) string {
	if len(flags) == 0 {
		return Clean
	}
	return strings.Join(flags, flagSeparator)
}

// Summary describes a record by completeness tier, risk tier, and whether
// financial data is present.
func Summary(rec model.Record) string {
	parts := make([]string, 0, 3)

	switch c := rec.Get(model.FieldDataCompleteness).FloatOr(0); {
	case c >= 0.8:
		parts = append(parts, "High Quality Data")
	case c >= 0.5:
		parts = append(parts, "Moderate Quality Data")
	default:
		parts = append(parts, "Low Quality Data")
	}

	switch r := rec.Get(model.FieldNormalizedRiskScore).FloatOr(5); {
	case r >= 8:
		parts = append(parts, "Very High Risk")
	case r >= 6:
		parts = append(parts, "High Risk")
	case r >= 4:
		parts = append(parts, "Medium Risk")
	default:
		parts = append(parts, "Low Risk")
	}

	if rec.Get(model.FieldSumInsured).FloatOr(0) > 0 && rec.Get(model.FieldPastPremium).FloatOr(0) > 0 {
		parts = append(parts, "Financial Data Available")
	} else {
		parts = append(parts, "Limited Financial Data")
	}
	return strings.Join(parts, summarySeparator)
}

// Annotate writes QualityFlags and ValidationSummary into rec.
func Annotate(rec model.Record) {
	rec[model.FieldQualityFlags] = model.String(FlagString(Flags(rec)))
	rec[model.FieldValidationSummary] = model.String(Summary(rec))
}

// Tally counts premium-rate extremes, low-completeness records, and
// financial anomalies over a scored table.
func Tally(t *model.Table) Results {
	var res Results
	for _, r := range t.Rows {
		si := r.Get(model.FieldSumInsured).FloatOr(0)
		pp := r.Get(model.FieldPastPremium).FloatOr(0)
		rate := r.Get(model.FieldPremiumRate).FloatOr(0)

		if rate > 0.5 || rate < 0 {
			res.ExtremeRatiosFlagged++
		}
		if r.Get(model.FieldDataCompleteness).FloatOr(0) < 0.5 {
			res.LowQualityRecords++
		}
		if si > 1e8 && pp < 1e4 {
			res.HighSILowPremium++
		}
		if si == 0 && pp > 0 {
			res.ZeroSIPositivePremium++
		}
	}
	res.DataAnomalies = res.HighSILowPremium + res.ZeroSIPositivePremium
	return res
}
