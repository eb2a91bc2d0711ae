// Package impute fills missing submission values with field sentinels and
// column medians.
package impute

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/resure-ai/resure/internal/model"
)

// Fill is the sentinel written into a null cell of Field.
type Fill struct {
	Field string
	Value model.Value
}

// Sentinel fills.
const (
	UnknownCedant   = "Unknown Cedant"
	UnknownInsured  = "Unknown Insured"
	UnknownBroker   = "Unknown Broker"
	UnknownLocation = "Unknown Location"
	EmptyHistory    = "[]"
)

// Defaults lists the per-field sentinels in application order.
var Defaults = []Fill{
	{model.FieldCedant, model.String(UnknownCedant)},
	{model.FieldInsured, model.String(UnknownInsured)},
	{model.FieldBroker, model.String(UnknownBroker)},
	{model.FieldGeography, model.String(UnknownLocation)},
	{model.FieldState, model.String("Unknown")},
	{model.FieldCountry, model.String("Unknown")},
	{model.FieldLocation, model.String("Unknown")},
	{model.FieldTerritory, model.String("Unknown")},
	{model.FieldPeril, model.String("Unknown")},
	{model.FieldBusinessType, model.String("Other")},
	{model.FieldOccupation, model.String("Other")},
	{model.FieldIndustry, model.String("Other")},
	{model.FieldSector, model.String("Other")},
	{model.FieldSumInsured, model.Number(0)},
	{model.FieldPastPremium, model.Number(0)},
	{model.FieldRetention, model.Number(0)},
	{model.FieldDeductible, model.Number(0)},
	{model.FieldLimit, model.Number(0)},
	{model.FieldCurrency, model.String("USD")},
	{model.FieldClaimRatio, model.Number(0)},
	{model.FieldLossRatio, model.Number(0)},
	{model.FieldLossHistory, model.String(EmptyHistory)},
}

// FillRow writes the sentinel into every null cell of a column the table
// carries. It returns the fields it filled.
func FillRow(rec model.Record, has func(column string) bool) []string {
	var filled []string
	for _, f := range Defaults {
		if !has(f.Field) || !rec.Get(f.Field).IsNull() {
			continue
		}
		rec[f.Field] = f.Value
		filled = append(filled, f.Field)
	}
	return filled
}

// NumericColumns returns the columns whose non-null cells are all numbers and
// that hold at least one number.
func NumericColumns(t *model.Table) []string {
	var out []string
	for _, c := range t.Columns {
		numeric, seen := true, false
		for _, r := range t.Rows {
			v := r.Get(c)
			switch v.Kind {
			case model.KindNull:
			case model.KindNumber:
				seen = true
			default:
				numeric = false
			}
			if !numeric {
				break
			}
		}
		if numeric && seen {
			out = append(out, c)
		}
	}
	return out
}

// Median returns the median of vals, false when vals is empty.
func Median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid], true
	}
	return (s[mid-1] + s[mid]) / 2, true
}

// ImputeMedians fills the null cells of every numeric column with the median
// of its present values. A column with no present values is left alone. It
// returns the number of cells filled per column.
func ImputeMedians(t *model.Table) map[string]int {
	counts := make(map[string]int)
	for _, c := range NumericColumns(t) {
		var present []float64
		var missing []int
		for i, r := range t.Rows {
			v := r.Get(c)
			if v.IsNull() {
				missing = append(missing, i)
				continue
			}
			present = append(present, v.Num)
		}
		if len(missing) == 0 {
			continue
		}
		m, ok := Median(present)
		if !ok {
			continue
		}
		for _, i := range missing {
			t.Rows[i][c] = model.Number(m)
		}
		counts[c] = len(missing)
	}
	return counts
}

var ratioRe = regexp.MustCompile(`^([-+]?\d*\.?\d+)\s*(%?)$`)

// CoerceRatio converts a ratio cell given as text into a number. "45%" reads
// as 0.45; text with no number becomes null so imputation can fill it.
func CoerceRatio(v model.Value) (model.Value, model.Outcome) {
	switch v.Kind {
	case model.KindNull:
		return v, model.Defaulted(model.ReasonNullInput)
	case model.KindNumber:
		return v, model.Parsed()
	case model.KindBool:
		return model.Null(), model.Defaulted(model.ReasonUnsupported)
	}

	s := strings.ReplaceAll(strings.TrimSpace(v.Str), ",", "")
	m := ratioRe.FindStringSubmatch(s)
	if m == nil {
		return model.Null(), model.Defaulted(model.ReasonUnparsable)
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return model.Null(), model.Defaulted(model.ReasonUnparsable)
	}
	if m[2] == "%" {
		f /= 100
	}
	return model.Number(f), model.Parsed()
}
