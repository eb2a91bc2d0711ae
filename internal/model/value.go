// Package model defines the submission table, cell values, and the typed views
// the engine hands to downstream collaborators.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value is a single table cell. The zero value is null.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// Null returns a null cell.
func Null() Value { return Value{} }

// String returns a string cell.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric cell. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{Kind: KindNumber, Num: f}
}

// Bool returns a boolean cell.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsNull reports whether the cell holds no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Text renders the cell the way it reads in a spreadsheet. Null renders as
// "nan" so null-like token checks treat it like any other missing marker.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	default:
		return "nan"
	}
}

// Float returns the numeric content of the cell. Strings are parsed after
// trimming; anything else reports false.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FloatOr returns the numeric content of the cell or def.
func (v Value) FloatOr(def float64) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	return def
}

// Any converts the cell to a plain Go value for JSON encoding.
func (v Value) Any() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}

// MarshalJSON encodes the cell as its plain JSON value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes a plain JSON scalar into the cell.
func (v *Value) UnmarshalJSON(data []byte) error {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	*v = FromAny(x)
	return nil
}

// FromAny converts a decoded JSON or spreadsheet value into a cell.
// Arrays and objects become their JSON text; other unsupported types are
// rendered through their string form.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case bool:
		return Bool(t)
	case []any, map[string]any:
		// Nested values such as an inline loss history keep their JSON text.
		if b, err := json.Marshal(t); err == nil {
			return String(string(b))
		}
		return String(fmt.Sprint(t))
	default:
		return String(fmt.Sprint(t))
	}
}

// naTokens are the cell spellings a dataframe reader treats as missing.
var naTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"NaN":  true,
	"NULL": true,
	"null": true,
	"N/A":  true,
	"NA":   true,
	"n/a":  true,
	"None": true,
	"<NA>": true,
}

// Infer converts a raw spreadsheet cell into a typed value: NA spellings
// become null, floats become numbers, everything else stays a string.
func Infer(raw string) Value {
	s := strings.TrimSpace(raw)
	if naTokens[s] {
		return Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Number(f)
	}
	return String(raw)
}
