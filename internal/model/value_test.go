package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{"empty", "", Null()},
		{"nan", "nan", Null()},
		{"NA", "N/A", Null()},
		{"None", "None", Null()},
		{"integer", "42", Number(42)},
		{"float", " 3.5 ", Number(3.5)},
		{"money text", "$50M", String("$50M")},
		{"inf stays text", "inf", String("inf")},
		{"not found", "Not Found", String("Not Found")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Infer(tt.raw))
		})
	}
}

func TestValueText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "nan", Null().Text())
	assert.Equal(t, "0", Number(0).Text())
	assert.Equal(t, "1500000", Number(1.5e6).Text())
	assert.Equal(t, "0.25", Number(0.25).Text())
	assert.Equal(t, "True", Bool(true).Text())
	assert.Equal(t, "abc", String("abc").Text())
}

func TestValueFloat(t *testing.T) {
	t.Parallel()

	f, ok := String(" 12.5 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = String("twelve").Float()
	assert.False(t, ok)

	_, ok = Bool(true).Float()
	assert.False(t, ok)

	assert.Equal(t, 7.0, Null().FloatOr(7))
	assert.True(t, Number(math.NaN()).IsNull())
}

func TestFromAny(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Null(), FromAny(nil))
	assert.Equal(t, Number(3), FromAny(3))
	assert.Equal(t, Number(3), FromAny(int64(3)))
	assert.Equal(t, Bool(false), FromAny(false))
	assert.Equal(t, String("x"), FromAny("x"))
	assert.Equal(t, String("[1 2]"), FromAny([]int{1, 2}))
	assert.Nil(t, Null().Any())
	assert.Equal(t, 2.5, Number(2.5).Any())
}

func TestValueJSON(t *testing.T) {
	t.Parallel()

	rec := Record{"A": Number(1.5), "B": String("x"), "C": Null(), "D": Bool(true)}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":1.5,"B":"x","C":null,"D":true}`, string(data))

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestFromAnyNested(t *testing.T) {
	t.Parallel()

	v := FromAny([]any{map[string]any{"year": 2020.0, "amount": 10.0}})
	assert.Equal(t, KindString, v.Kind)
	assert.JSONEq(t, `[{"year":2020,"amount":10}]`, v.Str)
}
