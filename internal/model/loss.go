package model

import (
	"encoding/json"
	"strings"
)

// LossEvent is one entry of a submission's loss history.
type LossEvent struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// ParseLossHistory decodes a loss-history cell. The cell holds a JSON array
// of {year, amount} objects; entries that are not objects are skipped and
// missing keys read as zero. An empty, null, malformed, or non-array cell
// yields no events with a Defaulted outcome (empty "[]" is Parsed).
func ParseLossHistory(v Value) ([]LossEvent, Outcome) {
	if v.IsNull() {
		return nil, Defaulted(ReasonNullInput)
	}
	if v.Kind != KindString {
		return nil, Defaulted(ReasonUnsupported)
	}
	s := strings.TrimSpace(v.Str)
	if s == "" {
		return nil, Defaulted(ReasonNullInput)
	}
	if s == "[]" {
		return nil, Parsed()
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, Defaulted(ReasonMalformedJSON)
	}

	events := make([]LossEvent, 0, len(raw))
	for _, item := range raw {
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		events = append(events, LossEvent{
			Year:   int(numberField(obj, "year")),
			Amount: numberField(obj, "amount"),
		})
	}
	return events, Parsed()
}

// LossHistoryLen counts the raw array entries of a loss-history cell,
// including entries that are not objects. Zero when the cell is not a JSON array.
func LossHistoryLen(v Value) int {
	if v.Kind != KindString {
		return 0
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(v.Str)), &raw); err != nil {
		return 0
	}
	return len(raw)
}

func numberField(obj map[string]any, key string) float64 {
	switch n := obj[key].(type) {
	case float64:
		return n
	case bool:
		if n {
			return 1
		}
	}
	return 0
}
