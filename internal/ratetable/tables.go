// Package ratetable holds the immutable lookup tables the engine normalizes and
// scores against: currency rates, categorical vocabularies, and risk multipliers.
package ratetable

import (
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultKey is the risk-table entry used when a label has no multiplier.
const DefaultKey = "DEFAULT"

// Entry is one ordered key/value pair of a table.
type Entry[V any] struct {
	Key   string
	Value V
}

// Ordered is a lookup table that remembers insertion order. Substring matching
// walks entries in that order, so the first declared key wins.
type Ordered[V any] struct {
	entries []Entry[V]
	index   map[string]int
}

// NewOrdered builds a table from entries. A repeated key keeps its first
// position and takes the last value.
func NewOrdered[V any](entries ...Entry[V]) Ordered[V] {
	o := Ordered[V]{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		o.set(e.Key, e.Value)
	}
	return o
}

func (o *Ordered[V]) set(key string, v V) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.entries[i].Value = v
		return
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, Entry[V]{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o Ordered[V]) Get(key string) (V, bool) {
	i, ok := o.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return o.entries[i].Value, true
}

// Entries returns the pairs in declaration order. The slice must not be modified.
func (o Ordered[V]) Entries() []Entry[V] {
	return o.entries
}

// Len returns the number of distinct keys.
func (o Ordered[V]) Len() int {
	return len(o.entries)
}

// UnmarshalYAML decodes a YAML mapping while keeping key order.
func (o *Ordered[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return eris.Errorf("ratetable: line %d: expected a mapping", node.Line)
	}
	*o = Ordered[V]{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v V
		if err := node.Content[i+1].Decode(&v); err != nil {
			return eris.Wrapf(err, "ratetable: decode value for %q", node.Content[i].Value)
		}
		o.set(node.Content[i].Value, v)
	}
	return nil
}

// Vocabulary maps lower-cased text variants to canonical labels.
type Vocabulary struct {
	Ordered[string]
	labels map[string]bool
}

// NewVocabulary builds a vocabulary from variant/label pairs. Variants are
// lower-cased.
func NewVocabulary(entries ...Entry[string]) Vocabulary {
	lowered := make([]Entry[string], len(entries))
	for i, e := range entries {
		lowered[i] = Entry[string]{Key: strings.ToLower(e.Key), Value: e.Value}
	}
	return vocabularyOf(NewOrdered(lowered...))
}

func vocabularyOf(o Ordered[string]) Vocabulary {
	v := Vocabulary{labels: make(map[string]bool)}
	for _, e := range o.Entries() {
		v.set(strings.ToLower(e.Key), e.Value)
	}
	for _, e := range v.Entries() {
		v.labels[e.Value] = true
	}
	return v
}

// Lookup resolves an exact lower-cased variant.
func (v Vocabulary) Lookup(variant string) (string, bool) {
	return v.Get(variant)
}

// IsLabel reports whether label belongs to the canonical set.
func (v Vocabulary) IsLabel(label string) bool {
	return v.labels[label]
}

// Labels returns the number of distinct canonical labels.
func (v Vocabulary) Labels() int {
	return len(v.labels)
}

// RiskTable maps canonical labels to multipliers with a DEFAULT fallback.
type RiskTable struct {
	values  map[string]float64
	Default float64
}

// NewRiskTable builds a risk table. The DEFAULT key, when present, sets the
// fallback multiplier.
func NewRiskTable(values map[string]float64, def float64) RiskTable {
	rt := RiskTable{values: make(map[string]float64, len(values)), Default: def}
	for k, v := range values {
		if k == DefaultKey {
			rt.Default = v
			continue
		}
		rt.values[k] = v
	}
	return rt
}

// Lookup returns the multiplier for label, or the DEFAULT multiplier.
func (rt RiskTable) Lookup(label string) float64 {
	if v, ok := rt.values[label]; ok {
		return v
	}
	return rt.Default
}

// Has reports whether the label has its own multiplier.
func (rt RiskTable) Has(label string) bool {
	_, ok := rt.values[label]
	return ok
}

// Len returns the number of labelled multipliers, excluding DEFAULT.
func (rt RiskTable) Len() int {
	return len(rt.values)
}

// Tables is the full set of lookup tables. A Tables value is never mutated
// after construction and is safe for concurrent use.
type Tables struct {
	Currency      Ordered[float64]
	Geography     Vocabulary
	Peril         Vocabulary
	Business      Vocabulary
	GeographyRisk RiskTable
	PerilRisk     RiskTable
	BusinessRisk  RiskTable
}

// Rate returns the USD conversion rate for a currency code.
func (t *Tables) Rate(code string) (float64, bool) {
	return t.Currency.Get(code)
}

// Codes returns the currency codes in declaration order.
func (t *Tables) Codes() []string {
	codes := make([]string, 0, t.Currency.Len())
	for _, e := range t.Currency.Entries() {
		codes = append(codes, e.Key)
	}
	return codes
}
