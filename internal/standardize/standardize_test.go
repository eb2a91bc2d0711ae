package standardize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/ratetable"
)

func newStandardizer() *Standardizer {
	return New(ratetable.Default())
}

func TestGeography(t *testing.T) {
	t.Parallel()

	s := newStandardizer()

	tests := []struct {
		name  string
		in    model.Value
		want  string
		match model.Match
	}{
		{"null", model.Null(), "Unknown", model.MatchFallback},
		{"not found", model.String("Not Found"), "Unknown", model.MatchFallback},
		{"state name", model.String("California"), "CA", model.MatchExact},
		{"exact beats earlier substring", model.String("West Virginia"), "WV", model.MatchExact},
		{"country in text", model.String("Mumbai India"), "IN", model.MatchSubstring},
		{"multi part", model.String("Los Angeles, California, USA"), "Los Angeles, CA, Usa", model.MatchCleaned},
		{"all parts mapped", model.String("Texas, Japan"), "TX, JP", model.MatchSubstring},
		{"unmapped", model.String("  atlantis  "), "Atlantis", model.MatchCleaned},
		{"whitespace collapsed", model.String("lost   city"), "Lost City", model.MatchCleaned},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.Geography(tt.in)
			assert.Equal(t, tt.want, got.Label)
			assert.Equal(t, tt.match, got.Match)
		})
	}
}

func TestPeril(t *testing.T) {
	t.Parallel()

	s := newStandardizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"multi peril with unmapped part", "Fire & Explosion", "Fire & Explosion"},
		{"semicolon", "Earthquake; Flood", "Earthquake & Flood"},
		{"synonym", "typhoon", "Hurricane"},
		{"substring", "Flash flooding event", "Flood"},
		{"first delimiter wins", "Fire, Flood & Theft", "Fire & Theft"},
		{"and is case-insensitive", "Fire AND Flood", "Fire & Flood"},
		{"plus", "Cyber attack + data breach", "Cyber & Cyber"},
		{"punctuation only", "!!!", "Unknown"},
		{"null-like", "none", "Unknown"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.Peril(model.String(tt.in)).Label)
		})
	}
}

func TestPerilMatch(t *testing.T) {
	t.Parallel()

	s := newStandardizer()

	assert.Equal(t, model.MatchFallback, s.Peril(model.Null()).Match)
	assert.Equal(t, model.MatchExact, s.Peril(model.String("Earthquake; Flood")).Match)
	assert.Equal(t, model.MatchCleaned, s.Peril(model.String("Fire & Explosion")).Match)
	assert.True(t, s.Peril(model.String("hail")).Canonical())
}

func TestPerilIdempotent(t *testing.T) {
	t.Parallel()

	s := newStandardizer()

	inputs := []string{
		"Fire & Explosion", "Earthquake; Flood", "Sandstorm", "d&o",
		"directors and officers", "Fire, Flood & Theft", "cargo | hull",
		"Flash flooding event", "  windstorm  ", "Strike, Riot + Civil Commotion",
		"", "Unknown", "Errors and omissions",
	}
	for _, in := range inputs {
		once := s.Peril(model.String(in)).Label
		twice := s.Peril(model.String(once)).Label
		assert.Equal(t, once, twice, in)
	}
}

func TestBusiness(t *testing.T) {
	t.Parallel()

	s := newStandardizer()

	tests := []struct {
		name  string
		in    model.Value
		want  string
		match model.Match
	}{
		{"null", model.Null(), "Other", model.MatchFallback},
		{"exact", model.String("Chemical"), "Chemical", model.MatchExact},
		{"multi word exact", model.String("Oil and Gas"), "Oil & Gas", model.MatchExact},
		{"repeated variant", model.String("pharmaceutical"), "Healthcare", model.MatchExact},
		{"best overlap", model.String("Chemical Manufacturing Plant"), "Chemical", model.MatchSimilar},
		{"single token overlap", model.String("Software Company"), "Technology", model.MatchSimilar},
		{"stopword does not win", model.String("Hotel and Resort"), "Hospitality", model.MatchSimilar},
		{"unmatched", model.String("Widget Maker!"), "Widget Maker", model.MatchCleaned},
		{"punctuation only", model.String("???"), "Other", model.MatchFallback},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.Business(tt.in)
			assert.Equal(t, tt.want, got.Label)
			assert.Equal(t, tt.match, got.Match)
		})
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0/3.0, jaccard(tokenSet("chemical plant"), tokenSet("chemical manufacturing plant")), 1e-9)
	assert.Equal(t, 0.0, jaccard(tokenSet(""), tokenSet("")))
}

func TestSplitFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Fire ", " Flood"}, splitFold("Fire AND Flood", "and"))
	assert.Equal(t, []string{"S", "storm"}, splitFold("Sandstorm", "and"))
	assert.Equal(t, []string{"a", "b", "c"}, splitFold("a|b|c", "|"))
}
