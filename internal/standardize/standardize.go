// Package standardize resolves free-text categorical values against the
// controlled vocabularies for geography, peril, and business type.
package standardize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/ratetable"
)

// Fallback sentinels.
const (
	Unknown = "Unknown"
	Other   = "Other"
)

// similarityThreshold is the minimum token overlap for a business match.
const similarityThreshold = 0.3

// perilDelimiters are tried in order; the first one present wins.
var perilDelimiters = []string{";", "&", "+", "and", ",", "|"}

var nullLike = map[string]bool{
	"nan":       true,
	"none":      true,
	"":          true,
	"not found": true,
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s&/-]`)
)

// Standardizer maps raw categorical text to canonical labels.
type Standardizer struct {
	tables *ratetable.Tables
}

// New returns a Standardizer over tables.
func New(tables *ratetable.Tables) *Standardizer {
	return &Standardizer{tables: tables}
}

// Geography resolves a location. Comma-separated parts are resolved one by one
// and rejoined with ", ".
func (s *Standardizer) Geography(v model.Value) model.Resolution {
	raw, ok := text(v)
	if !ok {
		return model.Resolution{Label: Unknown, Match: model.MatchFallback}
	}
	raw = strings.TrimSpace(raw)

	parts := strings.Split(raw, ",")
	if len(parts) > 1 {
		out := make([]string, len(parts))
		match := model.MatchSubstring
		for i, p := range parts {
			p = strings.TrimSpace(p)
			if label, ok := s.lookupContains(s.tables.Geography, strings.ToLower(p)); ok {
				out[i] = label
				continue
			}
			out[i] = titleCase(p)
			match = model.MatchCleaned
		}
		return model.Resolution{Label: strings.Join(out, ", "), Match: match}
	}

	lower := strings.ToLower(raw)
	if label, ok := s.tables.Geography.Lookup(lower); ok {
		return model.Resolution{Label: label, Match: model.MatchExact}
	}
	if label, ok := s.lookupContains(s.tables.Geography, lower); ok {
		return model.Resolution{Label: label, Match: model.MatchSubstring}
	}
	cleaned := titleCase(collapse(raw))
	if cleaned == "" {
		return model.Resolution{Label: Unknown, Match: model.MatchFallback}
	}
	return model.Resolution{Label: cleaned, Match: model.MatchCleaned}
}

// Peril resolves a peril, splitting multi-peril text on the first delimiter
// present. Parts that resolve to Unknown are dropped and the rest joined
// with " & ". Only the first delimiter found is ever tried.
func (s *Standardizer) Peril(v model.Value) model.Resolution {
	raw, ok := text(v)
	if !ok {
		return model.Resolution{Label: Unknown, Match: model.MatchFallback}
	}
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	for _, d := range perilDelimiters {
		if !strings.Contains(lower, d) {
			continue
		}
		parts := splitFold(raw, d)
		if len(parts) > 1 {
			var labels []string
			match := model.MatchExact
			for _, p := range parts {
				r := s.singlePeril(p)
				if r.Label == Unknown {
					continue
				}
				labels = append(labels, r.Label)
				if !r.Canonical() {
					match = model.MatchCleaned
				}
			}
			if len(labels) > 0 {
				return model.Resolution{Label: strings.Join(labels, " & "), Match: match}
			}
		}
		break
	}
	return s.singlePeril(raw)
}

func (s *Standardizer) singlePeril(raw string) model.Resolution {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := s.tables.Peril.Lookup(lower); ok {
		return model.Resolution{Label: label, Match: model.MatchExact}
	}
	if label, ok := s.lookupContains(s.tables.Peril, lower); ok {
		return model.Resolution{Label: label, Match: model.MatchSubstring}
	}
	cleaned := clean(raw)
	if cleaned == "" {
		return model.Resolution{Label: Unknown, Match: model.MatchFallback}
	}
	return model.Resolution{Label: cleaned, Match: model.MatchCleaned}
}

// Business resolves an occupation or industry. An exact variant wins;
// otherwise the variant with the highest token Jaccard similarity above 0.3
// is used, earlier variants winning ties.
func (s *Standardizer) Business(v model.Value) model.Resolution {
	raw, ok := text(v)
	if !ok {
		return model.Resolution{Label: Other, Match: model.MatchFallback}
	}
	lower := strings.ToLower(strings.TrimSpace(raw))
	if label, ok := s.tables.Business.Lookup(lower); ok {
		return model.Resolution{Label: label, Match: model.MatchExact}
	}

	words := tokenSet(lower)
	best, bestScore := "", 0.0
	for _, e := range s.tables.Business.Entries() {
		score := jaccard(tokenSet(e.Key), words)
		if score > bestScore && score > similarityThreshold {
			best, bestScore = e.Value, score
		}
	}
	if best != "" {
		return model.Resolution{Label: best, Match: model.MatchSimilar}
	}

	cleaned := clean(raw)
	if cleaned == "" {
		return model.Resolution{Label: Other, Match: model.MatchFallback}
	}
	return model.Resolution{Label: cleaned, Match: model.MatchCleaned}
}

// lookupContains returns the label of an exact variant match, else of the
// first variant that occurs inside lower.
func (s *Standardizer) lookupContains(vocab ratetable.Vocabulary, lower string) (string, bool) {
	if label, ok := vocab.Lookup(lower); ok {
		return label, true
	}
	for _, e := range vocab.Entries() {
		if strings.Contains(lower, e.Key) {
			return e.Value, true
		}
	}
	return "", false
}

// text returns the NFKC-folded cell text, false for null-like cells.
func text(v model.Value) (string, bool) {
	s := v.Text()
	if nullLike[strings.ToLower(s)] {
		return "", false
	}
	return norm.NFKC.String(s), true
}

// splitFold splits s around every case-insensitive occurrence of sep.
func splitFold(s, sep string) []string {
	lower := strings.ToLower(s)
	if len(lower) != len(s) {
		return strings.Split(s, sep)
	}
	var parts []string
	start := 0
	for {
		i := strings.Index(lower[start:], sep)
		if i < 0 {
			break
		}
		parts = append(parts, s[start:start+i])
		start += i + len(sep)
	}
	return append(parts, s[start:])
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// clean drops punctuation other than & / and -, collapses whitespace, and
// title-cases the result.
func clean(s string) string {
	return titleCase(collapse(disallowedRe.ReplaceAllString(s, "")))
}

// titleCase builds a fresh Caser per call; Casers are not safe to share
// across goroutines.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
