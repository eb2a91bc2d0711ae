package model

// Outcome tags a field-level result as parsed from input or defaulted.
// Defaulted results carry the reason so degradations stay inspectable.
type Outcome struct {
	Defaulted bool
	Reason    string
}

// Parsed is the outcome of a value read successfully from input.
func Parsed() Outcome { return Outcome{} }

// Defaulted is the outcome of a value replaced by its documented fallback.
func Defaulted(reason string) Outcome { return Outcome{Defaulted: true, Reason: reason} }

// Common degradation reasons.
const (
	ReasonNullInput     = "null input"
	ReasonUnparsable    = "no numeric token"
	ReasonUnmatched     = "no vocabulary match"
	ReasonMalformedJSON = "malformed loss history"
	ReasonUnsupported   = "unsupported cell type"
	ReasonImputed       = "median imputed"
	ReasonFilled        = "default filled"
)

// Match describes how a categorical input was resolved.
type Match uint8

const (
	// MatchFallback means the input was null-like and the domain sentinel was used.
	MatchFallback Match = iota
	// MatchExact means the whole input equalled a vocabulary variant.
	MatchExact
	// MatchSubstring means a vocabulary variant occurred inside the input.
	MatchSubstring
	// MatchSimilar means token overlap with a variant cleared the threshold.
	MatchSimilar
	// MatchCleaned means no variant matched and the input was cleaned and title-cased.
	MatchCleaned
)

func (m Match) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchSubstring:
		return "substring"
	case MatchSimilar:
		return "similar"
	case MatchCleaned:
		return "cleaned"
	default:
		return "fallback"
	}
}

// Resolution is a categorical label plus how it was obtained. Unmapped input
// is visible as MatchCleaned or MatchFallback rather than as a bare string.
type Resolution struct {
	Label string
	Match Match
}

// Canonical reports whether the label came from the vocabulary.
func (r Resolution) Canonical() bool {
	return r.Match == MatchExact || r.Match == MatchSubstring || r.Match == MatchSimilar
}

// Outcome converts the resolution into a field outcome.
func (r Resolution) Outcome() Outcome {
	switch r.Match {
	case MatchFallback:
		return Defaulted(ReasonNullInput)
	case MatchCleaned:
		return Defaulted(ReasonUnmatched)
	default:
		return Parsed()
	}
}
