package model

import (
	"encoding/json"
	"time"
)

// RunStatus represents the current state of a scoring run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusNormalizing RunStatus = "normalizing"
	RunStatusScoring     RunStatus = "scoring"
	RunStatusValidating  RunStatus = "validating"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// Run represents one batch of submissions pushed through the engine.
type Run struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Status    RunStatus       `json:"status"`
	Records   int             `json:"records"`
	Report    json.RawMessage `json:"report,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PhaseStatus represents the current state of a pipeline phase.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
	PhaseStatusSkipped  PhaseStatus = "skipped"
)

// PhaseResult holds the outcome of a pipeline phase.
type PhaseResult struct {
	Name     string         `json:"name"`
	Status   PhaseStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Degraded map[string]int `json:"degraded,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ScoredSubmission is the persisted view of one normalized record.
type ScoredSubmission struct {
	RunID               string         `json:"run_id"`
	Row                 int            `json:"row"`
	Cedant              string         `json:"cedant"`
	Insured             string         `json:"insured"`
	SumInsured          float64        `json:"sum_insured"`
	NormalizedRiskScore float64        `json:"normalized_risk_score"`
	RiskCategory        string         `json:"risk_category"`
	QualityFlags        string         `json:"quality_flags"`
	IsDuplicate         bool           `json:"is_duplicate"`
	Decision            *Decision      `json:"decision,omitempty"`
	Record              map[string]any `json:"record"`
}

// Submissions converts the rows of a scored table into their persisted form.
// decisions may be nil or shorter than the table.
func Submissions(runID string, t *Table, decisions []Decision) []ScoredSubmission {
	out := make([]ScoredSubmission, len(t.Rows))
	for i, r := range t.Rows {
		s := ScoredSubmission{
			RunID:               runID,
			Row:                 i,
			Cedant:              textOf(r.Get(FieldCedant)),
			Insured:             textOf(r.Get(FieldInsured)),
			SumInsured:          r.Get(FieldSumInsured).FloatOr(0),
			NormalizedRiskScore: r.Get(FieldNormalizedRiskScore).FloatOr(0),
			RiskCategory:        textOf(r.Get(FieldRiskCategory)),
			QualityFlags:        textOf(r.Get(FieldQualityFlags)),
			IsDuplicate:         r.Get(FieldIsDuplicate).Bool,
			Record:              make(map[string]any, len(t.Columns)),
		}
		for _, c := range t.Columns {
			s.Record[c] = r.Get(c).Any()
		}
		if i < len(decisions) {
			d := decisions[i]
			s.Decision = &d
		}
		out[i] = s
	}
	return out
}

func textOf(v Value) string {
	if v.IsNull() {
		return ""
	}
	return v.Text()
}
