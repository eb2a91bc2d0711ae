// Package store persists scoring runs and their scored submissions.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/resilience"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Source string          `json:"source,omitempty"`
	// CreatedAfter excludes runs created before this time when non-zero.
	CreatedAfter time.Time `json:"created_after,omitempty"`
	Limit        int       `json:"limit,omitempty"`
	Offset       int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for scoring runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// SaveResult stores the report and submissions and marks the run complete.
	SaveResult(ctx context.Context, runID string, report json.RawMessage, subs []model.ScoredSubmission) error
	ListSubmissions(ctx context.Context, runID string) ([]model.ScoredSubmission, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// saveRetry governs retries of SaveResult, which replaces a run's
// submissions and is safe to repeat.
var saveRetry = resilience.RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     time.Second,
	Multiplier:     2,
	JitterFraction: 0.25,
	OnRetry:        resilience.RetryLogger("store", "save_result"),
}

// SaveRun records a scored table as a new run. On failure after the run is
// created, the run is marked failed and the error returned.
func SaveRun(ctx context.Context, s Store, source string, report any, t *model.Table, decisions []model.Decision) (*model.Run, error) {
	run, err := s.CreateRun(ctx, source)
	if err != nil {
		return nil, err
	}

	fail := func(cause error) (*model.Run, error) {
		if statusErr := s.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed); statusErr != nil {
			zap.L().Warn("store: failed to mark run failed", zap.String("run_id", run.ID), zap.Error(statusErr))
		}
		return nil, cause
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fail(eris.Wrap(err, "store: marshal report"))
	}
	subs := model.Submissions(run.ID, t, decisions)
	err = resilience.Do(ctx, saveRetry, func(ctx context.Context) error {
		return s.SaveResult(ctx, run.ID, reportJSON, subs)
	})
	if err != nil {
		return fail(err)
	}

	zap.L().Info("store: saved run",
		zap.String("run_id", run.ID),
		zap.String("source", source),
		zap.Int("records", t.Len()),
	)
	return s.GetRun(ctx, run.ID)
}

// submissionColumns is the column order shared by both backends.
var submissionColumns = []string{
	"run_id", "row", "cedant", "insured", "sum_insured", "normalized_risk_score",
	"risk_category", "quality_flags", "is_duplicate", "decision", "record",
}

// submissionRow flattens a submission for insertion. JSON columns are encoded
// as bytes.
func submissionRow(s model.ScoredSubmission) ([]any, error) {
	record, err := json.Marshal(s.Record)
	if err != nil {
		return nil, eris.Wrapf(err, "store: marshal record %d", s.Row)
	}
	var decision []byte
	if s.Decision != nil {
		decision, err = json.Marshal(s.Decision)
		if err != nil {
			return nil, eris.Wrapf(err, "store: marshal decision %d", s.Row)
		}
	}
	return []any{
		s.RunID, s.Row, s.Cedant, s.Insured, s.SumInsured, s.NormalizedRiskScore,
		s.RiskCategory, s.QualityFlags, s.IsDuplicate, decision, record,
	}, nil
}

// decodeSubmission fills the JSON fields of a scanned submission.
func decodeSubmission(s *model.ScoredSubmission, decision, record []byte) error {
	if len(decision) > 0 {
		s.Decision = &model.Decision{}
		if err := json.Unmarshal(decision, s.Decision); err != nil {
			return eris.Wrapf(err, "store: unmarshal decision %d", s.Row)
		}
	}
	if err := json.Unmarshal(record, &s.Record); err != nil {
		return eris.Wrapf(err, "store: unmarshal record %d", s.Row)
	}
	return nil
}
