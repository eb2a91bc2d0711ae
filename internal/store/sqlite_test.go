package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resure-ai/resure/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func scoredTable() *model.Table {
	return &model.Table{
		Columns: []string{
			model.FieldCedant, model.FieldInsured, model.FieldSumInsured,
			model.FieldNormalizedRiskScore, model.FieldRiskCategory,
			model.FieldQualityFlags, model.FieldIsDuplicate,
		},
		Rows: []model.Record{
			{
				model.FieldCedant:              model.String("Alpha Re"),
				model.FieldInsured:             model.String("Harbor Foods"),
				model.FieldSumInsured:          model.Number(5e7),
				model.FieldNormalizedRiskScore: model.Number(3.2),
				model.FieldRiskCategory:        model.String("Medium"),
				model.FieldQualityFlags:        model.String("CLEAN"),
				model.FieldIsDuplicate:         model.Bool(false),
			},
			{
				model.FieldCedant:              model.String("Beta Mutual"),
				model.FieldInsured:             model.Null(),
				model.FieldSumInsured:          model.Number(5e5),
				model.FieldNormalizedRiskScore: model.Number(8.9),
				model.FieldRiskCategory:        model.String("High"),
				model.FieldQualityFlags:        model.String("MISSING_INSURED"),
				model.FieldIsDuplicate:         model.Bool(true),
			},
		},
	}
}

func TestSQLite_Migrate_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "book.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "book.csv", got.Source)
	assert.Equal(t, model.RunStatusQueued, got.Status)
	assert.Zero(t, got.Records)
	assert.Nil(t, got.Report)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "book.csv")
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusScoring))
	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusScoring, got.Status)

	err = st.UpdateRunStatus(ctx, "missing", model.RunStatusFailed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_SaveRun_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	decisions := []model.Decision{
		{RecommendedAction: model.ActionAccept, DecisionReason: "low risk", UnderwriterNotes: []string{}, RequiredInformation: []string{}},
		{RecommendedAction: model.ActionDecline, DecisionReason: "high risk", UnderwriterNotes: []string{"claim ratio 95%"}, RequiredInformation: []string{}},
	}
	report := map[string]any{"total_records": 2}

	run, err := SaveRun(ctx, st, "book.csv", report, scoredTable(), decisions)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, 2, run.Records)
	assert.JSONEq(t, `{"total_records":2}`, string(run.Report))

	subs, err := st.ListSubmissions(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, 0, subs[0].Row)
	assert.Equal(t, "Alpha Re", subs[0].Cedant)
	assert.Equal(t, "Harbor Foods", subs[0].Insured)
	assert.InDelta(t, 5e7, subs[0].SumInsured, 0.01)
	assert.Equal(t, "Medium", subs[0].RiskCategory)
	assert.False(t, subs[0].IsDuplicate)
	require.NotNil(t, subs[0].Decision)
	assert.Equal(t, model.ActionAccept, subs[0].Decision.RecommendedAction)
	assert.Equal(t, "Alpha Re", subs[0].Record[model.FieldCedant])

	assert.Equal(t, "", subs[1].Insured)
	assert.True(t, subs[1].IsDuplicate)
	assert.Nil(t, subs[1].Record[model.FieldInsured])
	require.NotNil(t, subs[1].Decision)
	assert.Equal(t, []string{"claim ratio 95%"}, subs[1].Decision.UnderwriterNotes)
}

func TestSQLite_SaveRun_WithoutDecisions(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := SaveRun(ctx, st, "book.csv", nil, scoredTable(), nil)
	require.NoError(t, err)

	subs, err := st.ListSubmissions(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Nil(t, subs[0].Decision)
	assert.Nil(t, subs[1].Decision)
}

func TestSQLite_SaveResult_UnknownRun(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.SaveResult(context.Background(), "missing", []byte(`{}`), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_SaveResult_Replaces(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "book.csv")
	require.NoError(t, err)

	subs := model.Submissions(run.ID, scoredTable(), nil)
	require.NoError(t, st.SaveResult(ctx, run.ID, []byte(`{}`), subs))

	subs[0].RiskCategory = "Low"
	require.NoError(t, st.SaveResult(ctx, run.ID, []byte(`{}`), subs))

	got, err := st.ListSubmissions(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Low", got[0].RiskCategory)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, "a.csv")
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "b.csv")
	require.NoError(t, err)
	c, err := st.CreateRun(ctx, "a.csv")
	require.NoError(t, err)
	require.NoError(t, st.UpdateRunStatus(ctx, c.ID, model.RunStatusFailed))

	tests := []struct {
		name   string
		filter RunFilter
		want   int
	}{
		{"all", RunFilter{}, 3},
		{"by source", RunFilter{Source: "a.csv"}, 2},
		{"by status", RunFilter{Status: model.RunStatusFailed}, 1},
		{"by source and status", RunFilter{Source: "a.csv", Status: model.RunStatusQueued}, 1},
		{"limit", RunFilter{Limit: 2}, 2},
		{"offset", RunFilter{Limit: 10, Offset: 2}, 1},
		{"no match", RunFilter{Source: "zzz.csv"}, 0},
		{"created after past", RunFilter{CreatedAfter: time.Now().Add(-time.Hour)}, 3},
		{"created after future", RunFilter{CreatedAfter: time.Now().Add(time.Hour)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := st.ListRuns(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, runs, tt.want)
		})
	}

	runs, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusQueued, Source: "a.csv"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, a.ID, runs[0].ID)
}

func TestSQLite_ListSubmissions_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	subs, err := st.ListSubmissions(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestNewSQLite_BadPath(t *testing.T) {
	_, err := NewSQLite(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"))
	assert.Error(t, err)
}

func TestSQLite_Ping(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Ping(context.Background()))
}
