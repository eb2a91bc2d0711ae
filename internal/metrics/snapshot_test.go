package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/store"
)

type fakeLister struct {
	runs    []model.Run
	listErr error
	filter  store.RunFilter
}

func (f *fakeLister) ListRuns(_ context.Context, filter store.RunFilter) ([]model.Run, error) {
	f.filter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Run
	for _, r := range f.runs {
		if !filter.CreatedAfter.IsZero() && r.CreatedAt.Before(filter.CreatedAfter) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func TestSnapshot(t *testing.T) {
	now := time.Now().UTC()
	lister := &fakeLister{runs: []model.Run{
		{ID: "1", Status: model.RunStatusComplete, Records: 10, CreatedAt: now.Add(-time.Hour)},
		{ID: "2", Status: model.RunStatusComplete, Records: 30, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "3", Status: model.RunStatusFailed, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "4", Status: model.RunStatusQueued, CreatedAt: now.Add(-time.Minute)},
		{ID: "5", Status: model.RunStatusFailed, CreatedAt: now.Add(-48 * time.Hour)},
	}}

	tests := []struct {
		name     string
		lookback int
		total    int
		failed   int
		failRate float64
	}{
		{"last day", 24, 4, 1, 1.0 / 3},
		{"all time", 0, 5, 2, 2.0 / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Snapshot(context.Background(), lister, tt.lookback)
			require.NoError(t, err)
			assert.Equal(t, tt.total, snap.Total)
			assert.Equal(t, 2, snap.Complete)
			assert.Equal(t, tt.failed, snap.Failed)
			assert.Equal(t, 1, snap.Pending)
			assert.InDelta(t, tt.failRate, snap.FailRate, 0.0001)
			assert.Equal(t, 40, snap.Records)
			assert.InDelta(t, 20, snap.AvgRecords, 0.0001)
			assert.Equal(t, snapshotLimit, lister.filter.Limit)
		})
	}
}

func TestSnapshot_Empty(t *testing.T) {
	snap, err := Snapshot(context.Background(), &fakeLister{}, 24)
	require.NoError(t, err)
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.FailRate)
	assert.Zero(t, snap.AvgRecords)
	assert.False(t, snap.CollectedAt.IsZero())
}

func TestSnapshot_ListError(t *testing.T) {
	_, err := Snapshot(context.Background(), &fakeLister{listErr: errors.New("db down")}, 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics: list runs")
}
