package metrics

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/store"
)

// snapshotLimit caps the runs read for one snapshot.
const snapshotLimit = 10000

// RunSnapshot holds a point-in-time view of stored runs.
type RunSnapshot struct {
	Total    int     `json:"total"`
	Complete int     `json:"complete"`
	Failed   int     `json:"failed"`
	Pending  int     `json:"pending"`
	FailRate float64 `json:"fail_rate"`

	// Records is the number of scored submissions across complete runs.
	Records       int     `json:"records"`
	AvgRecords    float64 `json:"avg_records"`
	LookbackHours int     `json:"lookback_hours"`

	CollectedAt time.Time `json:"collected_at"`
}

// RunLister is the store subset a snapshot needs.
type RunLister interface {
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error)
}

// Snapshot summarizes runs created within the lookback window. A
// non-positive lookback covers all runs.
func Snapshot(ctx context.Context, runs RunLister, lookbackHours int) (*RunSnapshot, error) {
	now := time.Now().UTC()
	snap := &RunSnapshot{LookbackHours: lookbackHours, CollectedAt: now}

	filter := store.RunFilter{Limit: snapshotLimit}
	if lookbackHours > 0 {
		filter.CreatedAfter = now.Add(-time.Duration(lookbackHours) * time.Hour)
	}
	list, err := runs.ListRuns(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "metrics: list runs")
	}

	snap.Total = len(list)
	for _, r := range list {
		switch r.Status {
		case model.RunStatusComplete:
			snap.Complete++
			snap.Records += r.Records
		case model.RunStatusFailed:
			snap.Failed++
		default:
			snap.Pending++
		}
	}

	if finished := snap.Complete + snap.Failed; finished > 0 {
		snap.FailRate = float64(snap.Failed) / float64(finished)
	}
	if snap.Complete > 0 {
		snap.AvgRecords = float64(snap.Records) / float64(snap.Complete)
	}
	return snap, nil
}
