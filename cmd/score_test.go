package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resure-ai/resure/internal/model"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		out     string
		want    string
		wantErr bool
	}{
		{name: "default stdout", want: "json"},
		{name: "from csv extension", out: "scored.CSV", want: "csv"},
		{name: "from json extension", out: "scored.json", want: "json"},
		{name: "explicit wins", flag: "CSV", out: "scored.json", want: "csv"},
		{name: "unsupported", flag: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputFormat(tt.flag, tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreFile(t *testing.T) {
	setTestConfig(t)
	env, err := initEngine(context.Background(), false)
	require.NoError(t, err)
	defer env.Close()

	sc, err := scoreFile(context.Background(), env, writeFile(t, "book.csv", batchCSV))
	require.NoError(t, err)

	assert.Equal(t, "book.csv", sc.Source)
	assert.Nil(t, sc.Run)
	require.Equal(t, 3, sc.Result.Table.Len())
	require.Len(t, sc.Decisions, 3)

	first := sc.Result.Table.Rows[0]
	assert.InDelta(t, 5e7, first.Get(model.FieldSumInsured).FloatOr(0), 0.01)
	assert.InDelta(t, 0.45, first.Get(model.FieldClaimRatio).FloatOr(0), 0.0001)

	// The sparse third row is too incomplete to underwrite.
	assert.Equal(t, model.ActionRequestInfo, sc.Decisions[2].RecommendedAction)
	assert.NotEmpty(t, sc.Decisions[2].RequiredInformation)
}

func TestScoreFile_Save(t *testing.T) {
	setTestConfig(t)
	ctx := context.Background()
	env, err := initEngine(ctx, true)
	require.NoError(t, err)
	defer env.Close()

	sc, err := scoreFile(ctx, env, writeFile(t, "book.csv", batchCSV))
	require.NoError(t, err)
	require.NotNil(t, sc.Run)
	assert.Equal(t, model.RunStatusComplete, sc.Run.Status)
	assert.Equal(t, 3, sc.Run.Records)

	subs, err := env.Store.ListSubmissions(ctx, sc.Run.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 3)
}

func TestScoreFile_Errors(t *testing.T) {
	setTestConfig(t)
	env, err := initEngine(context.Background(), false)
	require.NoError(t, err)

	_, err = scoreFile(context.Background(), env, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = scoreFile(context.Background(), env, writeFile(t, "book.parquet", "x"))
	assert.Error(t, err)
}

func TestWriteScored(t *testing.T) {
	setTestConfig(t)
	env, err := initEngine(context.Background(), false)
	require.NoError(t, err)
	sc, err := scoreFile(context.Background(), env, writeFile(t, "book.csv", batchCSV))
	require.NoError(t, err)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeScored(&buf, "csv", sc))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 4)
		header := rows[0]
		assert.Contains(t, header, model.FieldNormalizedRiskScore)
		assert.Equal(t, colPricingAdjustment, header[len(header)-1])
		assert.Equal(t, model.ActionRequestInfo, rows[3][len(header)-3])
	})

	t.Run("json", func(t *testing.T) {
		sc.Run = &model.Run{ID: "run-1"}
		defer func() { sc.Run = nil }()

		var buf bytes.Buffer
		require.NoError(t, writeScored(&buf, "json", sc))

		var out struct {
			RunID     string           `json:"run_id"`
			Records   []map[string]any `json:"records"`
			Decisions []model.Decision `json:"decisions"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "run-1", out.RunID)
		assert.Len(t, out.Records, 3)
		assert.Len(t, out.Decisions, 3)
	})
}

func TestWithDecisions_LeavesInputUntouched(t *testing.T) {
	tbl := &model.Table{
		Columns: []string{model.FieldCedant},
		Rows:    []model.Record{{model.FieldCedant: model.String("Alpha Re")}, {model.FieldCedant: model.String("Beta Re")}},
	}

	out := withDecisions(tbl, []model.Decision{{RecommendedAction: model.ActionAccept, PricingAdjustment: 0}})

	assert.Equal(t, []string{model.FieldCedant}, tbl.Columns)
	assert.Equal(t, []string{model.FieldCedant, colRecommendedAction, colDecisionReason, colPricingAdjustment}, out.Columns)
	assert.Equal(t, model.ActionAccept, out.Rows[0].Get(colRecommendedAction).Text())
	assert.True(t, out.Rows[1].Get(colRecommendedAction).IsNull())
}

func TestWriteTo_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, writeTo(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Error(t, writeTo(filepath.Join(t.TempDir(), "no", "dir", "out.txt"), func(io.Writer) error { return nil }))
}

func TestSummarize(t *testing.T) {
	setTestConfig(t)
	env, err := initEngine(context.Background(), false)
	require.NoError(t, err)
	sc, err := scoreFile(context.Background(), env, writeFile(t, "book.csv", batchCSV))
	require.NoError(t, err)
	sc.Run = &model.Run{ID: "run-42"}

	var buf bytes.Buffer
	summarize(&buf, sc)
	out := buf.String()
	assert.Contains(t, out, "book.csv: 3 records")
	assert.Contains(t, out, model.ActionRequestInfo)
	assert.Contains(t, out, "saved as run run-42")
}
