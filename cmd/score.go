package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resure-ai/resure/internal/ingest"
	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/pipeline"
	"github.com/resure-ai/resure/internal/store"
)

// Columns appended to CSV output.
const (
	colRecommendedAction = "RecommendedAction"
	colDecisionReason    = "DecisionReason"
	colPricingAdjustment = "PricingAdjustment"
)

var (
	scoreOut    string
	scoreFormat string
	scoreReport string
	scoreSave   bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Normalize, score and decide a submission batch",
	Long:  "Reads a CSV, XLSX or JSON batch of raw submissions, runs the normalization pipeline, and writes the scored records with an underwriting decision per row.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("score"); err != nil {
			return err
		}

		format, err := outputFormat(scoreFormat, scoreOut)
		if err != nil {
			return err
		}

		env, err := initEngine(ctx, scoreSave)
		if err != nil {
			return err
		}
		defer env.Close()

		sc, err := scoreFile(ctx, env, args[0])
		if err != nil {
			return err
		}

		if err := writeTo(scoreOut, func(w io.Writer) error { return writeScored(w, format, sc) }); err != nil {
			return err
		}
		if scoreReport != "" {
			if err := writeTo(scoreReport, func(w io.Writer) error { return ingest.WriteJSON(w, sc.Result.Report) }); err != nil {
				return err
			}
		}

		summarize(os.Stderr, sc)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreOut, "out", "o", "", "output file (default stdout)")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "", "output format: csv or json (default from --out extension, else json)")
	scoreCmd.Flags().StringVar(&scoreReport, "report", "", "also write the cleaning report JSON to this file")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "persist the scored batch as a run")
	rootCmd.AddCommand(scoreCmd)
}

// scored is one processed batch.
type scored struct {
	Source    string
	Result    *pipeline.Result
	Decisions []model.Decision
	Run       *model.Run // nil unless saved
}

// scoreFile reads, scores and decides one input file, saving it as a run
// when env has a store.
func scoreFile(ctx context.Context, env *engineEnv, path string) (*scored, error) {
	in, err := ingest.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	res, err := env.Pipeline.Run(ctx, in)
	if err != nil {
		return nil, eris.Wrapf(err, "score %s", path)
	}

	sc := &scored{
		Source:    filepath.Base(path),
		Result:    res,
		Decisions: env.Decider.ForTable(res.Table),
	}

	if env.Store != nil {
		run, err := store.SaveRun(ctx, env.Store, sc.Source, res.Report, res.Table, sc.Decisions)
		if err != nil {
			return nil, eris.Wrap(err, "save run")
		}
		sc.Run = run
		zap.L().Info("saved run", zap.String("run_id", run.ID))
	}
	return sc, nil
}

// outputFormat resolves the --format flag, defaulting from the output path.
func outputFormat(flag, out string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		if strings.EqualFold(filepath.Ext(out), ".csv") {
			return "csv", nil
		}
		return "json", nil
	}
	switch f {
	case "csv", "json":
		return f, nil
	default:
		return "", eris.Errorf("unsupported output format %q (want csv or json)", flag)
	}
}

// writeScored writes the scored records in the given format. CSV output
// carries the decision as extra columns; JSON output pairs records with
// decisions.
func writeScored(w io.Writer, format string, sc *scored) error {
	if format == "csv" {
		return ingest.WriteCSV(w, withDecisions(sc.Result.Table, sc.Decisions))
	}

	out := struct {
		RunID     string           `json:"run_id,omitempty"`
		Records   []map[string]any `json:"records"`
		Decisions []model.Decision `json:"decisions"`
	}{
		Records:   sc.Result.Table.Maps(),
		Decisions: sc.Decisions,
	}
	if sc.Run != nil {
		out.RunID = sc.Run.ID
	}
	return ingest.WriteJSON(w, out)
}

// withDecisions returns a copy of t with decision columns appended.
func withDecisions(t *model.Table, decisions []model.Decision) *model.Table {
	out := t.Clone()
	for _, c := range []string{colRecommendedAction, colDecisionReason, colPricingAdjustment} {
		out.EnsureColumn(c)
	}
	for i := range out.Rows {
		if i >= len(decisions) {
			break
		}
		d := decisions[i]
		out.Set(i, colRecommendedAction, model.String(d.RecommendedAction))
		out.Set(i, colDecisionReason, model.String(d.DecisionReason))
		out.Set(i, colPricingAdjustment, model.Number(d.PricingAdjustment))
	}
	return out
}

// writeTo runs fn against the named file, or stdout when path is empty.
func writeTo(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

// summarize prints a one-screen digest of a scored batch.
func summarize(w io.Writer, sc *scored) {
	actions := make(map[string]int)
	for _, d := range sc.Decisions {
		actions[d.RecommendedAction]++
	}

	rep := sc.Result.Report
	_, _ = fmt.Fprintf(w, "%s: %d records, average risk %.2f, completeness %.0f%%\n",
		sc.Source, sc.Result.Table.Len(), rep.RiskAnalysis.AverageRiskScore, rep.DataQuality.OverallCompleteness*100)
	for _, a := range []string{model.ActionAccept, model.ActionConditions, model.ActionRefer, model.ActionDecline, model.ActionRequestInfo} {
		if n := actions[a]; n > 0 {
			_, _ = fmt.Fprintf(w, "  %-28s %d\n", a, n)
		}
	}
	for _, r := range rep.Recommendations {
		_, _ = fmt.Fprintf(w, "  ! %s\n", r)
	}
	if sc.Run != nil {
		_, _ = fmt.Fprintf(w, "saved as run %s\n", sc.Run.ID)
	}
}
