package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/resure-ai/resure/internal/decision"
	"github.com/resure-ai/resure/internal/ingest"
	"github.com/resure-ai/resure/internal/model"
)

var (
	decideRecord string
	decideOut    string
)

var decideCmd = &cobra.Command{
	Use:   "decide [file]",
	Short: "Recommend underwriting actions for normalized records",
	Long:  "Applies the decision rules to records that already carry NormalizedRiskScore and DataCompletenessScore, either from a file or a single --record JSON object.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("decide"); err != nil {
			return err
		}
		engine := decision.New(cfg.Decision)

		if decideRecord != "" {
			rec, err := parseRecord(decideRecord)
			if err != nil {
				return err
			}
			d := engine.ForRecord(rec)
			return writeTo(decideOut, func(w io.Writer) error { return ingest.WriteJSON(w, d) })
		}

		if len(args) == 0 {
			return eris.New("decide: a file or --record is required")
		}
		t, err := ingest.ReadFile(ctx, args[0])
		if err != nil {
			return err
		}
		decisions := engine.ForTable(t)
		return writeTo(decideOut, func(w io.Writer) error { return ingest.WriteJSON(w, decisions) })
	},
}

func init() {
	decideCmd.Flags().StringVar(&decideRecord, "record", "", "single record as a JSON object")
	decideCmd.Flags().StringVarP(&decideOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(decideCmd)
}

// parseRecord decodes a JSON object into a record.
func parseRecord(raw string) (model.Record, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, eris.Wrap(err, "decide: parse --record")
	}
	if m == nil {
		return nil, eris.New("decide: --record must be a JSON object")
	}
	rec := make(model.Record, len(m))
	for k, v := range m {
		rec[k] = model.FromAny(v)
	}
	return rec, nil
}
