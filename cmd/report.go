package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/resure-ai/resure/internal/ingest"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Print the cleaning report for a submission batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("report"); err != nil {
			return err
		}

		env, err := initEngine(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		sc, err := scoreFile(ctx, env, args[0])
		if err != nil {
			return err
		}
		return writeTo(reportOut, func(w io.Writer) error {
			return ingest.WriteJSON(w, sc.Result.Report)
		})
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(reportCmd)
}
