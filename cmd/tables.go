package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/resure-ai/resure/internal/ratetable"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Show the loaded rate tables and vocabularies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tables, err := loadTables()
		if err != nil {
			return err
		}
		formatTables(os.Stdout, tables)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

// formatTables writes vocabulary sizes, default multipliers and currency rates.
func formatTables(out io.Writer, t *ratetable.Tables) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VOCABULARY\tVARIANTS\tLABELS")
	_, _ = fmt.Fprintf(w, "geography\t%d\t%d\n", t.Geography.Len(), t.Geography.Labels())
	_, _ = fmt.Fprintf(w, "peril\t%d\t%d\n", t.Peril.Len(), t.Peril.Labels())
	_, _ = fmt.Fprintf(w, "business\t%d\t%d\n", t.Business.Len(), t.Business.Labels())
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "RISK TABLE\tENTRIES\tDEFAULT")
	_, _ = fmt.Fprintf(w, "geography\t%d\t%.2f\n", t.GeographyRisk.Len(), t.GeographyRisk.Default)
	_, _ = fmt.Fprintf(w, "peril\t%d\t%.2f\n", t.PerilRisk.Len(), t.PerilRisk.Default)
	_, _ = fmt.Fprintf(w, "business\t%d\t%.2f\n", t.BusinessRisk.Len(), t.BusinessRisk.Default)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "CURRENCY\tUSD RATE")
	for _, code := range t.Codes() {
		rate, _ := t.Rate(code)
		_, _ = fmt.Fprintf(w, "%s\t%g\n", code, rate)
	}
	_ = w.Flush()
}
