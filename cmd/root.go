package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resure-ai/resure/internal/config"
)

var (
	cfg       *config.Config
	ratesPath string
)

var rootCmd = &cobra.Command{
	Use:   "resure",
	Short: "Facultative reinsurance submission engine",
	Long:  "Normalizes raw reinsurance submissions, engineers risk features, scores and validates them, and recommends an underwriting action per submission.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ratesPath, "rates", "", "YAML rate-table override file (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
