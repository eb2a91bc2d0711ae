package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/resure-ai/resure/internal/config"
	"github.com/resure-ai/resure/internal/pipeline"
)

const batchCSV = `Cedant,Insured,Geography,Peril,BusinessType,SumInsured,PastPremium,ClaimRatio
Alpha Re,Acme Refinery,Texas,Fire,oil and gas,$50M USD,500K,45%
Beta Re,Harbor Mall,Florida,Hurricane,Retail,20000000,100000,0.3
Gamma Re,,,Flood,,,,
`

// setTestConfig installs a valid configuration for the duration of a test.
func setTestConfig(t *testing.T) *config.Config {
	t.Helper()
	prevCfg, prevRates := cfg, ratesPath
	t.Cleanup(func() { cfg, ratesPath = prevCfg, prevRates })

	cfg = &config.Config{
		Log:      config.LogConfig{Level: "info", Format: "json"},
		Engine:   config.EngineConfig{Workers: 2, CurrencyKeywords: pipeline.DefaultCurrencyKeywords},
		Decision: config.DefaultDecisionConfig(),
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(t.TempDir(), "resure.db"),
		},
		Server: config.ServerConfig{Port: 8080, RateLimit: 10, RateBurst: 10, AllowedOrigins: []string{"*"}},
	}
	ratesPath = ""
	return cfg
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
