package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resure-ai/resure/internal/ratetable"
)

func TestFormatTables(t *testing.T) {
	var buf bytes.Buffer
	formatTables(&buf, ratetable.Default())

	out := buf.String()
	for _, s := range []string{"VOCABULARY", "geography", "peril", "business", "RISK TABLE", "5.00", "1.00", "USD", "EUR", "1.1739"} {
		assert.Contains(t, out, s)
	}
}

func TestLoadTables(t *testing.T) {
	t.Run("built-in", func(t *testing.T) {
		setTestConfig(t)
		tables, err := loadTables()
		require.NoError(t, err)
		rate, ok := tables.Rate("USD")
		require.True(t, ok)
		assert.InDelta(t, 1.0, rate, 0.0001)
	})

	t.Run("flag override", func(t *testing.T) {
		setTestConfig(t)
		ratesPath = writeFile(t, "rates.yaml", "currency_rates:\n  USD: 1.0\n  XAU: 2300.5\n")
		tables, err := loadTables()
		require.NoError(t, err)
		rate, ok := tables.Rate("XAU")
		require.True(t, ok)
		assert.InDelta(t, 2300.5, rate, 0.0001)
	})

	t.Run("config path", func(t *testing.T) {
		c := setTestConfig(t)
		c.Engine.RateTablesPath = writeFile(t, "rates.yaml", "currency_rates:\n  USD: 1.0\n  BRL: 0.18\n")
		tables, err := loadTables()
		require.NoError(t, err)
		_, ok := tables.Rate("BRL")
		assert.True(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		setTestConfig(t)
		ratesPath = "/nonexistent/rates.yaml"
		_, err := loadTables()
		assert.Error(t, err)
	})
}
