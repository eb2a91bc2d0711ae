package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"score", "decide", "report", "serve", "runs", "tables"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "resure", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("rates"))
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		name    string
		want    []string
		lookups func(string) bool
	}{
		{
			name: "score",
			want: []string{"out", "format", "report", "save"},
			lookups: func(f string) bool {
				return scoreCmd.Flags().Lookup(f) != nil
			},
		},
		{
			name: "decide",
			want: []string{"record", "out"},
			lookups: func(f string) bool {
				return decideCmd.Flags().Lookup(f) != nil
			},
		},
		{
			name: "serve",
			want: []string{"port", "ephemeral"},
			lookups: func(f string) bool {
				return serveCmd.Flags().Lookup(f) != nil
			},
		},
		{
			name: "runs list",
			want: []string{"status", "source", "limit", "offset"},
			lookups: func(f string) bool {
				return runsListCmd.Flags().Lookup(f) != nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range tt.want {
				assert.True(t, tt.lookups(f), "missing --%s", f)
			}
		})
	}
}

func TestServeCommand_PortDefault(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "submissions", "stats"} {
		assert.True(t, names[name], "runs should have subcommand %q", name)
	}
}
