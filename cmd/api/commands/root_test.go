package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
}

func TestServeFlags(t *testing.T) {
	f := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, f)
	assert.Equal(t, "", f.DefValue)

	f = migrateCmd.Flags().Lookup("print")
	require.NotNil(t, f)
	assert.Equal(t, "false", f.DefValue)
}
