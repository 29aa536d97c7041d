package cmd

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
	for _, want := range []string{"analyze", "serve", "runs", "doctor", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestAnalyzeCommand_RequiresSubject(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("subject")
	require.NotNil(t, flag)
	assert.Equal(t, "s", flag.Shorthand)

	required, ok := flag.Annotations[cobraBashCompOneRequiredFlag()]
	assert.True(t, ok && len(required) > 0)
}

// cobra marks required flags via this annotation key.
func cobraBashCompOneRequiredFlag() string {
	return "cobra_annotation_bash_completion_one_required_flag"
}

func TestRunsCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["list"])
	assert.True(t, names["show"])
	assert.True(t, names["delete"])
}
