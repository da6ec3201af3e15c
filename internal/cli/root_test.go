package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/corpus"
)

// resetFlags restores every flag variable to its default. Cobra keeps
// package-level flag values between Execute calls, so each test run starts
// from a clean slate.
func resetFlags() {
	dataDir = "./retrieval_data"

	buildName, buildCorpus, buildSQLite = "", "", ""
	buildTable = corpus.DefaultTable
	buildStemmer = config.StemmerSnowball
	buildStopWords = ""
	buildMinToken = 1
	buildPhonetic = false
	buildPNorm = config.DefaultPNorm
	listJSON = false

	queryIndex = ""
	queryJSON = false
	phrasePositions = false
	nearDistance = 1
	nearOrdered = false
	boolP = ""
	boolIncludeZero = false
	boolPage = 1
	boolPageSize = 10
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err, "output: %s", buf.String())
	return buf.String()
}

// executeErr runs the root command expecting it to fail.
func executeErr(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	return err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "retrievalctl", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"index", "query", "soundex", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
