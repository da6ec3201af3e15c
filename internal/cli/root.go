// Package cli implements retrievalctl, a command line front end that works
// directly against an engine data directory: it builds indexes from corpora,
// lists them, and runs phrase, proximity, boolean and phonetic queries
// without going through the HTTP server.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/engine"
)

// dataDir holds the --data persistent flag; every subcommand opens the
// engine there.
var dataDir string

var rootCmd = &cobra.Command{
	Use:   "retrievalctl",
	Short: "Build and query retrieval engine indexes",
	Long: `retrievalctl works directly against an engine data directory.
It can create indexes, load corpora into them, and run phrase, proximity,
boolean and phonetic queries, all without a running server. The same data
directory can later be served over HTTP by retrieval_server.`,
	SilenceUsage: true,
}

// Execute runs the root command and returns its error, if any.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./retrieval_data", "engine data directory")
}

// openEngine loads every index persisted under the --data directory.
func openEngine() *engine.Engine {
	return engine.NewEngine(dataDir)
}

// printJSON renders v indented for --json output.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
