package cli

import (
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags; "dev" otherwise.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("retrievalctl version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
