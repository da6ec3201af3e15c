package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/soundex"
)

var soundexCmd = &cobra.Command{
	Use:   "soundex [name]...",
	Short: "Encode names with the Soundex algorithm",
	Long: `Prints the four character Soundex code for each name. With exactly
two names, also reports whether they sound alike.`,
	Example: `  retrievalctl soundex Robert
  retrievalctl soundex Ashcraft Ashcroft`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			cmd.Printf("%-20s %s\n", name, soundex.Encode(name))
		}
		if len(args) == 2 {
			if soundex.Matches(args[0], args[1]) {
				cmd.Println("Names sound alike.")
			} else {
				cmd.Println("Names do not sound alike.")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(soundexCmd)
}
