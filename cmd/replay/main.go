package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rebuild a day's roster from a file of updates",
	Long: `Replay applies a JSON array of update commands, in file order, to an empty
roster and prints the resulting roster as JSON.

Examples:
  # Rebuild the roster of 1 May 2024
  ./replay --date 2024-05-01 --file updates.json

  # Refuse to create a flight twice
  ./replay --date 2024-05-01 --file updates.json --unique`,
	RunE: runReplay,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
