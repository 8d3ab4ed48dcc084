// brickwave is a terminal brick-breaking game with impact-foreshadowing
// audio cues.
//
// Usage:
//
//	brickwave play              - Play in the current terminal
//	brickwave serve             - Start SSH server for remote play
//	brickwave scores            - Show recorded top rounds
//	brickwave harness           - Run the automation harness server
//
// Global flags:
//
//	--fps <rate>    - Render frame rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.brickwave/rounds.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "brickwave",
	Short: "Brickwave - break bricks in your terminal",
	Long: `Brickwave is a terminal brick-breaking game built around a
deterministic simulation core. Impacts are foreshadowed by pitched audio
cues scheduled ahead of the collision.

Available commands:
  play     - Play in the current terminal
  serve    - Start SSH server for remote play
  scores   - Show recorded top rounds
  harness  - Run the automation harness server

Examples:
  brickwave play
  brickwave play --seed 42 --difficulty hard
  brickwave serve --ssh :2222
  brickwave scores
  brickwave harness --addr :8089`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Render frame rate")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.brickwave/rounds.db", "Path to rounds database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(harnessCmd)
}
