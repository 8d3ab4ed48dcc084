package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmarchenko/brickwave/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded top rounds",
	Long: `Display the best recorded rounds and overall play statistics.

Examples:
  brickwave scores
  brickwave scores --limit 25`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rounds to show")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rounds database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	rounds, err := store.TopRounds(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving rounds: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Top Rounds")
	fmt.Println()

	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Play 'brickwave play' to record the first one!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-9s  %s\n", "Rank", "Score", "Round", "Coins", "Outcome", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-9s  %s\n", "----", "-----", "-----", "-----", "-------", "----")

	for i, r := range rounds {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  %-9s  %s\n", i+1, r.Score, r.Round, r.Coins, r.Outcome, dateStr)
	}

	fmt.Println()
	if stats, statsErr := store.GetStats(); statsErr == nil {
		fmt.Printf("Rounds played: %d   Best: %d   Average: %.0f\n",
			stats.RoundsCount, stats.HighScore, stats.AvgScore)
	}
}
