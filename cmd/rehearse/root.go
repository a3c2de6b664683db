package main

import (
	"fmt"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var (
	cfgDBPath    string
	cfgDeck      string
	cfgRetention float64
	outputJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "rehearse",
	Short: "Rehearse - adaptive spaced repetition CLI",
	Long: `Rehearse schedules flashcard and logic-training reviews.

Each review rating updates a card's memory-strength model and computes the
next due date, adapted to your current cognitive load.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDBPath, "db", "", "Path to local card database (default: ~/.rehearse/decks/<deck>/cards.db)")
	rootCmd.PersistentFlags().StringVar(&cfgDeck, "deck", "", "Deck ID to operate on (default: REHEARSE_DECK or \"default\")")
	rootCmd.PersistentFlags().Float64Var(&cfgRetention, "retention", 0, "Target recall probability, e.g. 0.9")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// loadConfig builds the client config from flags and environment.
// Flags win over environment variables.
func loadConfig() rehearse.Config {
	cfg := rehearse.ConfigFromEnv()

	if cfgDBPath != "" {
		cfg.DBPath = cfgDBPath
	}
	if cfgDeck != "" {
		cfg.Deck = cfgDeck
	}
	if cfgRetention != 0 {
		cfg.Scheduler.DesiredRetention = cfgRetention
	}

	return cfg
}

// newClient creates a client from the resolved configuration.
func newClient() (*rehearse.Client, error) {
	client, err := rehearse.NewClient(loadConfig())
	if err != nil {
		return nil, fmt.Errorf("initialize client: %w", err)
	}
	return client, nil
}
