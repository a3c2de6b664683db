package main

import (
	"fmt"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new card",
	Long: `Add a new card to the deck in the New state, due immediately.

Example:
  rehearse add --domain flashcard --label "ohm's law"
  rehearse add -d logic --label "syllogism drill 4" --json`,
	RunE: runAdd,
}

var (
	addDomain string
	addLabel  string
)

func init() {
	addCmd.Flags().StringVarP(&addDomain, "domain", "d", "flashcard", "Review domain: flashcard or logic")
	addCmd.Flags().StringVar(&addLabel, "label", "", "Human-readable label for the card")
}

func runAdd(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	card, err := client.AddCard(cmd.Context(), rehearse.Domain(addDomain), addLabel)
	if err != nil {
		return fmt.Errorf("add card: %w", err)
	}

	return outputCard(cmd, card)
}
