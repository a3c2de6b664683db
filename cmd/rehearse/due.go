package main

import (
	"fmt"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List cards due for review",
	RunE:  runDue,
}

var dueDomain string

func init() {
	dueCmd.Flags().StringVarP(&dueDomain, "domain", "d", "", "Restrict to one domain: flashcard or logic")
}

func runDue(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	cards, err := client.Due(cmd.Context(), rehearse.Domain(dueDomain))
	if err != nil {
		return fmt.Errorf("query due cards: %w", err)
	}

	return outputCardList(cmd, cards)
}
