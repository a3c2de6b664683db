package main

import (
	"fmt"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Compose a review session from due cards",
	Long: `Select and order due cards into a session sized to your current
cognitive load and time budget.

Example:
  rehearse session --domain logic --load 0.85 --minutes 20`,
	RunE: runSession,
}

var (
	sessionDomain  string
	sessionLoad    float64
	sessionMinutes float64
)

func init() {
	sessionCmd.Flags().StringVarP(&sessionDomain, "domain", "d", "", "Restrict to one domain: flashcard or logic")
	sessionCmd.Flags().Float64VarP(&sessionLoad, "load", "l", 0.5, "Current cognitive load estimate (0.0-1.0)")
	sessionCmd.Flags().Float64VarP(&sessionMinutes, "minutes", "m", 30, "Available time in minutes")
}

func runSession(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	plan, err := client.RequestSession(cmd.Context(), rehearse.SessionRequest{
		Domain:           rehearse.Domain(sessionDomain),
		CognitiveLoad:    sessionLoad,
		AvailableMinutes: sessionMinutes,
	})
	if err != nil {
		return fmt.Errorf("compose session: %w", err)
	}

	return outputSessionPlan(cmd, plan)
}
