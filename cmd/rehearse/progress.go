package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show mastery distribution, at-risk cards, and trend",
	RunE:  runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := client.Progress(cmd.Context())
	if err != nil {
		return fmt.Errorf("analyze progress: %w", err)
	}

	return outputProgress(cmd, report)
}
