package main

import (
	"fmt"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show a card's state and what each rating would do",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showPreview bool

func init() {
	showCmd.Flags().BoolVarP(&showPreview, "preview", "p", false, "Preview the next interval for each rating")
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	card, err := client.GetCard(ctx, args[0])
	if err != nil {
		return fmt.Errorf("show card: %w", err)
	}

	retr, err := client.Retrievability(ctx, card.ID)
	if err != nil {
		return fmt.Errorf("show card: %w", err)
	}

	var preview map[rehearse.Rating]rehearse.Card
	if showPreview {
		preview, err = client.Preview(ctx, card.ID)
		if err != nil {
			return fmt.Errorf("show card: %w", err)
		}
	}

	if outputJSON {
		payload := map[string]interface{}{
			"card":           card,
			"retrievability": retr,
		}
		if preview != nil {
			payload["preview"] = preview
		}
		return outputAsJSON(cmd, payload)
	}

	if err := outputCard(cmd, card); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if card.LastReview != nil {
		fmt.Fprintf(out, "%s %.0f%%\n", renderLabel("Retrievability:"), retr*100)
	}
	if preview != nil {
		fmt.Fprintf(out, "%s\n", renderLabel("If rated now:"))
		for _, r := range []rehearse.Rating{rehearse.Again, rehearse.Hard, rehearse.Good, rehearse.Easy} {
			c := preview[r]
			fmt.Fprintf(out, "  %-6s → %s, %d days\n", r, c.State, c.ScheduledDays)
		}
	}
	return nil
}
