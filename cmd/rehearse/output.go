package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

// outputAsJSON writes any value as formatted JSON to the command's stdout.
func outputAsJSON(cmd *cobra.Command, v interface{}) error {
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError prints an error to stderr.
func outputError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}

// outputCard prints a single card in the configured format.
func outputCard(cmd *cobra.Command, card *rehearse.Card) error {
	if outputJSON {
		return outputAsJSON(cmd, card)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", renderLabel("Card:"), card.ID)
	if card.Label != "" {
		fmt.Fprintf(out, "%s %s\n", renderLabel("Label:"), card.Label)
	}
	fmt.Fprintf(out, "%s %s (%s)\n", renderLabel("State:"), card.State, card.Domain)
	if card.State != rehearse.New {
		fmt.Fprintf(out, "%s %.2f days\n", renderLabel("Stability:"), card.Stability)
		fmt.Fprintf(out, "%s %.2f\n", renderLabel("Difficulty:"), card.Difficulty)
	}
	fmt.Fprintf(out, "%s %s\n", renderLabel("Due:"), card.Due.Local().Format(time.RFC1123))
	fmt.Fprintf(out, "%s %d reviews, %d lapses\n", renderLabel("History:"), card.Reps, card.Lapses)
	return nil
}

// outputReviewResult prints the outcome of a submitted review.
func outputReviewResult(cmd *cobra.Command, result *rehearse.ReviewResult) error {
	if outputJSON {
		return outputAsJSON(cmd, result)
	}
	out := cmd.OutOrStdout()

	if result.Fallback {
		printWarning(out, "card state was invalid; rescheduled linearly at the previous interval")
	}

	printSuccess(out, "Reviewed %s: %s → %s", result.Card.ID, result.Log.StateBefore, result.Log.StateAfter)
	if result.FinalDays != result.RawDays {
		fmt.Fprintf(out, "  next review in %d days (%d before load adjustment)\n", result.FinalDays, result.RawDays)
	} else {
		fmt.Fprintf(out, "  next review in %d days\n", result.FinalDays)
	}
	fmt.Fprintf(out, "  due %s\n", result.Card.Due.Local().Format(time.RFC1123))
	return nil
}

// outputCardList prints a list of cards, one line each.
func outputCardList(cmd *cobra.Command, cards []rehearse.Card) error {
	if outputJSON {
		if cards == nil {
			cards = []rehearse.Card{}
		}
		return outputAsJSON(cmd, cards)
	}
	out := cmd.OutOrStdout()

	if len(cards) == 0 {
		fmt.Fprintln(out, "No cards due.")
		return nil
	}

	for _, c := range cards {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		fmt.Fprintf(out, "%-10s %-12s d=%.1f  %s\n", c.State, c.Domain, c.Difficulty, label)
	}
	return nil
}

// outputSessionPlan prints a composed session.
func outputSessionPlan(cmd *cobra.Command, plan *rehearse.SessionPlan) error {
	if outputJSON {
		return outputAsJSON(cmd, plan)
	}
	out := cmd.OutOrStdout()

	if len(plan.Items) == 0 {
		fmt.Fprintln(out, "Nothing to review.")
		printMuted(out, plan.Reasoning)
		return nil
	}

	printInfo(out, "Session: %d items", len(plan.Items))
	printMuted(out, plan.Reasoning)
	fmt.Fprintln(out)
	for i, c := range plan.Items {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		fmt.Fprintf(out, "%2d. [%s] %s\n", i+1, c.Domain, label)
	}
	return nil
}

// outputProgress prints a progress report.
func outputProgress(cmd *cobra.Command, report *rehearse.ProgressReport) error {
	if outputJSON {
		return outputAsJSON(cmd, report)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %d\n", renderLabel("Cards:"), report.TotalCards)
	fmt.Fprintf(out, "%s %s\n", renderLabel("Trend:"), report.Trend)

	fmt.Fprintf(out, "%s\n", renderLabel("Mastery:"))
	for _, level := range []rehearse.MasteryLevel{
		rehearse.MasteryBeginner,
		rehearse.MasteryIntermediate,
		rehearse.MasteryAdvanced,
		rehearse.MasteryExpert,
	} {
		fmt.Fprintf(out, "  %-12s %d\n", level, report.Mastery[level])
	}

	if len(report.AtRisk) > 0 {
		printWarning(out, "%d cards at risk of lapsing:", len(report.AtRisk))
		for _, r := range report.AtRisk {
			label := r.Label
			if label == "" {
				label = r.CardID
			}
			fmt.Fprintf(out, "  %s (recent success %.0f%%)\n", label, r.SuccessRate*100)
		}
	}
	return nil
}
