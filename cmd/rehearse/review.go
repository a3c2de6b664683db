package main

import (
	"fmt"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review <card-id>",
	Short: "Submit a review rating for a card",
	Long: `Submit a review and reschedule the card.

Flashcards take one of the canonical ratings via --rating; logic-training
exercises take a 1-5 performance score via --score (1=failed ... 5=perfect).

Example:
  rehearse review 01J8K... --rating Good
  rehearse review 01J8K... --score 4 --load 0.85`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

var (
	reviewRating string
	reviewScore  int
	reviewLoad   float64
)

func init() {
	reviewCmd.Flags().StringVarP(&reviewRating, "rating", "r", "", "Flashcard rating: Again, Hard, Good, or Easy")
	reviewCmd.Flags().IntVarP(&reviewScore, "score", "s", 0, "Logic-training score (1-5)")
	reviewCmd.Flags().Float64VarP(&reviewLoad, "load", "l", 0.5, "Current cognitive load estimate (0.0-1.0)")
	reviewCmd.MarkFlagsMutuallyExclusive("rating", "score")
	reviewCmd.MarkFlagsOneRequired("rating", "score")
}

func runReview(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	var domainRating rehearse.DomainRating
	if reviewRating != "" {
		var r rehearse.Rating
		if err := r.UnmarshalText([]byte(reviewRating)); err != nil {
			return err
		}
		domainRating = rehearse.FlashcardRating(r)
	} else {
		domainRating = rehearse.LogicScore(reviewScore)
	}

	result, err := client.SubmitReview(cmd.Context(), args[0], domainRating, reviewLoad)
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}

	return outputReviewResult(cmd, result)
}
