package main

import (
	"fmt"
	"os"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a deck export",
	Long: `Import cards and review logs from a JSON deck export.

Existing cards are skipped by default; pass --replace to overwrite them, or
--merge to keep whichever copy was updated more recently.

Example:
  rehearse import deck.json
  rehearse import deck.json --replace
  rehearse import deck.json --merge`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	importReplace bool
	importMerge   bool
)

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace existing cards instead of skipping them")
	importCmd.Flags().BoolVar(&importMerge, "merge", false, "Keep the more recently updated copy of each card")
	importCmd.MarkFlagsMutuallyExclusive("replace", "merge")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().WithDefaults()
	store, err := rehearse.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	strategy := rehearse.MergeStrategySkip
	switch {
	case importReplace:
		strategy = rehearse.MergeStrategyReplace
	case importMerge:
		strategy = rehearse.MergeStrategyMerge
	}

	result, err := store.ImportJSON(cmd.Context(), f, strategy)
	if err != nil {
		return err
	}

	if outputJSON {
		return outputAsJSON(cmd, result)
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Imported %d cards (%d created, %d replaced, %d merged, %d skipped), %d logs",
		result.Total, result.Created, result.Replaced, result.Merged, result.Skipped, result.Logs)
	for _, e := range result.Errors {
		printWarning(out, "%s", e)
	}
	return nil
}
