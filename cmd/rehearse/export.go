package main

import (
	"fmt"
	"os"

	"github.com/neurolearn/rehearse"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the deck as JSON",
	Long: `Export all cards and review logs as JSON.

Writes to stdout if no file is given.

Example:
  rehearse export deck.json
  rehearse export > deck.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig().WithDefaults()
	store, err := rehearse.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := store.ExportJSON(cmd.Context(), cfg.Deck, out); err != nil {
		return err
	}

	if len(args) == 1 {
		printSuccess(cmd.OutOrStdout(), "Exported deck to %s", args[0])
	}
	return nil
}
