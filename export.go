package rehearse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ExportVersion is the current version of the deck export format.
const ExportVersion = "1.0"

// DeckExport is the top-level structure for JSON deck exports. Cards and
// review logs round-trip field-for-field through this format.
type DeckExport struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"exported_at"`
	Deck       string      `json:"deck,omitempty"`
	Cards      []Card      `json:"cards"`
	ReviewLogs []ReviewLog `json:"review_logs"`
}

// ExportJSON writes the full card collection and review history as JSON.
func (s *Store) ExportJSON(ctx context.Context, deck string, w io.Writer) error {
	cards, err := s.List("")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logs, err := s.AllLogs()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if cards == nil {
		cards = []Card{}
	}
	if logs == nil {
		logs = []ReviewLog{}
	}

	export := DeckExport{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Deck:       deck,
		Cards:      cards,
		ReviewLogs: logs,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}
