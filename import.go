package rehearse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MergeStrategy defines how to handle existing cards during import.
type MergeStrategy string

const (
	// MergeStrategySkip skips cards that already exist (by ID).
	MergeStrategySkip MergeStrategy = "skip"
	// MergeStrategyReplace replaces existing cards with imported versions.
	MergeStrategyReplace MergeStrategy = "replace"
	// MergeStrategyMerge keeps whichever copy of a card was updated more
	// recently. Review logs are always unioned by ID.
	MergeStrategyMerge MergeStrategy = "merge"
)

// ImportResult summarizes an import operation.
type ImportResult struct {
	Total    int      `json:"total"`
	Created  int      `json:"created"`
	Replaced int      `json:"replaced"`
	Merged   int      `json:"merged"`
	Skipped  int      `json:"skipped"`
	Logs     int      `json:"logs"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportJSON reads a deck export and merges it into the store. Review logs
// are imported for cards that exist after the card merge; duplicate log
// IDs are skipped.
func (s *Store) ImportJSON(ctx context.Context, r io.Reader, strategy MergeStrategy) (*ImportResult, error) {
	if strategy == "" {
		strategy = MergeStrategySkip
	}
	switch strategy {
	case MergeStrategySkip, MergeStrategyReplace, MergeStrategyMerge:
	default:
		return nil, fmt.Errorf("import: unknown merge strategy %q", strategy)
	}

	var export DeckExport
	dec := json.NewDecoder(r)
	if err := dec.Decode(&export); err != nil {
		return nil, fmt.Errorf("import: decode: %w", err)
	}
	if export.Version == "" {
		return nil, errors.New("import: missing export version")
	}

	result := &ImportResult{Total: len(export.Cards)}

	present := make(map[string]bool, len(export.Cards))
	for _, card := range export.Cards {
		existing, err := s.Get(card.ID)
		switch {
		case errors.Is(err, ErrCardNotFound):
			if _, cerr := s.CreateCard(card); cerr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("card %s: %v", card.ID, cerr))
				continue
			}
			result.Created++
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("card %s: %v", card.ID, err))
			continue
		case strategy == MergeStrategyReplace:
			card.CreatedAt = existing.CreatedAt
			if err := s.Put(card); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("card %s: %v", card.ID, err))
				continue
			}
			result.Replaced++
		case strategy == MergeStrategyMerge:
			// Last writer wins; ties keep the local copy.
			if !card.UpdatedAt.After(existing.UpdatedAt) {
				result.Skipped++
				break
			}
			card.CreatedAt = existing.CreatedAt
			if err := s.Put(card); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("card %s: %v", card.ID, err))
				continue
			}
			result.Merged++
		default:
			result.Skipped++
		}
		present[card.ID] = true
	}

	for _, log := range export.ReviewLogs {
		if !present[log.CardID] {
			continue
		}
		if err := s.importLog(log); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("log %s: %v", log.ID, err))
			continue
		}
		result.Logs++
	}

	return result, nil
}

// importLog inserts a review log row directly, ignoring duplicates by ID.
func (s *Store) importLog(log ReviewLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO review_logs (id, card_id, rating, state_before, state_after, elapsed_days, scheduled_days, stability, difficulty, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		log.ID,
		log.CardID,
		log.Rating.String(),
		log.StateBefore.String(),
		log.StateAfter.String(),
		log.ElapsedDays,
		log.ScheduledDays,
		log.Stability,
		log.Difficulty,
		log.ReviewedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("store: import review log: %w", err)
	}
	return nil
}
