package store

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrInvalidDeckID indicates the deck ID format is invalid.
var ErrInvalidDeckID = errors.New("invalid deck ID: must be lowercase alphanumeric with hyphens, 1-4 path segments")

// deckIDRegex validates deck ID format.
// Format: <segment>[/<segment>]*
// - 1-4 path segments separated by /
// - Segments: lowercase alphanumeric and hyphens (a-z, 0-9, -)
// - Segment length: 1-64 characters
// - No leading/trailing hyphens, no consecutive hyphens
var deckIDRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,62}[a-z0-9])?(\/[a-z0-9]([a-z0-9-]{0,62}[a-z0-9])?){0,3}$`)

// ValidateDeckID validates a deck ID format.
// Returns ErrInvalidDeckID if the ID doesn't match the required pattern.
func ValidateDeckID(id string) error {
	if id == "" {
		return ErrInvalidDeckID
	}
	if len(id) > 256 {
		return ErrInvalidDeckID
	}
	// Consecutive hyphens are not caught by the regex
	if strings.Contains(id, "--") {
		return ErrInvalidDeckID
	}
	if !deckIDRegex.MatchString(id) {
		return ErrInvalidDeckID
	}
	return nil
}

// ResolveDeck determines the deck ID to use based on priority chain.
// Priority: explicit > REHEARSE_DECK env > "default"
func ResolveDeck(explicit string) (string, error) {
	if explicit != "" {
		if err := ValidateDeckID(explicit); err != nil {
			return "", fmt.Errorf("invalid deck ID %q: %w", explicit, err)
		}
		return explicit, nil
	}

	if envDeck := os.Getenv("REHEARSE_DECK"); envDeck != "" {
		if err := ValidateDeckID(envDeck); err != nil {
			return "", fmt.Errorf("invalid REHEARSE_DECK %q: %w", envDeck, err)
		}
		return envDeck, nil
	}

	return "default", nil
}
