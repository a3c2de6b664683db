// Package store provides deck path and ID management for rehearse.
package store

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDeckRoot returns the root directory for all decks.
// Defaults to ~/.rehearse/decks, falls back to ./.rehearse/decks if home dir unavailable.
func DefaultDeckRoot() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		// Fallback to current working directory
		cwd, _ := os.Getwd()
		return filepath.Join(cwd, ".rehearse", "decks")
	}
	return filepath.Join(home, ".rehearse", "decks")
}

// EncodeDeckPath encodes a deck ID for filesystem use.
// Replaces "/" with "__" for path-style deck IDs.
func EncodeDeckPath(deckID string) string {
	return strings.ReplaceAll(deckID, "/", "__")
}

// DecodeDeckPath decodes an encoded deck path back to a deck ID.
func DecodeDeckPath(encoded string) string {
	return strings.ReplaceAll(encoded, "__", "/")
}

// DeckDBPath returns the full path to a deck's database file.
// Example: DeckDBPath("math/calculus") -> ~/.rehearse/decks/math__calculus/cards.db
func DeckDBPath(deckID string) string {
	encoded := EncodeDeckPath(deckID)
	return filepath.Join(DefaultDeckRoot(), encoded, "cards.db")
}
