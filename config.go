package rehearse

import (
	"os"
	"strconv"

	"github.com/neurolearn/rehearse/internal/store"
)

// Config configures the rehearse client.
type Config struct {
	// DBPath is the path to the local SQLite card database.
	// If empty, derived from Deck.
	DBPath string

	// Deck is the deck ID to operate against.
	// If empty, resolved as REHEARSE_DECK env > "default".
	Deck string

	// Scheduler holds the engine parameters. Zero values use defaults.
	Scheduler Parameters

	// LinearFallback enables the degraded-mode path: when a stored card
	// fails its invariant checks, the review is rescheduled linearly at
	// the previous interval instead of being rejected. Every fallback is
	// logged with the invariant that failed.
	LinearFallback bool

	// Debug enables verbose logging of clock skew and fallback events.
	Debug bool

	// DebugLogPath is the path to write debug logs.
	// Defaults to stderr if empty.
	DebugLogPath string
}

// DefaultConfig returns a Config with sensible defaults.
// Deck defaults to "default", and DBPath is derived from Deck.
func DefaultConfig() Config {
	return Config{
		Deck:      "default",
		DBPath:    store.DeckDBPath("default"),
		Scheduler: DefaultParameters(),
	}
}

// ConfigFromEnv reads configuration from environment variables.
//
//	REHEARSE_DB_PATH    → DBPath
//	REHEARSE_DECK       → Deck
//	REHEARSE_RETENTION  → Scheduler.DesiredRetention
//	REHEARSE_DEBUG      → Debug (any non-empty value enables)
//	REHEARSE_DEBUG_LOG  → DebugLogPath
func ConfigFromEnv() Config {
	cfg := Config{
		DBPath:       os.Getenv("REHEARSE_DB_PATH"),
		Deck:         os.Getenv("REHEARSE_DECK"),
		Debug:        os.Getenv("REHEARSE_DEBUG") != "",
		DebugLogPath: os.Getenv("REHEARSE_DEBUG_LOG"),
	}
	if v := os.Getenv("REHEARSE_RETENTION"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scheduler.DesiredRetention = r
		}
	}
	return cfg
}

// Validate checks the configuration for errors.
// Returns *ValidationError for invalid fields.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return &ValidationError{Field: "DBPath", Message: "required: path to SQLite database"}
	}
	if c.Deck != "" {
		if err := store.ValidateDeckID(c.Deck); err != nil {
			return &ValidationError{Field: "Deck", Message: err.Error()}
		}
	}
	if err := c.Scheduler.withDefaults().Validate(); err != nil {
		return &ValidationError{Field: "Scheduler", Message: err.Error()}
	}
	return nil
}

// WithDefaults fills in default values for unset fields.
// Deck resolution: explicit Deck field > REHEARSE_DECK env > "default".
// An invalid REHEARSE_DECK falls back to "default"; an invalid explicit
// Deck survives here and is rejected by Validate.
// DBPath is derived from the resolved deck if not explicitly set.
func (c Config) WithDefaults() Config {
	if c.Deck == "" {
		resolved, err := store.ResolveDeck("")
		if err == nil {
			c.Deck = resolved
		} else {
			c.Deck = "default"
		}
	}
	if c.DBPath == "" {
		c.DBPath = store.DeckDBPath(c.Deck)
	}
	c.Scheduler = c.Scheduler.withDefaults()
	return c
}
