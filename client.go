package rehearse

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CardStore is the persistence collaborator consumed by the Client. The
// core never reaches around it: callers fetch cards through it, the review
// pipeline writes updated cards and logs back through it. *Store satisfies
// this interface.
type CardStore interface {
	CreateCard(card Card) (*Card, error)
	Get(id string) (*Card, error)
	Put(card Card) error
	QueryDue(before time.Time, domain Domain) ([]Card, error)
	List(domain Domain) ([]Card, error)
	InsertReview(card Card, log ReviewLog) (*ReviewLog, error)
	ReviewLogs(cardID string) ([]ReviewLog, error)
	AllLogs() ([]ReviewLog, error)
	Close() error
}

// Client is the main interface for driving reviews. It orchestrates the
// rating translator, the scheduling engine, the load-adaptive interval
// adjuster, and the card store.
//
// The Client serializes store access internally, but scheduling the same
// card from multiple goroutines still races on reps/lapses between read
// and write; keep a single writer per card upstream.
type Client struct {
	store  CardStore
	engine *Engine
	clock  Clock
	debug  *DebugLogger
	config Config
}

// Option customizes a Client.
type Option func(*Client)

// WithClock replaces the system clock, for deterministic tests.
func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithStore replaces the SQLite-backed store with a custom CardStore.
func WithStore(store CardStore) Option {
	return func(c *Client) { c.store = store }
}

// NewClient creates a rehearse client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := NewEngine(cfg.Scheduler)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	debug, err := NewDebugLogger(cfg.Debug, cfg.DebugLogPath)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	c := &Client{
		engine: engine,
		clock:  SystemClock(),
		debug:  debug,
		config: cfg,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		store, err := NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("client: %w", err)
		}
		c.store = store
	}

	return c, nil
}

// Close releases the store and debug logger.
func (c *Client) Close() error {
	err := c.store.Close()
	if derr := c.debug.Close(); derr != nil && err == nil {
		err = derr
	}
	return err
}

// Engine returns the client's scheduling engine.
func (c *Client) Engine() *Engine { return c.engine }

// AddCard creates a new card in the New state, due immediately.
func (c *Client) AddCard(ctx context.Context, domain Domain, label string) (*Card, error) {
	if !domain.IsValid() {
		return nil, fmt.Errorf("client: unknown domain %q", domain)
	}
	card := NewCard("", domain, label, c.clock.Now())
	return c.store.CreateCard(card)
}

// ReviewResult is the outcome of one submitted review.
type ReviewResult struct {
	Card      Card      `json:"card"`
	Log       ReviewLog `json:"log"`
	RawDays   int       `json:"raw_days"`   // engine interval before load adjustment
	FinalDays int       `json:"final_days"` // interval after load adjustment
	Fallback  bool      `json:"fallback"`   // degraded-mode linear reschedule applied
}

// SubmitReview is the single entry point for processing a review:
// translate the domain rating, schedule through the engine, scale the
// interval by cognitive load, and persist the card and log atomically.
//
// The stored stability/difficulty stay load-independent; only the due date
// reflects the adjustment.
func (c *Client) SubmitReview(ctx context.Context, cardID string, domainRating DomainRating, load float64) (*ReviewResult, error) {
	rating, err := TranslateRating(domainRating)
	if err != nil {
		return nil, err
	}

	card, err := c.store.Get(cardID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	if card.LastReview != nil && now.Before(*card.LastReview) {
		c.debug.LogClockSkew(card.ID, now, *card.LastReview)
	}

	updated, log, err := c.engine.Schedule(*card, rating, now)
	fallback := false
	if err != nil {
		if !c.config.LinearFallback || !errors.Is(err, ErrInvalidCardState) {
			return nil, err
		}
		var inv *InvariantError
		if errors.As(err, &inv) {
			c.debug.LogFallback(card.ID, inv.Invariant, inv.Detail)
		} else {
			c.debug.LogFallback(card.ID, "unknown", err.Error())
		}
		updated, log = linearReschedule(*card, rating, now)
		fallback = true
	}

	rawDays := updated.ScheduledDays
	finalDays, err := AdjustInterval(rawDays, load, c.engine.Parameters().MaxInterval)
	if err != nil {
		return nil, err
	}
	if finalDays != rawDays {
		updated.ScheduledDays = finalDays
		updated.Due = now.AddDate(0, 0, finalDays)
	}

	stored, err := c.store.InsertReview(updated, log)
	if err != nil {
		return nil, err
	}

	return &ReviewResult{
		Card:      updated,
		Log:       *stored,
		RawDays:   rawDays,
		FinalDays: finalDays,
		Fallback:  fallback,
	}, nil
}

// linearReschedule is the explicit degraded-mode path: when a stored card
// fails its invariant checks, the review still counts and the card is
// rescheduled at its previous interval (minimum one day) without touching
// the corrupted memory estimates. Never silent; callers see Fallback=true
// and the debug log names the invariant.
func linearReschedule(card Card, rating Rating, now time.Time) (Card, ReviewLog) {
	stateBefore := card.State
	interval := card.ScheduledDays
	if interval < 1 {
		interval = 1
	}

	card.ScheduledDays = interval
	card.Due = now.AddDate(0, 0, interval)
	card.LastReview = &now
	card.Reps++
	card.UpdatedAt = now

	log := ReviewLog{
		CardID:        card.ID,
		Rating:        rating,
		StateBefore:   stateBefore,
		StateAfter:    card.State,
		ScheduledDays: interval,
		Stability:     card.Stability,
		Difficulty:    card.Difficulty,
		ReviewedAt:    now,
	}
	return card, log
}

// SessionRequest configures RequestSession.
type SessionRequest struct {
	Domain           Domain  // empty matches all domains; profile falls back to flashcard bounds
	CognitiveLoad    float64 // [0, 1]
	AvailableMinutes float64
}

// RequestSession selects and orders due cards into a review session.
func (c *Client) RequestSession(ctx context.Context, req SessionRequest) (*SessionPlan, error) {
	now := c.clock.Now()
	due, err := c.store.QueryDue(now, req.Domain)
	if err != nil {
		return nil, err
	}

	profile := ProfileForDomain(req.Domain)
	plan, err := ComposeSession(due, req.CognitiveLoad, req.AvailableMinutes, profile, now)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Preview returns the card states that each of the four ratings would
// produce, without committing anything.
func (c *Client) Preview(ctx context.Context, cardID string) (map[Rating]Card, error) {
	card, err := c.store.Get(cardID)
	if err != nil {
		return nil, err
	}
	return c.engine.Preview(*card, c.clock.Now())
}

// Retrievability returns the card's current estimated recall probability.
func (c *Client) Retrievability(ctx context.Context, cardID string) (float64, error) {
	card, err := c.store.Get(cardID)
	if err != nil {
		return 0, err
	}
	return c.engine.Retrievability(*card, c.clock.Now()), nil
}

// Progress derives a read-only progress report over the whole collection.
func (c *Client) Progress(ctx context.Context) (*ProgressReport, error) {
	cards, err := c.store.List("")
	if err != nil {
		return nil, err
	}
	logs, err := c.store.AllLogs()
	if err != nil {
		return nil, err
	}
	report := AnalyzeProgress(cards, logs, c.clock.Now())
	return &report, nil
}

// GetCard fetches a card by ID.
func (c *Client) GetCard(ctx context.Context, cardID string) (*Card, error) {
	return c.store.Get(cardID)
}

// Due returns the cards due now, optionally filtered by domain.
func (c *Client) Due(ctx context.Context, domain Domain) ([]Card, error) {
	return c.store.QueryDue(c.clock.Now(), domain)
}
