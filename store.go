package rehearse

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/neurolearn/rehearse/internal/store/migrations"
	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// timeFormat preserves timestamps exactly across a store round-trip.
// Fixed-width fractional seconds and UTC normalization keep the stored
// strings lexicographically ordered, which the due-date comparisons in
// SQL rely on.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the local SQLite card database. It implements CardStore.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	path   string
}

// NewStore opens or creates a local card store.
func NewStore(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("store: set goose dialect: %w", err)
	}
	if err := goose.Up(s.db, "."); err != nil {
		return fmt.Errorf("store: run migrations: %w", err)
	}

	// Set schema version if not set
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', ?)
	`, schemaVersion)
	return err
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// CreateCard inserts a new card, assigning a ULID if the ID is empty.
func (s *Store) CreateCard(card Card) (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if !card.Domain.IsValid() {
		return nil, fmt.Errorf("store: unknown domain %q", card.Domain)
	}
	if card.ID == "" {
		card.ID = ulid.Make().String()
	}

	_, err := s.db.Exec(`
		INSERT INTO cards (id, domain, label, state, stability, difficulty, due, last_review, elapsed_days, scheduled_days, reps, lapses, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cardArgs(card)...)
	if err != nil {
		return nil, fmt.Errorf("store: insert card: %w", err)
	}
	return &card, nil
}

// Put upserts a card record.
func (s *Store) Put(card Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	return s.putCard(s.db, card)
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) putCard(ex execer, card Card) error {
	_, err := ex.Exec(`
		INSERT INTO cards (id, domain, label, state, stability, difficulty, due, last_review, elapsed_days, scheduled_days, reps, lapses, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			domain = excluded.domain,
			label = excluded.label,
			state = excluded.state,
			stability = excluded.stability,
			difficulty = excluded.difficulty,
			due = excluded.due,
			last_review = excluded.last_review,
			elapsed_days = excluded.elapsed_days,
			scheduled_days = excluded.scheduled_days,
			reps = excluded.reps,
			lapses = excluded.lapses,
			updated_at = excluded.updated_at
	`, cardArgs(card)...)
	if err != nil {
		return fmt.Errorf("store: upsert card: %w", err)
	}
	return nil
}

func cardArgs(card Card) []any {
	var lastReview *string
	if card.LastReview != nil {
		v := card.LastReview.UTC().Format(timeFormat)
		lastReview = &v
	}
	return []any{
		card.ID,
		string(card.Domain),
		card.Label,
		card.State.String(),
		card.Stability,
		card.Difficulty,
		card.Due.UTC().Format(timeFormat),
		lastReview,
		card.ElapsedDays,
		card.ScheduledDays,
		card.Reps,
		card.Lapses,
		card.CreatedAt.UTC().Format(timeFormat),
		card.UpdatedAt.UTC().Format(timeFormat),
	}
}

const cardColumns = `id, domain, label, state, stability, difficulty, due, last_review, elapsed_days, scheduled_days, reps, lapses, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*Card, error) {
	var c Card
	var domain, state, due, createdAt, updatedAt string
	var lastReview sql.NullString

	err := row.Scan(&c.ID, &domain, &c.Label, &state, &c.Stability, &c.Difficulty,
		&due, &lastReview, &c.ElapsedDays, &c.ScheduledDays, &c.Reps, &c.Lapses,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.Domain = Domain(domain)
	if err := c.State.UnmarshalText([]byte(state)); err != nil {
		return nil, fmt.Errorf("store: card %s: %w", c.ID, err)
	}
	if c.Due, err = time.Parse(timeFormat, due); err != nil {
		return nil, fmt.Errorf("store: card %s: parse due: %w", c.ID, err)
	}
	if lastReview.Valid {
		t, err := time.Parse(timeFormat, lastReview.String)
		if err != nil {
			return nil, fmt.Errorf("store: card %s: parse last_review: %w", c.ID, err)
		}
		c.LastReview = &t
	}
	if c.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("store: card %s: parse created_at: %w", c.ID, err)
	}
	if c.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("store: card %s: parse updated_at: %w", c.ID, err)
	}
	return &c, nil
}

// Get retrieves a card by ID. Returns ErrCardNotFound if absent.
func (s *Store) Get(id string) (*Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	row := s.db.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get card: %w", err)
	}
	return card, nil
}

// QueryDue returns cards due at or before the given time, ordered by due
// date. An empty domain matches all domains.
func (s *Store) QueryDue(before time.Time, domain Domain) ([]Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE due <= ?`
	args := []any{before.UTC().Format(timeFormat)}
	if domain != "" {
		query += ` AND domain = ?`
		args = append(args, string(domain))
	}
	query += ` ORDER BY due ASC`

	return s.queryCards(query, args...)
}

// List returns all cards, optionally filtered by domain, ordered by creation.
func (s *Store) List(domain Domain) ([]Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	query := `SELECT ` + cardColumns + ` FROM cards`
	var args []any
	if domain != "" {
		query += ` WHERE domain = ?`
		args = append(args, string(domain))
	}
	query += ` ORDER BY created_at ASC`

	return s.queryCards(query, args...)
}

func (s *Store) queryCards(query string, args ...any) ([]Card, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query cards: %w", err)
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

// InsertReview atomically persists an updated card and its review log in
// one transaction. This is the primary write path for the review pipeline:
// the card row and the audit log can never diverge.
func (s *Store) InsertReview(card Card, log ReviewLog) (*ReviewLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	if err := s.putCard(tx, card); err != nil {
		return nil, err
	}

	if log.ID == "" {
		log.ID = ulid.Make().String()
	}
	_, err = tx.Exec(`
		INSERT INTO review_logs (id, card_id, rating, state_before, state_after, elapsed_days, scheduled_days, stability, difficulty, reviewed_at)
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
		return nil, fmt.Errorf("store: insert review log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: commit review: %w", err)
	}
	return &log, nil
}

// ReviewLogs returns all review logs for a card, oldest first.
func (s *Store) ReviewLogs(cardID string) ([]ReviewLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.queryLogs(`
		SELECT id, card_id, rating, state_before, state_after, elapsed_days, scheduled_days, stability, difficulty, reviewed_at
		FROM review_logs WHERE card_id = ? ORDER BY reviewed_at ASC
	`, cardID)
}

// AllLogs returns every review log in the store, oldest first.
func (s *Store) AllLogs() ([]ReviewLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.queryLogs(`
		SELECT id, card_id, rating, state_before, state_after, elapsed_days, scheduled_days, stability, difficulty, reviewed_at
		FROM review_logs ORDER BY reviewed_at ASC
	`)
}

func (s *Store) queryLogs(query string, args ...any) ([]ReviewLog, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query review logs: %w", err)
	}
	defer rows.Close()

	var logs []ReviewLog
	for rows.Next() {
		var l ReviewLog
		var rating, stateBefore, stateAfter, reviewedAt string
		err := rows.Scan(&l.ID, &l.CardID, &rating, &stateBefore, &stateAfter,
			&l.ElapsedDays, &l.ScheduledDays, &l.Stability, &l.Difficulty, &reviewedAt)
		if err != nil {
			return nil, fmt.Errorf("store: scan review log: %w", err)
		}
		if err := l.Rating.UnmarshalText([]byte(rating)); err != nil {
			return nil, fmt.Errorf("store: log %s: %w", l.ID, err)
		}
		if err := l.StateBefore.UnmarshalText([]byte(stateBefore)); err != nil {
			return nil, fmt.Errorf("store: log %s: %w", l.ID, err)
		}
		if err := l.StateAfter.UnmarshalText([]byte(stateAfter)); err != nil {
			return nil, fmt.Errorf("store: log %s: %w", l.ID, err)
		}
		if l.ReviewedAt, err = time.Parse(timeFormat, reviewedAt); err != nil {
			return nil, fmt.Errorf("store: log %s: parse reviewed_at: %w", l.ID, err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// StoreStats summarizes the card collection.
type StoreStats struct {
	TotalCards    int            `json:"total_cards"`
	ByState       map[string]int `json:"by_state"`
	ByDomain      map[string]int `json:"by_domain"`
	DueNow        int            `json:"due_now"`
	TotalReviews  int            `json:"total_reviews"`
	AvgStability  float64        `json:"avg_stability"`
	AvgDifficulty float64        `json:"avg_difficulty"`
}

// Stats returns store statistics as of the given time.
func (s *Store) Stats(now time.Time) (*StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	stats := &StoreStats{
		ByState:  make(map[string]int),
		ByDomain: make(map[string]int),
	}

	rows, err := s.db.Query(`SELECT state, COUNT(*) FROM cards GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("store: stats by state: %w", err)
	}
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByState[state] = count
		stats.TotalCards += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`SELECT domain, COUNT(*) FROM cards GROUP BY domain`)
	if err != nil {
		return nil, fmt.Errorf("store: stats by domain: %w", err)
	}
	for rows.Next() {
		var domain string
		var count int
		if err := rows.Scan(&domain, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByDomain[domain] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(`SELECT COUNT(*) FROM cards WHERE due <= ?`, now.UTC().Format(timeFormat)).Scan(&stats.DueNow)
	if err != nil {
		return nil, fmt.Errorf("store: stats due: %w", err)
	}

	err = s.db.QueryRow(`SELECT COUNT(*) FROM review_logs`).Scan(&stats.TotalReviews)
	if err != nil {
		return nil, fmt.Errorf("store: stats reviews: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COALESCE(AVG(stability), 0), COALESCE(AVG(difficulty), 0)
		FROM cards WHERE state != 'New'
	`).Scan(&stats.AvgStability, &stats.AvgDifficulty)
	if err != nil {
		return nil, fmt.Errorf("store: stats averages: %w", err)
	}

	return stats, nil
}

// GetMetadata reads a metadata value by key. Returns "" if absent.
func (s *Store) GetMetadata(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata upserts a metadata key/value pair.
func (s *Store) SetMetadata(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("store: set metadata: %w", err)
	}
	return nil
}
