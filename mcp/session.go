package mcp

import (
	"fmt"
	"sync"
)

// ReviewSession tracks cards handed out during an MCP session and assigns
// them short references (C1, C2, C3...). Agents can submit reviews using
// these refs instead of full card IDs. The counter increments globally
// across session and due listings so refs stay unambiguous.
type ReviewSession struct {
	mu      sync.Mutex
	refs    map[string]string // session ref (C1, C2) -> card ID
	reverse map[string]string // card ID -> session ref
	counter int
}

// NewReviewSession creates a new session tracker.
func NewReviewSession() *ReviewSession {
	return &ReviewSession{
		refs:    make(map[string]string),
		reverse: make(map[string]string),
	}
}

// Track adds a card to the session and returns its session reference.
// Tracking the same card again returns the existing ref.
func (s *ReviewSession) Track(cardID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := s.reverse[cardID]; ok {
		return ref
	}

	s.counter++
	ref := fmt.Sprintf("C%d", s.counter)
	s.refs[ref] = cardID
	s.reverse[cardID] = ref
	return ref
}

// Resolve converts a session reference to a card ID.
// Returns false if the ref doesn't exist in this session.
func (s *ReviewSession) Resolve(ref string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.refs[ref]
	return id, ok
}

// All returns a copy of all tracked session entries.
func (s *ReviewSession) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]string, len(s.refs))
	for ref, id := range s.refs {
		result[ref] = id
	}
	return result
}

// Clear resets the session tracking, including the counter.
func (s *ReviewSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs = make(map[string]string)
	s.reverse = make(map[string]string)
	s.counter = 0
}
