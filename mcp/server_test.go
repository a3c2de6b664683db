package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neurolearn/rehearse"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := rehearse.Config{
		DBPath:    filepath.Join(t.TempDir(), "cards.db"),
		Scheduler: rehearse.Parameters{DisableFuzzing: true},
	}
	client, err := rehearse.NewClient(cfg)
	if err != nil {
		t.Fatalf("rehearse.New failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewServer(client)
}

func addCard(t *testing.T, s *Server, domain string) string {
	t.Helper()

	result, err := s.CallTool(context.Background(), "rehearse_add_card", map[string]any{
		"domain": domain,
		"label":  "test card",
	})
	if err != nil {
		t.Fatalf("rehearse_add_card failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("rehearse_add_card errored: %s", result.Content)
	}

	// The response carries "ID: <ulid>" on its own line.
	for _, line := range strings.Split(result.Content, "\n") {
		line = strings.TrimSpace(line)
		if id, ok := strings.CutPrefix(line, "ID: "); ok {
			return id
		}
	}
	t.Fatalf("no card ID in response: %s", result.Content)
	return ""
}

// TestListTools verifies all six tools are advertised.
func TestListTools(t *testing.T) {
	s := newTestServer(t)

	tools := s.ListTools()
	if len(tools) != 6 {
		t.Fatalf("tools = %d, want 6", len(tools))
	}

	want := map[string]bool{
		"rehearse_add_card":        true,
		"rehearse_submit_review":   true,
		"rehearse_request_session": true,
		"rehearse_due":             true,
		"rehearse_preview":         true,
		"rehearse_progress":        true,
	}
	for _, tool := range tools {
		if !want[tool.Name] {
			t.Errorf("unexpected tool %q", tool.Name)
		}
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
	}
}

// TestCallTool_UnknownTool verifies unknown names return a tool error, not
// a transport error.
func TestCallTool_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	result, err := s.CallTool(context.Background(), "rehearse_nuke", nil)
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.IsError {
		t.Error("unknown tool should report an error result")
	}
}

// TestCallTool_AddCard verifies the add flow and input validation.
func TestCallTool_AddCard(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	id := addCard(t, s, "flashcard")
	if id == "" {
		t.Fatal("no card ID returned")
	}

	result, err := s.CallTool(ctx, "rehearse_add_card", map[string]any{"domain": "essay"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.IsError || !strings.Contains(result.Content, "invalid domain") {
		t.Errorf("bad domain result = %+v", result)
	}

	result, err = s.CallTool(ctx, "rehearse_add_card", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.IsError {
		t.Error("missing domain should error")
	}
}

// TestCallTool_SubmitReview_Rating verifies a flashcard review by rating
// name, addressed by session ref.
func TestCallTool_SubmitReview_Rating(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	addCard(t, s, "flashcard")

	// The add handler tracked the card as C1.
	result, err := s.CallTool(ctx, "rehearse_submit_review", map[string]any{
		"card":   "C1",
		"rating": "Good",
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("review errored: %s", result.Content)
	}
	if !strings.Contains(result.Content, "Good") || !strings.Contains(result.Content, "Next review:") {
		t.Errorf("unexpected response: %s", result.Content)
	}
}

// TestCallTool_SubmitReview_Score verifies a logic review by numeric score.
func TestCallTool_SubmitReview_Score(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	id := addCard(t, s, "logic")

	result, err := s.CallTool(ctx, "rehearse_submit_review", map[string]any{
		"card":  id,
		"score": float64(5),
		"load":  0.5,
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("review errored: %s", result.Content)
	}
	if !strings.Contains(result.Content, "Easy") {
		t.Errorf("score 5 should translate to Easy: %s", result.Content)
	}
}

// TestCallTool_SubmitReview_Validation verifies the rating/score exclusivity
// and the missing-card case.
func TestCallTool_SubmitReview_Validation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	id := addCard(t, s, "flashcard")

	cases := []map[string]any{
		{"card": id},                                       // neither
		{"card": id, "rating": "Good", "score": float64(3)}, // both
		{"rating": "Good"},                                 // no card
		{"card": id, "rating": "Okay"},                     // bad rating
	}
	for _, args := range cases {
		result, err := s.CallTool(ctx, "rehearse_submit_review", args)
		if err != nil {
			t.Fatalf("CallTool failed: %v", err)
		}
		if !result.IsError {
			t.Errorf("args %v should produce an error result", args)
		}
	}

	result, err := s.CallTool(ctx, "rehearse_submit_review", map[string]any{
		"card": "missing", "rating": "Good",
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.IsError || !strings.Contains(result.Content, "review failed") {
		t.Errorf("missing card result = %+v", result)
	}
}

// TestCallTool_RequestSession verifies session composition and ref
// assignment for later reviews.
func TestCallTool_RequestSession(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		addCard(t, s, "logic")
	}

	result, err := s.CallTool(ctx, "rehearse_request_session", map[string]any{
		"domain":  "logic",
		"load":    0.5,
		"minutes": float64(60),
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("session errored: %s", result.Content)
	}
	if !strings.Contains(result.Content, "Session of 4 cards") {
		t.Errorf("unexpected response: %s", result.Content)
	}
	if !strings.Contains(result.Content, "[C1]") {
		t.Errorf("session should reuse the existing refs: %s", result.Content)
	}
}

// TestCallTool_Due verifies the due listing.
func TestCallTool_Due(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.CallTool(ctx, "rehearse_due", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.Content != "No cards due." {
		t.Errorf("empty due = %q", result.Content)
	}

	addCard(t, s, "flashcard")
	result, err = s.CallTool(ctx, "rehearse_due", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !strings.Contains(result.Content, "1 cards due") {
		t.Errorf("due response = %q", result.Content)
	}
}

// TestCallTool_Preview verifies the four-outcome preview.
func TestCallTool_Preview(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	addCard(t, s, "flashcard")

	result, err := s.CallTool(ctx, "rehearse_preview", map[string]any{"card": "C1"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("preview errored: %s", result.Content)
	}
	for _, name := range []string{"Again", "Hard", "Good", "Easy"} {
		if !strings.Contains(result.Content, name) {
			t.Errorf("preview missing %s: %s", name, result.Content)
		}
	}
}

// TestCallTool_Progress verifies the progress summary.
func TestCallTool_Progress(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	addCard(t, s, "flashcard")

	result, err := s.CallTool(ctx, "rehearse_progress", map[string]any{})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("progress errored: %s", result.Content)
	}
	if !strings.Contains(result.Content, "Progress across 1 cards") {
		t.Errorf("progress response = %q", result.Content)
	}
}
