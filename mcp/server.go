package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/neurolearn/rehearse"
)

// Server wraps the MCP server with Rehearse tools.
type Server struct {
	client    *rehearse.Client
	mcpServer *server.MCPServer
	session   *ReviewSession // Tracks cards handed out this session
}

// ToolResult represents the result of a tool call.
type ToolResult struct {
	Content string
	IsError bool
}

// ToolInfo represents a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates a new MCP server with Rehearse tools registered.
func NewServer(client *rehearse.Client) *Server {
	s := &Server{
		client:  client,
		session: NewReviewSession(),
	}

	// Create MCP server with metadata
	s.mcpServer = server.NewMCPServer(
		"rehearse",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register tools
	s.registerTools()

	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout.
// It uses os.Stdin and os.Stdout internally via the mcp-go ServeStdio function.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// HandleMessage processes a raw JSON-RPC message and returns a response.
// This is primarily for testing the MCP protocol layer.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcpServer.HandleMessage(ctx, message)
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{Name: "rehearse_add_card", Description: "Add a new card to the deck in the New state, due immediately"},
		{Name: "rehearse_submit_review", Description: "Submit a review rating for a card and get its next due date"},
		{Name: "rehearse_request_session", Description: "Compose a review session from due cards, sized by cognitive load and available time"},
		{Name: "rehearse_due", Description: "List cards currently due for review"},
		{Name: "rehearse_preview", Description: "Preview the scheduling outcome of each rating without committing a review"},
		{Name: "rehearse_progress", Description: "Summarize mastery distribution, at-risk cards, and performance trend"},
	}
}

// CallTool executes a tool by name with the given arguments.
// This is used for testing and direct invocation.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	switch name {
	case "rehearse_add_card":
		return s.handleAddCard(ctx, args)
	case "rehearse_submit_review":
		return s.handleSubmitReview(ctx, args)
	case "rehearse_request_session":
		return s.handleRequestSession(ctx, args)
	case "rehearse_due":
		return s.handleDue(ctx, args)
	case "rehearse_preview":
		return s.handlePreview(ctx, args)
	case "rehearse_progress":
		return s.handleProgress(ctx, args)
	default:
		return &ToolResult{Content: fmt.Sprintf("unknown tool: %s", name), IsError: true}, nil
	}
}

func (s *Server) registerTools() {
	// rehearse_add_card
	s.mcpServer.AddTool(mcp.NewTool("rehearse_add_card",
		mcp.WithDescription("Add a new card to the deck. The card starts in the New state and is due immediately."),
		mcp.WithString("domain",
			mcp.Description("Review domain: flashcard or logic"),
			mcp.Required(),
		),
		mcp.WithString("label",
			mcp.Description("Human-readable label for the card"),
		),
	), s.mcpHandleAddCard)

	// rehearse_submit_review
	s.mcpServer.AddTool(mcp.NewTool("rehearse_submit_review",
		mcp.WithDescription("Submit a review for a card. Provide either a rating (flashcard cards) or a score (logic cards), not both. The card may be referenced by session ref (C1, C2, ...) or full card ID."),
		mcp.WithString("card",
			mcp.Description("Session ref (C1, C2) or card ID"),
			mcp.Required(),
		),
		mcp.WithString("rating",
			mcp.Description("Flashcard rating: Again, Hard, Good, or Easy"),
		),
		mcp.WithNumber("score",
			mcp.Description("Logic performance score 1-5"),
		),
		mcp.WithNumber("load",
			mcp.Description("Current cognitive load 0.0-1.0 (default: 0.5)"),
		),
	), s.mcpHandleSubmitReview)

	// rehearse_request_session
	s.mcpServer.AddTool(mcp.NewTool("rehearse_request_session",
		mcp.WithDescription("Compose a review session from due cards, sized by cognitive load and available time. Returns cards with session refs (C1, C2, ...) usable in rehearse_submit_review."),
		mcp.WithString("domain",
			mcp.Description("Restrict to a domain: flashcard or logic (default: all)"),
		),
		mcp.WithNumber("load",
			mcp.Description("Current cognitive load 0.0-1.0 (default: 0.5)"),
		),
		mcp.WithNumber("minutes",
			mcp.Description("Available time in minutes (default: 30)"),
		),
	), s.mcpHandleRequestSession)

	// rehearse_due
	s.mcpServer.AddTool(mcp.NewTool("rehearse_due",
		mcp.WithDescription("List cards currently due for review. This is a read-only operation."),
		mcp.WithString("domain",
			mcp.Description("Restrict to a domain: flashcard or logic (default: all)"),
		),
	), s.mcpHandleDue)

	// rehearse_preview
	s.mcpServer.AddTool(mcp.NewTool("rehearse_preview",
		mcp.WithDescription("Preview the next interval each of the four ratings would produce for a card, without committing anything."),
		mcp.WithString("card",
			mcp.Description("Session ref (C1, C2) or card ID"),
			mcp.Required(),
		),
	), s.mcpHandlePreview)

	// rehearse_progress
	s.mcpServer.AddTool(mcp.NewTool("rehearse_progress",
		mcp.WithDescription("Summarize mastery distribution, at-risk cards, and performance trend across the deck. This is a read-only operation."),
	), s.mcpHandleProgress)
}

// MCP handlers that wrap internal handlers

func (s *Server) mcpHandleAddCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleAddCard(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleSubmitReview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleSubmitReview(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleRequestSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleRequestSession(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleDue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleDue(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handlePreview(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func (s *Server) mcpHandleProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.handleProgress(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	return toMCPResult(result), nil
}

func toMCPResult(r *ToolResult) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: r.Content,
			},
		},
	}
	if r.IsError {
		result.IsError = true
	}
	return result
}

// Internal handlers

func (s *Server) handleAddCard(ctx context.Context, args map[string]any) (*ToolResult, error) {
	domainStr, ok := args["domain"].(string)
	if !ok || domainStr == "" {
		return &ToolResult{Content: "domain is required", IsError: true}, nil
	}

	domain := rehearse.Domain(domainStr)
	if !domain.IsValid() {
		return &ToolResult{Content: fmt.Sprintf("invalid domain: %s (want flashcard or logic)", domainStr), IsError: true}, nil
	}

	label, _ := args["label"].(string)

	card, err := s.client.AddCard(ctx, domain, label)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("add card failed: %v", err), IsError: true}, nil
	}

	ref := s.session.Track(card.ID)
	return &ToolResult{Content: fmt.Sprintf("Added %s card [%s] %s\n  ID: %s\n  Due: now", card.Domain, ref, card.Label, card.ID)}, nil
}

func (s *Server) handleSubmitReview(ctx context.Context, args map[string]any) (*ToolResult, error) {
	cardArg, ok := args["card"].(string)
	if !ok || cardArg == "" {
		return &ToolResult{Content: "card is required", IsError: true}, nil
	}
	cardID := s.resolveCard(cardArg)

	ratingStr, hasRating := args["rating"].(string)
	scoreNum, hasScore := args["score"].(float64)

	if hasRating == hasScore {
		return &ToolResult{Content: "provide exactly one of rating or score", IsError: true}, nil
	}

	var domainRating rehearse.DomainRating
	if hasRating {
		var r rehearse.Rating
		if err := r.UnmarshalText([]byte(ratingStr)); err != nil {
			return &ToolResult{Content: fmt.Sprintf("invalid rating: %s (want Again, Hard, Good, or Easy)", ratingStr), IsError: true}, nil
		}
		domainRating = rehearse.FlashcardRating(r)
	} else {
		domainRating = rehearse.LogicScore(int(scoreNum))
	}

	load := 0.5
	if l, ok := args["load"].(float64); ok {
		load = l
	}

	result, err := s.client.SubmitReview(ctx, cardID, domainRating, load)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("review failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: formatReviewResult(result)}, nil
}

func (s *Server) handleRequestSession(ctx context.Context, args map[string]any) (*ToolResult, error) {
	req := rehearse.SessionRequest{
		CognitiveLoad:    0.5,
		AvailableMinutes: 30,
	}

	if domainStr, ok := args["domain"].(string); ok && domainStr != "" {
		domain := rehearse.Domain(domainStr)
		if !domain.IsValid() {
			return &ToolResult{Content: fmt.Sprintf("invalid domain: %s (want flashcard or logic)", domainStr), IsError: true}, nil
		}
		req.Domain = domain
	}
	if load, ok := args["load"].(float64); ok {
		req.CognitiveLoad = load
	}
	if minutes, ok := args["minutes"].(float64); ok {
		req.AvailableMinutes = minutes
	}

	plan, err := s.client.RequestSession(ctx, req)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("session failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: s.formatSessionPlan(plan)}, nil
}

func (s *Server) handleDue(ctx context.Context, args map[string]any) (*ToolResult, error) {
	var domain rehearse.Domain
	if domainStr, ok := args["domain"].(string); ok && domainStr != "" {
		domain = rehearse.Domain(domainStr)
		if !domain.IsValid() {
			return &ToolResult{Content: fmt.Sprintf("invalid domain: %s (want flashcard or logic)", domainStr), IsError: true}, nil
		}
	}

	cards, err := s.client.Due(ctx, domain)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("due query failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: s.formatCardList(cards)}, nil
}

func (s *Server) handlePreview(ctx context.Context, args map[string]any) (*ToolResult, error) {
	cardArg, ok := args["card"].(string)
	if !ok || cardArg == "" {
		return &ToolResult{Content: "card is required", IsError: true}, nil
	}
	cardID := s.resolveCard(cardArg)

	outcomes, err := s.client.Preview(ctx, cardID)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("preview failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: formatPreview(outcomes)}, nil
}

func (s *Server) handleProgress(ctx context.Context, args map[string]any) (*ToolResult, error) {
	report, err := s.client.Progress(ctx)
	if err != nil {
		return &ToolResult{Content: fmt.Sprintf("progress failed: %v", err), IsError: true}, nil
	}

	return &ToolResult{Content: formatProgress(report)}, nil
}

// resolveCard converts a session ref (C1, C2) to a card ID.
// Inputs that are not session refs pass through as card IDs.
func (s *Server) resolveCard(ref string) string {
	if id, ok := s.session.Resolve(ref); ok {
		return id
	}
	return ref
}

// Formatting functions

func formatReviewResult(result *rehearse.ReviewResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Reviewed [%s] %s\n", shortID(result.Card.ID), result.Log.Rating))
	sb.WriteString(fmt.Sprintf("  State: %s -> %s\n", result.Log.StateBefore, result.Log.StateAfter))
	sb.WriteString(fmt.Sprintf("  Stability: %.2f  Difficulty: %.2f\n", result.Card.Stability, result.Card.Difficulty))
	if result.FinalDays != result.RawDays {
		sb.WriteString(fmt.Sprintf("  Next review: %d days (load-adjusted from %d)\n", result.FinalDays, result.RawDays))
	} else {
		sb.WriteString(fmt.Sprintf("  Next review: %d days\n", result.FinalDays))
	}
	sb.WriteString(fmt.Sprintf("  Due: %s", result.Card.Due.Format("2006-01-02")))
	if result.Fallback {
		sb.WriteString("\n  Note: stored card failed validation; linear reschedule applied")
	}
	return sb.String()
}

func (s *Server) formatSessionPlan(plan *rehearse.SessionPlan) string {
	if len(plan.Items) == 0 {
		return "No cards due for this session.\n\n" + plan.Reasoning
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session of %d cards:\n\n", len(plan.Items)))
	for _, card := range plan.Items {
		ref := s.session.Track(card.ID)
		sb.WriteString(fmt.Sprintf("[%s] %s (%s)\n", ref, cardTitle(card), card.Domain))
		sb.WriteString(fmt.Sprintf("    State: %s  Difficulty: %.1f\n", card.State, card.Difficulty))
	}
	sb.WriteString("\n" + plan.Reasoning + "\n\n")
	sb.WriteString("Use rehearse_submit_review with session refs (C1, C2, ...) to record outcomes.")
	return sb.String()
}

func (s *Server) formatCardList(cards []rehearse.Card) string {
	if len(cards) == 0 {
		return "No cards due."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d cards due:\n\n", len(cards)))
	for _, card := range cards {
		ref := s.session.Track(card.ID)
		sb.WriteString(fmt.Sprintf("[%s] %s (%s, %s)\n", ref, cardTitle(card), card.Domain, card.State))
	}
	return sb.String()
}

func formatPreview(outcomes map[rehearse.Rating]rehearse.Card) string {
	ratings := make([]rehearse.Rating, 0, len(outcomes))
	for r := range outcomes {
		ratings = append(ratings, r)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i] < ratings[j] })

	var sb strings.Builder
	sb.WriteString("Preview of each rating:\n")
	for _, r := range ratings {
		card := outcomes[r]
		sb.WriteString(fmt.Sprintf("  %-5s -> %d days (stability %.2f, state %s)\n",
			r, card.ScheduledDays, card.Stability, card.State))
	}
	return sb.String()
}

func formatProgress(report *rehearse.ProgressReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Progress across %d cards:\n", report.TotalCards))
	sb.WriteString(fmt.Sprintf("  Mastery: %d beginner, %d intermediate, %d advanced, %d expert\n",
		report.Mastery[rehearse.MasteryBeginner],
		report.Mastery[rehearse.MasteryIntermediate],
		report.Mastery[rehearse.MasteryAdvanced],
		report.Mastery[rehearse.MasteryExpert]))
	sb.WriteString(fmt.Sprintf("  Trend: %s (recent %.0f%%, older %.0f%%)\n",
		report.Trend, report.RecentSuccessRate*100, report.OlderSuccessRate*100))

	if len(report.AtRisk) > 0 {
		sb.WriteString(fmt.Sprintf("  At risk: %d cards\n", len(report.AtRisk)))
		for _, ar := range report.AtRisk {
			sb.WriteString(fmt.Sprintf("    - %s (success %.0f%%", atRiskTitle(ar), ar.SuccessRate*100))
			if ar.DueSoon {
				sb.WriteString(", due within 24h")
			}
			sb.WriteString(")\n")
		}
	} else {
		sb.WriteString("  At risk: none\n")
	}
	return sb.String()
}

func cardTitle(card rehearse.Card) string {
	if card.Label != "" {
		return card.Label
	}
	return shortID(card.ID)
}

func atRiskTitle(ar rehearse.AtRiskCard) string {
	if ar.Label != "" {
		return ar.Label
	}
	return shortID(ar.CardID)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
