// Package mcp provides optional MCP (Model Context Protocol) tool adapters for Rehearse.
// This package allows Rehearse to be integrated with MCP-compatible agent frameworks.
//
// This package offers two approaches:
//
//  1. Full MCP Server (server.go) - RECOMMENDED
//     Use NewServer() for a complete MCP server implementation using mcp-go.
//     This provides full MCP protocol support with stdio transport.
//
//  2. Registry Pattern (tools.go) - LEGACY/ALTERNATIVE
//     Use RegisterTools() for framework-agnostic integration where you
//     provide your own MCP registry implementation. This is useful for
//     custom agent frameworks that already have MCP infrastructure.
//
// For most use cases, prefer the full MCP server approach.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neurolearn/rehearse"
)

// Registry is an interface for MCP tool registration.
// Implement this interface to integrate Rehearse with your MCP framework.
type Registry interface {
	Register(tool Tool)
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string
	Description string
	Parameters  Schema
	Handler     Handler
}

// Schema defines the JSON schema for tool parameters.
type Schema map[string]ParameterDef

// ParameterDef defines a single parameter.
type ParameterDef struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Handler processes a tool call with raw JSON parameters.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// RegisterTools registers the Rehearse tools with the given registry.
func RegisterTools(registry Registry, client *rehearse.Client) {
	registry.Register(Tool{
		Name:        "rehearse_add_card",
		Description: "Add a new card to the deck in the New state, due immediately",
		Parameters: Schema{
			"domain": {
				Type:        "string",
				Description: "Review domain: flashcard or logic",
				Required:    true,
			},
			"label": {
				Type:        "string",
				Description: "Human-readable label for the card",
			},
		},
		Handler: makeAddCardHandler(client),
	})

	registry.Register(Tool{
		Name:        "rehearse_submit_review",
		Description: "Submit a review rating for a card and get its next due date",
		Parameters: Schema{
			"card_id": {
				Type:        "string",
				Description: "Card ID to review",
				Required:    true,
			},
			"rating": {
				Type:        "string",
				Description: "Flashcard rating: Again, Hard, Good, or Easy",
			},
			"score": {
				Type:        "number",
				Description: "Logic performance score 1-5",
			},
			"load": {
				Type:        "number",
				Description: "Current cognitive load 0.0-1.0 (default: 0.5)",
			},
		},
		Handler: makeSubmitReviewHandler(client),
	})

	registry.Register(Tool{
		Name:        "rehearse_request_session",
		Description: "Compose a review session from due cards, sized by cognitive load and available time",
		Parameters: Schema{
			"domain": {
				Type:        "string",
				Description: "Restrict to a domain: flashcard or logic (default: all)",
			},
			"load": {
				Type:        "number",
				Description: "Current cognitive load 0.0-1.0 (default: 0.5)",
			},
			"minutes": {
				Type:        "number",
				Description: "Available time in minutes (default: 30)",
			},
		},
		Handler: makeRequestSessionHandler(client),
	})
}

// addCardParams represents the parameters for rehearse_add_card.
type addCardParams struct {
	Domain string `json:"domain"`
	Label  string `json:"label"`
}

func makeAddCardHandler(client *rehearse.Client) Handler {
	return func(ctx context.Context, rawParams json.RawMessage) (interface{}, error) {
		var params addCardParams
		if err := json.Unmarshal(rawParams, &params); err != nil {
			return nil, fmt.Errorf("parse params: %w", err)
		}

		domain := rehearse.Domain(params.Domain)
		if !domain.IsValid() {
			return nil, fmt.Errorf("invalid domain: %s", params.Domain)
		}

		return client.AddCard(ctx, domain, params.Label)
	}
}

// submitReviewParams represents the parameters for rehearse_submit_review.
type submitReviewParams struct {
	CardID string   `json:"card_id"`
	Rating string   `json:"rating"`
	Score  int      `json:"score"`
	Load   *float64 `json:"load"`
}

func makeSubmitReviewHandler(client *rehearse.Client) Handler {
	return func(ctx context.Context, rawParams json.RawMessage) (interface{}, error) {
		var params submitReviewParams
		if err := json.Unmarshal(rawParams, &params); err != nil {
			return nil, fmt.Errorf("parse params: %w", err)
		}

		if params.CardID == "" {
			return nil, fmt.Errorf("card_id is required")
		}
		if (params.Rating == "") == (params.Score == 0) {
			return nil, fmt.Errorf("provide exactly one of rating or score")
		}

		var domainRating rehearse.DomainRating
		if params.Rating != "" {
			var r rehearse.Rating
			if err := r.UnmarshalText([]byte(params.Rating)); err != nil {
				return nil, err
			}
			domainRating = rehearse.FlashcardRating(r)
		} else {
			domainRating = rehearse.LogicScore(params.Score)
		}

		load := 0.5
		if params.Load != nil {
			load = *params.Load
		}

		return client.SubmitReview(ctx, params.CardID, domainRating, load)
	}
}

// requestSessionParams represents the parameters for rehearse_request_session.
type requestSessionParams struct {
	Domain  string   `json:"domain"`
	Load    *float64 `json:"load"`
	Minutes *float64 `json:"minutes"`
}

func makeRequestSessionHandler(client *rehearse.Client) Handler {
	return func(ctx context.Context, rawParams json.RawMessage) (interface{}, error) {
		var params requestSessionParams
		if err := json.Unmarshal(rawParams, &params); err != nil {
			return nil, fmt.Errorf("parse params: %w", err)
		}

		req := rehearse.SessionRequest{
			CognitiveLoad:    0.5,
			AvailableMinutes: 30,
		}
		if params.Domain != "" {
			domain := rehearse.Domain(params.Domain)
			if !domain.IsValid() {
				return nil, fmt.Errorf("invalid domain: %s", params.Domain)
			}
			req.Domain = domain
		}
		if params.Load != nil {
			req.CognitiveLoad = *params.Load
		}
		if params.Minutes != nil {
			req.AvailableMinutes = *params.Minutes
		}

		return client.RequestSession(ctx, req)
	}
}
