package main

import (
	rehearsemcp "github.com/neurolearn/rehearse/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for coding agent integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio.

This allows coding agents like Claude Code to schedule and review cards
through Rehearse tools directly.

Configuration in Claude Code (~/.claude/claude_desktop_config.json):

  {
    "mcpServers": {
      "rehearse": {
        "command": "rehearse",
        "args": ["mcp"],
        "env": {
          "REHEARSE_DECK": "default"
        }
      }
    }
  }

Environment variables:
  REHEARSE_DB_PATH    Path to local SQLite database (optional)
  REHEARSE_DECK       Deck ID (default: "default")
  REHEARSE_RETENTION  Target recall probability (default: 0.9)`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// The client persists for the server lifetime.
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	server := rehearsemcp.NewServer(client)
	return server.Run()
}
