// Package mcp exposes the 2048 REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two HTTP
// requests against a running API server, and the JSON answers are rendered
// as text for the agent.
//
// Tools:
//   - create_session, get_session, list_sessions
//   - game_state, move, bulk_move, reset_game, move_history
//   - list_configs
//   - list_strategies, hint, auto_move
//   - game_instructions, describe_tile
//
// API errors come back as tool results with IsError set, never as Go errors,
// so the agent can read them and recover.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// The serve command also answers JSON-RPC posts on /mcp by passing each
// body to the MCPServer's HandleMessage.
package mcp
