package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// expectimax auto moves on large boards take a while
			Timeout: 60 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"2048",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`2048 - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Slide the tiles up, down, left or right. Equal tiles that collide merge into their sum.
After every move that changes the board a new 2 appears in a random empty cell.
The game ends when no direction changes the board. Your score is the highest tile.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: session management
- game_state: current board, turn count and possible moves
- move / bulk_move: play moves (up|w, down|s, left|a, right|d)
- reset_game: start a new board in the same session
- move_history: view past moves
- list_configs: available board configurations
- list_strategies: built-in move search strategies
- hint: ask a strategy for the next move without playing it
- auto_move: let a strategy play a number of moves
- game_instructions: full rules
- describe_tile: details about one cell and its neighbours

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

var directionEnum = []string{"up", "down", "left", "right", "w", "a", "s", "d"}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Config ID to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, turn count and the moves that would change it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Direction to slide",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping when the game ends", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directionEnum,
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new board in the session. History is kept.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	// Move search
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_strategies",
		Description: "List the move search strategies available to hint and auto_move",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListStrategies)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Ask a strategy which move it would play next. The board is not changed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"strategy": map[string]interface{}{
					"type":        "string",
					"description": "Strategy name (optional, defaults to the config's strategy or expectimax)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "auto_move",
		Description: "Let a strategy play moves on the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"strategy": map[string]interface{}{
					"type":        "string",
					"description": "Strategy name (optional)",
				},
				"steps": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Number of moves to play (1-%d)", engine.MaxBulkMoves),
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAutoMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Describe one cell of the board: its value, its neighbours and which of them it can merge with.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configName, _ := arguments(request)["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Debug().Str("session", session.ID).Msg("mcp session created")
	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		turns, maxTile := 0, 0
		if s.GameState != nil {
			turns, maxTile = s.GameState.Turns, s.GameState.Score
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Turns: %d, Max tile: %d, Created: %s)\n",
			s.ID, s.ConfigName, turns, maxTile, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	reset, _ := args["reset"].(bool)

	// intent is only there to make the caller think out loud
	if intent, _ := args["intent"].(string); intent != "" {
		log.Debug().Str("session", sessionID).Str("intent", intent).Msg("mcp move")
	}

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	reset, _ := args["reset"].(bool)

	if intent, _ := args["intent"].(string); intent != "" {
		log.Debug().Str("session", sessionID).Str("intent", intent).Msg("mcp bulk move")
	}

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)

	// The live state adds the moves since the last reset
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err == nil {
		result += "\n" + formatCurrentSegment(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d", config.ConfigID, config.Name,
			config.Description, config.Width, config.Height)
		if config.DefaultStrategy != "" {
			fmt.Fprintf(&b, ", Strategy: %s", config.DefaultStrategy)
		}
		b.WriteString("\n\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListStrategies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var strategies []service.StrategyInfo
	if err := c.apiCall(ctx, "GET", "/api/strategies", nil, &strategies); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Strategies:\n\n")
	for _, s := range strategies {
		fmt.Fprintf(&b, "• %s", s.Name)
		if s.Depth > 0 {
			fmt.Fprintf(&b, " (depth %d)", s.Depth)
		}
		fmt.Fprintf(&b, "\n  %s\n", s.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	strategy, _ := args["strategy"].(string)

	path := sessionPath(sessionID, "/hint")
	if strategy != "" {
		path += "?strategy=" + url.QueryEscape(strategy)
	}

	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", path, nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleAutoMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if strategy, _ := args["strategy"].(string); strategy != "" {
		body["strategy"] = strategy
	}
	if steps, ok := args["steps"].(float64); ok {
		body["steps"] = int(steps)
	}

	var result service.AutoMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/auto-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAutoMoveResult(&result)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`2048 - Complete Instructions

GAME OBJECTIVE:
Build the highest tile you can. The score of a game is its highest tile.

BOARD:
A rectangular grid (4x4 by default). Empty cells are blank, every other cell holds a power of two.
Coordinates are (x, y): x is the column, y the row, both 0-based from the top-left corner.

MOVEMENT COMMANDS:
• up / w     slide every tile towards the top row
• down / s   slide every tile towards the bottom row
• left / a   slide every tile towards the left column
• right / d  slide every tile towards the right column
Any other token is ignored and does not count as a move.

MERGING RULES:
• Tiles slide as far as they can in the chosen direction
• Two equal tiles that meet merge into one tile of double the value
• A tile created by a merge cannot merge again in the same move
• The tile nearest the wall merges first: [2,2,2,_] moved left gives [4,2,_,_]

AFTER EACH MOVE:
• If the board changed, a new 2 appears in a random empty cell and the turn counter goes up
• If the board did not change, nothing spawns and the move has no effect

GAME OVER:
The game ends when no direction changes the board.

STRATEGY TIPS:
• Keep your largest tile in a corner and build a descending chain from it
• Prefer moves that keep many cells empty
• Avoid the direction that pulls your largest tile out of its corner
• Use hint to see what a strategy would play, and auto_move to let it play for you
• bulk_move runs at most %d moves per call and stops as soon as the game ends

Good luck reaching 2048!`, engine.MaxBulkMoves)

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}
	x, y := int(xf), int(yf)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeTile(&state, x, y)), nil
}

func describeTile(state *engine.GameState, x, y int) string {
	height := len(state.Grid)
	width := 0
	if height > 0 {
		width = len(state.Grid[0])
	}
	if x < 0 || x >= width || y < 0 || y >= height {
		return fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board is %dx%d (x 0-%d, y 0-%d)",
			x, y, width, height, width-1, height-1)
	}

	var b strings.Builder
	value := state.Grid[y][x]
	fmt.Fprintf(&b, "Cell (%d, %d): ", x, y)
	if value == 0 {
		b.WriteString("empty\n")
	} else {
		fmt.Fprintf(&b, "%d (2^%d)\n", value, engine.TileExponent(value))
		if value == state.Score {
			b.WriteString("This is the highest tile on the board.\n")
		}
	}

	b.WriteString("\nNeighbours:\n")
	neighbours := []struct {
		name   string
		dx, dy int
	}{
		{"up", 0, -1},
		{"down", 0, 1},
		{"left", -1, 0},
		{"right", 1, 0},
	}
	for _, n := range neighbours {
		nx, ny := x+n.dx, y+n.dy
		if nx < 0 || nx >= width || ny < 0 || ny >= height {
			fmt.Fprintf(&b, "- %s: wall\n", n.name)
			continue
		}
		nv := state.Grid[ny][nx]
		switch {
		case nv == 0:
			fmt.Fprintf(&b, "- %s: empty\n", n.name)
		case value != 0 && nv == value:
			fmt.Fprintf(&b, "- %s: %d (can merge)\n", n.name, nv)
		default:
			fmt.Fprintf(&b, "- %s: %d\n", n.name, nv)
		}
	}
	return b.String()
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Turns: %d | Max tile: %d | Tile sum: %d | Empty: %d | Moves: %d\n\n",
		state.Turns, state.Score, state.TileSum, state.EmptyCells, state.TotalMoves)

	b.WriteString(formatBoard(state.Grid))

	if len(state.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s", strings.Join(state.PossibleMoves, ","))
	}
	if state.GameOver {
		b.WriteString("\n💀 GAME OVER")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}
	return b.String()
}

// formatBoard renders rows with a fixed cell width so columns line up
func formatBoard(rows [][]int) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString("|")
		for _, v := range row {
			if v == 0 {
				b.WriteString("     .|")
				continue
			}
			fmt.Fprintf(&b, " %5d|", v)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatEvents(b *strings.Builder, events []service.GameEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s: %s\n", event.Type, event.Message)
	}
}

func formatStepLine(s service.StepInfo) string {
	status := "✓"
	if !s.Changed {
		status = "✗"
	}
	return fmt.Sprintf("%d. %s %s max=%d→%d empty=%d\n",
		s.Idx, s.Dir, status, s.ScoreBefore, s.ScoreAfter, s.EmptyAfter)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move had no effect\n")
	}
	if result.Step != nil {
		b.WriteString("Step: ")
		b.WriteString(formatStepLine(*result.Step))
	}
	formatEvents(&b, result.Events)

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)
	fmt.Fprintf(&b, "Executed %d/%d moves", result.MovesExecuted, result.RequestedMoves)
	if result.IgnoredMoves > 0 {
		fmt.Fprintf(&b, " (%d ignored)", result.IgnoredMoves)
	}
	b.WriteString("\n")
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}
	fmt.Fprintf(&b, "Max tile: %d → %d (+%d)\n", result.StartScore, result.EndScore, result.ScoreDelta)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	b.WriteString("\n")
	formatEvents(&b, result.Events)

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHint(hint *service.HintResult) string {
	if hint.GameOver || hint.Move == "" {
		return fmt.Sprintf("Strategy %s has no move: the game is over after %d turns.", hint.Strategy, hint.Turn)
	}
	return fmt.Sprintf("Strategy %s suggests: %s\nTurn: %d\nPossible moves: %s",
		hint.Strategy, hint.Move, hint.Turn, strings.Join(hint.PossibleMoves, ","))
}

func formatAutoMoveResult(result *service.AutoMoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Strategy %s played %d/%d moves: %s\n",
		result.Strategy, result.MovesExecuted, result.RequestedMoves, strings.Join(result.Moves, ","))
	b.WriteString("\n")
	formatEvents(&b, result.Events)
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d) | Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Changed {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s [Max tile: %d]\n", move.MoveNumber, move.Action, status, move.ScoreAfter)
	}
	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment | Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}

	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		status := "✓"
		if !move.Changed {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s [Max tile: %d]\n", i+1, move.Action, status, move.ScoreAfter)
	}
	return b.String()
}
