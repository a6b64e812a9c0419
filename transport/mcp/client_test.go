package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/service"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func sampleState() *engine.GameState {
	return &engine.GameState{
		Grid: [][]int{
			{2, 2, 0, 0},
			{0, 4, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 8},
		},
		Width:         4,
		Height:        4,
		Score:         8,
		TileSum:       16,
		EmptyCells:    12,
		Turns:         3,
		ConfigName:    "classic",
		PossibleMoves: []string{"left", "right", "up", "down"},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"echo": body["direction"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var result map[string]string
	err := client.apiCall(context.Background(), "POST", "/api/echo", map[string]string{"direction": "up"}, &result)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if result["echo"] != "up" {
		t.Errorf("Expected echo 'up', got %v", result)
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "json error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]interface{}{"error": "session not found: ab12", "code": 404})
			},
			want: "session not found: ab12",
		},
		{
			name: "plain error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error"))
			},
			want: "API error: 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected %q in error, got: %v", tt.want, err)
			}
		})
	}
}

func TestClient_apiCall_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	if err := NewClient(url).apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for closed server")
	}
}

func TestClient_handleCreateSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "ab12",
			ConfigName: "small",
			GameState:  sampleState(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"config_name": "small",
	}))
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "ab12") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if gotBody["config_id"] != "small" {
		t.Errorf("Expected config_id 'small' in request, got %v", gotBody)
	}
}

func TestClient_handleMove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/ab12/move" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["direction"] != "left" {
			t.Errorf("Expected direction 'left', got %v", body["direction"])
		}
		json.NewEncoder(w).Encode(service.MoveResult{
			Success:   true,
			GameState: sampleState(),
			Step:      &service.StepInfo{Idx: 1, Dir: "left", Changed: true, ScoreBefore: 8, ScoreAfter: 8, EmptyAfter: 12, Success: true},
			Events:    []service.GameEvent{{Type: "move", Message: "Moved left"}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleMove(context.Background(), callTool("move", map[string]interface{}{
		"session_id": "ab12",
		"direction":  "left",
		"intent":     "merge the top row",
	}))
	if err != nil {
		t.Fatalf("handleMove failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Move successful", "move: Moved left", "Turns: 3", "Max tile: 8"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleBulkMove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Moves []string `json:"moves"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Moves) != 2 {
			t.Errorf("Expected 2 moves forwarded, got %v", body.Moves)
		}
		state := sampleState()
		state.GameOver = true
		json.NewEncoder(w).Encode(service.BulkMoveResult{
			MovesExecuted:  1,
			RequestedMoves: 2,
			GameState:      state,
			StoppedReason:  "game over",
			StopReasonCode: "game_over",
			StoppedOnMove:  2,
			StartScore:     4,
			EndScore:       8,
			ScoreDelta:     4,
			GameOver:       true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleBulkMove(context.Background(), callTool("bulk_move", map[string]interface{}{
		"session_id": "ab12",
		"moves":      []interface{}{"up", "left"},
	}))
	if err != nil {
		t.Fatalf("handleBulkMove failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Executed 1/2 moves", "Stopped on move 2", "4 → 8", "GAME OVER"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_handleHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("strategy"); got != "up-left" {
			t.Errorf("Expected strategy query 'up-left', got %q", got)
		}
		json.NewEncoder(w).Encode(service.HintResult{
			SessionID:     "ab12",
			Strategy:      "up-left",
			Move:          "up",
			Turn:          3,
			PossibleMoves: []string{"up", "left"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleHint(context.Background(), callTool("hint", map[string]interface{}{
		"session_id": "ab12",
		"strategy":   "up-left",
	}))
	if err != nil {
		t.Fatalf("handleHint failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "suggests: up") {
		t.Errorf("Expected suggestion in result, got: %s", text)
	}
}

func TestClient_handleAutoMove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["steps"] != float64(3) {
			t.Errorf("Expected steps 3, got %v", body["steps"])
		}
		json.NewEncoder(w).Encode(service.AutoMoveResult{
			Strategy:       "expectimax",
			RequestedMoves: 3,
			MovesExecuted:  3,
			Moves:          []string{"left", "up", "left"},
			GameState:      sampleState(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleAutoMove(context.Background(), callTool("auto_move", map[string]interface{}{
		"session_id": "ab12",
		"steps":      float64(3),
	}))
	if err != nil {
		t.Fatalf("handleAutoMove failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "played 3/3 moves: left,up,left") {
		t.Errorf("Unexpected result: %s", text)
	}
}

func TestClient_ToolErrorsAreResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "session not found: zz", "code": 404})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleGameState(context.Background(), callTool("game_state", map[string]interface{}{
		"session_id": "zz",
	}))
	if err != nil {
		t.Fatalf("Expected tool error as result, got error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected IsError result")
	}
	if text := resultText(t, result); !strings.Contains(text, "session not found") {
		t.Errorf("Unexpected error text: %s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{
		"GAME OBJECTIVE:",
		"MOVEMENT COMMANDS:",
		"MERGING RULES:",
		"[2,2,2,_] moved left gives [4,2,_,_]",
		"GAME OVER:",
		"at most 100 moves",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}

func TestDescribeTile(t *testing.T) {
	state := sampleState()

	tests := []struct {
		name string
		x, y int
		want []string
	}{
		{"mergeable pair", 0, 0, []string{"Cell (0, 0): 2 (2^1)", "up: wall", "right: 2 (can merge)", "down: empty"}},
		{"highest tile", 3, 3, []string{"8 (2^3)", "highest tile", "right: wall", "down: wall"}},
		{"empty cell", 2, 2, []string{"Cell (2, 2): empty", "left: empty"}},
		{"out of bounds", 4, 0, []string{"out of bounds", "Board is 4x4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeTile(state, tt.x, tt.y)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Expected %q in %q", want, got)
				}
			}
		})
	}
}

func TestFormatGameState(t *testing.T) {
	text := formatGameState(sampleState())

	for _, want := range []string{"Turns: 3", "Max tile: 8", "|     2|     2|", "Possible moves: left,right,up,down"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %q", want, text)
		}
	}
	if strings.Contains(text, "GAME OVER") {
		t.Error("Did not expect GAME OVER")
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatHint_GameOver(t *testing.T) {
	text := formatHint(&service.HintResult{Strategy: "expectimax", GameOver: true, Turn: 40})
	if !strings.Contains(text, "game is over after 40 turns") {
		t.Errorf("Unexpected hint text: %s", text)
	}
}
