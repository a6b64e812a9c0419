package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/simulation"
	"github.com/wricardo/g2048/transport/websocket"
)

// firstCellRand always spawns a 2 in the first empty cell
type firstCellRand struct{}

func (firstCellRand) Intn(int) int      { return 0 }
func (firstCellRand) Float64() float64 { return 0 }

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "g2048" {
		t.Errorf("Expected app name g2048, got %s", AppName)
	}
}

func TestNewApp(t *testing.T) {
	app := newApp()

	want := map[string]bool{"serve": false, "mcp": false, "play": false, "simulate": false}
	for _, cmd := range app.Commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected %s command", name)
		}
	}
	if app.Action == nil {
		t.Error("Expected a default action")
	}
}

func TestInitializeServices(t *testing.T) {
	configDir := t.TempDir()
	resultsDir := filepath.Join(t.TempDir(), "results")

	svc, err := initializeServices(configDir, resultsDir)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if svc.game == nil || svc.sessions == nil || svc.configs == nil || svc.results == nil {
		t.Fatal("Expected every service to be initialized")
	}
	if _, err := os.Stat(resultsDir); err != nil {
		t.Errorf("Expected results directory to be created: %v", err)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, err := initializeServices("/non/existent/path", t.TempDir())
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestNewHandler_MCP(t *testing.T) {
	svc, err := initializeServices(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("initializeServices: %v", err)
	}
	handler := newHandler(svc, websocket.NewHub(), "http://127.0.0.1:0")

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/health", nil))
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rr.Code)
		}
	})

	t.Run("initialize", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), `"2048"`) {
			t.Errorf("Expected server name in response, got %s", rr.Body.String())
		}
	})

	t.Run("get not allowed", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/mcp", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rr.Code)
		}
	})
}

func TestPlayInteractive(t *testing.T) {
	grid, err := engine.NewGridFromRows([][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 4},
	})
	if err != nil {
		t.Fatalf("NewGridFromRows: %v", err)
	}
	eng, err := engine.NewEngineFromGrid(engine.DefaultGameConfig(), grid, firstCellRand{})
	if err != nil {
		t.Fatalf("NewEngineFromGrid: %v", err)
	}

	var out bytes.Buffer
	// "x" and "jump" are ignored; left merges the last row and fills the gap, leaving no move
	in := strings.NewReader("x\njump\nleft\nup\n")
	if err := playInteractive(context.Background(), eng, in, &out); err != nil {
		t.Fatalf("playInteractive: %v", err)
	}

	if eng.GetTurns() != 1 {
		t.Errorf("Expected 1 turn, got %d", eng.GetTurns())
	}
	if !strings.HasSuffix(out.String(), gameOverBanner+"\n") {
		t.Errorf("Expected game over banner at the end, got:\n%s", out.String())
	}
	if got := eng.GetGrid().Rows()[3]; got[2] != 8 || got[3] != 2 {
		t.Errorf("Unexpected last row %v", got)
	}
}

func TestPlayInteractive_EndOfInput(t *testing.T) {
	eng, err := engine.NewEngine(engine.DefaultGameConfig(), engine.NewSeededRand(7))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	var out bytes.Buffer
	if err := playInteractive(context.Background(), eng, strings.NewReader("w\na\n"), &out); err != nil {
		t.Fatalf("playInteractive: %v", err)
	}
	if strings.Contains(out.String(), gameOverBanner) {
		t.Error("Did not expect game over after two moves")
	}
	if eng.GetTurns() != 2 {
		t.Errorf("Expected 2 turns, got %d", eng.GetTurns())
	}
}

func TestLoadGameConfig(t *testing.T) {
	cfg, err := loadGameConfig("/non/existent/path", "")
	if err != nil {
		t.Fatalf("Expected built-in config, got error: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 4 {
		t.Errorf("Expected 4x4 built-in config, got %dx%d", cfg.Width, cfg.Height)
	}

	if _, err := loadGameConfig("/non/existent/path", "classic"); err == nil {
		t.Error("Expected error for a named config without a directory")
	}
}

func TestPrintReport(t *testing.T) {
	results := []simulation.GameResult{
		{Strategy: "up-left", Score: 64, Turns: 80},
		{Strategy: "up-left", Score: 128, Turns: 120},
		{Strategy: "up-left", Score: 64, Turns: 80},
	}
	report := &simulation.Report{
		Config:     "Classic",
		Width:      4,
		Height:     4,
		Iterations: 3,
		Results:    results,
		Summary:    simulation.Summarize(results),
	}

	var out bytes.Buffer
	printReport(&out, report)
	text := out.String()

	for _, want := range []string{"config Classic (4x4)", "up-left: best 128", "(64, 80): 2", "(128, 120): 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in report:\n%s", want, text)
		}
	}
	if strings.Index(text, "(64, 80)") > strings.Index(text, "(128, 120)") {
		t.Error("Expected most frequent outcome first")
	}
}

func TestPrintStrategies(t *testing.T) {
	var out bytes.Buffer
	printStrategies(&out)

	for _, name := range []string{"up-left", "expectimax", "look_ahead_simple"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("Expected %s in strategy list", name)
		}
	}
}

func TestBoardPrinter(t *testing.T) {
	var out bytes.Buffer
	grid, _ := engine.NewGridFromRows([][]int{{2, 0}, {0, 4}})

	boardPrinter(&out)(simulation.TurnEvent{Strategy: "random", Iteration: 0, Turn: 3, Move: engine.Left, Grid: grid})
	if !strings.Contains(out.String(), "random #0 turn 3: left") {
		t.Errorf("Unexpected output: %s", out.String())
	}
}
