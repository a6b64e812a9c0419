package main

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/wricardo/g2048/api"
	"github.com/wricardo/g2048/game/config"
	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/service"
	"github.com/wricardo/g2048/game/session"
	"github.com/wricardo/g2048/game/solver"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	seed := uint64(0)
	sessions := session.NewManagerWithRand(func() engine.Rand {
		seed++
		return engine.NewSeededRand(seed)
	})

	server := httptest.NewServer(api.NewServer(service.NewGameService(sessions, configs, nil), nil))
	t.Cleanup(server.Close)
	return server
}

func TestClient(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	state, err := client.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if client.SessionID() == "" {
		t.Fatal("Expected session ID")
	}
	if state.Width != 4 || state.Height != 4 {
		t.Errorf("Expected 4x4 board, got %dx%d", state.Width, state.Height)
	}

	hint, err := client.Hint(ctx, "up-left")
	if err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if hint.Strategy != "up-left" || hint.Move == "" {
		t.Errorf("Unexpected hint %+v", hint)
	}

	result, err := client.Move(ctx, "left")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if result.GameState == nil {
		t.Fatal("Expected game state in move result")
	}

	state, err = client.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if state.Turns != 0 {
		t.Errorf("Expected 0 turns after reset, got %d", state.Turns)
	}

	if _, err := client.Hint(ctx, "no-such-strategy"); err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("Expected 400 error for unknown strategy, got %v", err)
	}

	other := NewClient(server.URL)
	if _, err := other.Resume(ctx, "zzzz"); err == nil {
		t.Error("Expected error resuming a missing session")
	}
}

func TestPlayGames(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	movers := map[string]func(*Client) (Mover, error){
		"remote": func(c *Client) (Mover, error) { return NewRemoteMover(c, "up-left"), nil },
		"local": func(c *Client) (Mover, error) {
			return NewLocalMover("closest_best_simple", solver.Options{Rand: engine.NewSeededRand(3)})
		},
	}

	for name, build := range movers {
		t.Run(name, func(t *testing.T) {
			client := NewClient(server.URL)
			if _, err := client.CreateSession(ctx, ""); err != nil {
				t.Fatalf("CreateSession: %v", err)
			}

			summary, err := playGames(ctx, client, func() (Mover, error) { return build(client) }, PlayOptions{
				Games:    2,
				MaxMoves: 20,
			})
			if err != nil {
				t.Fatalf("playGames: %v", err)
			}
			if len(summary.Games) != 2 {
				t.Fatalf("Expected 2 games, got %d", len(summary.Games))
			}
			for _, g := range summary.Games {
				if g.Moves == 0 || g.Moves > 20 {
					t.Errorf("Expected 1-20 moves, got %d", g.Moves)
				}
				// 20 moves leave too many tiles on a 4x4 board for all of them to be 2s
				if g.Score < 4 {
					t.Errorf("Expected a merged tile, got max %d", g.Score)
				}
			}
			if summary.Best.Score < 4 {
				t.Errorf("Unexpected best %+v", summary.Best)
			}
		})
	}
}

func TestPlayGames_StopsAtTarget(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	client := NewClient(server.URL)
	if _, err := client.CreateSession(ctx, ""); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	summary, err := playGames(ctx, client, func() (Mover, error) { return NewRemoteMover(client, "up-left"), nil }, PlayOptions{
		Games:    5,
		MaxMoves: 20,
		Target:   4,
	})
	if err != nil {
		t.Fatalf("playGames: %v", err)
	}
	if !summary.Reached {
		t.Error("Expected target to be reached")
	}
	if len(summary.Games) != 1 {
		t.Errorf("Expected to stop after the first game, played %d", len(summary.Games))
	}
}

func TestLocalMover(t *testing.T) {
	mover, err := NewLocalMover("up-left", solver.Options{})
	if err != nil {
		t.Fatalf("NewLocalMover: %v", err)
	}
	ctx := context.Background()

	move, err := mover.NextMove(ctx, &engine.GameState{Grid: [][]int{
		{0, 0},
		{2, 0},
	}})
	if err != nil {
		t.Fatalf("NextMove: %v", err)
	}
	if move != "up" {
		t.Errorf("Expected up, got %q", move)
	}

	stuck := &engine.GameState{Grid: [][]int{
		{2, 4},
		{4, 2},
	}}
	if move, _ := mover.NextMove(ctx, stuck); move != "" {
		t.Errorf("Expected no move on a stuck board, got %q", move)
	}

	if _, err := NewLocalMover("nope", solver.Options{}); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}

func TestOpenSession(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()
	t.Chdir(t.TempDir())

	first := NewClient(server.URL)
	if err := openSession(ctx, first, "", ""); err != nil {
		t.Fatalf("openSession: %v", err)
	}
	data, err := os.ReadFile(sessionFile)
	if err != nil {
		t.Fatalf("Expected session file: %v", err)
	}
	if string(data) != first.SessionID() {
		t.Errorf("Expected %s saved, got %s", first.SessionID(), data)
	}

	// The saved session is resumed
	second := NewClient(server.URL)
	if err := openSession(ctx, second, "", ""); err != nil {
		t.Fatalf("openSession: %v", err)
	}
	if second.SessionID() != first.SessionID() {
		t.Errorf("Expected resumed session %s, got %s", first.SessionID(), second.SessionID())
	}

	// An expired session is replaced
	third := NewClient(server.URL)
	if err := openSession(ctx, third, "gone", ""); err != nil {
		t.Fatalf("openSession: %v", err)
	}
	if third.SessionID() == "gone" || third.SessionID() == "" {
		t.Errorf("Expected a new session, got %q", third.SessionID())
	}
}
