package main

import (
	"context"
	"fmt"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/solver"
)

// Mover picks the next move for the current remote state. An empty move
// means there is nothing left to play.
type Mover interface {
	NextMove(ctx context.Context, state *engine.GameState) (string, error)
}

// RemoteMover asks the server for a hint before every move
type RemoteMover struct {
	client   *Client
	strategy string
}

func NewRemoteMover(client *Client, strategy string) *RemoteMover {
	return &RemoteMover{client: client, strategy: strategy}
}

func (m *RemoteMover) NextMove(ctx context.Context, state *engine.GameState) (string, error) {
	if state.GameOver {
		return "", nil
	}
	hint, err := m.client.Hint(ctx, m.strategy)
	if err != nil {
		return "", err
	}
	return hint.Move, nil
}

// LocalMover runs the search in this process on the board the server reports
type LocalMover struct {
	strategy solver.Strategy
}

func NewLocalMover(name string, opts solver.Options) (*LocalMover, error) {
	strategy, err := solver.New(name, opts)
	if err != nil {
		return nil, err
	}
	return &LocalMover{strategy: strategy}, nil
}

func (m *LocalMover) NextMove(ctx context.Context, state *engine.GameState) (string, error) {
	if state.GameOver {
		return "", nil
	}
	grid, err := engine.NewGridFromRows(state.Grid)
	if err != nil {
		return "", fmt.Errorf("rebuild board: %w", err)
	}
	if !grid.CanMove() {
		return "", nil
	}
	return m.strategy.NextMove(grid, state.Turns).String(), nil
}
