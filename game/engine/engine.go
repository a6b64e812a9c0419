package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	GetGrid() *Grid
	Reset() *GameState
	IsGameOver() bool
	GetScore() int
	GetTurns() int

	// Movement operations
	Move(token string) bool
	Step(d Direction) bool
	CanMove(token string) bool
	GetPossibleMoves() []string

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface
type GameEngine struct {
	grid   *Grid
	state  *GameState
	config *GameConfig
	rng    Rand
}

// NewEngine creates a new game engine with the provided configuration.
// A nil rng gets a randomly seeded generator.
func NewEngine(config *GameConfig, rng Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand()
	}

	grid, err := NewInitialGrid(config, rng)
	if err != nil {
		return nil, err
	}

	engine := &GameEngine{
		grid:   grid,
		config: config,
		rng:    rng,
		state:  InitGameStateFromConfig(config, grid),
	}

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultGameConfig(), nil)
	if err != nil {
		// The default configuration always validates
		panic(err)
	}
	return engine
}

// NewEngineFromGrid wraps an existing grid. The grid is cloned.
func NewEngineFromGrid(config *GameConfig, grid *Grid, rng Rand) (*GameEngine, error) {
	if config == nil {
		config = DefaultGameConfig()
	}
	if grid == nil {
		return nil, fmt.Errorf("grid cannot be nil")
	}
	if rng == nil {
		rng = NewRand()
	}

	g := grid.Clone()
	return &GameEngine{
		grid:   g,
		config: config,
		rng:    rng,
		state:  InitGameStateFromConfig(config, g),
	}, nil
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// GetGrid returns a copy of the current grid
func (e *GameEngine) GetGrid() *Grid {
	return e.grid.Clone()
}

// Reset starts a new board from the configuration
func (e *GameEngine) Reset() *GameState {
	// Preserve cumulative history and totals across resets
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	grid, err := NewInitialGrid(e.config, e.rng)
	if err != nil {
		// Config was validated on the way in
		grid = e.grid.Clone()
		grid.Reset()
	}
	e.grid = grid
	e.state = InitGameStateFromConfig(e.config, grid)

	// Restore cumulative history and totals; clear only the current segment
	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// GetScore returns the highest tile on the board
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetTurns returns the number of successful steps since the last reset
func (e *GameEngine) GetTurns() int {
	return e.state.Turns
}

// Move applies a typed move token. Unknown tokens are ignored and leave the
// board untouched.
func (e *GameEngine) Move(token string) bool {
	d, ok := ParseDirection(token)
	if !ok {
		if e.config != nil && e.config.Messages.Ignored != "" {
			e.state.Message = e.config.Messages.Ignored
		}
		return false
	}
	return e.Step(d)
}

// Step applies a direction and spawns a tile. It returns false once the
// board is stuck.
func (e *GameEngine) Step(d Direction) bool {
	if e.state.GameOver {
		return false
	}

	res, ok := e.grid.StepDetailed(d, e.rng)
	if ok {
		e.state.Turns++
	}
	e.state.refresh(e.grid)

	switch {
	case !ok || !e.grid.CanMove():
		e.state.GameOver = true
		e.state.Message = e.format(e.config.Messages.GameOver, e.state.Score)
	case res.Changed:
		e.state.Message = e.format(e.config.Messages.Moved, d.String(), e.state.Score)
	default:
		e.state.Message = e.format(e.config.Messages.NoEffect, d.String())
	}

	e.state.AddMoveToHistory(d.String(), res.Changed, ok)
	return ok
}

func (e *GameEngine) format(template string, args ...interface{}) string {
	return FormatMessage(template, args...)
}

// CanMove reports whether the token is a direction that would change the board
func (e *GameEngine) CanMove(token string) bool {
	if e.state.GameOver {
		return false
	}

	d, ok := ParseDirection(token)
	if !ok {
		return false
	}

	return e.grid.Clone().ApplyMove(d)
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []string {
	if e.state.GameOver {
		return nil
	}
	return PossibleMoves(e.grid)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a fresh board
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	grid, err := NewInitialGrid(config, e.rng)
	if err != nil {
		return err
	}

	e.config = config
	e.grid = grid
	e.state = InitGameStateFromConfig(config, grid)
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// BulkMove executes multiple moves in sequence, returning success status for each
func (e *GameEngine) BulkMove(moves []string) []bool {
	results := make([]bool, 0, len(moves))

	for _, token := range moves {
		// Stop if game is over
		if e.IsGameOver() {
			break
		}

		success := e.Move(token)
		results = append(results, success)
	}

	return results
}
