package engine

import "strings"

// Direction is one of the four cardinal moves
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

const (
	// Validation constants
	MinGridSize    = 2
	MaxGridSize    = 16
	MaxSearchDepth = 5
	MaxBulkMoves   = 100

	// Spawn policy
	SpawnLowValue       = 2
	SpawnHighValue      = 4
	SpawnLowProbability = 0.9

	WebSocketBufferSize = 256
)

// Cycle is the fixed direction order used for tie-break rotation and fallbacks
var Cycle = [4]Direction{Up, Left, Down, Right}

// String returns the canonical move token for the direction
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Delta returns the column and row step of the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// MarshalText encodes the direction as its move token
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts any token ParseDirection accepts
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return &UnknownDirectionError{Token: string(text)}
	}
	*d = parsed
	return nil
}

// ParseDirection maps a typed move token to a Direction.
// Accepted tokens are up|w, down|s, left|a and right|d.
func ParseDirection(token string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "up", "w":
		return Up, true
	case "down", "s":
		return Down, true
	case "left", "a":
		return Left, true
	case "right", "d":
		return Right, true
	}
	return 0, false
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameConfig represents a game configuration loaded from JSON or YAML
type GameConfig struct {
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description" yaml:"description"`
	Width           int    `json:"width" yaml:"width"`
	Height          int    `json:"height" yaml:"height"`
	InitialTilesMin int    `json:"initial_tiles_min" yaml:"initial_tiles_min"`
	InitialTilesMax int    `json:"initial_tiles_max" yaml:"initial_tiles_max"`
	DefaultStrategy string `json:"default_strategy,omitempty" yaml:"default_strategy,omitempty"`
	// SearchDepth overrides the expectimax depth for hints and auto-moves
	SearchDepth     int    `json:"search_depth,omitempty" yaml:"search_depth,omitempty"`
	Messages        struct {
		Welcome  string `json:"welcome" yaml:"welcome"`
		Moved    string `json:"moved" yaml:"moved"`
		NoEffect string `json:"no_effect" yaml:"no_effect"`
		GameOver string `json:"game_over" yaml:"game_over"`
		Ignored  string `json:"ignored" yaml:"ignored"`
	} `json:"messages" yaml:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Grid        [][]int            `json:"grid"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Score       int                `json:"score"` // Highest tile
	TileSum     int                `json:"tile_sum"`
	EmptyCells  int                `json:"empty_cells"`
	Turns       int                `json:"turns"`
	GameOver    bool               `json:"game_over"`
	Message     string             `json:"message"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper views (not required for core game logic)
	PossibleMoves []string `json:"possible_moves,omitempty"`
	Board         string   `json:"board,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action     string `json:"action"`
	Changed    bool   `json:"changed"`
	ScoreAfter int    `json:"score_after"`
	Timestamp  int64  `json:"timestamp"`
	Success    bool   `json:"success"`
	MoveNumber int    `json:"move_number"`
}
