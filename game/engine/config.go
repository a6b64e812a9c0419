package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}

	// Validate initial tiles
	cells := config.Width * config.Height
	if config.InitialTilesMin < 1 {
		return fmt.Errorf("config validation: initial_tiles_min must be at least 1, got %d", config.InitialTilesMin)
	}
	if config.InitialTilesMax < config.InitialTilesMin || config.InitialTilesMax > cells {
		return fmt.Errorf("config validation: initial_tiles_max must be between initial_tiles_min (%d) and %d, got %d",
			config.InitialTilesMin, cells, config.InitialTilesMax)
	}

	// Validate search settings
	if config.SearchDepth < 0 || config.SearchDepth > MaxSearchDepth {
		return fmt.Errorf("config validation: search_depth must be between 0 and %d, got %d", MaxSearchDepth, config.SearchDepth)
	}
	if strings.TrimSpace(config.DefaultStrategy) != config.DefaultStrategy {
		return fmt.Errorf("config validation: default_strategy must not have surrounding spaces")
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}

	// Templates receive (direction, highest tile), (direction) and (highest tile)
	templates := []struct {
		key  string
		tmpl string
		args []interface{}
	}{
		{"moved", config.Messages.Moved, []interface{}{"up", 2048}},
		{"no_effect", config.Messages.NoEffect, []interface{}{"up"}},
		{"game_over", config.Messages.GameOver, []interface{}{2048}},
	}
	for _, t := range templates {
		if out := FormatMessage(t.tmpl, t.args...); strings.Contains(out, "%!") {
			return fmt.Errorf("config validation: messages.%s does not fit its arguments: %q", t.key, out)
		}
	}

	return nil
}

// DefaultGameConfig returns the classic 4x4 configuration
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:            "classic",
		Description:     "Classic 4x4 board seeded with one to three tiles",
		Width:           4,
		Height:          4,
		InitialTilesMin: 1,
		InitialTilesMax: 3,
		DefaultStrategy: "expectimax",
		SearchDepth:     3,
	}
	config.Messages.Welcome = "Join the tiles and reach 2048! Use up/down/left/right or w/s/a/d."
	config.Messages.Moved = "Moved %s. Highest tile: %d"
	config.Messages.NoEffect = "Nothing moved %s, a tile was added anyway"
	config.Messages.GameOver = "---game over--- Highest tile: %d"
	config.Messages.Ignored = "Unknown move ignored"
	return config
}

// ParseGameConfig decodes a configuration. YAML is used for .yaml and .yml
// files, JSON for everything else.
func ParseGameConfig(filename string, data []byte) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// LoadGameConfig loads a game configuration from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		// If filename starts with "configs/", replace with CONFIG_DIR
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := ParseGameConfig(configPath, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// NewInitialGrid creates an empty grid sized by config and seeds it with
// between InitialTilesMin and InitialTilesMax tiles.
func NewInitialGrid(config *GameConfig, r Rand) (*Grid, error) {
	if config == nil {
		config = DefaultGameConfig()
	}

	grid, err := NewGrid(config.Width, config.Height)
	if err != nil {
		return nil, err
	}

	count := config.InitialTilesMin
	if spread := config.InitialTilesMax - config.InitialTilesMin; spread > 0 {
		count += r.Intn(spread + 1)
	}
	for i := 0; i < count; i++ {
		grid.SpawnRandomTile(r)
	}

	return grid, nil
}

// InitGameStateFromConfig creates a new game state for the given grid
func InitGameStateFromConfig(config *GameConfig, grid *Grid) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}

	state := &GameState{
		Width:             grid.Width(),
		Height:            grid.Height(),
		Message:           config.Messages.Welcome,
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
	state.refresh(grid)
	return state
}
