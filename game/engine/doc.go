// Package engine provides the core game logic for the 2048 sliding-tile game.
//
// The engine package implements the game mechanics including:
//   - Tile sliding and merging in the four cardinal directions
//   - Random tile spawning (a 2 nine times out of ten, otherwise a 4)
//   - Game state management and move history
//   - Configuration loading and validation
//
// Core Types:
//
// Grid is the mutable board of tile values; zero marks an empty cell.
// The Engine interface wraps a Grid with history and messages and is
// implemented by GameEngine. GameConfig defines the board size and messages
// and is loaded from JSON or YAML files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, engine.NewSeededRand(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	success := gameEngine.Move("left")
//	state := gameEngine.GetState()
//
// Game Rules:
//
// A move slides every tile as far as it can toward one edge. Two equal tiles
// that meet merge into one tile of double value, and a tile created by a
// merge cannot merge again in the same move. After every move a new tile
// appears in a random empty cell, even when the move changed nothing. The
// game ends when the board is full and no move changes it. The score is the
// highest tile on the board.
package engine
