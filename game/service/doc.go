// Package service provides the business logic layer for 2048 sessions.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration loading and listing
//   - Move processing with per-step traces
//   - Hints and auto play through the solver strategies
//   - Batch simulations with stored reports
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine and its own strategy
// instances, so tie-break rotation carries over between hint calls on the
// same board.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	store, _ := simulation.NewFileStore("results")
//	gameService := service.NewGameService(sessionMgr, configMgr, store)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	hint, err := gameService.Hint(ctx, info.ID, "expectimax")
//	result, err := gameService.Move(ctx, info.ID, hint.Move, false)
package service
