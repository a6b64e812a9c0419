// Package config provides configuration management for the 2048 server.
//
// The config package handles:
//   - Loading game configurations from JSON or YAML files
//   - Configuration validation
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Each file in the configs directory defines one board: its width and height,
// how many tiles a new game starts with, the strategy and search depth used
// for hints, and the messages shown after moves. Files named *.yaml or *.yml
// are decoded as YAML, *.json as JSON. A configuration is identified by its
// file name without extension.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("classic")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory holds no usable configuration the manager falls back to
// engine.DefaultGameConfig.
package config
