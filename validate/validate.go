// Command validate checks the game configuration files in a configs
// directory (*.json, *.yaml, *.yml). For each file it checks:
//   - the file parses and has no unknown keys
//   - the engine accepts it (size, initial tiles, search depth, message
//     templates that fit the arguments the engine passes them)
//   - the default strategy, when set, is a registered strategy
//   - a seeded game can be started and played for a few turns
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/solver"
)

// smokeTurns is how many random moves the playability check makes
const smokeTurns = 20

// ValidationResult captures the outcome of validating a single file
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// decodeStrict parses data like engine.ParseGameConfig but rejects unknown keys
func decodeStrict(filename string, data []byte) (*engine.GameConfig, error) {
	var config engine.GameConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	return &config, nil
}

// validateConfig loads and validates a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := decodeStrict(filePath, data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.fail("%v", err)
	}

	if config.DefaultStrategy != "" {
		if _, err := solver.New(config.DefaultStrategy, solver.Options{}); err != nil {
			result.fail("default_strategy: %v", err)
		}
	}

	if result.Valid {
		if err := smokeTest(config); err != nil {
			result.fail("Playability: %v", err)
		}
	}

	if result.Valid {
		strategy := config.DefaultStrategy
		if strategy == "" {
			strategy = "(server default)"
		}
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Name: %s", config.Name),
			fmt.Sprintf("✓ Grid: %dx%d", config.Width, config.Height),
			fmt.Sprintf("✓ Initial tiles: %d-%d", config.InitialTilesMin, config.InitialTilesMax),
			fmt.Sprintf("✓ Strategy: %s", strategy),
		)
		if config.SearchDepth > 0 {
			result.Info = append(result.Info, fmt.Sprintf("✓ Search depth: %d", config.SearchDepth))
		}
	}

	return result
}

// smokeTest starts a seeded game and plays a few random moves
func smokeTest(config *engine.GameConfig) error {
	rng := engine.NewSeededRand(1)
	eng, err := engine.NewEngine(config, rng)
	if err != nil {
		return err
	}

	tiles := eng.GetGrid().Width()*eng.GetGrid().Height() - eng.GetGrid().CountEmpty()
	if tiles < config.InitialTilesMin || tiles > config.InitialTilesMax {
		return fmt.Errorf("started with %d tiles, want %d-%d", tiles, config.InitialTilesMin, config.InitialTilesMax)
	}

	strategy, err := solver.New("random", solver.Options{Rand: rng})
	if err != nil {
		return err
	}
	for turn := 0; turn < smokeTurns && !eng.IsGameOver(); turn++ {
		eng.Step(strategy.NextMove(eng.GetGrid(), turn))
	}
	if eng.GetTurns() == 0 {
		return fmt.Errorf("no move could be played")
	}
	return nil
}

// configFiles lists the config files in dir, sorted
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// report prints one block per result and returns whether all were valid
func report(results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  " + info)
			}
			continue
		}

		allValid = false
		fmt.Println("❌ INVALID")
		for _, err := range result.Errors {
			fmt.Println("  ❌ " + err)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
	}
	return allValid
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "validate",
		Usage: "validate game configuration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "configs",
				Usage:   "directory with configuration files",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := configFiles(cmd.String("dir"))
			if err != nil {
				return fmt.Errorf("error finding config files: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no config files in %s", cmd.String("dir"))
			}

			results := make([]ValidationResult, 0, len(files))
			for _, file := range files {
				results = append(results, validateConfig(file))
			}
			if !report(results) {
				return fmt.Errorf("%d files checked, some are invalid", len(files))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("validation failed")
	}
}
