// Command autoplay plays 2048 on a running game server through its REST API.
// Moves come either from the server's hint endpoint or from a strategy run
// locally on the board the server reports. It keeps playing new games in the
// same session until a game reaches the target tile or the game budget runs out.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/solver"
)

const sessionFile = ".session"

// PlayOptions bounds a run of games
type PlayOptions struct {
	Games    int
	MaxMoves int
	// Target stops the run once a game reaches this tile. Zero plays every game.
	Target  int
	Delay   time.Duration
	Verbose bool
}

// GameOutcome is what one game ended with
type GameOutcome struct {
	Game  int
	Moves int
	Score int
	Turns int
}

// RunSummary collects every game played in a run
type RunSummary struct {
	Games   []GameOutcome
	Best    GameOutcome
	Reached bool
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "play 2048 on a game server with a move search strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("API_URL")},
			&cli.StringFlag{Name: "config", Usage: "config ID for a new session"},
			&cli.StringFlag{Name: "continue", Usage: "resume playing an existing session by ID"},
			&cli.StringFlag{Name: "strategy", Value: "expectimax", Usage: "strategy that picks the moves"},
			&cli.BoolFlag{Name: "local", Usage: "run the strategy in this process instead of asking the server for hints"},
			&cli.IntFlag{Name: "depth", Usage: "search depth for a local strategy (0 keeps its default)"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "games to play"},
			&cli.IntFlag{Name: "max-moves", Value: 5000, Usage: "maximum moves per game"},
			&cli.IntFlag{Name: "target", Value: 2048, Usage: "stop once a game reaches this tile (0 plays every game)"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between moves"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("autoplay failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("v") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	serverURL := cmd.String("url")
	log.Info().Str("url", serverURL).Msg("connecting to game server")
	client := NewClient(serverURL)

	if err := openSession(ctx, client, cmd.String("continue"), cmd.String("config")); err != nil {
		return err
	}

	strategy := cmd.String("strategy")
	newMover := func() (Mover, error) {
		if cmd.Bool("local") {
			return NewLocalMover(strategy, solver.Options{Depth: cmd.Int("depth")})
		}
		return NewRemoteMover(client, strategy), nil
	}

	summary, err := playGames(ctx, client, newMover, PlayOptions{
		Games:    cmd.Int("games"),
		MaxMoves: cmd.Int("max-moves"),
		Target:   cmd.Int("target"),
		Delay:    cmd.Duration("delay"),
		Verbose:  cmd.Bool("v"),
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("session", client.SessionID()).
		Int("games", len(summary.Games)).
		Int("best", summary.Best.Score).
		Int("best_turns", summary.Best.Turns).
		Msg("run finished")

	if cmd.Int("target") > 0 && !summary.Reached {
		return fmt.Errorf("no game reached %d in %d games", cmd.Int("target"), len(summary.Games))
	}
	return nil
}

// openSession resumes an explicit or saved session, or creates a new one and
// remembers its ID for the next run
func openSession(ctx context.Context, client *Client, explicit, configName string) error {
	saved := explicit
	if saved == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			saved = string(bytes.TrimSpace(data))
		}
	}

	if saved != "" {
		_, err := client.Resume(ctx, saved)
		if err == nil {
			log.Info().Str("session", saved).Msg("resuming session")
			return nil
		}
		log.Warn().Err(err).Str("session", saved).Msg("failed to resume session (may be expired), creating a new one")
	}

	state, err := client.CreateSession(ctx, configName)
	if err != nil {
		return err
	}
	log.Info().Str("session", client.SessionID()).Str("config", state.ConfigName).
		Int("width", state.Width).Int("height", state.Height).Msg("session created")

	if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
		log.Warn().Err(err).Msg("failed to save session ID")
	}
	return nil
}

// playGames resets the session before every game and plays until the game
// ends, the mover gives up or MaxMoves is reached
func playGames(ctx context.Context, client *Client, newMover func() (Mover, error), opts PlayOptions) (*RunSummary, error) {
	summary := &RunSummary{}
	games := opts.Games
	if games < 1 {
		games = 1
	}

	for game := 1; game <= games; game++ {
		state, err := client.Reset(ctx)
		if err != nil {
			return summary, err
		}
		mover, err := newMover()
		if err != nil {
			return summary, err
		}

		moves := 0
		for !state.GameOver && (opts.MaxMoves <= 0 || moves < opts.MaxMoves) {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			direction, err := mover.NextMove(ctx, state)
			if err != nil {
				return summary, err
			}
			if direction == "" {
				log.Debug().Msg("no move available")
				break
			}

			result, err := client.Move(ctx, direction)
			if err != nil {
				return summary, err
			}
			state = result.GameState
			moves++

			if opts.Verbose && moves%50 == 0 {
				log.Debug().Int("moves", moves).Int("max_tile", state.Score).Int("empty", state.EmptyCells).Msg("progress")
			}
			if opts.Delay > 0 {
				time.Sleep(opts.Delay)
			}
		}

		outcome := GameOutcome{Game: game, Moves: moves, Score: state.Score, Turns: state.Turns}
		summary.Games = append(summary.Games, outcome)
		if outcome.Score > summary.Best.Score {
			summary.Best = outcome
		}
		log.Info().Int("game", game).Int("moves", moves).Int("max_tile", outcome.Score).Int("turns", outcome.Turns).
			Msg("game finished")
		if opts.Verbose {
			fmt.Fprint(os.Stderr, formatRows(state.Grid))
		}

		if opts.Target > 0 && outcome.Score >= opts.Target {
			summary.Reached = true
			log.Info().Int("game", game).Int("target", opts.Target).Msg("target reached")
			break
		}
	}
	return summary, nil
}

func formatRows(rows [][]int) string {
	grid, err := engine.NewGridFromRows(rows)
	if err != nil {
		return ""
	}
	return grid.String()
}
