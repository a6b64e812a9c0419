package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/solver"
)

// ErrNoStrategies is returned when a run names no strategy
var ErrNoStrategies = errors.New("no strategies to simulate")

// TurnEvent is passed to Runner.OnTurn after every successful step
type TurnEvent struct {
	Strategy  string
	Iteration int
	Turn      int
	Move      engine.Direction
	Grid      *engine.Grid
}

// Runner plays Iterations games per strategy and collects the outcomes
type Runner struct {
	Config     *engine.GameConfig
	Strategies []string
	Iterations int
	// MaxTurns caps every game when positive
	MaxTurns int
	// Seed makes a run reproducible when non-zero
	Seed    uint64
	Options solver.Options
	// Parallel plays each strategy on its own goroutine
	Parallel bool
	// OnTurn must be safe for concurrent use when Parallel is set
	OnTurn func(TurnEvent)
}

// Run plays every game and returns the report. The context is checked between turns.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if len(r.Strategies) == 0 {
		return nil, ErrNoStrategies
	}
	if r.Iterations < 1 {
		return nil, fmt.Errorf("iterations must be positive, got %d", r.Iterations)
	}

	config := r.Config
	if config == nil {
		config = engine.DefaultGameConfig()
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, err
	}
	for _, name := range r.Strategies {
		if _, err := solver.New(name, r.Options); err != nil {
			return nil, err
		}
	}

	report := &Report{
		ID:         uuid.NewString(),
		StartedAt:  time.Now(),
		Config:     config.Name,
		Width:      config.Width,
		Height:     config.Height,
		Iterations: r.Iterations,
		MaxTurns:   r.MaxTurns,
		Seed:       r.Seed,
	}

	perStrategy := make([][]GameResult, len(r.Strategies))
	play := func(ctx context.Context, idx int) error {
		name := r.Strategies[idx]
		logger := log.With().Str("simulation", report.ID).Str("strategy", name).Logger()
		logger.Info().Int("iterations", r.Iterations).Msg("simulating strategy")

		for i := 0; i < r.Iterations; i++ {
			res, err := r.playGame(ctx, config, name, i, r.rand(idx, i))
			if err != nil {
				return err
			}
			logger.Debug().Int("iteration", i).Int("score", res.Score).Int("turns", res.Turns).Msg("game finished")
			perStrategy[idx] = append(perStrategy[idx], res)
		}
		return nil
	}

	if r.Parallel {
		grp, gctx := errgroup.WithContext(ctx)
		for idx := range r.Strategies {
			idx := idx
			grp.Go(func() error { return play(gctx, idx) })
		}
		if err := grp.Wait(); err != nil {
			return nil, err
		}
	} else {
		for idx := range r.Strategies {
			if err := play(ctx, idx); err != nil {
				return nil, err
			}
		}
	}

	for _, results := range perStrategy {
		report.Results = append(report.Results, results...)
	}
	report.Summary = Summarize(report.Results)
	report.FinishedAt = time.Now()
	return report, nil
}

// rand returns the generator for one game. Seeded runs derive a distinct
// stream per strategy and iteration so results do not depend on Parallel.
func (r *Runner) rand(strategyIdx, iteration int) engine.Rand {
	if r.Seed == 0 {
		return engine.NewRand()
	}
	return engine.NewSeededRand(r.Seed + uint64(strategyIdx)<<32 + uint64(iteration)<<8)
}

func (r *Runner) playGame(ctx context.Context, config *engine.GameConfig, name string, iteration int, rng engine.Rand) (GameResult, error) {
	grid, err := engine.NewInitialGrid(config, rng)
	if err != nil {
		return GameResult{}, err
	}

	opts := r.Options
	opts.Rand = rng
	strategy, err := solver.New(name, opts)
	if err != nil {
		return GameResult{}, err
	}

	turns := 0
	for {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if r.MaxTurns > 0 && turns >= r.MaxTurns {
			break
		}

		move := strategy.NextMove(grid, turns)
		if !grid.Step(move, rng) {
			break
		}
		turns++

		if r.OnTurn != nil {
			r.OnTurn(TurnEvent{Strategy: name, Iteration: iteration, Turn: turns, Move: move, Grid: grid.Clone()})
		}
	}

	return GameResult{
		Strategy:  name,
		Iteration: iteration,
		Score:     grid.MaxTile(),
		Turns:     turns,
		TileSum:   grid.Sum(),
	}, nil
}
