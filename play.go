package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/g2048/game/config"
	"github.com/wricardo/g2048/game/engine"
	"github.com/wricardo/g2048/game/service"
	"github.com/wricardo/g2048/game/simulation"
	"github.com/wricardo/g2048/game/solver"
)

const gameOverBanner = "---game over---"

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play in the terminal, one move per line (w/a/s/d or up/down/left/right)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config ID to play (default config when empty)",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed the tile spawns for a reproducible game",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadGameConfig(cmd.String("config-dir"), cmd.String("config"))
			if err != nil {
				return err
			}

			rng := engine.NewRand()
			if seed := cmd.Uint64("seed"); seed != 0 {
				rng = engine.NewSeededRand(seed)
			}

			eng, err := engine.NewEngine(cfg, rng)
			if err != nil {
				return err
			}
			return playInteractive(ctx, eng, os.Stdin, os.Stdout)
		},
	}
}

// loadGameConfig reads name from dir, or the default config when name is
// empty. A missing directory falls back to the built-in config.
func loadGameConfig(dir, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		if name != "" {
			return nil, err
		}
		log.Debug().Err(err).Msg("using built-in config")
		return engine.DefaultGameConfig(), nil
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}

// playInteractive renders the board and applies one token per input line.
// Unknown tokens are ignored. It returns when the game ends or input runs out.
func playInteractive(ctx context.Context, eng *engine.GameEngine, in io.Reader, out io.Writer) error {
	if welcome := eng.GetConfig().Messages.Welcome; welcome != "" {
		fmt.Fprintln(out, welcome)
	}
	fmt.Fprint(out, eng.GetGrid().String())

	if eng.IsGameOver() {
		fmt.Fprintln(out, gameOverBanner)
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		token := strings.TrimSpace(scanner.Text())
		d, ok := engine.ParseDirection(token)
		if !ok {
			continue
		}

		if !eng.Step(d) {
			fmt.Fprintln(out, gameOverBanner)
			return nil
		}
		fmt.Fprint(out, eng.GetGrid().String())
		if eng.IsGameOver() {
			fmt.Fprintln(out, gameOverBanner)
			return nil
		}
	}
	return scanner.Err()
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play games with the built-in strategies and print the outcomes",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Value:   []string{service.DefaultHintStrategy},
				Usage:   "strategy to simulate, repeatable",
			},
			&cli.IntFlag{
				Name:    "iterations",
				Aliases: []string{"n"},
				Value:   1,
				Usage:   "games per strategy",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "seed for a reproducible run",
			},
			&cli.IntFlag{
				Name:  "max-turns",
				Usage: "stop every game after this many turns (0 for no limit)",
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "search depth override for lookahead and expectimax (0 keeps each strategy's default)",
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "run strategies concurrently and fan out the root of each search",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "config ID to play (default config when empty)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print the board after every turn",
			},
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "do not write the report file",
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "write a cpu or mem profile to the current directory",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "list strategies and exit",
			},
		},
		Action: runSimulate,
	}
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("list") {
		printStrategies(os.Stdout)
		return nil
	}

	switch cmd.String("profile") {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		return fmt.Errorf("unknown profile %q, use cpu or mem", cmd.String("profile"))
	}

	cfg, err := loadGameConfig(cmd.String("config-dir"), cmd.String("config"))
	if err != nil {
		return err
	}

	depth := cmd.Int("depth")
	if depth < 0 || depth > engine.MaxSearchDepth {
		return fmt.Errorf("depth must be between 0 and %d", engine.MaxSearchDepth)
	}

	runner := &simulation.Runner{
		Config:     cfg,
		Strategies: cmd.StringSlice("strategy"),
		Iterations: cmd.Int("iterations"),
		MaxTurns:   cmd.Int("max-turns"),
		Seed:       cmd.Uint64("seed"),
		Options:    solver.Options{Depth: depth, Parallel: cmd.Bool("parallel")},
		Parallel:   cmd.Bool("parallel"),
	}
	if cmd.Bool("verbose") {
		runner.OnTurn = boardPrinter(os.Stdout)
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	printReport(os.Stdout, report)

	if cmd.Bool("no-save") {
		return nil
	}
	store, err := simulation.NewFileStore(cmd.String("results-dir"))
	if err != nil {
		return err
	}
	if err := store.Save(report); err != nil {
		return err
	}
	log.Info().Str("id", report.ID).Str("dir", store.Dir()).Msg("report saved")
	return nil
}

// boardPrinter renders every turn. Parallel runners call it from several goroutines.
func boardPrinter(out io.Writer) func(simulation.TurnEvent) {
	var mu sync.Mutex
	return func(ev simulation.TurnEvent) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "%s #%d turn %d: %s\n%s", ev.Strategy, ev.Iteration, ev.Turn, ev.Move, ev.Grid.String())
	}
}

func printStrategies(out io.Writer) {
	for _, s := range solver.Describe() {
		if s.Depth > 0 {
			fmt.Fprintf(out, "%-30s depth %d  %s\n", s.Name, s.Depth, s.Description)
			continue
		}
		fmt.Fprintf(out, "%-30s          %s\n", s.Name, s.Description)
	}
}

// printReport prints one block per strategy: the summary line, then every
// (score, turns) outcome with how often it happened, most frequent first
func printReport(out io.Writer, report *simulation.Report) {
	fmt.Fprintf(out, "config %s (%dx%d), %d games per strategy\n",
		report.Config, report.Width, report.Height, report.Iterations)

	for _, s := range report.Summary {
		fmt.Fprintf(out, "\n%s: best %d, mean score %.1f, mean turns %.1f over %d games\n",
			s.Strategy, s.Best, s.MeanScore, s.MeanTurns, s.Games)

		counts := append([]simulation.OutcomeCount(nil), s.Counts...)
		sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
		for _, c := range counts {
			fmt.Fprintf(out, "  (%d, %d): %d\n", c.Score, c.Turns, c.Count)
		}
	}
}
