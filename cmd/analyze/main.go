// Command analyze summarizes the simulation reports in a results directory.
// Games are pooled per config and strategy across every report, and for each
// pool it prints the best and mean outcome and how often each tile was reached.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/g2048/game/simulation"
)

// StrategyStats pools the games one strategy played on one config
type StrategyStats struct {
	Config    string
	Strategy  string
	Reports   int
	Games     int
	Best      int
	MeanScore float64
	MeanTurns float64
	// TileCounts maps a final highest tile to the number of games that ended on it
	TileCounts map[int]int
}

// ReachRate returns the share of games whose highest tile was at least tile
func (s StrategyStats) ReachRate(tile int) float64 {
	if s.Games == 0 {
		return 0
	}
	reached := 0
	for score, n := range s.TileCounts {
		if score >= tile {
			reached += n
		}
	}
	return float64(reached) / float64(s.Games)
}

// Tiles returns the final tiles seen, highest first
func (s StrategyStats) Tiles() []int {
	tiles := make([]int, 0, len(s.TileCounts))
	for tile := range s.TileCounts {
		tiles = append(tiles, tile)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(tiles)))
	return tiles
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "summarize simulation reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "results-dir",
				Value:   "results",
				Usage:   "directory with simulation reports",
				Sources: cli.EnvVars("RESULTS_DIR"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "only include reports played on this config",
			},
			&cli.StringSliceFlag{
				Name:  "strategy",
				Usage: "only include these strategies",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := simulation.NewFileStore(cmd.String("results-dir"))
			if err != nil {
				return err
			}
			reports, err := loadReports(store)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Printf("No reports in %s\n", store.Dir())
				return nil
			}

			stats := analyze(reports, cmd.String("config"), cmd.StringSlice("strategy"))
			printStats(os.Stdout, stats)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("analyze failed")
	}
}

// loadReports reads every report in the store. Unreadable files are skipped.
func loadReports(store simulation.ResultStore) ([]*simulation.Report, error) {
	ids, err := store.ListAll()
	if err != nil {
		return nil, err
	}

	reports := make([]*simulation.Report, 0, len(ids))
	for _, id := range ids {
		report, err := store.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("id", id).Msg("skipping report")
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// analyze pools the games of every report per config and strategy. Empty
// filters match everything.
func analyze(reports []*simulation.Report, config string, strategies []string) []StrategyStats {
	wanted := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		wanted[s] = true
	}

	type key struct{ config, strategy string }
	pools := make(map[key]*StrategyStats)
	var order []key
	totals := make(map[key][2]int)

	for _, report := range reports {
		if config != "" && !strings.EqualFold(report.Config, config) {
			continue
		}
		seen := make(map[key]bool)
		for _, r := range report.Results {
			if len(wanted) > 0 && !wanted[r.Strategy] {
				continue
			}
			k := key{report.Config, r.Strategy}
			st, ok := pools[k]
			if !ok {
				st = &StrategyStats{Config: report.Config, Strategy: r.Strategy, TileCounts: make(map[int]int)}
				pools[k] = st
				order = append(order, k)
			}
			if !seen[k] {
				st.Reports++
				seen[k] = true
			}

			st.Games++
			st.TileCounts[r.Score]++
			if r.Score > st.Best {
				st.Best = r.Score
			}
			t := totals[k]
			totals[k] = [2]int{t[0] + r.Score, t[1] + r.Turns}
		}
	}

	stats := make([]StrategyStats, 0, len(order))
	for _, k := range order {
		st := pools[k]
		t := totals[k]
		st.MeanScore = float64(t[0]) / float64(st.Games)
		st.MeanTurns = float64(t[1]) / float64(st.Games)
		stats = append(stats, *st)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Config != stats[j].Config {
			return stats[i].Config < stats[j].Config
		}
		return stats[i].MeanScore > stats[j].MeanScore
	})
	return stats
}

func printStats(out io.Writer, stats []StrategyStats) {
	config := ""
	for _, st := range stats {
		if st.Config != config {
			config = st.Config
			fmt.Fprintf(out, "\n=== %s ===\n", config)
		}

		fmt.Fprintf(out, "\n%s: %d games from %d reports, best %d, mean score %.1f, mean turns %.1f\n",
			st.Strategy, st.Games, st.Reports, st.Best, st.MeanScore, st.MeanTurns)

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "tile\tended\treached\t")
		for _, tile := range st.Tiles() {
			fmt.Fprintf(tw, "%d\t%d\t%.1f%%\t\n", tile, st.TileCounts[tile], 100*st.ReachRate(tile))
		}
		tw.Flush()
	}
}
