package simulation

import (
	"sort"
	"time"
)

// GameResult is the outcome of one played game
type GameResult struct {
	Strategy  string `json:"strategy"`
	Iteration int    `json:"iteration"`
	Score     int    `json:"score"`
	Turns     int    `json:"turns"`
	TileSum   int    `json:"tile_sum"`
}

// OutcomeCount counts games that ended with the same score after the same number of turns
type OutcomeCount struct {
	Score int `json:"score"`
	Turns int `json:"turns"`
	Count int `json:"count"`
}

// StrategySummary aggregates the games of one strategy
type StrategySummary struct {
	Strategy  string         `json:"strategy"`
	Games     int            `json:"games"`
	Best      int            `json:"best"`
	MeanScore float64        `json:"mean_score"`
	MeanTurns float64        `json:"mean_turns"`
	Counts    []OutcomeCount `json:"counts"`
}

// Report is the result file written for one simulation run
type Report struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Config     string            `json:"config"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Iterations int               `json:"iterations"`
	MaxTurns   int               `json:"max_turns,omitempty"`
	Seed       uint64            `json:"seed,omitempty"`
	Results    []GameResult      `json:"results"`
	Summary    []StrategySummary `json:"summary"`
}

// Summarize groups results per strategy, keeping the order in which strategies first appear
func Summarize(results []GameResult) []StrategySummary {
	var order []string
	byName := make(map[string][]GameResult)
	for _, r := range results {
		if _, ok := byName[r.Strategy]; !ok {
			order = append(order, r.Strategy)
		}
		byName[r.Strategy] = append(byName[r.Strategy], r)
	}

	summaries := make([]StrategySummary, 0, len(order))
	for _, name := range order {
		summaries = append(summaries, summarizeStrategy(name, byName[name]))
	}
	return summaries
}

func summarizeStrategy(name string, results []GameResult) StrategySummary {
	s := StrategySummary{Strategy: name, Games: len(results)}

	type outcome struct{ score, turns int }
	counts := make(map[outcome]int)
	totalScore, totalTurns := 0, 0
	for _, r := range results {
		if r.Score > s.Best {
			s.Best = r.Score
		}
		totalScore += r.Score
		totalTurns += r.Turns
		counts[outcome{r.Score, r.Turns}]++
	}

	if s.Games > 0 {
		s.MeanScore = float64(totalScore) / float64(s.Games)
		s.MeanTurns = float64(totalTurns) / float64(s.Games)
	}

	for o, c := range counts {
		s.Counts = append(s.Counts, OutcomeCount{Score: o.score, Turns: o.turns, Count: c})
	}
	// Most frequent first, then highest score, then longest game
	sort.Slice(s.Counts, func(i, j int) bool {
		a, b := s.Counts[i], s.Counts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Turns > b.Turns
	})
	return s
}
