package solver

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/g2048/game/engine"
)

// DefaultExpectimaxDepth is the search depth used when none is configured
const DefaultExpectimaxDepth = 3

var spawnOutcomes = [...]struct {
	value int
	prob  float64
}{
	{engine.SpawnLowValue, engine.SpawnLowProbability},
	{engine.SpawnHighValue, 1 - engine.SpawnLowProbability},
}

// Expectimax alternates max nodes over the player's moves with chance nodes
// averaging over every possible spawn.
type Expectimax struct {
	depth    int
	parallel bool
	eval     Heuristic
}

// NewExpectimax builds an expectimax strategy scored by StaticEvaluate
func NewExpectimax(depth int, parallel bool) *Expectimax {
	if depth < 1 {
		depth = DefaultExpectimaxDepth
	}
	return &Expectimax{depth: depth, parallel: parallel, eval: StaticEvaluate}
}

func (s *Expectimax) Name() string { return "expectimax" }

// Depth returns the configured search depth
func (s *Expectimax) Depth() int { return s.depth }

func (s *Expectimax) NextMove(g *engine.Grid, _ int) engine.Direction {
	scores := deadScores()
	legal := false

	eval := func(i int) {
		child := g.Clone()
		if child.ApplyMove(engine.Cycle[i]) {
			scores[i] = s.Chance(child, s.depth-1)
		}
	}

	if s.parallel {
		var grp errgroup.Group
		for i := range engine.Cycle {
			i := i
			grp.Go(func() error {
				eval(i)
				return nil
			})
		}
		_ = grp.Wait()
	} else {
		for i := range engine.Cycle {
			eval(i)
		}
	}

	best := 0
	for i, v := range scores {
		if math.IsInf(v, -1) {
			continue
		}
		if !legal || v > scores[best] {
			best = i
		}
		legal = true
	}

	d := engine.Cycle[best]
	log.Debug().Int("depth", s.depth).Floats64("scores", scores[:]).Bool("legal", legal).Stringer("move", d).Msg("expectimax move")
	return d
}

// Value scores g as a player node: the best chance value over effective moves
func (s *Expectimax) Value(g *engine.Grid, depth int) float64 {
	if depth <= 0 {
		return s.eval(g)
	}

	best := math.Inf(-1)
	for _, d := range engine.Cycle {
		child := g.Clone()
		if !child.ApplyMove(d) {
			continue
		}
		if v := s.Chance(child, depth); v > best {
			best = v
		}
	}

	if math.IsInf(best, -1) {
		return s.eval(g)
	}
	return best
}

// Chance scores g as a chance node: the probability-weighted mean over every
// empty cell and spawn value, each outcome scored as a player node one ply lower.
func (s *Expectimax) Chance(g *engine.Grid, depth int) float64 {
	empty := g.EmptyCells()
	if depth <= 0 || len(empty) == 0 {
		return s.eval(g)
	}

	n := float64(len(empty))
	total := 0.0
	for _, pos := range empty {
		for _, outcome := range spawnOutcomes {
			spawned := g.Clone()
			_ = spawned.Set(pos.X, pos.Y, outcome.value)
			total += outcome.prob / n * s.Value(spawned, depth-1)
		}
	}
	return total
}
