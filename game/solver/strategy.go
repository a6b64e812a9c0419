package solver

import (
	"math"

	"github.com/wricardo/g2048/game/engine"
)

// Strategy picks the next move for a grid. Implementations never mutate the
// grid they are given; turn is the number of moves already played.
type Strategy interface {
	Name() string
	NextMove(g *engine.Grid, turn int) engine.Direction
}

// Options tune a strategy built through New
type Options struct {
	// Rand drives random choices and simulated spawns. Nil means a fresh frand generator.
	Rand engine.Rand
	// Depth overrides the strategy's default search depth when positive
	Depth int
	// Parallel evaluates the four root branches concurrently
	Parallel bool
	// SimulateSpawn adds a random tile to each candidate before scoring it
	SimulateSpawn bool
}

func (o Options) rand() engine.Rand {
	if o.Rand == nil {
		return engine.NewRand()
	}
	return o.Rand
}

func (o Options) depth(def int) int {
	if o.Depth > 0 {
		return o.Depth
	}
	return def
}

// TieBreak selects how a strategy resolves a round where every direction scores the same
type TieBreak int

const (
	TieRotate TieBreak = iota
	TieRandom
)

// candidate applies d to a clone of g. ok is false when the move has no effect.
func candidate(g *engine.Grid, d engine.Direction, spawn bool, r engine.Rand) (*engine.Grid, bool) {
	c := g.Clone()
	if !c.ApplyMove(d) {
		return nil, false
	}
	if spawn {
		c.SpawnRandomTile(r)
	}
	return c, true
}

// choose returns the earliest best-scoring direction in engine.Cycle.
// Only when all four scores are equal is the tie-break consulted.
func choose(scores [4]float64, tie TieBreak, rot *Rotation, r engine.Rand) engine.Direction {
	allEqual := true
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] != scores[0] {
			allEqual = false
		}
		if scores[i] > scores[best] {
			best = i
		}
	}

	if !allEqual {
		return engine.Cycle[best]
	}
	if tie == TieRandom {
		return engine.Cycle[r.Intn(len(engine.Cycle))]
	}
	return rot.Next()
}

func deadScores() [4]float64 {
	return [4]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1), math.Inf(-1)}
}
