package solver

import (
	"github.com/rs/zerolog/log"

	"github.com/wricardo/g2048/game/engine"
)

// Greedy scores every direction one move ahead and keeps the best
type Greedy struct {
	name      string
	heuristic Heuristic
	tie       TieBreak
	spawn     bool
	rand      engine.Rand
	rotation  Rotation
}

// NewGreedy builds a one-ply strategy
func NewGreedy(name string, h Heuristic, tie TieBreak, opts Options) *Greedy {
	return &Greedy{
		name:      name,
		heuristic: h,
		tie:       tie,
		spawn:     opts.SimulateSpawn,
		rand:      opts.rand(),
	}
}

func (s *Greedy) Name() string { return s.name }

func (s *Greedy) NextMove(g *engine.Grid, _ int) engine.Direction {
	scores := deadScores()
	for i, d := range engine.Cycle {
		if c, ok := candidate(g, d, s.spawn, s.rand); ok {
			scores[i] = s.heuristic(c)
		}
	}

	d := choose(scores, s.tie, &s.rotation, s.rand)
	log.Debug().Str("strategy", s.name).Floats64("scores", scores[:]).Stringer("move", d).Msg("greedy move")
	return d
}
