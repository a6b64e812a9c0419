package solver

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/g2048/game/engine"
)

// Lookahead sums heuristic values over every sequence of effective moves up
// to a fixed depth and plays the first move of the richest subtree.
type Lookahead struct {
	name      string
	heuristic Heuristic
	depth     int
	parallel  bool
	spawn     bool
	rand      engine.Rand
	rotation  Rotation
}

// NewLookahead builds an exhaustive fixed-depth strategy
func NewLookahead(name string, h Heuristic, depth int, opts Options) *Lookahead {
	if depth < 1 {
		depth = 1
	}
	return &Lookahead{
		name:      name,
		heuristic: h,
		depth:     depth,
		parallel:  opts.Parallel,
		spawn:     opts.SimulateSpawn,
		rand:      opts.rand(),
	}
}

func (s *Lookahead) Name() string { return s.name }

// Depth returns the number of plies searched
func (s *Lookahead) Depth() int { return s.depth }

func (s *Lookahead) NextMove(g *engine.Grid, _ int) engine.Direction {
	scores := deadScores()

	eval := func(i int) {
		if v, ok := s.value(g, engine.Cycle[i], s.depth); ok {
			scores[i] = v
		}
	}

	// Simulated spawns share one Rand, so they stay on this goroutine
	if s.parallel && !s.spawn {
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

	d := choose(scores, TieRotate, &s.rotation, s.rand)
	log.Debug().Str("strategy", s.name).Int("depth", s.depth).Floats64("scores", scores[:]).Stringer("move", d).Msg("lookahead move")
	return d
}

// value scores the subtree rooted at playing d on g. ok is false when d has no effect.
func (s *Lookahead) value(g *engine.Grid, d engine.Direction, depth int) (float64, bool) {
	if depth <= 0 {
		return 0, false
	}

	child, ok := candidate(g, d, s.spawn, s.rand)
	if !ok {
		return 0, false
	}

	total := s.heuristic(child)
	for _, next := range engine.Cycle {
		if v, ok := s.value(child, next, depth-1); ok {
			total += v
		}
	}
	return total, true
}
