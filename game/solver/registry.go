package solver

import (
	"errors"
	"fmt"
)

// ErrUnknownStrategy is returned by New for names that are not registered
var ErrUnknownStrategy = errors.New("unknown strategy")

// Info describes a registered strategy
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Depth       int    `json:"depth,omitempty"`
}

type entry struct {
	info  Info
	build func(opts Options) Strategy
}

var registry = []entry{
	{
		Info{Name: "up-left", Description: "Up on even turns, left on odd turns"},
		func(Options) Strategy { return UpLeft{} },
	},
	{
		Info{Name: "down-right", Description: "Down on even turns, right on odd turns"},
		func(Options) Strategy { return DownRight{} },
	},
	{
		Info{Name: "circular", Description: "Cycles up, left, down, right"},
		func(Options) Strategy { return Circular{} },
	},
	{
		Info{Name: "random", Description: "Uniformly random direction"},
		func(o Options) Strategy { return &Random{Rand: o.rand()} },
	},
	{
		Info{Name: "closest_best_simple", Description: "One move ahead by sum of v*log2(v), random tie-break", Depth: 1},
		func(o Options) Strategy { return NewGreedy("closest_best_simple", ScorePosition, TieRandom, o) },
	},
	{
		Info{Name: "closest_best_circular", Description: "One move ahead by sum of v*log2(v), rotating tie-break", Depth: 1},
		func(o Options) Strategy { return NewGreedy("closest_best_circular", ScorePosition, TieRotate, o) },
	},
	{
		Info{Name: "closest_best_position_aware", Description: "One move ahead favouring corners, edges and equal neighbours", Depth: 1},
		func(o Options) Strategy {
			return NewGreedy("closest_best_position_aware", DefaultPositionAware.Score, TieRotate, o)
		},
	},
	{
		Info{Name: "look_ahead_simple", Description: "Exhaustive lookahead summing v*log2(v)", Depth: 4},
		func(o Options) Strategy { return NewLookahead("look_ahead_simple", ScorePosition, o.depth(4), o) },
	},
	{
		Info{Name: "look_ahead_space_conscious", Description: "Shallow exhaustive lookahead summing v*log2(v)", Depth: 2},
		func(o Options) Strategy {
			return NewLookahead("look_ahead_space_conscious", ScorePosition, o.depth(2), o)
		},
	},
	{
		Info{Name: "look_ahead_position_aware", Description: "Exhaustive lookahead with the positional heuristic", Depth: 3},
		func(o Options) Strategy {
			return NewLookahead("look_ahead_position_aware", DefaultPositionAware.Score, o.depth(3), o)
		},
	},
	{
		Info{Name: "expectimax", Description: "Expectimax over moves and tile spawns, static evaluator at the leaves", Depth: DefaultExpectimaxDepth},
		func(o Options) Strategy { return NewExpectimax(o.depth(DefaultExpectimaxDepth), o.Parallel) },
	},
}

// New builds a fresh strategy instance. Instances carry their own tie-break
// state and must not be shared between games.
func New(name string, opts Options) (Strategy, error) {
	for _, e := range registry {
		if e.info.Name == name {
			return e.build(opts), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Names lists every registered strategy in registration order
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.info.Name)
	}
	return names
}

// Describe lists every registered strategy with its description and default depth
func Describe() []Info {
	infos := make([]Info, 0, len(registry))
	for _, e := range registry {
		infos = append(infos, e.info)
	}
	return infos
}
