package solver

import "github.com/wricardo/g2048/game/engine"

// UpLeft alternates Up on even turns and Left on odd turns
type UpLeft struct{}

func (UpLeft) Name() string { return "up-left" }

func (UpLeft) NextMove(_ *engine.Grid, turn int) engine.Direction {
	if turn%2 == 0 {
		return engine.Up
	}
	return engine.Left
}

// DownRight alternates Down on even turns and Right on odd turns
type DownRight struct{}

func (DownRight) Name() string { return "down-right" }

func (DownRight) NextMove(_ *engine.Grid, turn int) engine.Direction {
	if turn%2 == 0 {
		return engine.Down
	}
	return engine.Right
}

// Circular walks engine.Cycle by turn
type Circular struct{}

func (Circular) Name() string { return "circular" }

func (Circular) NextMove(_ *engine.Grid, turn int) engine.Direction {
	return engine.Cycle[turn%len(engine.Cycle)]
}

// Random picks any direction uniformly. A nil Rand is replaced by
// engine.NewRand on first use.
type Random struct {
	Rand engine.Rand
}

func (*Random) Name() string { return "random" }

func (s *Random) NextMove(_ *engine.Grid, _ int) engine.Direction {
	if s.Rand == nil {
		s.Rand = engine.NewRand()
	}
	return engine.Cycle[s.Rand.Intn(len(engine.Cycle))]
}
