package solver

import "github.com/wricardo/g2048/game/engine"

// Rotation remembers the last tie-break choice of one strategy instance.
// The zero value behaves as if Up was the last choice. Not safe for concurrent use.
type Rotation struct {
	last int
}

// Next advances to the direction after the remembered one in engine.Cycle and remembers it
func (r *Rotation) Next() engine.Direction {
	r.last = NextIndex(r.last)
	return engine.Cycle[r.last]
}

// Last returns the remembered direction
func (r *Rotation) Last() engine.Direction {
	return engine.Cycle[r.last]
}

// NextIndex returns the index that follows i in engine.Cycle
func NextIndex(i int) int {
	return (i + 1) % len(engine.Cycle)
}
