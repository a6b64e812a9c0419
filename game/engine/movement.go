package engine

// shift slides the tile at (x, y) toward (dx, dy). The tile passes through
// empty cells and merges with at most one equal tile directly beyond them,
// unless that tile was itself produced by a merge during this move.
func (g *Grid) shift(x, y, dx, dy int, merged []bool) bool {
	value := g.at(x, y)
	if value == 0 {
		return false
	}

	cx, cy := x, y
	for {
		nx, ny := cx+dx, cy+dy
		if !g.InBounds(nx, ny) {
			break
		}

		next := g.at(nx, ny)
		if next == 0 {
			cx, cy = nx, ny
			continue
		}

		idx := ny*g.width + nx
		if next == value && !merged[idx] {
			g.put(nx, ny, value*2)
			g.put(x, y, 0)
			merged[idx] = true
			return true
		}
		break
	}

	if cx == x && cy == y {
		return false
	}

	g.put(cx, cy, value)
	g.put(x, y, 0)
	return true
}

// ShiftUp processes each column from the top row downward
func (g *Grid) ShiftUp() bool {
	merged := make([]bool, len(g.cells))
	changed := false
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if g.shift(x, y, 0, -1, merged) {
				changed = true
			}
		}
	}
	return changed
}

// ShiftDown processes each column from the bottom row upward
func (g *Grid) ShiftDown() bool {
	merged := make([]bool, len(g.cells))
	changed := false
	for x := g.width - 1; x >= 0; x-- {
		for y := g.height - 1; y >= 0; y-- {
			if g.shift(x, y, 0, 1, merged) {
				changed = true
			}
		}
	}
	return changed
}

// ShiftLeft processes each row from the left column rightward
func (g *Grid) ShiftLeft() bool {
	merged := make([]bool, len(g.cells))
	changed := false
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.shift(x, y, -1, 0, merged) {
				changed = true
			}
		}
	}
	return changed
}

// ShiftRight processes each row from the right column leftward
func (g *Grid) ShiftRight() bool {
	merged := make([]bool, len(g.cells))
	changed := false
	for y := g.height - 1; y >= 0; y-- {
		for x := g.width - 1; x >= 0; x-- {
			if g.shift(x, y, 1, 0, merged) {
				changed = true
			}
		}
	}
	return changed
}

// ApplyMove slides and merges every tile in the given direction.
// It returns whether any cell changed.
func (g *Grid) ApplyMove(d Direction) bool {
	switch d {
	case Up:
		return g.ShiftUp()
	case Down:
		return g.ShiftDown()
	case Left:
		return g.ShiftLeft()
	case Right:
		return g.ShiftRight()
	}
	return false
}

// SpawnRandomTile writes a 2 (90%) or a 4 (10%) into an empty cell chosen
// uniformly at random. It is a no-op on a full grid.
func (g *Grid) SpawnRandomTile(r Rand) (Position, int, bool) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Position{}, 0, false
	}

	pos := empty[r.Intn(len(empty))]
	value := SpawnLowValue
	if r.Float64() >= SpawnLowProbability {
		value = SpawnHighValue
	}
	g.put(pos.X, pos.Y, value)
	return pos, value, true
}

// StepResult describes what a single Step did to the grid
type StepResult struct {
	Changed bool     `json:"changed"`
	Spawned bool     `json:"spawned"`
	Tile    Position `json:"tile"`
	Value   int      `json:"value,omitempty"`
}

// StepDetailed is Step with a report of the move and the spawned tile
func (g *Grid) StepDetailed(d Direction, r Rand) (StepResult, bool) {
	var res StepResult
	res.Changed = g.ApplyMove(d)
	if !res.Changed && g.IsFull() {
		return res, false
	}
	res.Tile, res.Value, res.Spawned = g.SpawnRandomTile(r)
	return res, true
}

// Step applies a move and spawns a tile. It returns false, without spawning,
// only when the move changed nothing and the grid is full.
func (g *Grid) Step(d Direction, r Rand) bool {
	_, ok := g.StepDetailed(d, r)
	return ok
}
