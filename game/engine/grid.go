package engine

import (
	"fmt"
	"math"
	"strings"
)

// Grid is a fixed-size matrix of tile values. A zero cell is empty.
//
// Cells are stored row-major; (x, y) addresses column x of row y, with y=0
// being the top row.
type Grid struct {
	width  int
	height int
	cells  []int
}

// NewGrid returns an all-empty grid
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}, nil
}

// NewGridFromRows builds a grid from row slices. All rows must have the same length.
func NewGridFromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty rows", ErrInvalidDimensions)
	}
	g, err := NewGrid(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, y, len(row), g.width)
		}
		copy(g.cells[y*g.width:], row)
	}
	return g, nil
}

// Dimensions returns the width and height of the grid
func (g *Grid) Dimensions() (int, int) {
	return g.width, g.height
}

// Width returns the number of columns
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows
func (g *Grid) Height() int {
	return g.height
}

// InBounds reports whether (x, y) addresses a cell of the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the value at (x, y)
func (g *Grid) Get(x, y int) (int, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, x, y, g.width, g.height)
	}
	return g.cells[y*g.width+x], nil
}

// Set writes value at (x, y)
func (g *Grid) Set(x, y, value int) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, x, y, g.width, g.height)
	}
	g.cells[y*g.width+x] = value
	return nil
}

// at is the unchecked accessor used by the sweeps
func (g *Grid) at(x, y int) int {
	return g.cells[y*g.width+x]
}

func (g *Grid) put(x, y, value int) {
	g.cells[y*g.width+x] = value
}

// Rows returns a snapshot of every row, top to bottom
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.height)
	for y := range rows {
		row := make([]int, g.width)
		copy(row, g.cells[y*g.width:(y+1)*g.width])
		rows[y] = row
	}
	return rows
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Equal reports whether both grids have the same dimensions and values
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for i, v := range g.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// Reset empties every cell
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = 0
	}
}

// IsFull returns true when no cell is empty
func (g *Grid) IsFull() bool {
	for _, v := range g.cells {
		if v == 0 {
			return false
		}
	}
	return true
}

// EmptyCells returns the positions of all empty cells in row-major order
func (g *Grid) EmptyCells() []Position {
	var empty []Position
	for i, v := range g.cells {
		if v == 0 {
			empty = append(empty, Position{X: i % g.width, Y: i / g.width})
		}
	}
	return empty
}

// CountEmpty returns the number of empty cells
func (g *Grid) CountEmpty() int {
	count := 0
	for _, v := range g.cells {
		if v == 0 {
			count++
		}
	}
	return count
}

// MaxTile returns the highest tile value, or 0 on an empty grid
func (g *Grid) MaxTile() int {
	best := 0
	for _, v := range g.cells {
		if v > best {
			best = v
		}
	}
	return best
}

// Score returns the highest tile value. An all-empty grid scores negative infinity.
func (g *Grid) Score() float64 {
	best := g.MaxTile()
	if best == 0 {
		return math.Inf(-1)
	}
	return float64(best)
}

// Sum returns the total of all tile values
func (g *Grid) Sum() int {
	total := 0
	for _, v := range g.cells {
		total += v
	}
	return total
}

// CanMove reports whether Step can still succeed: the grid has an empty cell
// or two equal tiles are adjacent along a row or column.
func (g *Grid) CanMove() bool {
	if !g.IsFull() {
		return true
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			v := g.at(x, y)
			if x+1 < g.width && g.at(x+1, y) == v {
				return true
			}
			if y+1 < g.height && g.at(x, y+1) == v {
				return true
			}
		}
	}
	return false
}

// String renders the grid as a bordered text table
func (g *Grid) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%dx%d)\n", g.height, g.width)
	for y := 0; y < g.height; y++ {
		b.WriteString("|")
		for x := 0; x < g.width; x++ {
			v := g.at(x, y)
			if v == 0 {
				b.WriteString("      |")
				continue
			}
			fmt.Fprintf(&b, " %4d |", v)
		}
		b.WriteString("\n")
	}
	return b.String()
}
