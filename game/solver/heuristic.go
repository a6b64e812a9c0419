package solver

import (
	"math"

	"github.com/wricardo/g2048/game/engine"
)

// Heuristic scores a grid; higher is better
type Heuristic func(g *engine.Grid) float64

// ScorePosition sums v*log2(v) over every tile, rewarding large tiles more than many small ones
func ScorePosition(g *engine.Grid) float64 {
	total := 0.0
	for _, row := range g.Rows() {
		for _, v := range row {
			if v > 0 {
				total += tileWeight(v)
			}
		}
	}
	return total
}

func tileWeight(v int) float64 {
	return float64(v) * math.Log2(float64(v))
}

// PositionAware weighs tiles by where they sit and rewards equal neighbours
type PositionAware struct {
	Corner   float64 `json:"corner"`
	Edge     float64 `json:"edge"`
	Interior float64 `json:"interior"`
	Adjacent float64 `json:"adjacent"`
}

// DefaultPositionAware favours corners over edges over the interior
var DefaultPositionAware = PositionAware{Corner: 1.0, Edge: 0.5, Interior: 0.25, Adjacent: 1.0}

// Score is a Heuristic
func (p PositionAware) Score(g *engine.Grid) float64 {
	w, h := g.Dimensions()
	rows := g.Rows()

	total := 0.0
	for y, row := range rows {
		for x, v := range row {
			if v == 0 {
				continue
			}

			edgeX := x == 0 || x == w-1
			edgeY := y == 0 || y == h-1
			factor := 1 - p.Interior
			switch {
			case edgeX && edgeY:
				factor = 1 + p.Corner
			case edgeX || edgeY:
				factor = 1 + p.Edge
			}
			total += tileWeight(v) * factor

			if x+1 < w && row[x+1] == v {
				total += p.Adjacent * float64(v)
			}
			if y+1 < h && rows[y+1][x] == v {
				total += p.Adjacent * float64(v)
			}
		}
	}
	return total
}

// Static evaluator weights
const (
	EmptyWeight      = 100.0
	MaxTileWeight    = 10.0
	SmoothnessWeight = 0.5
)

// StaticEvaluate combines free space, the largest tile and a smoothness penalty
// over horizontally and vertically adjacent tiles.
func StaticEvaluate(g *engine.Grid) float64 {
	w, h := g.Dimensions()
	rows := g.Rows()

	empty, maxTile := 0, 0
	smoothness := 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := rows[y][x]
			if v == 0 {
				empty++
				continue
			}
			if v > maxTile {
				maxTile = v
			}
			if x+1 < w && rows[y][x+1] != 0 {
				smoothness += math.Abs(float64(v - rows[y][x+1]))
			}
			if y+1 < h && rows[y+1][x] != 0 {
				smoothness += math.Abs(float64(v - rows[y+1][x]))
			}
		}
	}

	score := EmptyWeight*float64(empty) - SmoothnessWeight*smoothness
	if maxTile > 0 {
		score += MaxTileWeight * math.Log2(float64(maxTile))
	}
	return score
}
