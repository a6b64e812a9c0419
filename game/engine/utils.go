package engine

import (
	"fmt"
	"math/bits"
	"strings"
	"time"
)

// PossibleMoves returns the tokens of every direction that changes the grid, in Cycle order
func PossibleMoves(g *Grid) []string {
	var possible []string
	for _, d := range Cycle {
		if g.Clone().ApplyMove(d) {
			possible = append(possible, d.String())
		}
	}
	return possible
}

// TileExponent returns n for a tile of value 2^n, or 0 for an empty cell
func TileExponent(value int) int {
	if value <= 0 {
		return 0
	}
	return bits.Len(uint(value)) - 1
}

// refresh copies the derived grid views into the state
func (s *GameState) refresh(g *Grid) {
	s.Grid = g.Rows()
	s.Width, s.Height = g.Dimensions()
	s.Score = g.MaxTile()
	s.TileSum = g.Sum()
	s.EmptyCells = g.CountEmpty()
	s.PossibleMoves = PossibleMoves(g)
	s.Board = g.String()
}

// AddMoveToHistory appends a move to both the cumulative and current-segment histories
func (s *GameState) AddMoveToHistory(action string, changed, success bool) {
	s.TotalMoves++
	entry := MoveHistoryEntry{
		Action:     action,
		Changed:    changed,
		ScoreAfter: s.Score,
		Timestamp:  time.Now().Unix(),
		Success:    success,
		MoveNumber: s.TotalMoves,
	}
	s.MoveHistory = append(s.MoveHistory, entry)
	s.CurrentMoves = append(s.CurrentMoves, entry)
	s.CurrentMovesCount = len(s.CurrentMoves)
}

// FormatMessage renders a config message template. Templates may use fewer
// verbs than there are arguments; the extra trailing arguments are dropped.
func FormatMessage(template string, args ...interface{}) string {
	if template == "" {
		return ""
	}
	n := countVerbs(template)
	if n == 0 {
		return strings.ReplaceAll(template, "%%", "%")
	}
	if n < len(args) {
		args = args[:n]
	}
	return fmt.Sprintf(template, args...)
}

// countVerbs counts the formatting verbs in template, ignoring %%
func countVerbs(template string) int {
	n := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if i+1 < len(template) && template[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}
