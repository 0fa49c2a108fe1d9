package rules

import "github.com/battlesnakeio/zerocool/board"

func (g *Game) unoccupiedPoint() (board.Cell, bool) {
	open := g.unoccupiedPoints()
	if len(open) == 0 {
		return board.Cell{}, false
	}
	return open[g.rng.Intn(len(open))], true
}

// unoccupiedPoints lists cells with neither food nor a living snake on them,
// column by column.
func (g *Game) unoccupiedPoints() []board.Cell {
	occupied := map[board.Cell]bool{}
	for _, f := range g.Food {
		occupied[f] = true
	}
	for _, s := range g.AliveSnakes() {
		for _, b := range s.Body {
			occupied[b] = true
		}
	}

	var points []board.Cell
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			p := board.Cell{X: x, Y: y}
			if !occupied[p] {
				points = append(points, p)
			}
		}
	}
	return points
}
