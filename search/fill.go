package search

import (
	"context"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/grid"
)

type mark uint8

const (
	unseen mark = iota
	queued
	closed
)

// Tally counts what a flood fill reached.
type Tally struct {
	Area       int
	EnemyHeads int
	KillZones  int
	Tails      int
	Foods      int
	Warnings   int
	Walls      int
	Dangers    int
	Futures    int
	// Partial is set when the fill was cut short by its context.
	Partial bool
}

// FillWeights turns a Tally into a single number.
type FillWeights struct {
	Space     float64
	Tail      float64
	Food      float64
	EnemyHead float64
	KillZone  float64
	Warning   float64
	WallNear  float64
	Danger    float64
	Future2   float64
}

// Score is the weighted sum of the tally.
func (t Tally) Score(w FillWeights) float64 {
	score := float64(t.Area) * w.Space
	score += float64(t.Tails) * w.Tail
	score += float64(t.Foods) * w.Food
	score += float64(t.EnemyHeads) * w.EnemyHead
	score += float64(t.KillZones) * w.KillZone
	score += float64(t.Warnings) * w.Warning
	score += float64(t.Walls) * w.WallNear
	score += float64(t.Dangers) * w.Danger
	score += float64(t.Futures) * w.Future2
	return score
}

// Fill explores every cell reachable from start through cells no worse than
// Danger, depth first. head is treated as already visited. Cells holding one
// of the constraint categories stop the fill, except for a KillZone or
// Future2 start cell. Heads bordering the area are counted each time they
// are touched.
func Fill(ctx context.Context, g *grid.Grid, start, head board.Cell, constraints ...grid.Category) Tally {
	var t Tally
	seen := make([][]mark, g.Height)
	for y := range seen {
		seen[y] = make([]mark, g.Width)
	}
	var stack []board.Cell

	push := func(c board.Cell) {
		if g.OutOfBounds(c) || seen[c.Y][c.X] != unseen {
			return
		}
		value := g.Value(c)
		if value > grid.Danger {
			if value == grid.EnemyHead || value == grid.SmallHead {
				t.EnemyHeads++
			}
			return
		}
		for _, constraint := range constraints {
			if t.Area == 0 && (value == grid.KillZone || value == grid.Future2) {
				break
			}
			if value == constraint {
				return
			}
		}
		stack = append(stack, c)
		seen[c.Y][c.X] = queued
	}

	push(start)
	if !g.OutOfBounds(head) {
		seen[head.Y][head.X] = closed
	}

	for i := 0; len(stack) > 0; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			t.Partial = true
			return t
		}
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen[current.Y][current.X] = closed

		switch g.Value(current) {
		case grid.Tail:
			t.Tails++
		case grid.KillZone:
			t.KillZones++
		case grid.Food:
			t.Foods++
		case grid.WallNear:
			t.Walls++
		case grid.Warning:
			t.Warnings++
		case grid.Danger, grid.SmallDanger:
			t.Dangers++
		case grid.Future2:
			t.Futures++
		}
		t.Area++

		push(board.Cell{X: current.X, Y: current.Y - 1})
		push(board.Cell{X: current.X, Y: current.Y + 1})
		push(board.Cell{X: current.X - 1, Y: current.Y})
		push(board.Cell{X: current.X + 1, Y: current.Y})
	}
	return t
}
