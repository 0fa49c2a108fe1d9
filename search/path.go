// Package search holds the two graph primitives the strategy is built on:
// a best-first shortest path search and a flood fill reachability tally.
package search

import (
	"context"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/grid"
)

// checkEvery is how many expansions run between context checks.
const checkEvery = 32

// Result of a path search. Distance and Position are only meaningful when
// Found is true.
type Result struct {
	Found    bool
	Distance int
	Position board.Cell
}

type node struct {
	g, h, f   int
	prev      board.Cell
	hasPrev   bool
	open      bool
	closed    bool
	neighbors []board.Cell
}

// scratch is the per-search score grid, indexed [y][x].
type scratch [][]node

func newScratch(g *grid.Grid) scratch {
	s := make(scratch, g.Height)
	for y := range s {
		s[y] = make([]node, g.Width)
		for x := range s[y] {
			s[y][x].neighbors = neighbors(g, board.Cell{X: x, Y: y})
		}
	}
	return s
}

func (s scratch) at(c board.Cell) *node {
	return &s[c.Y][c.X]
}

// neighbors lists in-bounds orthogonal cells in the order right, left, up,
// down. Ties on f are broken by this order.
func neighbors(g *grid.Grid, c board.Cell) []board.Cell {
	cells := make([]board.Cell, 0, 4)
	if c.X < g.Width-1 {
		cells = append(cells, board.Cell{X: c.X + 1, Y: c.Y})
	}
	if c.X > 0 {
		cells = append(cells, board.Cell{X: c.X - 1, Y: c.Y})
	}
	if c.Y < g.Height-1 {
		cells = append(cells, board.Cell{X: c.X, Y: c.Y + 1})
	}
	if c.Y > 0 {
		cells = append(cells, board.Cell{X: c.X, Y: c.Y - 1})
	}
	return cells
}

// Path finds a path from start to dest stepping only on cells whose category
// is strictly below avoid. The destination itself is accepted whatever its
// category. On success Position is the first step away from start, or start
// itself when returnStart is set.
//
// The search stops with Found false when ctx is done.
func Path(ctx context.Context, g *grid.Grid, start, dest board.Cell, avoid grid.Category, returnStart bool) Result {
	if g.OutOfBounds(start) || g.OutOfBounds(dest) {
		return Result{}
	}
	if start.Equal(dest) && returnStart {
		return Result{Found: true, Distance: 0, Position: start}
	}

	s := newScratch(g)
	open := []board.Cell{start}
	s.at(start).open = true

	for i := 0; len(open) > 0; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			return Result{}
		}

		lowest := 0
		for j := 1; j < len(open); j++ {
			if s.at(open[j]).f < s.at(open[lowest]).f {
				lowest = j
			}
		}
		current := open[lowest]
		if current.Equal(dest) {
			return walkback(s, start, current, returnStart)
		}

		open = append(open[:lowest], open[lowest+1:]...)
		cur := s.at(current)
		cur.open = false
		cur.closed = true

		for _, next := range cur.neighbors {
			n := s.at(next)
			if next.Equal(dest) {
				n.prev, n.hasPrev = current, true
				return walkback(s, start, next, returnStart)
			}
			if g.Value(next) >= avoid || n.closed {
				continue
			}
			tentative := cur.g + 1
			if n.open {
				if tentative >= n.g {
					continue
				}
			} else {
				open = append(open, next)
				n.open = true
			}
			n.g = tentative
			n.h = board.Distance(next, dest)
			n.f = n.g + n.h
			n.prev, n.hasPrev = current, true
		}
	}
	return Result{}
}

func walkback(s scratch, start, dest board.Cell, returnStart bool) Result {
	if start.Equal(dest) {
		return Result{Found: true, Distance: 0, Position: start}
	}
	step := dest
	distance := 1
	for {
		n := s.at(step)
		if !n.hasPrev {
			return Result{}
		}
		if n.prev.Equal(start) {
			break
		}
		step = n.prev
		distance++
	}
	if returnStart {
		return Result{Found: true, Distance: distance, Position: start}
	}
	return Result{Found: true, Distance: distance, Position: step}
}
