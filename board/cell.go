// Package board holds the value types a turn is described with: cells,
// directions, snakes and the board snapshot delivered by the game server.
package board

import "fmt"

// Cell is a coordinate on the board. Cells are compared by value.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Equal checks if 2 cells are the same x,y coordinate
func (c Cell) Equal(other Cell) bool {
	return c.X == other.X && c.Y == other.Y
}

// Add combines the coordinates of an offset with c.
func (c Cell) Add(offset Cell) Cell {
	return Cell{X: c.X + offset.X, Y: c.Y + offset.Y}
}

// Move returns the neighbouring cell in the given direction. Up is +y.
func (c Cell) Move(d Direction) Cell {
	switch d {
	case Up:
		return Cell{X: c.X, Y: c.Y + 1}
	case Down:
		return Cell{X: c.X, Y: c.Y - 1}
	case Left:
		return Cell{X: c.X - 1, Y: c.Y}
	case Right:
		return Cell{X: c.X + 1, Y: c.Y}
	}
	return c
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Distance is the manhattan distance between two cells.
func Distance(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// DirectionTo gives the direction to step from a towards b. Horizontal
// movement wins over vertical. ok is false when a and b are the same cell.
func DirectionTo(a, b Cell) (d Direction, ok bool) {
	dx := a.X - b.X
	dy := a.Y - b.Y
	switch {
	case dx < 0:
		return Right, true
	case dx > 0:
		return Left, true
	case dy < 0:
		return Up, true
	case dy > 0:
		return Down, true
	}
	return Up, false
}

// ContainsCell checks if cells holds c.
func ContainsCell(cells []Cell, c Cell) bool {
	for _, other := range cells {
		if other.Equal(c) {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
