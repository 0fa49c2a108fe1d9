// Package grid builds the per-turn semantic grid: a matrix of cell
// categories derived from the board snapshot. A grid is built fresh every
// turn and never shared between turns.
package grid

import (
	"strings"

	"github.com/battlesnakeio/zerocool/board"
)

// Grid is a height x width matrix of categories, indexed [y][x].
type Grid struct {
	Width  int
	Height int
	data   [][]Category
}

// New creates a grid filled with fill.
func New(width, height int, fill Category) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	data := make([][]Category, height)
	for y := range data {
		data[y] = make([]Category, width)
		for x := range data[y] {
			data[y][x] = fill
		}
	}
	return &Grid{Width: width, Height: height, data: data}
}

// Value returns the category of c. Out of bounds cells report EnemyHead so
// they are never stepped on.
func (g *Grid) Value(c board.Cell) Category {
	if g.OutOfBounds(c) {
		return EnemyHead
	}
	return g.data[c.Y][c.X]
}

// Update sets the category of c. Out of bounds updates are ignored.
func (g *Grid) Update(c board.Cell, cat Category) {
	if g.OutOfBounds(c) {
		return
	}
	g.data[c.Y][c.X] = cat
}

// OutOfBounds tests if c lies outside the grid.
func (g *Grid) OutOfBounds(c board.Cell) bool {
	return c.X < 0 || c.Y < 0 || c.X >= g.Width || c.Y >= g.Height
}

// NearPerimeter tests if c is one cell in from the edge without being on it.
func (g *Grid) NearPerimeter(c board.Cell) bool {
	if g.OutOfBounds(c) || g.OnPerimeter(c) {
		return false
	}
	return c.X == 1 || c.X == g.Width-2 || c.Y == 1 || c.Y == g.Height-2
}

// OnPerimeter tests if c is on the outermost ring.
func (g *Grid) OnPerimeter(c board.Cell) bool {
	return c.X == 0 || c.X == g.Width-1 || c.Y == 0 || c.Y == g.Height-1
}

// All returns every cell holding cat in row-major order.
func (g *Grid) All(cat Category) []board.Cell {
	var cells []board.Cell
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.data[y][x] == cat {
				cells = append(cells, board.Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// Copy returns a deep copy of the grid.
func (g *Grid) Copy() *Grid {
	cp := New(g.Width, g.Height, Space)
	for y := range g.data {
		copy(cp.data[y], g.data[y])
	}
	return cp
}

// Rows renders the grid top row first (highest y) using category symbols.
func (g *Grid) Rows() []string {
	rows := make([]string, 0, g.Height)
	for y := g.Height - 1; y >= 0; y-- {
		var sb strings.Builder
		for x := 0; x < g.Width; x++ {
			sb.WriteRune(g.data[y][x].Symbol())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// String pretty prints the grid with axis labels, y growing upwards.
func (g *Grid) String() string {
	var sb strings.Builder
	for i, row := range g.Rows() {
		y := g.Height - 1 - i
		sb.WriteString(string(rune('0' + y%10)))
		sb.WriteString(" ")
		for _, r := range row {
			sb.WriteString(" ")
			sb.WriteRune(r)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  ")
	for x := 0; x < g.Width; x++ {
		sb.WriteString(" ")
		sb.WriteRune(rune('0' + x%10))
	}
	sb.WriteString("\n")
	return sb.String()
}
