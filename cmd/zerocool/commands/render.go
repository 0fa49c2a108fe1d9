package commands

import (
	"errors"
	"fmt"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	youColor     = termbox.ColorMagenta
	snakeColor   = termbox.ColorGreen
	foodColor    = termbox.ColorRed
)

func render(game *controller.Game, turn *controller.Turn) error {
	if turn == nil || turn.Snapshot == nil {
		return errors.New("received empty turn")
	}
	err := termbox.Clear(defaultColor, defaultColor)
	if err != nil {
		return err
	}

	snap := turn.Snapshot
	var (
		left   = 10
		top    = 3
		bottom = top + snap.Board.Height + 1
		side   = left + snap.Board.Width + 5
	)

	renderTitle(left, top, game, turn)
	renderBoard(snap.Board, top, bottom, left)
	renderFood(left, top, snap.Board)

	line := top
	tbprint(side, line, defaultColor, defaultColor,
		fmt.Sprintf("move %s, %s (%.1fms)", turn.Move, turn.Behavior, turn.ElapsedMS))
	line++
	tbprint(side, line, defaultColor, defaultColor, turn.Scores.String())
	line += 2

	for _, s := range snap.Board.Snakes {
		color := snakeColor
		if s.ID == game.SnakeID {
			color = youColor
		}
		renderSnake(left, top, snap.Board.Height, s, color)

		tbprint(side, line, color, defaultColor, fmt.Sprintf("%s %d/%d", s.Name, s.Health, board.MaxHealth))
		line++
		healthColor := termbox.ColorGreen
		for i := 0; i < 10; i++ {
			if s.Health <= (i*10)+1 {
				healthColor = termbox.ColorRed
			}
			termbox.SetCell(side+i, line, ' ', healthColor, healthColor)
		}
		line += 2
	}

	return termbox.Flush()
}

// row is the screen row of a board y. The board's y axis points up.
func row(top, height, y int) int {
	return top + height - y
}

func renderSnake(left, top, height int, s board.Snake, color termbox.Attribute) {
	for i, b := range s.Body {
		ch := ' '
		if i == 0 {
			ch = '@'
		}
		termbox.SetCell(left+b.X, row(top, height, b.Y), ch, termbox.ColorBlack, color)
	}
}

func renderFood(left, top int, b board.Board) {
	for _, f := range b.Food {
		termbox.SetCell(left+f.X, row(top, b.Height, f.Y), '*', foodColor, bgColor)
	}
}

func renderBoard(b board.Board, top, bottom, left int) {
	for i := top + 1; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(left+b.Width, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(left+b.Width, top, '┐', defaultColor, bgColor)
	termbox.SetCell(left+b.Width, bottom, '┘', defaultColor, bgColor)

	fill(left, top, b.Width, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, b.Width, 1, termbox.Cell{Ch: '─'})
}

func renderTitle(left, top int, game *controller.Game, turn *controller.Turn) {
	tbprint(left, top-2, defaultColor, defaultColor, fmt.Sprintf("Zero Cool - %s", game.ID))
	tbprint(left, top-1, defaultColor, defaultColor, fmt.Sprintf("Turn %d", turn.Turn))
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}
