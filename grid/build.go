package grid

import (
	"fmt"

	"github.com/battlesnakeio/zerocool/board"
	log "github.com/sirupsen/logrus"
)

var (
	future1Offsets = []board.Cell{
		{X: 0, Y: -1},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
		{X: 1, Y: 0},
	}
	future2Offsets = []board.Cell{
		{X: -1, Y: -1},
		{X: -2, Y: 0},
		{X: -1, Y: 1},
		{X: 0, Y: 2},
		{X: 1, Y: 1},
		{X: 2, Y: 0},
		{X: 1, Y: -1},
		{X: 0, Y: -2},
	}
)

// Build creates the semantic grid for a turn. Layers are applied in a fixed
// order and later layers overwrite earlier ones: walls, food, bodies, heads,
// tails, one move threats, two move threats.
func Build(snap board.Snapshot, friends *board.Friends, logger log.FieldLogger) *Grid {
	if logger == nil {
		logger = log.StandardLogger()
	}
	g := New(snap.Board.Width, snap.Board.Height, Space)
	self := snap.You
	numberOfSnakes := len(snap.Board.Snakes)

	for y := 0; y < g.Height; y++ {
		g.Update(board.Cell{X: 0, Y: y}, WallNear)
		g.Update(board.Cell{X: g.Width - 1, Y: y}, WallNear)
	}
	for x := 0; x < g.Width; x++ {
		g.Update(board.Cell{X: x, Y: 0}, WallNear)
		g.Update(board.Cell{X: x, Y: g.Height - 1}, WallNear)
	}

	for _, food := range snap.Board.Food {
		g.Update(food, Food)
	}

	for _, snake := range snap.Board.Snakes {
		head, ok := snake.Head()
		if !ok {
			continue
		}
		isMe := snake.ID == self.ID
		friendly := friends.IsFriendly(snake) && numberOfSnakes >= 2
		dangerous := snake.Length >= self.Length

		bodyCategory := SnakeBody
		if isMe {
			bodyCategory = YourBody
		}
		for _, segment := range snake.Body {
			g.Update(segment, bodyCategory)
		}

		if !isMe {
			if dangerous || friendly {
				g.Update(head, EnemyHead)
			} else {
				g.Update(head, SmallHead)
			}
		}

		if tail, _ := snake.Tail(); snake.Health != board.MaxHealth && snap.Turn > 1 {
			g.Update(tail, Tail)
		}

		if isMe {
			continue
		}
		future1 := Danger
		if self.Length > snake.Length && !friendly {
			future1 = KillZone
		} else if self.Length == snake.Length && !friendly {
			future1 = SmallDanger
		}
		if err := g.markFutures(head, future1); err != nil {
			logger.WithError(err).
				WithField("snake", snake.ID).
				Error("skipping future moves for snake")
		}
	}
	return g
}

// markFutures marks the cells a snake with the given head could reach in one
// and two moves.
func (g *Grid) markFutures(head board.Cell, future1 Category) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("grid: marking futures around %s: %v", head, r)
		}
	}()
	for _, offset := range future1Offsets {
		position := head.Add(offset)
		if !g.OutOfBounds(position) && g.Value(position) < Danger {
			g.Update(position, future1)
		}
	}
	for _, offset := range future2Offsets {
		position := head.Add(offset)
		if !g.OutOfBounds(position) && g.Value(position) <= WallNear && g.Value(position) != Food {
			g.Update(position, Future2)
		}
	}
	return nil
}
