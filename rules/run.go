package rules

import (
	"context"
	"sync"
	"time"

	"github.com/battlesnakeio/zerocool/board"
)

// Mover decides the move of one snake.
type Mover interface {
	Move(ctx context.Context, snap board.Snapshot) board.Direction
}

// MoverFunc adapts a function to a Mover.
type MoverFunc func(ctx context.Context, snap board.Snapshot) board.Direction

// Move calls f.
func (f MoverFunc) Move(ctx context.Context, snap board.Snapshot) board.Direction {
	return f(ctx, snap)
}

// GatherSnakeMoves asks every living snake with a mover for its move. Each
// snake gets the game's timeout to answer.
func (g *Game) GatherSnakeMoves(ctx context.Context, movers map[string]Mover) map[string]board.Direction {
	type update struct {
		id   string
		move board.Direction
	}
	alive := g.AliveSnakes()
	updates := make(chan update, len(alive))
	wg := sync.WaitGroup{}
	for _, s := range alive {
		m, ok := movers[s.ID]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(id string, m Mover, snap board.Snapshot) {
			defer wg.Done()
			mctx := ctx
			if g.Timeout > 0 {
				var cancel context.CancelFunc
				mctx, cancel = context.WithTimeout(ctx, time.Duration(g.Timeout)*time.Millisecond)
				defer cancel()
			}
			updates <- update{id: id, move: m.Move(mctx, snap)}
		}(s.ID, m, g.Snapshot(s.ID))
	}
	wg.Wait()
	close(updates)

	moves := map[string]board.Direction{}
	for u := range updates {
		moves[u.id] = u.move
	}
	return moves
}

// Run plays the game until it is over, ctx is done or maxTurns turns have
// been played. A maxTurns of zero or less means no limit. onTurn, if set, is
// called after every turn.
func (g *Game) Run(ctx context.Context, movers map[string]Mover, maxTurns int, onTurn func(*Game)) error {
	for !g.CheckForGameOver() {
		if maxTurns > 0 && g.Turn >= maxTurns {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		g.GameTick(g.GatherSnakeMoves(ctx, movers))
		if onTurn != nil {
			onTurn(g)
		}
	}
	return nil
}
