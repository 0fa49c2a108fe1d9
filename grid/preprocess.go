package grid

import (
	"github.com/battlesnakeio/zerocool/board"
	log "github.com/sirupsen/logrus"
)

// Preprocess runs the secondary pass over a built grid. When our head is one
// cell in from the edge, every opponent whose head sits on the edge gets a
// corridor fill between it and us. The corridor fill itself does not change
// the grid yet, so the result always equals the input.
func Preprocess(g *Grid, snap board.Snapshot, logger log.FieldLogger) *Grid {
	if logger == nil {
		logger = log.StandardLogger()
	}
	me, ok := snap.You.Head()
	if !ok || !g.NearPerimeter(me) {
		return g
	}
	logger.Debug("head is near perimeter")

	filled := g.Copy()
	for _, enemy := range snap.Board.Snakes {
		if enemy.ID == snap.You.ID {
			continue
		}
		head, ok := enemy.Head()
		if !ok || !g.OnPerimeter(head) {
			continue
		}
		logger.WithField("enemy", head).Debug("enemy is on perimeter")
		filled = edgeFillFromEnemy(filled, head, logger)
	}
	return filled
}

// edgeFillFromEnemy is the hook for denying the corridor an edge-riding enemy
// can take. It collects the enemy's legal next cells and leaves the grid
// untouched.
// TODO: decide the corridor fill rule for cells between the enemy's next
// cells and our head, then mark them here.
func edgeFillFromEnemy(g *Grid, head board.Cell, logger log.FieldLogger) *Grid {
	moves := EnemyMoves(g, head)
	logger.WithField("moves", len(moves)).Debug("skipping edge fill, no fill rule defined")
	return g
}

// EnemyMoves returns the cells a snake at head can legally step onto: in
// bounds and no worse than Danger.
func EnemyMoves(g *Grid, head board.Cell) []board.Cell {
	var cells []board.Cell
	for _, d := range board.Directions {
		next := head.Move(d)
		if !g.OutOfBounds(next) && g.Value(next) <= Danger {
			cells = append(cells, next)
		}
	}
	return cells
}
