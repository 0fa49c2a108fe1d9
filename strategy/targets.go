package strategy

import (
	"math"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/grid"
	"github.com/battlesnakeio/zerocool/score"
	"github.com/battlesnakeio/zerocool/search"
)

// distanceFunc scores a target found distance steps away. from is the cell
// the search started relative to, which is always our head.
type distanceFunc func(distance int, from board.Cell) float64

// scoresForTargets searches from each of our legal next cells to every target
// and adds fn of the distance to that direction's slot. Unreachable targets
// add nothing.
func (s *State) scoresForTargets(targets []board.Cell, fn distanceFunc) score.Vector {
	var scores score.Vector
	head := s.Head()
	for _, target := range targets {
		for _, d := range board.Directions {
			next := head.Move(d)
			if s.Grid.OutOfBounds(next) || s.Grid.Value(next) >= grid.SnakeBody {
				continue
			}
			res := search.Path(s.ctx, s.Grid, next, target, grid.SnakeBody, true)
			if res.Found {
				scores[d] += fn(res.Distance, head)
			}
		}
	}
	return scores
}

func (s *State) eatingScores(foods []board.Cell, urgency float64) score.Vector {
	decay := s.Weights.Decay.FoodDistance
	return s.scoresForTargets(foods, func(d int, _ board.Cell) float64 {
		return urgency * math.Exp(-math.Abs(float64(d))/decay)
	})
}

// eatingScoresFromGrid targets the food marked on the grid, falling back to
// the raw food list when none of it is reachable.
func (s *State) eatingScoresFromGrid(urgency float64) score.Vector {
	scores := s.eatingScores(s.Grid.All(grid.Food), urgency)
	if !score.HasMove(scores) {
		scores = s.eatingScoresFromState(urgency)
	}
	return scores
}

func (s *State) eatingScoresFromState(urgency float64) score.Vector {
	return s.eatingScores(s.Snapshot.Board.Food, urgency)
}

// huntingScoresForKillZones favours moves with a path to cells next to the
// heads of smaller snakes. Starting from a dangerous cell damps the score.
func (s *State) huntingScoresForKillZones() score.Vector {
	exp := s.Weights.Exponent.HuntKillZoneDistance
	return s.scoresForTargets(s.Grid.All(grid.KillZone), func(d int, from board.Cell) float64 {
		if s.Grid.Value(from) >= grid.SmallDanger {
			return math.Pow(float64(d), exp) / 10
		}
		return math.Pow(float64(d), exp)
	})
}

func (s *State) huntingScoresForFuture2() score.Vector {
	exp := s.Weights.Exponent.HuntFuture2Distance
	return s.scoresForTargets(s.Grid.All(grid.Future2), func(d int, _ board.Cell) float64 {
		return math.Pow(float64(d), exp)
	})
}

// ClosestFood is the nearest food cell on the grid by manhattan distance.
func (s *State) ClosestFood() (board.Cell, bool) {
	return closestTarget(s.Grid, s.Head(), grid.Food)
}

// ClosestKillable is the nearest kill zone cell.
func (s *State) ClosestKillable() (board.Cell, bool) {
	return closestTarget(s.Grid, s.Head(), grid.KillZone)
}

// ClosestDanger is the nearest head of a snake at least as long as ours.
func (s *State) ClosestDanger() (board.Cell, bool) {
	return closestTarget(s.Grid, s.Head(), grid.EnemyHead)
}

// closestTarget scans in row-major order; the first of equally close cells
// wins.
func closestTarget(g *grid.Grid, from board.Cell, cat grid.Category) (board.Cell, bool) {
	var closest board.Cell
	found := false
	best := 0
	for _, c := range g.All(cat) {
		if d := board.Distance(from, c); !found || d < best {
			closest, best, found = c, d, true
		}
	}
	return closest, found
}
