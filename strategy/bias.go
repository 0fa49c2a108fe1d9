package strategy

import (
	"math"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/grid"
	"github.com/battlesnakeio/zerocool/score"
	"github.com/battlesnakeio/zerocool/search"
)

// noWallDistance fills every slot of the wall bias when no move leads off
// the edge.
const noWallDistance = -9999

type bias struct {
	name string
	fn   func(*State) score.Vector
}

// biases run in this order on top of every behaviour.
var biases = []bias{
	{"base", (*State).baseMoveBias},
	{"tight move", (*State).tightMoveBias},
	{"flood", (*State).floodBias},
	{"farther from dangerous snakes", (*State).fartherFromDangerousSnakesBias},
	{"closer to killable snakes", (*State).closerToKillableSnakesBias},
	{"farther from walls", (*State).fartherFromWallsBias},
	{"closer to tails", (*State).closerToTailsBias},
}

// baseScoreForCell is the flat value of stepping onto c.
func (s *State) baseScoreForCell(c board.Cell) float64 {
	w := s.Weights
	if s.Grid.OutOfBounds(c) {
		return w.Base.ForgetAboutIt
	}
	switch s.Grid.Value(c) {
	case grid.Space, grid.Tail, grid.Future2:
		return w.Base.Space
	case grid.Food:
		return w.Base.Food
	case grid.KillZone:
		return w.Base.KillZone * w.BaseMultiplier.KillZone
	case grid.WallNear:
		return w.Base.WallNear * w.BaseMultiplier.WallNear
	case grid.Warning:
		return w.Base.Warning
	case grid.SmallDanger:
		return w.Base.SmallDanger
	case grid.Danger:
		return w.Base.Danger
	}
	return w.Base.ForgetAboutIt
}

func (s *State) baseMoveBias() score.Vector {
	var scores score.Vector
	head := s.Head()
	for _, d := range board.Directions {
		scores[d] += s.baseScoreForCell(head.Move(d))
	}
	return scores
}

// tightMoveBias counts, for each legal move, how many open cells border the
// cell we would land on.
func (s *State) tightMoveBias() score.Vector {
	var scores score.Vector
	head := s.Head()
	for _, d := range board.Directions {
		next := head.Move(d)
		if s.Grid.OutOfBounds(next) || s.Grid.Value(next) > grid.Danger {
			continue
		}
		for _, around := range board.Directions {
			c := next.Move(around)
			if !s.Grid.OutOfBounds(c) && s.Grid.Value(c) <= grid.Warning {
				scores[d] += s.Weights.Multiplier.TightMove
			}
		}
	}
	return scores
}

func (s *State) floodBias() score.Vector {
	var scores score.Vector
	head := s.Head()
	fill := s.Weights.Fill()
	for _, d := range board.Directions {
		next := head.Move(d)
		if s.Grid.OutOfBounds(next) || s.Grid.Value(next) >= grid.SnakeBody {
			continue
		}
		tally := search.Fill(s.ctx, s.Grid, next, head)
		if tally.Partial {
			s.log.WithField("direction", d).Warn("flood fill cut short")
		}
		scores[d] += tally.Score(fill)
		s.log.WithField("direction", d).
			WithField("area", tally.Area).
			Debug("flood fill")
	}
	return scores
}

// fartherFromDangerousSnakesBias rewards distance from the heads of snakes
// at least as long as ours.
func (s *State) fartherFromDangerousSnakesBias() score.Vector {
	var heads []board.Cell
	for _, snake := range s.Opponents() {
		if snake.Length < s.Self.Length {
			continue
		}
		if head, ok := snake.Head(); ok {
			heads = append(heads, head)
		}
	}
	exp := s.Weights.Exponent.EnemyHeadDistance
	scores := s.scoresForTargets(heads, func(d int, _ board.Cell) float64 {
		return math.Pow(float64(d), exp)
	})
	return score.Normalize(scores)
}

func (s *State) closerToKillableSnakesBias() score.Vector {
	exp := s.Weights.Exponent.KillZoneDistance
	return s.scoresForTargets(s.Grid.All(grid.KillZone), func(d int, _ board.Cell) float64 {
		return -math.Pow(float64(d), exp)
	})
}

// closerToTailsBias pulls towards tails that are about to move. Our own
// tail counts twice.
func (s *State) closerToTailsBias() score.Vector {
	var tails []board.Cell
	for _, snake := range s.Snapshot.Board.Snakes {
		tail, ok := snake.Tail()
		if !ok {
			continue
		}
		if s.isMe(snake) {
			tails = append(tails, tail)
		}
		tails = append(tails, tail)
	}
	decay := s.Weights.Decay.TailDistance
	mult := s.Weights.Multiplier.TailDistance
	return s.scoresForTargets(tails, func(d int, _ board.Cell) float64 {
		return math.Exp(-math.Abs(float64(d))/decay) * mult
	})
}

// fartherFromWallsBias favours moves toward the middle of the board. Moves
// onto the edge or off the board score nothing before the shift.
func (s *State) fartherFromWallsBias() score.Vector {
	var scores score.Vector
	minimum := 0.0
	found := false
	head := s.Head()
	for _, d := range board.Directions {
		dist := s.distanceFromWall(head.Move(d))
		if dist <= 0 {
			continue
		}
		scores[d] = float64(dist) * s.Weights.Multiplier.WallDistance
		if !found || scores[d] < minimum {
			minimum, found = scores[d], true
		}
	}
	if !found {
		return score.Vector{noWallDistance, noWallDistance, noWallDistance, noWallDistance}
	}
	for i := range scores {
		scores[i] -= minimum
	}
	return scores
}

func (s *State) distanceFromWall(c board.Cell) int {
	x := min(c.X, s.Grid.Width-1-c.X)
	y := min(c.Y, s.Grid.Height-1-c.Y)
	return x + y
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
