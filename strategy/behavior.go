package strategy

import (
	"fmt"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/score"
	log "github.com/sirupsen/logrus"
)

// Behavior is the top level goal picked for a turn.
type Behavior int

// Behaviors. LateHunting is available to callers but never picked by Decide.
const (
	Eating Behavior = iota
	EatingEmergency
	Hunting
	LateHunting
)

var behaviorNames = [...]string{"EATING", "EATING_EMERGENCY", "HUNTING", "LATE_HUNTING"}

func (b Behavior) String() string {
	if b < Eating || b > LateHunting {
		return fmt.Sprintf("BEHAVIOR(%d)", int(b))
	}
	return behaviorNames[b]
}

// Result is the outcome of running one behaviour with its biases.
type Result struct {
	Behavior Behavior
	Move     board.Direction
	// Scores are the final normalized scores the move was picked from.
	Scores score.Vector
	// Contributions holds every vector that was combined, keyed by name.
	Contributions map[string]score.Vector
}

// Eat seeks food. In an emergency the raw food list is used directly,
// otherwise the food marked on the grid.
func (s *State) Eat() Result {
	urgency := s.HungerUrgency()
	emergency := s.HungerEmergency()
	entry := s.log.WithField("urgency", urgency).
		WithField("emergency", emergency)
	s.withTarget(entry, "food", s.ClosestFood).Info("eating")

	if emergency {
		scores := s.safely("eating emergency", func() score.Vector {
			return s.eatingScoresFromState(urgency)
		})
		return s.addBiases(EatingEmergency, scores)
	}
	scores := s.safely("eating", func() score.Vector {
		return s.eatingScoresFromGrid(urgency)
	})
	return s.addBiases(Eating, scores)
}

// Hunt targets kill zones, or two-move threat cells when no kill zone is
// reachable.
func (s *State) Hunt() Result {
	entry := s.withTarget(s.log, "killable", s.ClosestKillable)
	entry = s.withTarget(entry, "danger", s.ClosestDanger)
	entry.Info("hunting")
	scores := s.safely("hunting", func() score.Vector {
		scores := s.huntingScoresForKillZones()
		if !score.HasMove(scores) {
			s.log.Info("no accessible kill zone, targeting future 2")
			scores = s.huntingScoresForFuture2()
		}
		return scores
	})
	return s.addBiases(Hunting, scores)
}

// LateHunt targets kill zones while a smaller snake exists and two-move
// threat cells otherwise.
func (s *State) LateHunt() Result {
	s.log.Info("hunting, late game")
	scores := s.safely("late hunting", func() score.Vector {
		if s.ExistsSmaller() {
			return s.huntingScoresForKillZones()
		}
		return s.huntingScoresForFuture2()
	})
	return s.addBiases(LateHunting, scores)
}

// withTarget adds the closest target found by closest, and the direction
// towards it, to entry.
func (s *State) withTarget(entry log.FieldLogger, name string, closest func() (board.Cell, bool)) log.FieldLogger {
	target, ok := closest()
	if !ok {
		return entry
	}
	entry = entry.WithField("closest_"+name, target)
	if d, ok := board.DirectionTo(s.Head(), target); ok {
		entry = entry.WithField("towards_"+name, d)
	}
	return entry
}

// addBiases layers every bias onto the behaviour's scores, normalizes, and
// picks the best direction.
func (s *State) addBiases(behavior Behavior, behaviorScores score.Vector) Result {
	contributions := map[string]score.Vector{behavior.String(): behaviorScores}
	scores := behaviorScores
	for _, b := range biases {
		fn := b.fn
		v := s.safely(b.name, func() score.Vector { return fn(s) })
		contributions[b.name] = v
		scores = score.Combine(v, scores)
	}
	s.log.Debugf("grid\n%s", s.Grid)

	scores = score.Normalize(scores)
	move := score.Best(scores)
	s.log.WithField("scores", scores).
		WithField("move", move).
		WithField("behavior", behavior).
		Info("picked move")
	return Result{
		Behavior:      behavior,
		Move:          move,
		Scores:        scores,
		Contributions: contributions,
	}
}

// safely runs one scoring contributor. A panic is logged and the
// contributor scores nothing.
func (s *State) safely(name string, fn func() score.Vector) (v score.Vector) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("contributor", name).
				WithField("panic", r).
				Error("scoring contributor failed")
			v = score.Vector{}
		}
	}()
	v = fn()
	s.log.WithField("contributor", name).
		WithField("scores", v).
		Debug("scored")
	return v
}
