// Package strategy turns a board snapshot into a move. Every turn a fresh
// State is built, a behaviour is picked, and the behaviour's scores are
// layered with biases before the best direction is taken.
package strategy

import (
	"context"
	"math"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/grid"
	log "github.com/sirupsen/logrus"
)

// State is everything one turn's decision needs. It is never reused.
type State struct {
	Snapshot board.Snapshot
	Grid     *grid.Grid
	Self     board.Snake
	Turn     int
	Weights  Weights

	ctx context.Context
	log log.FieldLogger
}

// Options tune a decision. The zero value plays with DefaultWeights, no
// friends and the standard logger.
type Options struct {
	Friends *board.Friends
	Weights *Weights
	Logger  log.FieldLogger
}

// NewState builds the grid for snap and runs the preprocess pass on it.
func NewState(ctx context.Context, snap board.Snapshot, opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	s := &State{
		Snapshot: snap,
		Self:     snap.You,
		Turn:     snap.Turn,
		Weights:  weights,
		ctx:      ctx,
		log:      logger,
	}
	s.Grid = grid.Build(snap, opts.Friends, logger)
	s.preprocess()
	return s
}

func (s *State) preprocess() {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("preprocessing grid failed")
		}
	}()
	s.Grid = grid.Preprocess(s.Grid, s.Snapshot, s.log)
}

// Head is the controlled snake's head.
func (s *State) Head() board.Cell {
	head, _ := s.Self.Head()
	return head
}

func (s *State) isMe(snake board.Snake) bool {
	return snake.ID == s.Self.ID
}

// Opponents are all snakes other than ours.
func (s *State) Opponents() []board.Snake {
	var snakes []board.Snake
	for _, snake := range s.Snapshot.Board.Snakes {
		if !s.isMe(snake) {
			snakes = append(snakes, snake)
		}
	}
	return snakes
}

// MinimumHealth is the health below which the snake always eats. It drops
// by one every LongGameHealthResiliency turns.
func (s *State) MinimumHealth() int {
	if s.Weights.LongGameHealthResiliency <= 0 {
		return s.Weights.SurvivalMinHealth
	}
	return s.Weights.SurvivalMinHealth - s.Turn/s.Weights.LongGameHealthResiliency
}

// HungerUrgency scales food scores, growing as health drops.
func (s *State) HungerUrgency() float64 {
	return math.Round(float64(101-s.Self.Health) * s.Weights.Multiplier.HungerUrgency)
}

// HungerEmergency is true when the closest food is about as far as our
// remaining health, or health is already at the minimum.
func (s *State) HungerEmergency() bool {
	health := s.Self.Health
	return s.distanceToClosestFood(s.Head()) >= float64(health-1) || health <= s.MinimumHealth()
}

// IsBiggest is true when no other snake is as long as ours.
func (s *State) IsBiggest() bool {
	for _, snake := range s.Opponents() {
		if snake.Length >= s.Self.Length {
			return false
		}
	}
	return true
}

// ExistsSmaller is true when any other snake is shorter than ours.
func (s *State) ExistsSmaller() bool {
	for _, snake := range s.Opponents() {
		if snake.Length < s.Self.Length {
			return true
		}
	}
	return false
}

// distanceToClosestFood uses the raw food list, not the grid. With no food
// on the board it guesses 0.7 of the board height.
func (s *State) distanceToClosestFood(from board.Cell) float64 {
	closest := -1
	for _, food := range s.Snapshot.Board.Food {
		if d := board.Distance(from, food); closest < 0 || d < closest {
			closest = d
		}
	}
	if closest < 0 {
		return float64(s.Snapshot.Board.Height) * 0.7
	}
	return float64(closest)
}
