package strategy

import (
	"context"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
)

// DefaultMove is played when nothing else produced a move.
const DefaultMove = board.Right

// Decision is the move for a turn and how it was reached.
type Decision struct {
	Move board.Direction
	// Result is nil when no behaviour finished.
	Result *Result
	// Fallback is set when the default move was played.
	Fallback bool
}

// Decide picks the move for snap. It never panics: any failure ends in
// DefaultMove. ctx bounds the searches, and an expired ctx makes them score
// what they had reached.
func Decide(ctx context.Context, snap board.Snapshot, opts Options) (d Decision) {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).
				WithField("snapshot", spew.Sdump(snap)).
				Error("deciding move failed, playing default")
			d = Decision{Move: DefaultMove, Fallback: true}
		}
	}()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := snap.You.Head(); !ok {
		logger.Error("controlled snake has no body, playing default")
		return Decision{Move: DefaultMove, Fallback: true}
	}

	s := NewState(ctx, snap, opts)

	var res *Result
	if snap.You.Health < s.MinimumHealth() {
		res = s.run(s.Eat)
	} else if s.IsBiggest() || s.ExistsSmaller() {
		res = s.run(s.Hunt)
	}
	if res == nil {
		res = s.run(s.Eat)
	}
	if res == nil {
		return Decision{Move: DefaultMove, Fallback: true}
	}
	return Decision{Move: res.Move, Result: res}
}

// ComputeMove is Decide reduced to the direction.
func ComputeMove(ctx context.Context, snap board.Snapshot, opts Options) board.Direction {
	return Decide(ctx, snap, opts).Move
}

// run calls a behaviour, reporting nil if it panicked.
func (s *State) run(behavior func() Result) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("behavior failed")
			res = nil
		}
	}()
	out := behavior()
	return &out
}
