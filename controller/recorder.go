package controller

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Record is one write to a Store. Exactly one of Game, Turn or Summary is
// set.
type Record struct {
	GameID  string
	Game    *Game
	Turn    *Turn
	Summary *Summary
}

// Kind names the write a record performs.
func (r Record) Kind() string {
	switch {
	case r.Game != nil:
		return "game"
	case r.Turn != nil:
		return "turn"
	case r.Summary != nil:
		return "summary"
	}
	return "empty"
}

// Recorder persists records on behalf of the controller. Records of one game
// must be applied in the order they are given.
type Recorder interface {
	Record(r Record)
}

// Apply performs the store write described by r.
func Apply(ctx context.Context, s Store, r Record) error {
	var err error
	switch {
	case r.Game != nil:
		err = s.CreateGame(ctx, r.Game)
	case r.Turn != nil:
		err = s.PushTurn(ctx, r.GameID, r.Turn)
	case r.Summary != nil:
		err = s.EndGame(ctx, r.GameID, r.Summary)
	default:
		return nil
	}
	return errors.Wrapf(err, "recording %s for game %s", r.Kind(), r.GameID)
}

// DirectRecorder applies records synchronously to a store.
func DirectRecorder(s Store) Recorder { return &direct{s} }

type direct struct{ s Store }

func (d *direct) Record(r Record) {
	if err := Apply(context.Background(), d.s, r); err != nil {
		log.WithError(err).WithField("game", r.GameID).Error("unable to record")
	}
}
