package controller

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a game is not found.
	ErrNotFound = errors.New("controller: game not found")
	// ErrInvalidSequence is returned when a turn is not after the last
	// stored turn.
	ErrInvalidSequence = errors.New("controller: turn out of sequence")
)

// Store is the interface to the backend store.
type Store interface {
	// CreateGame inserts or replaces the game record.
	CreateGame(ctx context.Context, g *Game) error
	GetGame(ctx context.Context, id string) (*Game, error)
	// PushTurn appends a turn. Turns must be strictly increasing.
	PushTurn(ctx context.Context, id string, t *Turn) error
	// ListTurns lists turns by an offset and limit, it supports negative
	// offset.
	ListTurns(ctx context.Context, id string, limit, offset int) ([]*Turn, error)
	// EndGame marks the game complete and attaches its summary.
	EndGame(ctx context.Context, id string, s *Summary) error
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games: map[string]*Game{},
		turns: map[string][]*Turn{},
	}
}

type inmem struct {
	games map[string]*Game
	turns map[string][]*Turn
	lock  sync.Mutex
}

func (in *inmem) CreateGame(ctx context.Context, g *Game) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	in.games[g.ID] = g.Copy()
	if _, ok := in.turns[g.ID]; !ok {
		in.turns[g.ID] = nil
	}
	return nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if g, ok := in.games[id]; ok {
		return g.Copy(), nil
	}
	return nil, ErrNotFound
}

func (in *inmem) PushTurn(ctx context.Context, id string, t *Turn) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return ErrNotFound
	}
	turns := in.turns[id]
	if n := len(turns); n > 0 && turns[n-1].Turn >= t.Turn {
		return ErrInvalidSequence
	}
	in.turns[id] = append(turns, t)
	return nil
}

func (in *inmem) ListTurns(ctx context.Context, id string, limit, offset int) ([]*Turn, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.games[id]; !ok {
		return nil, ErrNotFound
	}
	return Page(in.turns[id], limit, offset), nil
}

func (in *inmem) EndGame(ctx context.Context, id string, s *Summary) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = StatusComplete
	if s != nil {
		summary := *s
		g.Summary = &summary
	}
	return nil
}
