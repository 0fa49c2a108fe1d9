package testsuite

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/controller"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
)

func newGame(key string) *controller.Game {
	return &controller.Game{
		ID:        key,
		Width:     11,
		Height:    11,
		Timeout:   500,
		SnakeID:   "you",
		SnakeName: "Zero Cool",
		Status:    controller.StatusRunning,
	}
}

func newTurn(n int) *controller.Turn {
	return &controller.Turn{
		Turn:     n,
		Move:     "up",
		Behavior: "HUNTING",
		Snapshot: &board.Snapshot{
			Turn: n,
			Board: board.Board{
				Width:  11,
				Height: 11,
				Food:   []board.Cell{{X: 1, Y: 2}},
			},
		},
	}
}

func testStoreGames(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx, newGame(key))
	require.Nil(t, err)
	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, key, g.ID)
	require.Equal(t, 11, g.Width)
	require.Equal(t, "Zero Cool", g.SnakeName)
	require.Equal(t, controller.StatusRunning, g.Status)

	// NotFound error thrown.
	_, err = s.GetGame(ctx, key+"-missing")
	require.Equal(t, controller.ErrNotFound, err)

	// Creating again replaces the record.
	replaced := newGame(key)
	replaced.Timeout = 250
	require.Nil(t, s.CreateGame(ctx, replaced))
	g, err = s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, 250, g.Timeout)
}

func testStoreTurns(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	err := s.CreateGame(ctx, newGame(key))
	require.Nil(t, err)

	// Read turns, too high offset.
	turns, err := s.ListTurns(ctx, key, 10, 100)
	require.Nil(t, err)
	require.Equal(t, 0, len(turns))

	// Read turns, 0 offset.
	turns, err = s.ListTurns(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 0, len(turns))

	// Push turns.
	for i := 0; i < 5; i++ {
		require.Nil(t, s.PushTurn(ctx, key, newTurn(i)))
	}

	// Read a single turn.
	turns, err = s.ListTurns(ctx, key, 1, 0)
	require.Nil(t, err)
	require.Equal(t, 1, len(turns))
	require.Equal(t, 0, turns[0].Turn)
	require.Equal(t, "up", turns[0].Move)
	require.NotNil(t, turns[0].Snapshot)
	require.Equal(t, []board.Cell{{X: 1, Y: 2}}, turns[0].Snapshot.Board.Food)

	// Read with an offset.
	turns, err = s.ListTurns(ctx, key, 2, 3)
	require.Nil(t, err)
	require.Equal(t, 2, len(turns))
	require.Equal(t, 3, turns[0].Turn)
	require.Equal(t, 4, turns[1].Turn)

	// Negative offset reads the last turn.
	turns, err = s.ListTurns(ctx, key, 1, -1)
	require.Nil(t, err)
	require.Equal(t, 1, len(turns))
	require.Equal(t, 4, turns[0].Turn)

	// Repeated turn is rejected.
	err = s.PushTurn(ctx, key, newTurn(4))
	require.Equal(t, controller.ErrInvalidSequence, err)

	// Turns may skip.
	require.Nil(t, s.PushTurn(ctx, key, newTurn(7)))
	turns, err = s.ListTurns(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 6, len(turns))

	// Read turns that don't exist.
	turns, err = s.ListTurns(ctx, key+"-missing", 1, 0)
	require.Equal(t, controller.ErrNotFound, err)
	require.Equal(t, 0, len(turns))

	// Push onto a game that doesn't exist.
	err = s.PushTurn(ctx, key+"-missing", newTurn(0))
	require.Equal(t, controller.ErrNotFound, err)
}

func testStoreEndGame(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	err := s.CreateGame(ctx, newGame(key))
	require.Nil(t, err)
	require.Nil(t, s.PushTurn(ctx, key, newTurn(0)))

	summary := &controller.Summary{
		Turns:       1,
		SlowestTurn: 0,
		SlowestMS:   12.5,
		TotalMS:     12.5,
		AverageMS:   12.5,
		AllottedMS:  500,
		Share:       2.5,
		Log:         "picked move\n",
	}
	require.Nil(t, s.EndGame(ctx, key, summary))

	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, controller.StatusComplete, g.Status)
	require.NotNil(t, g.Summary)
	require.Equal(t, 1, g.Summary.Turns)
	require.Equal(t, 12.5, g.Summary.SlowestMS)

	// Turns survive the end of the game.
	turns, err := s.ListTurns(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 1, len(turns))

	err = s.EndGame(ctx, key+"-missing", summary)
	require.Equal(t, controller.ErrNotFound, err)
}

func testStoreConcurrentWriters(t *testing.T, s controller.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	err := s.CreateGame(ctx, newGame(key))
	require.Nil(t, err)

	var ok uint32 // How many pushed the turn.
	var wg sync.WaitGroup
	wg.Add(20)

	for i := 0; i < 20; i++ {
		go func() {
			// Every writer pushes the same turn, only one may land.
			if errp := s.PushTurn(ctx, key, newTurn(1)); errp == nil {
				atomic.AddUint32(&ok, 1)
			}
			wg.Done()
		}()
	}

	wg.Wait()

	require.Equal(t, uint32(1), ok)
}

// Suite will execute the store testsuite.
func Suite(t *testing.T, s controller.Store, pretest func()) {
	s = controller.InstrumentStore(s)
	t.Run("Games", func(t *testing.T) { pretest(); testStoreGames(t, s) })
	t.Run("Turns", func(t *testing.T) { pretest(); testStoreTurns(t, s) })
	t.Run("EndGame", func(t *testing.T) { pretest(); testStoreEndGame(t, s) })
	t.Run("ConcurrentWriters", func(t *testing.T) { pretest(); testStoreConcurrentWriters(t, s) })
}
