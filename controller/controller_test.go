package controller

import (
	"context"
	"io/ioutil"
	"strings"
	"testing"
	"time"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	logger := log.New()
	logger.Out = ioutil.Discard
	return logger
}

func testSnapshot(id string, turn int) board.Snapshot {
	you := board.Snake{
		ID:     "you",
		Name:   "Zero Cool",
		Health: 90,
		Body:   []board.Cell{{X: 5, Y: 5}, {X: 5, Y: 4}, {X: 5, Y: 3}},
		Length: 3,
	}
	return board.Snapshot{
		GameID:  id,
		Timeout: 500,
		Turn:    turn,
		Board: board.Board{
			Width:  11,
			Height: 11,
			Food:   []board.Cell{{X: 8, Y: 8}},
			Snakes: []board.Snake{you},
		},
		You: you,
	}
}

func TestController_GameLifecycle(t *testing.T) {
	ctx := context.Background()
	store := InMemStore()
	ctrl := New(Config{Store: store, Logger: quietLogger()})

	s := ctrl.Start(testSnapshot("game1", 0))
	require.Equal(t, "game1", s.Game.ID)

	g, err := store.GetGame(ctx, "game1")
	require.Nil(t, err)
	require.Equal(t, StatusRunning, g.Status)
	require.Equal(t, 500, g.Timeout)
	require.Equal(t, "you", g.SnakeID)

	for turn := 0; turn < 3; turn++ {
		d := ctrl.Move(ctx, testSnapshot("game1", turn))
		require.True(t, d.Valid())
	}

	turns, err := store.ListTurns(ctx, "game1", 10, 0)
	require.Nil(t, err)
	require.Len(t, turns, 3)
	for i, turn := range turns {
		require.Equal(t, i, turn.Turn)
		require.NotEqual(t, fallbackBehavior, turn.Behavior)
		require.False(t, turn.Fallback)
		require.NotNil(t, turn.Snapshot)
	}

	sum := ctrl.End(testSnapshot("game1", 3))
	require.NotNil(t, sum)
	require.Equal(t, 3, sum.Turns)
	require.Equal(t, float64(1500), sum.AllottedMS)
	require.True(t, strings.Contains(sum.Log, "move decided"))
	require.True(t, strings.Contains(sum.Log, "timing report"))

	g, err = store.GetGame(ctx, "game1")
	require.Nil(t, err)
	require.Equal(t, StatusComplete, g.Status)
	require.NotNil(t, g.Summary)
	require.Equal(t, 3, g.Summary.Turns)

	_, ok := ctrl.Session("game1")
	require.False(t, ok)
}

func TestController_MoveWithoutStart(t *testing.T) {
	ctx := context.Background()
	store := InMemStore()
	ctrl := New(Config{Store: store, Logger: quietLogger()})

	ctrl.Move(ctx, testSnapshot("late", 4))

	_, ok := ctrl.Session("late")
	require.True(t, ok)
	turns, err := store.ListTurns(ctx, "late", 10, 0)
	require.Nil(t, err)
	require.Len(t, turns, 1)
	require.Equal(t, 4, turns[0].Turn)
}

func TestController_EvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := InMemStore()
	ctrl := New(Config{Store: store, Logger: quietLogger(), IdleTimeout: time.Minute})
	now := time.Now()
	ctrl.now = func() time.Time { return now }

	ctrl.Start(testSnapshot("abandoned", 0))
	ctrl.Move(ctx, testSnapshot("abandoned", 0))
	ctrl.Move(ctx, testSnapshot("abandoned", 1))
	ctrl.Start(testSnapshot("slow", 0))

	now = now.Add(30 * time.Second)
	ctrl.Move(ctx, testSnapshot("slow", 0))

	now = now.Add(45 * time.Second)
	ctrl.Start(testSnapshot("next", 0))

	_, ok := ctrl.Session("abandoned")
	require.False(t, ok)
	_, ok = ctrl.Session("slow")
	require.True(t, ok)
	_, ok = ctrl.Session("next")
	require.True(t, ok)

	g, err := store.GetGame(ctx, "abandoned")
	require.Nil(t, err)
	require.Equal(t, StatusComplete, g.Status)
	require.NotNil(t, g.Summary)
	require.Equal(t, 2, g.Summary.Turns)
	require.True(t, strings.Contains(g.Summary.Log, "closing session"))

	require.Nil(t, ctrl.End(testSnapshot("abandoned", 2)))

	now = now.Add(2 * time.Minute)
	ctrl.Move(ctx, testSnapshot("next", 1))
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	require.Len(t, ctrl.sessions, 1)
	require.Contains(t, ctrl.sessions, "next")
}

func TestController_MoveWithoutGameID(t *testing.T) {
	ctrl := New(Config{Logger: quietLogger()})

	d := ctrl.Move(context.Background(), testSnapshot("", 1))
	require.True(t, d.Valid())

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	require.Len(t, ctrl.sessions, 0)
}

func TestController_MoveFallback(t *testing.T) {
	ctx := context.Background()
	store := InMemStore()
	ctrl := New(Config{Store: store, Logger: quietLogger()})

	snap := testSnapshot("empty", 1)
	snap.You.Body = nil
	require.Equal(t, board.Right, ctrl.Move(ctx, snap))

	turns, err := store.ListTurns(ctx, "empty", 1, -1)
	require.Nil(t, err)
	require.Len(t, turns, 1)
	require.True(t, turns[0].Fallback)
	require.Equal(t, fallbackBehavior, turns[0].Behavior)
}

func TestController_EndUnknownGame(t *testing.T) {
	ctrl := New(Config{Logger: quietLogger()})
	require.Nil(t, ctrl.End(testSnapshot("missing", 10)))
}

func TestController_Subscribe(t *testing.T) {
	ctrl := New(Config{Logger: quietLogger()})
	ctrl.Start(testSnapshot("watched", 0))

	turns, release := ctrl.Subscribe("watched")
	defer release()

	ctrl.Move(context.Background(), testSnapshot("watched", 0))
	select {
	case turn := <-turns:
		require.Equal(t, 0, turn.Turn)
	case <-time.After(time.Second):
		t.Fatal("no turn published")
	}

	ctrl.End(testSnapshot("watched", 1))
	_, open := <-turns
	require.False(t, open)
}

func TestHub_ReleaseAndSlowSubscriber(t *testing.T) {
	h := newHub()
	ch, release := h.subscribe("g")

	for i := 0; i < subscriberBuffer+5; i++ {
		h.publish("g", &Turn{Turn: i})
	}
	require.Len(t, ch, subscriberBuffer)

	release()
	release()
	require.Len(t, h.subs, 0)

	// Closing a game nobody watches is a no-op.
	h.closeGame("g")
}

func TestSession_Summary(t *testing.T) {
	s := NewSession(&Game{ID: "g", Timeout: 100}, quietLogger())

	sum := s.Summary()
	require.Equal(t, 0, sum.Turns)
	require.Equal(t, float64(0), sum.AverageMS)
	require.Equal(t, float64(0), sum.Share)

	s.Observe(1, 10*time.Millisecond)
	s.Observe(2, 30*time.Millisecond)
	s.Observe(3, 20*time.Millisecond)
	s.Entry(3).Info("hello")

	sum = s.Summary()
	require.Equal(t, 3, sum.Turns)
	require.Equal(t, 2, sum.SlowestTurn)
	require.Equal(t, float64(30), sum.SlowestMS)
	require.Equal(t, float64(60), sum.TotalMS)
	require.Equal(t, float64(20), sum.AverageMS)
	require.Equal(t, float64(300), sum.AllottedMS)
	require.Equal(t, float64(20), sum.Share)
	require.True(t, strings.Contains(sum.Log, "hello"))
	require.True(t, strings.Contains(sum.Log, "game=g"))
}

func TestPage(t *testing.T) {
	turns := []*Turn{{Turn: 0}, {Turn: 1}, {Turn: 2}, {Turn: 3}}
	tests := []struct {
		name          string
		limit, offset int
		expected      []int
	}{
		{"all", 10, 0, []int{0, 1, 2, 3}},
		{"limited", 2, 0, []int{0, 1}},
		{"offset", 2, 1, []int{1, 2}},
		{"offset past end", 2, 4, nil},
		{"negative offset", 1, -1, []int{3}},
		{"negative offset limit", 5, -2, []int{2, 3}},
		{"negative offset before start", 2, -10, []int{0, 1}},
		{"zero limit", 0, 0, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got []int
			for _, turn := range Page(turns, test.limit, test.offset) {
				got = append(got, turn.Turn)
			}
			require.Equal(t, test.expected, got)
		})
	}
	require.Nil(t, Page(nil, 10, 0))
}

type failingStore struct {
	Store
}

func (failingStore) PushTurn(ctx context.Context, id string, t *Turn) error {
	return ErrInvalidSequence
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store := InMemStore()

	require.Nil(t, Apply(ctx, store, Record{}))
	require.Nil(t, Apply(ctx, store, Record{GameID: "g", Game: &Game{ID: "g"}}))
	require.Nil(t, Apply(ctx, store, Record{GameID: "g", Turn: &Turn{Turn: 1}}))
	require.Nil(t, Apply(ctx, store, Record{GameID: "g", Summary: &Summary{Turns: 1}}))

	g, err := store.GetGame(ctx, "g")
	require.Nil(t, err)
	require.Equal(t, StatusComplete, g.Status)

	err = Apply(ctx, failingStore{store}, Record{GameID: "g", Turn: &Turn{Turn: 2}})
	require.NotNil(t, err)
	require.Equal(t, ErrInvalidSequence, errors.Cause(err))
	require.True(t, strings.Contains(err.Error(), "recording turn for game g"))
}
