package commands

import (
	"testing"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/stretchr/testify/require"
)

func testTurn(n int) *controller.Turn {
	return &controller.Turn{Turn: n, Move: "up", Snapshot: &board.Snapshot{Turn: n}}
}

func TestTurnHolder(t *testing.T) {
	th := newTurnHolder()
	require.Equal(t, 0, th.count())
	require.Nil(t, th.get(0))

	th.append(testTurn(0))
	first := <-th.initialTurn()
	require.Equal(t, 0, first.Turn)

	th.append(testTurn(1))
	th.append(testTurn(1))
	th.append(&controller.Turn{Turn: 2})
	require.Equal(t, 2, th.count())
	require.Equal(t, 1, th.get(1).Turn)
	require.Nil(t, th.get(2))
	require.Nil(t, th.get(-1))
}

func TestMoveTurn(t *testing.T) {
	th := newTurnHolder()
	for i := 0; i < 3; i++ {
		th.append(testTurn(i))
	}

	index, turn, last := moveTurnForwards(0, th)
	require.Equal(t, 1, index)
	require.Equal(t, 1, turn.Turn)
	require.False(t, last)

	index, turn, last = moveTurnForwards(2, th)
	require.Equal(t, 2, index)
	require.Equal(t, 2, turn.Turn)
	require.True(t, last)

	index, turn = moveTurnBackwards(0, th)
	require.Equal(t, 0, index)
	require.Equal(t, 0, turn.Turn)
}

func TestRow(t *testing.T) {
	require.Equal(t, 4, row(3, 11, 10))
	require.Equal(t, 14, row(3, 11, 0))
}
