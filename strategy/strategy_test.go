package strategy

import (
	"context"
	"math/rand"
	"testing"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/grid"
	"github.com/battlesnakeio/zerocool/score"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func cells(xy ...int) []board.Cell {
	var out []board.Cell
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, board.Cell{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func snake(id, name string, health int, body []board.Cell) board.Snake {
	return board.Snake{ID: id, Name: name, Health: health, Body: body, Length: len(body)}
}

func quietLogger() log.FieldLogger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

func friends(t *testing.T) *board.Friends {
	f, err := board.NewFriends("zerocool", "denosnake", "crashoverride")
	require.NoError(t, err)
	return f
}

func headOnCollisionSnapshot() board.Snapshot {
	me := snake("gs_ywrf7YFHr6RCK7pDrCctG969", "Zero Cool Deno Snake Local", 68,
		cells(3, 6, 2, 6, 2, 7, 1, 7, 1, 6, 0, 6, 0, 7, 0, 8, 1, 8, 1, 9, 2, 9, 2, 8))
	return board.Snapshot{
		GameID:  "b06f98a8-89c1-4f35-a2b6-e4f5a2a7d5a4",
		Timeout: 500,
		Turn:    213,
		Board: board.Board{
			Width:  11,
			Height: 11,
			Food:   cells(2, 4),
			Snakes: []board.Snake{
				me,
				snake("gs_wyrmhol", "Wyrmhol", 76,
					cells(6, 5, 5, 5, 4, 5, 3, 5, 2, 5, 1, 5, 0, 5, 0, 4, 0, 3, 0, 2, 0, 1, 0, 0, 1, 0, 2, 0, 3, 0, 4, 0)),
				snake("gs_ogjimmy", "OG Jimmy", 94,
					cells(8, 1, 7, 1, 6, 1, 5, 1, 4, 1, 4, 2, 4, 3, 5, 3)),
				snake("gs_snacky", "snacky", 88,
					cells(4, 7, 5, 7, 5, 6, 6, 6, 7, 6, 7, 7, 7, 8, 6, 8, 6, 9, 5, 9, 5, 10, 4, 10)),
			},
		},
		You: me,
	}
}

func convergingSnapshot() board.Snapshot {
	me := snake("gs_CmkCbPbHKMg3Hq7Yv889vch8", "Zero Cool Deno Snake Local", 64, cells(9, 7, 9, 6, 9, 5))
	return board.Snapshot{
		GameID:  "94feded6-7b6a-4d27-b2a4-62f4b1b2a6f4",
		Timeout: 500,
		Turn:    36,
		Board: board.Board{
			Width:  11,
			Height: 11,
			Food:   cells(1, 1, 2, 2),
			Snakes: []board.Snake{
				snake("gs_snicker", "SnickerSnek", 78, cells(0, 2, 0, 3, 1, 3, 1, 2)),
				snake("gs_hissin", "hissin-bastid", 97, cells(8, 8, 7, 8, 6, 8, 5, 8, 5, 7, 4, 7, 3, 7, 2, 7)),
				snake("gs_snacky", "snacky", 90, cells(7, 5, 6, 5, 5, 5, 4, 5, 3, 5, 2, 5, 1, 5, 0, 5)),
				snake("gs_giraffe", "giraffe-snek", 64, cells(8, 6, 7, 6, 6, 6)),
				me,
			},
		},
		You: me,
	}
}

func TestDecideTakesContestedCellOverDeadEnd(t *testing.T) {
	d := Decide(context.Background(), headOnCollisionSnapshot(), Options{Friends: friends(t), Logger: quietLogger()})
	require.Equal(t, board.Up, d.Move)
	require.False(t, d.Fallback)
	require.NotNil(t, d.Result)
	require.Equal(t, Hunting, d.Result.Behavior)
}

func TestDecideMovesAwayFromConvergingSnakes(t *testing.T) {
	d := Decide(context.Background(), convergingSnapshot(), Options{Friends: friends(t), Logger: quietLogger()})
	require.Equal(t, board.Right, d.Move)
	require.Equal(t, Eating, d.Result.Behavior)
}

func TestDecideResultHasEveryContribution(t *testing.T) {
	d := Decide(context.Background(), convergingSnapshot(), Options{Logger: quietLogger()})
	require.NotNil(t, d.Result)
	require.Len(t, d.Result.Contributions, len(biases)+1)
	for _, b := range biases {
		require.Contains(t, d.Result.Contributions, b.name)
	}
	require.Equal(t, d.Move, score.Best(d.Result.Scores))
}

func TestDecideWithoutBody(t *testing.T) {
	snap := convergingSnapshot()
	snap.You.Body = nil
	d := Decide(context.Background(), snap, Options{Logger: quietLogger()})
	require.True(t, d.Fallback)
	require.Equal(t, DefaultMove, d.Move)
}

func TestDecideNeverPanics(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		snap := randomSnapshot(r)
		require.NotPanics(t, func() {
			move := ComputeMove(context.Background(), snap, Options{Logger: quietLogger()})
			require.True(t, move.Valid(), "move %d for %+v", move, snap)
		})
	}
}

func TestDecideExpiredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	move := ComputeMove(ctx, headOnCollisionSnapshot(), Options{Logger: quietLogger()})
	require.True(t, move.Valid())
}

// randomSnapshot makes boards that are frequently malformed: bodies off the
// board, declared lengths that disagree with the body, heads on heads.
func randomSnapshot(r *rand.Rand) board.Snapshot {
	w := r.Intn(13) - 1
	h := r.Intn(13) - 1
	coord := func(n int) int {
		if n <= 0 {
			return r.Intn(3) - 1
		}
		return r.Intn(n+2) - 1
	}
	var snakes []board.Snake
	count := r.Intn(5) + 1
	for i := 0; i < count; i++ {
		var body []board.Cell
		segments := r.Intn(8)
		for j := 0; j < segments; j++ {
			body = append(body, board.Cell{X: coord(w), Y: coord(h)})
		}
		snakes = append(snakes, board.Snake{
			ID:     string(rune('a' + i)),
			Name:   "snake",
			Health: r.Intn(102),
			Body:   body,
			Length: r.Intn(10),
		})
	}
	var food []board.Cell
	foods := r.Intn(6)
	for i := 0; i < foods; i++ {
		food = append(food, board.Cell{X: coord(w), Y: coord(h)})
	}
	return board.Snapshot{
		Turn:  r.Intn(1200),
		Board: board.Board{Width: w, Height: h, Food: food, Snakes: snakes},
		You:   snakes[0],
	}
}

func TestSelfHelpers(t *testing.T) {
	tests := []struct {
		Turn      int
		Health    int
		MinHealth int
		Urgency   float64
		Food      []board.Cell
		Emergency bool
	}{
		{Turn: 0, Health: 100, MinHealth: 33, Urgency: 0, Food: cells(5, 5), Emergency: false},
		{Turn: 499, Health: 50, MinHealth: 33, Urgency: 20, Food: cells(5, 5), Emergency: false},
		{Turn: 500, Health: 32, MinHealth: 32, Urgency: 28, Food: cells(5, 5), Emergency: true},
		{Turn: 1200, Health: 40, MinHealth: 31, Urgency: 24, Food: cells(5, 5), Emergency: false},
		{Turn: 10, Health: 5, MinHealth: 33, Urgency: 38, Food: cells(10, 10), Emergency: true},
		{Turn: 10, Health: 8, MinHealth: 33, Urgency: 37, Food: nil, Emergency: true},
		{Turn: 10, Health: 80, MinHealth: 33, Urgency: 8, Food: nil, Emergency: false},
	}
	for _, test := range tests {
		me := snake("me", "me", test.Health, cells(1, 1, 1, 2))
		s := NewState(context.Background(), board.Snapshot{
			Turn:  test.Turn,
			Board: board.Board{Width: 11, Height: 11, Food: test.Food, Snakes: []board.Snake{me}},
			You:   me,
		}, Options{Logger: quietLogger()})
		require.Equal(t, test.MinHealth, s.MinimumHealth(), "turn %d", test.Turn)
		require.Equal(t, test.Urgency, s.HungerUrgency(), "health %d", test.Health)
		require.Equal(t, test.Emergency, s.HungerEmergency(), "turn %d health %d", test.Turn, test.Health)
	}
}

func TestSizeComparisons(t *testing.T) {
	me := snake("me", "me", 90, cells(5, 5, 5, 4, 5, 3))
	tests := []struct {
		Lengths       []int
		Biggest       bool
		ExistsSmaller bool
	}{
		{Lengths: nil, Biggest: true, ExistsSmaller: false},
		{Lengths: []int{2}, Biggest: true, ExistsSmaller: true},
		{Lengths: []int{3}, Biggest: false, ExistsSmaller: false},
		{Lengths: []int{2, 4}, Biggest: false, ExistsSmaller: true},
	}
	for _, test := range tests {
		snakes := []board.Snake{me}
		for i, l := range test.Lengths {
			other := snake(string(rune('a'+i)), "other", 90, cells(1, 1+i*2))
			other.Length = l
			snakes = append(snakes, other)
		}
		s := NewState(context.Background(), board.Snapshot{
			Turn:  5,
			Board: board.Board{Width: 11, Height: 11, Snakes: snakes},
			You:   me,
		}, Options{Logger: quietLogger()})
		require.Equal(t, test.Biggest, s.IsBiggest(), "lengths %v", test.Lengths)
		require.Equal(t, test.ExistsSmaller, s.ExistsSmaller(), "lengths %v", test.Lengths)
	}
}

func openState(head board.Cell, w, h int) *State {
	me := snake("me", "me", 90, []board.Cell{head})
	return NewState(context.Background(), board.Snapshot{
		Turn:  1,
		Board: board.Board{Width: w, Height: h, Snakes: []board.Snake{me}},
		You:   me,
	}, Options{Logger: quietLogger()})
}

func TestBaseMoveBias(t *testing.T) {
	s := openState(board.Cell{X: 0, Y: 5}, 11, 11)
	s.Grid.Update(board.Cell{X: 1, Y: 5}, grid.KillZone)
	s.Grid.Update(board.Cell{X: 0, Y: 4}, grid.Danger)
	v := s.baseMoveBias()
	require.InDelta(t, -0.4*6.5, v[board.Up], 1e-9)
	require.InDelta(t, -12, v[board.Down], 1e-9)
	require.InDelta(t, -200, v[board.Left], 1e-9)
	require.InDelta(t, 4.5*1.3, v[board.Right], 1e-9)
}

func TestTightMoveBias(t *testing.T) {
	s := openState(board.Cell{X: 5, Y: 5}, 11, 11)
	s.Grid.Update(board.Cell{X: 5, Y: 7}, grid.SnakeBody)
	s.Grid.Update(board.Cell{X: 4, Y: 5}, grid.SnakeBody)
	v := s.tightMoveBias()
	// up lands on (5, 6): (5, 7) is blocked and (5, 5) is our head
	require.Equal(t, score.Vector{2, 3, 0, 3}, v)
}

func TestFartherFromWallsBias(t *testing.T) {
	s := openState(board.Cell{X: 1, Y: 5}, 11, 11)
	v := s.fartherFromWallsBias()
	// up, down and left are all 5 from the walls, right is 7
	require.Equal(t, score.Vector{0, 0, 0, 2}, v)

	s = openState(board.Cell{X: 0, Y: 0}, 1, 1)
	require.Equal(t, score.Vector{noWallDistance, noWallDistance, noWallDistance, noWallDistance}, s.fartherFromWallsBias())
}

func TestCloserToTailsCountsOwnTailTwice(t *testing.T) {
	me := snake("me", "me", 90, cells(5, 5, 5, 4, 5, 3))
	s := NewState(context.Background(), board.Snapshot{
		Turn:  5,
		Board: board.Board{Width: 11, Height: 11, Snakes: []board.Snake{me}},
		You:   me,
	}, Options{Logger: quietLogger()})
	v := s.closerToTailsBias()
	single := s.scoresForTargets(cells(5, 3), func(d int, _ board.Cell) float64 { return 1 })
	require.Equal(t, score.Vector{1, 0, 1, 1}, single)
	require.True(t, v[board.Right] > 0)
	require.Equal(t, 0.0, v[board.Down])
}

func TestScoresForTargetsSkipsBlockedMoves(t *testing.T) {
	s := openState(board.Cell{X: 0, Y: 0}, 5, 5)
	s.Grid.Update(board.Cell{X: 0, Y: 1}, grid.SnakeBody)
	v := s.scoresForTargets(cells(4, 4), func(d int, _ board.Cell) float64 { return float64(d) })
	require.Equal(t, score.Vector{0, 0, 0, 7}, v)
}

func TestClosestTargets(t *testing.T) {
	s := openState(board.Cell{X: 5, Y: 5}, 11, 11)
	_, ok := s.ClosestFood()
	require.False(t, ok)

	s.Grid.Update(board.Cell{X: 8, Y: 5}, grid.Food)
	s.Grid.Update(board.Cell{X: 5, Y: 3}, grid.Food)
	s.Grid.Update(board.Cell{X: 3, Y: 5}, grid.Food)
	food, ok := s.ClosestFood()
	require.True(t, ok)
	require.Equal(t, board.Cell{X: 5, Y: 3}, food)

	s.Grid.Update(board.Cell{X: 9, Y: 9}, grid.KillZone)
	killable, ok := s.ClosestKillable()
	require.True(t, ok)
	require.Equal(t, board.Cell{X: 9, Y: 9}, killable)

	_, ok = s.ClosestDanger()
	require.False(t, ok)
}

func TestLateHunt(t *testing.T) {
	d := Decide(context.Background(), convergingSnapshot(), Options{Logger: quietLogger()})
	s := NewState(context.Background(), convergingSnapshot(), Options{Logger: quietLogger()})
	res := s.LateHunt()
	require.Equal(t, LateHunting, res.Behavior)
	require.True(t, res.Move.Valid())
	require.NotEqual(t, LateHunting, d.Result.Behavior)
}

func TestSafelyRecoversPanics(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := openState(board.Cell{X: 5, Y: 5}, 11, 11)
	s.log = logger
	v := s.safely("boom", func() score.Vector { panic("boom") })
	require.Equal(t, score.Vector{}, v)
	require.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
	require.Equal(t, "boom", hook.LastEntry().Data["contributor"])
}

func TestBehaviorString(t *testing.T) {
	require.Equal(t, "EATING", Eating.String())
	require.Equal(t, "EATING_EMERGENCY", EatingEmergency.String())
	require.Equal(t, "HUNTING", Hunting.String())
	require.Equal(t, "LATE_HUNTING", LateHunting.String())
	require.Equal(t, "BEHAVIOR(9)", Behavior(9).String())
}

func TestFillWeights(t *testing.T) {
	w := DefaultWeights().Fill()
	require.InDelta(t, 0.2, w.WallNear, 1e-9)
	require.InDelta(t, -0.72, w.Danger, 1e-9)
	require.InDelta(t, 12.3, w.Tail, 1e-9)
}

func copyCells(in []board.Cell) []board.Cell {
	if in == nil {
		return nil
	}
	return append([]board.Cell{}, in...)
}

func copySnake(s board.Snake) board.Snake {
	s.Body = copyCells(s.Body)
	return s
}

func copySnapshot(snap board.Snapshot) board.Snapshot {
	c := snap
	c.You = copySnake(snap.You)
	c.Board.Food = copyCells(snap.Board.Food)
	if snap.Board.Snakes != nil {
		c.Board.Snakes = make([]board.Snake, 0, len(snap.Board.Snakes))
		for _, s := range snap.Board.Snakes {
			c.Board.Snakes = append(c.Board.Snakes, copySnake(s))
		}
	}
	return c
}

func TestComputeMoveLeavesSnapshotUntouched(t *testing.T) {
	snaps := []board.Snapshot{headOnCollisionSnapshot(), convergingSnapshot()}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		snaps = append(snaps, randomSnapshot(r))
	}
	for i, snap := range snaps {
		before := copySnapshot(snap)
		ComputeMove(context.Background(), snap, Options{Friends: friends(t), Logger: quietLogger()})
		require.Equal(t, before, snap, "snapshot %d", i)
	}
}

func findEntry(entries []*log.Entry, msg string) *log.Entry {
	for _, e := range entries {
		if e.Message == msg {
			return e
		}
	}
	return nil
}

func TestBehaviorsLogClosestTargets(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := openState(board.Cell{X: 5, Y: 5}, 11, 11)
	s.log = logger
	s.Grid.Update(board.Cell{X: 5, Y: 3}, grid.Food)
	s.Grid.Update(board.Cell{X: 9, Y: 5}, grid.KillZone)

	s.Eat()
	eating := findEntry(hook.AllEntries(), "eating")
	require.NotNil(t, eating)
	require.Equal(t, board.Cell{X: 5, Y: 3}, eating.Data["closest_food"])
	require.Equal(t, board.Down, eating.Data["towards_food"])

	hook.Reset()
	s.Hunt()
	hunting := findEntry(hook.AllEntries(), "hunting")
	require.NotNil(t, hunting)
	require.Equal(t, board.Cell{X: 9, Y: 5}, hunting.Data["closest_killable"])
	require.Equal(t, board.Right, hunting.Data["towards_killable"])
	require.NotContains(t, hunting.Data, "closest_danger")
}

func TestSafelyLogsScoresUnformatted(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.Level = log.DebugLevel
	s := openState(board.Cell{X: 5, Y: 5}, 11, 11)
	s.log = logger
	s.safely("flat", func() score.Vector { return score.Vector{1, 2, 3, 4} })

	entry := findEntry(hook.AllEntries(), "scored")
	require.NotNil(t, entry)
	require.Equal(t, score.Vector{1, 2, 3, 4}, entry.Data["scores"])
}
