package controller

import (
	"time"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/score"
)

// Game statuses.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
)

// Game is the record kept for every game the snake is entered in.
type Game struct {
	ID        string    `json:"id"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Timeout   int       `json:"timeout"`
	SnakeID   string    `json:"snake_id"`
	SnakeName string    `json:"snake_name"`
	Status    string    `json:"status"`
	Created   time.Time `json:"created"`
	Summary   *Summary  `json:"summary,omitempty"`
}

// Turn is a single decided move together with the request it was decided
// from.
type Turn struct {
	Turn      int             `json:"turn"`
	Move      string          `json:"move"`
	Behavior  string          `json:"behavior"`
	Scores    score.Vector    `json:"scores"`
	Fallback  bool            `json:"fallback"`
	ElapsedMS float64         `json:"elapsed_ms"`
	Snapshot  *board.Snapshot `json:"snapshot,omitempty"`
}

// Summary is the timing report produced when a game ends.
type Summary struct {
	Turns       int     `json:"turns"`
	SlowestTurn int     `json:"slowest_turn"`
	SlowestMS   float64 `json:"slowest_ms"`
	TotalMS     float64 `json:"total_ms"`
	AverageMS   float64 `json:"average_ms"`
	AllottedMS  float64 `json:"allotted_ms"`
	// Share is the percentage of the allotted time spent deciding.
	Share float64 `json:"share"`
	Log   string  `json:"log,omitempty"`
}

// NewGame creates the record for a game starting from snap.
func NewGame(snap board.Snapshot) *Game {
	return &Game{
		ID:        snap.GameID,
		Width:     snap.Board.Width,
		Height:    snap.Board.Height,
		Timeout:   snap.Timeout,
		SnakeID:   snap.You.ID,
		SnakeName: snap.You.Name,
		Status:    StatusRunning,
		Created:   time.Now().UTC(),
	}
}

// Copy returns a deep copy of the game.
func (g *Game) Copy() *Game {
	c := *g
	if g.Summary != nil {
		s := *g.Summary
		c.Summary = &s
	}
	return &c
}

// Page applies the limit and offset semantics shared by all stores to turns.
// A negative offset counts back from the end.
func Page(turns []*Turn, limit, offset int) []*Turn {
	start, end, ok := Window(len(turns), limit, offset)
	if !ok {
		return nil
	}
	return turns[start:end]
}

// Window resolves limit and offset against a list of n turns, giving the
// half open range to return. ok is false when the range is empty.
func Window(n, limit, offset int) (start, end int, ok bool) {
	if offset < 0 {
		offset = n + offset
		if offset < 0 {
			offset = 0
		}
	}
	if n == 0 || offset >= n || limit <= 0 {
		return 0, 0, false
	}
	if offset+limit >= n {
		limit = n - offset
	}
	return offset, offset + limit, true
}
