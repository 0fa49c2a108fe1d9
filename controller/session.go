package controller

import (
	"bytes"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Session is the state held for one running game: its logger and the timing
// of every move. Sessions are never shared between games.
type Session struct {
	Game *Game
	Log  *log.Logger

	buf *logBuffer

	mu          sync.Mutex
	turns       int
	total       time.Duration
	slowest     time.Duration
	slowestTurn int
	lastTurn    int
	lastSeen    time.Time
}

// logBuffer keeps a copy of everything logged for a game.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewSession creates the session for g. Log lines go to base's output and
// into the session's own buffer.
func NewSession(g *Game, base *log.Logger) *Session {
	if base == nil {
		base = log.StandardLogger()
	}
	buf := &logBuffer{}
	logger := log.New()
	logger.Out = io.MultiWriter(base.Out, buf)
	logger.Formatter = base.Formatter
	logger.Level = base.Level
	return &Session{
		Game: g,
		Log:  logger,
		buf:  buf,
	}
}

// Entry is the session logger tagged with the game and turn.
func (s *Session) Entry(turn int) *log.Entry {
	return s.Log.WithField("game", s.Game.ID).WithField("turn", turn)
}

// Observe records the time it took to decide a turn.
func (s *Session) Observe(turn int, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns++
	s.total += elapsed
	if s.turns == 1 || elapsed > s.slowest {
		s.slowest = elapsed
		s.slowestTurn = turn
	}
}

// touch marks the session as used for turn at now.
func (s *Session) touch(turn int, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTurn = turn
	s.lastSeen = now
}

// idle reports whether the session went unused for longer than timeout.
func (s *Session) idle(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > timeout
}

func (s *Session) last() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTurn
}

// Summary reports the timing of the game so far together with its log.
func (s *Session) Summary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := &Summary{
		Turns:       s.turns,
		SlowestTurn: s.slowestTurn,
		SlowestMS:   millis(s.slowest),
		TotalMS:     millis(s.total),
		AllottedMS:  float64(s.turns * s.Game.Timeout),
		Log:         s.buf.String(),
	}
	if s.turns > 0 {
		sum.AverageMS = sum.TotalMS / float64(s.turns)
	}
	if sum.AllottedMS > 0 {
		sum.Share = sum.TotalMS / sum.AllottedMS * 100
	}
	return sum
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
