// Package controller runs games for the snake. It owns the session of every
// running game, decides moves through the strategy and hands the results to
// a Store for later inspection.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/strategy"
	"github.com/prometheus/client_golang/prometheus"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

var (
	moveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "zerocool",
			Subsystem: "controller",
			Name:      "move_duration_seconds",
			Help:      "Time taken to decide a move.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .2, .3, .5, 1},
		},
	)
	moveBehaviors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zerocool",
			Subsystem: "controller",
			Name:      "moves_total",
			Help:      "Moves decided, by behavior.",
		},
		[]string{"behavior"},
	)
	activeGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "zerocool",
			Subsystem: "controller",
			Name:      "active_games",
			Help:      "Games with an open session.",
		},
	)
)

func init() {
	prometheus.MustRegister(moveDuration, moveBehaviors, activeGames)
}

// fallbackBehavior labels moves where no behavior finished.
const fallbackBehavior = "FALLBACK"

// DefaultIdleTimeout is how long a game may go without a request before
// its session is closed.
const DefaultIdleTimeout = 10 * time.Minute

// Config configures a Controller.
type Config struct {
	Store    Store
	Recorder Recorder
	Friends  *board.Friends
	Weights  *strategy.Weights
	Logger   *log.Logger
	// IdleTimeout closes sessions of games that stopped sending requests
	// without an end. Zero means DefaultIdleTimeout.
	IdleTimeout time.Duration
}

// New will initialize a new Controller. A nil Store is replaced by an in
// memory store and a nil Recorder writes to the Store directly.
func New(cfg Config) *Controller {
	if cfg.Store == nil {
		cfg.Store = InMemStore()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = DirectRecorder(cfg.Store)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.StandardLogger()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Controller{
		Store:       cfg.Store,
		recorder:    cfg.Recorder,
		friends:     cfg.Friends,
		weights:     cfg.Weights,
		log:         cfg.Logger,
		idleTimeout: cfg.IdleTimeout,
		now:         time.Now,
		sessions:    map[string]*Session{},
		hub:         newHub(),
	}
}

// Controller answers the game server for every game the snake plays.
type Controller struct {
	Store Store

	recorder    Recorder
	friends     *board.Friends
	weights     *strategy.Weights
	log         *log.Logger
	hub         *hub
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// Start opens the session for the game in snap.
func (c *Controller) Start(snap board.Snapshot) *Session {
	c.mu.Lock()
	stale := c.sweep(snap.GameID)
	s := c.open(snap)
	c.mu.Unlock()

	c.evict(stale)
	return s
}

// open creates a session. Games without an id get a one-off session under a
// fresh id that is never kept.
func (c *Controller) open(snap board.Snapshot) *Session {
	keep := snap.GameID != ""
	if !keep {
		snap.GameID = uuid.NewV4().String()
	}
	game := NewGame(snap)
	s := NewSession(game, c.log)
	s.touch(snap.Turn, c.now())
	if keep {
		c.sessions[game.ID] = s
		activeGames.Inc()
	}
	s.Entry(snap.Turn).
		WithField("width", game.Width).
		WithField("height", game.Height).
		WithField("timeout", game.Timeout).
		Info("game started")
	c.recorder.Record(Record{GameID: game.ID, Game: game.Copy()})
	return s
}

// session finds the session for snap, opening one when the start of the game
// was missed.
func (c *Controller) session(snap board.Snapshot) *Session {
	c.mu.Lock()
	stale := c.sweep(snap.GameID)
	s, ok := c.sessions[snap.GameID]
	if ok {
		s.touch(snap.Turn, c.now())
	} else {
		c.log.WithField("game", snap.GameID).Warn("move for unknown game, opening session")
		s = c.open(snap)
	}
	c.mu.Unlock()

	c.evict(stale)
	return s
}

// sweep removes the sessions that have been idle for too long, except the
// one of game keep. c.mu must be held.
func (c *Controller) sweep(keep string) []*Session {
	now := c.now()
	var stale []*Session
	for id, s := range c.sessions {
		if id == keep || !s.idle(now, c.idleTimeout) {
			continue
		}
		delete(c.sessions, id)
		activeGames.Dec()
		stale = append(stale, s)
	}
	return stale
}

// evict closes sessions removed by sweep as if their game had ended.
func (c *Controller) evict(stale []*Session) {
	for _, s := range stale {
		s.Entry(s.last()).
			WithField("idle_timeout", c.idleTimeout).
			Warn("game went idle without an end, closing session")
		c.finish(s, s.last())
	}
}

// Session returns the open session of a game.
func (c *Controller) Session(id string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	return s, ok
}

// Move decides the move for snap. It always returns a valid direction.
func (c *Controller) Move(ctx context.Context, snap board.Snapshot) board.Direction {
	s := c.session(snap)
	entry := s.Entry(snap.Turn)

	start := time.Now()
	d := strategy.Decide(ctx, snap, strategy.Options{
		Friends: c.friends,
		Weights: c.weights,
		Logger:  entry,
	})
	elapsed := time.Since(start)
	s.Observe(snap.Turn, elapsed)
	moveDuration.Observe(elapsed.Seconds())

	turn := &Turn{
		Turn:      snap.Turn,
		Move:      d.Move.String(),
		Behavior:  fallbackBehavior,
		Fallback:  d.Fallback,
		ElapsedMS: millis(elapsed),
		Snapshot:  &snap,
	}
	if d.Result != nil {
		turn.Behavior = d.Result.Behavior.String()
		turn.Scores = d.Result.Scores
	}
	moveBehaviors.WithLabelValues(turn.Behavior).Inc()

	entry.WithField("move", turn.Move).
		WithField("behavior", turn.Behavior).
		WithField("elapsed_ms", turn.ElapsedMS).
		Info("move decided")

	c.recorder.Record(Record{GameID: s.Game.ID, Turn: turn})
	c.hub.publish(s.Game.ID, turn)
	return d.Move
}

// End closes the session of the game in snap and reports its timing. The
// summary is nil when the game was never seen.
func (c *Controller) End(snap board.Snapshot) *Summary {
	c.mu.Lock()
	s, ok := c.sessions[snap.GameID]
	delete(c.sessions, snap.GameID)
	c.mu.Unlock()
	if !ok {
		c.log.WithField("game", snap.GameID).Warn("end for unknown game")
		return nil
	}
	activeGames.Dec()

	s.Entry(snap.Turn).Info("game ended")
	return c.finish(s, snap.Turn)
}

// finish reports the timing of a closed session and records its summary.
func (c *Controller) finish(s *Session, turn int) *Summary {
	sum := s.Summary()
	s.Entry(turn).
		WithField("turns", sum.Turns).
		WithField("slowest_ms", sum.SlowestMS).
		WithField("slowest_turn", sum.SlowestTurn).
		WithField("total_ms", sum.TotalMS).
		WithField("average_ms", sum.AverageMS).
		WithField("share", sum.Share).
		Info("timing report")
	sum.Log = s.buf.String()

	c.recorder.Record(Record{GameID: s.Game.ID, Summary: sum})
	c.hub.closeGame(s.Game.ID)
	return sum
}

// Subscribe streams the turns of a game as they are decided. The returned
// func must be called once the caller stops reading.
func (c *Controller) Subscribe(id string) (<-chan *Turn, func()) {
	return c.hub.subscribe(id)
}
