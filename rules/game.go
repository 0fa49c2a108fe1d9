// Package rules plays Battlesnake games locally. It is used to pit the
// strategy against itself and to check that it survives arbitrary boards.
package rules

import (
	"math/rand"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// GameMode decides when a game is over.
type GameMode string

const (
	// GameModeSinglePlayer ends once no snake is left.
	GameModeSinglePlayer GameMode = "single-player"
	// GameModeMultiPlayer ends once at most one snake is left.
	GameModeMultiPlayer GameMode = "multi-player"
)

// Death records why and when a snake was eliminated.
type Death struct {
	Cause string
	Turn  int
}

// Snake is a snake in a local game.
type Snake struct {
	board.Snake
	Death *Death
}

// Alive reports whether the snake is still playing.
func (s *Snake) Alive() bool { return s.Death == nil }

// SnakeOptions describes a snake entering a game.
type SnakeOptions struct {
	ID   string
	Name string
}

// Config describes a new game.
type Config struct {
	Width  int
	Height int
	Snakes []SnakeOptions
	// Food is the amount of food placed at the start.
	Food int
	// FoodSpawnChance is the percentage chance of extra food each turn. Eaten
	// food is always replaced.
	FoodSpawnChance int
	Timeout         int
	Seed            int64
}

// Game is the state of a local game.
type Game struct {
	ID              string
	Width           int
	Height          int
	Timeout         int
	Turn            int
	Food            []board.Cell
	Snakes          []*Snake
	Mode            GameMode
	FoodSpawnChance int

	rng *rand.Rand
}

// NewGame places the snakes and food of a new game.
func NewGame(cfg Config) (*Game, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("rules: invalid board size %dx%d", cfg.Width, cfg.Height)
	}
	if len(cfg.Snakes) == 0 {
		return nil, errors.New("rules: a game needs at least one snake")
	}
	g := &Game{
		ID:              uuid.NewV4().String(),
		Width:           cfg.Width,
		Height:          cfg.Height,
		Timeout:         cfg.Timeout,
		Mode:            GameModeMultiPlayer,
		FoodSpawnChance: cfg.FoodSpawnChance,
		rng:             rand.New(rand.NewSource(cfg.Seed)),
	}
	if len(cfg.Snakes) == 1 {
		g.Mode = GameModeSinglePlayer
	}

	for _, opts := range cfg.Snakes {
		start, ok := g.unoccupiedPoint()
		if !ok {
			return nil, errors.New("rules: no unoccupied spots left for new snake")
		}
		snake := &Snake{Snake: board.Snake{
			ID:     opts.ID,
			Name:   opts.Name,
			Health: board.MaxHealth,
			Body:   []board.Cell{start, start, start},
			Length: 3,
		}}
		if len(snake.ID) == 0 {
			snake.ID = uuid.NewV4().String()
		}
		for _, s := range g.Snakes {
			if s.ID == snake.ID {
				return nil, errors.New("rules: duplicate snake id found, create aborted")
			}
		}
		g.Snakes = append(g.Snakes, snake)
	}

	for i := 0; i < cfg.Food; i++ {
		if p, ok := g.unoccupiedPoint(); ok {
			g.Food = append(g.Food, p)
		}
	}
	return g, nil
}

// AliveSnakes are the snakes still playing.
func (g *Game) AliveSnakes() []*Snake {
	var snakes []*Snake
	for _, s := range g.Snakes {
		if s.Alive() {
			snakes = append(snakes, s)
		}
	}
	return snakes
}

// Snake finds a snake by id.
func (g *Game) Snake(id string) (*Snake, bool) {
	for _, s := range g.Snakes {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Snapshot is the request the game server would send to the snake with the
// given id this turn.
func (g *Game) Snapshot(you string) board.Snapshot {
	snap := board.Snapshot{
		GameID:  g.ID,
		Timeout: g.Timeout,
		Turn:    g.Turn,
		Board: board.Board{
			Width:  g.Width,
			Height: g.Height,
			Food:   append([]board.Cell(nil), g.Food...),
		},
	}
	for _, s := range g.AliveSnakes() {
		snap.Board.Snakes = append(snap.Board.Snakes, copySnake(s.Snake))
	}
	if s, ok := g.Snake(you); ok {
		snap.You = copySnake(s.Snake)
	}
	return snap
}

func copySnake(s board.Snake) board.Snake {
	s.Body = append([]board.Cell(nil), s.Body...)
	return s
}

// CheckForGameOver checks if the game has ended. End condition is dependent on game mode.
func (g *Game) CheckForGameOver() bool {
	alive := g.AliveSnakes()
	if g.Mode == GameModeSinglePlayer {
		return len(alive) == 0
	}
	return len(alive) <= 1
}
