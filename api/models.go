package api

import (
	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/config"
)

// Coord is a point on the board in the game server's format.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Battlesnake is a snake as sent by the game server.
type Battlesnake struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Health  int     `json:"health"`
	Body    []Coord `json:"body"`
	Head    Coord   `json:"head"`
	Length  int     `json:"length"`
	Latency string  `json:"latency,omitempty"`
	Shout   string  `json:"shout,omitempty"`
	Squad   string  `json:"squad,omitempty"`
}

// Board is the playing field as sent by the game server.
type Board struct {
	Height  int           `json:"height"`
	Width   int           `json:"width"`
	Food    []Coord       `json:"food"`
	Hazards []Coord       `json:"hazards,omitempty"`
	Snakes  []Battlesnake `json:"snakes"`
}

// Ruleset names the rules a game is played with.
type Ruleset struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Game identifies the game a request belongs to.
type Game struct {
	ID      string  `json:"id"`
	Ruleset Ruleset `json:"ruleset"`
	Timeout int     `json:"timeout"`
	Source  string  `json:"source,omitempty"`
}

// SnakeRequest is the body of every /start, /move and /end call.
type SnakeRequest struct {
	Game  Game        `json:"game"`
	Turn  int         `json:"turn"`
	Board Board       `json:"board"`
	You   Battlesnake `json:"you"`
}

// MoveResponse answers /move.
type MoveResponse struct {
	Move  string `json:"move"`
	Shout string `json:"shout,omitempty"`
}

// InfoResponse answers GET /.
type InfoResponse struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author"`
	Color      string `json:"color"`
	Head       string `json:"head"`
	Tail       string `json:"tail"`
	Version    string `json:"version,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toCells(coords []Coord) []board.Cell {
	cells := make([]board.Cell, 0, len(coords))
	for _, c := range coords {
		cells = append(cells, board.Cell{X: c.X, Y: c.Y})
	}
	return cells
}

func toSnake(s Battlesnake) board.Snake {
	return board.Snake{
		ID:     s.ID,
		Name:   s.Name,
		Health: s.Health,
		Body:   toCells(s.Body),
		Length: s.Length,
	}
}

// Snapshot converts the request to the state a move is decided from. A
// missing timeout is replaced with the configured default.
func (r SnakeRequest) Snapshot() board.Snapshot {
	snap := board.Snapshot{
		GameID:  r.Game.ID,
		Timeout: r.Game.Timeout,
		Turn:    r.Turn,
		Board: board.Board{
			Width:  r.Board.Width,
			Height: r.Board.Height,
			Food:   toCells(r.Board.Food),
		},
		You: toSnake(r.You),
	}
	if snap.Timeout <= 0 {
		snap.Timeout = config.DefaultTimeout
	}
	for _, s := range r.Board.Snakes {
		snap.Board.Snakes = append(snap.Board.Snakes, toSnake(s))
	}
	return snap
}

func toCoords(cells []board.Cell) []Coord {
	coords := make([]Coord, 0, len(cells))
	for _, c := range cells {
		coords = append(coords, Coord{X: c.X, Y: c.Y})
	}
	return coords
}

func toBattlesnake(s board.Snake) Battlesnake {
	b := Battlesnake{
		ID:     s.ID,
		Name:   s.Name,
		Health: s.Health,
		Body:   toCoords(s.Body),
		Length: s.Length,
	}
	if head, ok := s.Head(); ok {
		b.Head = Coord{X: head.X, Y: head.Y}
	}
	return b
}

// NewSnakeRequest builds the request the game server sends for snap.
func NewSnakeRequest(snap board.Snapshot) SnakeRequest {
	req := SnakeRequest{
		Game: Game{
			ID:      snap.GameID,
			Timeout: snap.Timeout,
			Ruleset: Ruleset{Name: "standard"},
		},
		Turn: snap.Turn,
		Board: Board{
			Width:  snap.Board.Width,
			Height: snap.Board.Height,
			Food:   toCoords(snap.Board.Food),
			Snakes: make([]Battlesnake, 0, len(snap.Board.Snakes)),
		},
		You: toBattlesnake(snap.You),
	}
	for _, s := range snap.Board.Snakes {
		req.Board.Snakes = append(req.Board.Snakes, toBattlesnake(s))
	}
	return req
}
