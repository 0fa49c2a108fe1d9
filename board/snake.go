package board

import (
	"regexp"
	"strings"
)

// MaxHealth is the health a snake has just after eating.
const MaxHealth = 100

// Snake is a single snake on the board. Body is ordered head first. Length
// is the length declared by the server and can be larger than len(Body).
type Snake struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Health int    `json:"health"`
	Body   []Cell `json:"body"`
	Length int    `json:"length"`
}

// Head returns the first point in the body
func (s Snake) Head() (Cell, bool) {
	if len(s.Body) == 0 {
		return Cell{}, false
	}
	return s.Body[0], true
}

// Tail returns the segment at the declared length, falling back to the last
// point in the body when the declared length does not fit the body.
func (s Snake) Tail() (Cell, bool) {
	if len(s.Body) == 0 {
		return Cell{}, false
	}
	if s.Length >= 1 && s.Length <= len(s.Body) {
		return s.Body[s.Length-1], true
	}
	return s.Body[len(s.Body)-1], true
}

// Board is the playing field for a single turn.
type Board struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Food   []Cell  `json:"food"`
	Snakes []Snake `json:"snakes"`
}

// Snapshot is the complete state delivered for one turn of one game.
type Snapshot struct {
	GameID  string `json:"game_id"`
	Timeout int    `json:"timeout"`
	Turn    int    `json:"turn"`
	Board   Board  `json:"board"`
	You     Snake  `json:"you"`
}

// Friends matches snake names that belong to the same team.
type Friends struct {
	patterns []*regexp.Regexp
}

// NewFriends compiles the given name patterns. Patterns are matched against
// names with whitespace removed and lower cased.
func NewFriends(patterns ...string) (*Friends, error) {
	f := &Friends{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// IsFriendly reports whether the snake's name matches a friend pattern.
func (f *Friends) IsFriendly(s Snake) bool {
	if f == nil {
		return false
	}
	name := strings.ToLower(strings.Join(strings.Fields(s.Name), ""))
	for _, re := range f.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
