package board

import "fmt"

// Direction is one of the four moves a snake can make. The numeric value is
// also the index of the direction in a score vector.
type Direction int

// The four directions in enumeration order. Ties between equal scores
// resolve to the earliest direction in this order.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in enumeration order.
var Directions = [4]Direction{Up, Down, Left, Right}

var directionNames = [4]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection converts a move string from the wire format.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return Up, fmt.Errorf("board: unknown direction %q", s)
}
