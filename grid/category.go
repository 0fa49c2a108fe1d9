package grid

import "fmt"

// Category is the meaning of a grid cell. The ordering matters: higher
// values are more dangerous and searches avoid everything at or above a
// threshold category.
type Category int

// Categories from least to most dangerous.
const (
	KillZone Category = iota
	Space
	Tail
	Food
	Future2
	WallNear
	Warning
	SmallDanger
	Danger
	SnakeBody
	YourBody
	SmallHead
	EnemyHead
)

var categoryNames = [...]string{
	"KILL_ZONE",
	"SPACE",
	"TAIL",
	"FOOD",
	"FUTURE_2",
	"WALL_NEAR",
	"WARNING",
	"SMALL_DANGER",
	"DANGER",
	"SNAKE_BODY",
	"YOUR_BODY",
	"SMALL_HEAD",
	"ENEMY_HEAD",
}

var categorySymbols = [...]rune{'!', ' ', 'T', 'o', '.', '*', 'w', 'x', 'X', 's', 'Y', 'S', 'E'}

func (c Category) String() string {
	if c < KillZone || c > EnemyHead {
		return fmt.Sprintf("CATEGORY(%d)", int(c))
	}
	return categoryNames[c]
}

// Symbol is the single character used when printing a grid.
func (c Category) Symbol() rune {
	if c < KillZone || c > EnemyHead {
		return '@'
	}
	return categorySymbols[c]
}
