package rules

import "github.com/battlesnakeio/zerocool/board"

type deathUpdate struct {
	Snake *Snake
	Death *Death
}

// checkForDeath looks through the snakes with the updated coords and checks to see if any have died
// possible death options are starvation (health has reached 0), wall collision, snake body collision
// snake head collision (other snake is same size or greater)
func checkForDeath(width, height, turn int, snakes []*Snake) []deathUpdate {
	updates := []deathUpdate{}
	for _, s := range snakes {
		died := func(cause string) {
			updates = append(updates, deathUpdate{
				Snake: s,
				Death: &Death{Turn: turn, Cause: cause},
			})
		}
		if deathByHealth(s.Health) {
			died(DeathCauseStarvation)
			continue
		}
		head, ok := s.Head()
		if !ok {
			continue
		}
		if deathByOutOfBounds(head, width, height) {
			died(DeathCauseWallCollision)
			continue
		}

	others:
		for _, other := range snakes {
			if deathByHeadCollision(s, other) {
				died(DeathCauseHeadToHeadCollision)
				break
			}
			for i, b := range other.Body {
				if i == 0 {
					continue
				}
				if head.Equal(b) {
					if s.ID == other.ID {
						died(DeathCauseSnakeSelfCollision)
					} else {
						died(DeathCauseSnakeCollision)
					}
					break others
				}
			}
		}
	}
	return updates
}

func deathByHealth(health int) bool {
	return health <= 0
}

func deathByOutOfBounds(head board.Cell, width, height int) bool {
	return (head.X < 0) || (head.X >= width) || (head.Y < 0) || (head.Y >= height)
}

func deathByHeadCollision(snake, other *Snake) bool {
	a, _ := snake.Head()
	b, ok := other.Head()
	return other.ID != snake.ID && ok && a.Equal(b) && len(snake.Body) <= len(other.Body)
}
