package rules

import (
	"github.com/battlesnakeio/zerocool/board"
	log "github.com/sirupsen/logrus"
)

// GameTick runs the game one tick with the given moves, keyed by snake id.
// Snakes without a move go up.
func (g *Game) GameTick(moves map[string]board.Direction) {
	g.Turn++

	// 1. update snake coords
	for _, s := range g.AliveSnakes() {
		d, ok := moves[s.ID]
		if !ok || !d.Valid() {
			log.WithField("game", g.ID).
				WithField("snake", s.ID).
				WithField("turn", g.Turn).
				Debug("default move")
			d = board.Up
		}
		head, _ := s.Head()
		s.Body = append([]board.Cell{head.Move(d)}, s.Body...)
	}

	// 2. reduce health, feed and shrink the snakes that didn't eat
	for _, s := range g.AliveSnakes() {
		s.Health--
	}
	eaten := g.checkForSnakesEating()
	g.updateFood(eaten)

	// 3. check for death
	for _, du := range checkForDeath(g.Width, g.Height, g.Turn, g.AliveSnakes()) {
		if du.Snake.Death == nil {
			du.Snake.Death = du.Death
			log.WithField("game", g.ID).
				WithField("snake", du.Snake.ID).
				WithField("turn", g.Turn).
				WithField("cause", du.Death.Cause).
				Debug("snake died")
		}
	}
}

func (g *Game) checkForSnakesEating() []board.Cell {
	var eaten []board.Cell
	for _, s := range g.AliveSnakes() {
		head, _ := s.Head()
		ate := false
		for _, f := range g.Food {
			if head.Equal(f) {
				s.Health = board.MaxHealth
				ate = true
				eaten = append(eaten, f)
			}
		}
		if ate {
			s.Length = len(s.Body)
		} else {
			s.Body = s.Body[:len(s.Body)-1]
		}
	}
	return eaten
}

// updateFood removes eaten food and replaces it. An extra piece may spawn on
// top of that.
func (g *Game) updateFood(eaten []board.Cell) {
	var food []board.Cell
	for _, f := range g.Food {
		if !board.ContainsCell(eaten, f) {
			food = append(food, f)
		}
	}
	g.Food = food

	for range eaten {
		if p, ok := g.unoccupiedPoint(); ok {
			g.Food = append(g.Food, p)
		}
	}
	if g.FoodSpawnChance > 0 && g.rng.Intn(101) <= g.FoodSpawnChance {
		if p, ok := g.unoccupiedPoint(); ok {
			g.Food = append(g.Food, p)
		}
	}
}
