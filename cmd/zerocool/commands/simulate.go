package commands

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"time"

	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/cmd/zerocool/commands/server"
	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/battlesnakeio/zerocool/rules"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	simSnakes  = 4
	simWidth   = 11
	simHeight  = 11
	simFood    = 4
	simSpawn   = 15
	simTurns   = 500
	simSeed    = time.Now().UnixNano()
	simWeights = ""
	simVerbose = false
	simTimeout = config.DefaultTimeout
)

func init() {
	simulateCmd.Flags().IntVarP(&simSnakes, "snakes", "n", simSnakes, "number of snakes playing")
	simulateCmd.Flags().IntVar(&simWidth, "width", simWidth, "board width")
	simulateCmd.Flags().IntVar(&simHeight, "height", simHeight, "board height")
	simulateCmd.Flags().IntVar(&simFood, "food", simFood, "food placed at the start")
	simulateCmd.Flags().IntVar(&simSpawn, "food-spawn-chance", simSpawn, "percentage chance of extra food each turn")
	simulateCmd.Flags().IntVar(&simTurns, "turns", simTurns, "turns played at most")
	simulateCmd.Flags().IntVar(&simTimeout, "timeout", simTimeout, "move timeout in milliseconds")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", simSeed, "seed for snake and food placement")
	simulateCmd.Flags().StringVarP(&simWeights, "weights", "w", simWeights, "json file overriding the default weights")
	simulateCmd.Flags().BoolVarP(&simVerbose, "verbose", "v", simVerbose, "print the moves of every turn")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "plays the snake against copies of itself",
	Run: func(c *cobra.Command, args []string) {
		if err := simulate(); err != nil {
			fmt.Println("error simulating game:", err)
			os.Exit(1)
		}
	},
}

func simulate() error {
	weights, err := server.LoadWeights(simWeights)
	if err != nil {
		return err
	}
	friends, err := board.NewFriends(config.Friends...)
	if err != nil {
		return err
	}

	cfg := rules.Config{
		Width:           simWidth,
		Height:          simHeight,
		Food:            simFood,
		FoodSpawnChance: simSpawn,
		Timeout:         simTimeout,
		Seed:            simSeed,
	}
	for i := 0; i < simSnakes; i++ {
		cfg.Snakes = append(cfg.Snakes, rules.SnakeOptions{
			ID:   fmt.Sprintf("snake-%d", i+1),
			Name: fmt.Sprintf("Zero Cool %d", i+1),
		})
	}
	game, err := rules.NewGame(cfg)
	if err != nil {
		return err
	}

	// Every snake gets its own controller, they would otherwise share a
	// session for the game.
	logger := log.New()
	logger.Out = ioutil.Discard
	if simVerbose {
		logger = log.StandardLogger()
	}
	ctrls := map[string]*controller.Controller{}
	movers := map[string]rules.Mover{}
	for _, s := range game.Snakes {
		ctrl := controller.New(controller.Config{
			Friends: friends,
			Weights: weights,
			Logger:  logger,
		})
		ctrl.Start(game.Snapshot(s.ID))
		ctrls[s.ID] = ctrl
		movers[s.ID] = ctrl
	}

	fmt.Printf("game %s, %d snakes on %dx%d, seed %d\n", game.ID, simSnakes, simWidth, simHeight, simSeed)
	err = game.Run(context.Background(), movers, simTurns, func(g *rules.Game) {
		if simVerbose {
			fmt.Printf("turn %d: %d alive, %d food\n", g.Turn, len(g.AliveSnakes()), len(g.Food))
		}
	})
	if err != nil {
		return err
	}

	snakes := append([]*rules.Snake(nil), game.Snakes...)
	sort.SliceStable(snakes, func(i, j int) bool {
		return survived(snakes[i]) > survived(snakes[j])
	})
	fmt.Printf("finished after %d turns\n", game.Turn)
	for _, s := range snakes {
		sum := ctrls[s.ID].End(game.Snapshot(s.ID))
		status := "alive"
		if s.Death != nil {
			status = fmt.Sprintf("died turn %d, %s", s.Death.Turn, s.Death.Cause)
		}
		fmt.Printf("  %-12s length %-3d %s\n", s.Name, len(s.Body), status)
		if sum != nil {
			fmt.Printf("  %-12s avg %.2fms, slowest %.2fms (turn %d), %.1f%% of allotted time\n",
				"", sum.AverageMS, sum.SlowestMS, sum.SlowestTurn, sum.Share)
		}
	}
	return nil
}

func survived(s *rules.Snake) int {
	if s.Death == nil {
		return int(^uint(0) >> 1)
	}
	return s.Death.Turn
}
