package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/battlesnakeio/zerocool/api"
	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/cmd/zerocool/commands/server"
	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/grid"
	"github.com/battlesnakeio/zerocool/strategy"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	moveWeights  = ""
	moveShowGrid = false
)

func init() {
	moveCmd.Flags().StringVarP(&moveWeights, "weights", "w", moveWeights, "json file overriding the default weights")
	moveCmd.Flags().BoolVar(&moveShowGrid, "grid", moveShowGrid, "print the grid the move was decided on")
}

var moveCmd = &cobra.Command{
	Use:   "move [request.json]",
	Short: "decides the move for a saved /move request, read from stdin when no file is given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(c *cobra.Command, args []string) {
		if err := decideMove(args); err != nil {
			fmt.Println("error deciding move:", err)
			os.Exit(1)
		}
	},
}

func readRequest(args []string) (api.SnakeRequest, error) {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return api.SnakeRequest{}, errors.Wrap(err, "opening request")
		}
		defer f.Close()
		in = f
	}
	req := api.SnakeRequest{}
	err := json.NewDecoder(in).Decode(&req)
	return req, errors.Wrap(err, "reading request")
}

func decideMove(args []string) error {
	req, err := readRequest(args)
	if err != nil {
		return err
	}
	weights, err := server.LoadWeights(moveWeights)
	if err != nil {
		return err
	}
	friends, err := board.NewFriends(config.Friends...)
	if err != nil {
		return err
	}
	snap := req.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(snap.Timeout)*time.Millisecond)
	defer cancel()
	start := time.Now()
	d := strategy.Decide(ctx, snap, strategy.Options{
		Friends: friends,
		Weights: weights,
		Logger:  log.WithField("game", snap.GameID).WithField("turn", snap.Turn),
	})
	elapsed := time.Since(start)

	if moveShowGrid {
		fmt.Println(grid.Build(snap, friends, log.StandardLogger()).String())
	}
	fmt.Printf("move:     %s\n", d.Move)
	if d.Result != nil {
		fmt.Printf("behavior: %s\n", d.Result.Behavior)
		fmt.Printf("scores:   %s\n", d.Result.Scores)
	}
	fmt.Printf("fallback: %t\n", d.Fallback)
	fmt.Printf("elapsed:  %s\n", elapsed)
	return nil
}
