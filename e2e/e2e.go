// Package e2e drives a running snake server over HTTP the way the game
// server does.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/battlesnakeio/zerocool/api"
	"github.com/battlesnakeio/zerocool/board"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type client struct {
	snakeURL string
	client   *http.Client
}

func (c *client) post(ctx context.Context, path string, snap board.Snapshot, v interface{}) error {
	data, err := json.Marshal(api.NewSnakeRequest(snap))
	if err != nil {
		return err
	}
	req, err := http.NewRequest("POST", c.snakeURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s: %s", path, resp.Status)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *client) get(path string, v interface{}) error {
	resp, err := c.client.Get(c.snakeURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *client) start(snap board.Snapshot) error {
	return c.post(context.Background(), "/start", snap, nil)
}

func (c *client) end(snap board.Snapshot) error {
	return c.post(context.Background(), "/end", snap, nil)
}

// Move asks the server for its move. A failed request plays up, as the game
// server does.
func (c *client) Move(ctx context.Context, snap board.Snapshot) board.Direction {
	res := &api.MoveResponse{}
	if err := c.post(ctx, "/move", snap, res); err != nil {
		log.WithError(err).WithField("turn", snap.Turn).Warn("move request failed")
		return board.Up
	}
	d, err := board.ParseDirection(res.Move)
	if err != nil {
		log.WithError(err).WithField("move", res.Move).Warn("invalid move")
		return board.Up
	}
	return d
}

func (c *client) gameStatus(gameID string) (*controller.Game, []*controller.Turn, error) {
	game := &controller.Game{}
	if err := c.get(fmt.Sprintf("/games/%s", gameID), game); err != nil {
		return nil, nil, err
	}
	var turns []*controller.Turn
	if err := c.get(fmt.Sprintf("/games/%s/turns?limit=100000", gameID), &turns); err != nil {
		return nil, nil, err
	}
	return game, turns, nil
}
