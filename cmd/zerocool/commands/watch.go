package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/battlesnakeio/zerocool/controller"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const cycleInterval = 200 * time.Millisecond

var (
	gameID    = ""
	watchWait = 10 * time.Second
)

func init() {
	watchCmd.Flags().StringVarP(&gameID, "game-id", "g", gameID, "the id of the game to watch")
	watchCmd.Flags().StringVar(&apiAddr, "api-addr", apiAddr, "address of the snake server")
	watchCmd.Flags().DurationVar(&watchWait, "wait", watchWait, "how long to wait for the first turn")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "watches a game the snake is playing, or replays a recorded one",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		if err := watchGame(); err != nil {
			log.WithError(err).Fatal("unable to watch game")
		}
	},
}

func moveTurnForwards(index int, turns *turnHolder) (int, *controller.Turn, bool) {
	index++
	if index >= turns.count() {
		return turns.count() - 1, turns.get(turns.count() - 1), true
	}
	return index, turns.get(index), false
}

func moveTurnBackwards(index int, turns *turnHolder) (int, *controller.Turn) {
	index--
	if index <= 0 {
		index = 0
	}
	return index, turns.get(index)
}

func getJSON(client *http.Client, path string, v interface{}) error {
	resp, err := client.Get(apiAddr + path)
	if err != nil {
		return errors.Wrapf(err, "getting %s", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("getting %s: %s", path, resp.Status)
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(v), "decoding %s", path)
}

// loadGame fetches the game and the turns recorded so far, then follows the
// game's socket for the turns still to come.
func loadGame() (*controller.Game, *turnHolder, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	game := &controller.Game{}
	if err := getJSON(client, fmt.Sprintf("/games/%s", gameID), game); err != nil {
		return nil, nil, err
	}

	turns := newTurnHolder()
	var recorded []*controller.Turn
	if err := getJSON(client, fmt.Sprintf("/games/%s/turns?limit=100000", gameID), &recorded); err != nil {
		return nil, nil, err
	}
	for _, t := range recorded {
		turns.append(t)
	}
	if game.Status == controller.StatusComplete {
		return game, turns, nil
	}

	u, err := url.Parse(apiAddr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid api address")
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = fmt.Sprintf("/games/%s/socket", gameID)
	log.WithField("url", u.String()).Debug("connecting")

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dialing socket")
	}

	go func() {
		defer c.Close()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Debug("socket read failed")
				}
				return
			}

			switch mt {
			case websocket.TextMessage:
				turn := &controller.Turn{}
				if err := json.Unmarshal(message, turn); err != nil {
					log.WithError(err).Debug("unmarshal turn")
					return
				}
				turns.append(turn)
			case websocket.CloseMessage:
				return
			default:
				log.WithField("type", mt).Debug("unhandled message type")
			}
		}
	}()

	return game, turns, nil
}

func watchGame() error {
	game, turns, err := loadGame()
	if err != nil {
		return err
	}

	var current *controller.Turn
	select {
	case current = <-turns.initialTurn():
	case <-time.After(watchWait):
		return errors.New("no turns played in game")
	}

	if err = termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()

	eventQueue := setupEventQueue()
	cycle := time.NewTicker(cycleInterval)
	defer cycle.Stop()
	index := 0
	paused := false

	if err = render(game, current); err != nil {
		return err
	}
	for {
		select {
		case ev := <-eventQueue:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch ev.Key {
			case termbox.KeyEsc:
				return nil
			case termbox.KeySpace:
				paused = !paused
			case termbox.KeyArrowLeft:
				paused = true
				index, current = moveTurnBackwards(index, turns)
			case termbox.KeyArrowRight:
				paused = true
				index, current, _ = moveTurnForwards(index, turns)
			}
			if err = render(game, current); err != nil {
				return err
			}
		case <-cycle.C:
			if paused {
				continue
			}
			// The last turn stays on screen while the game is still being played.
			index, current, _ = moveTurnForwards(index, turns)
			if err = render(game, current); err != nil {
				return err
			}
		}
	}
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}
