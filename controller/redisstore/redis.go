package redisstore

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/battlesnakeio/zerocool/controller"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// RedisStore keeps each game as a JSON value with its turns in a list.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore will create a new instance of an underlying redis client, so it should not be re-created across "threads"
// - connectURL see: github.com/go-redis/redis/options.go for URL specifics
// The underlying redis client will be immediately tested for connectivity, so don't call this until you know redis can connect.
// Returns a new instance OR an error if unable (meaning an issue connecting to your redis URL)
func NewRedisStore(connectURL string) (*RedisStore, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect ")
	}

	return &RedisStore{client: client}, nil
}

// Close closes the underlying client.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func gameKey(id string) string  { return "zerocool:game:" + id }
func turnsKey(id string) string { return "zerocool:game:" + id + ":turns" }
func lastKey(id string) string  { return "zerocool:game:" + id + ":last" }

// CreateGame will insert or replace the game.
func (rs *RedisStore) CreateGame(c context.Context, g *controller.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "encoding game")
	}
	return errors.Wrap(rs.client.Set(gameKey(g.ID), data, 0).Err(), "unable to save game")
}

// GetGame will fetch the game.
func (rs *RedisStore) GetGame(c context.Context, id string) (*controller.Game, error) {
	return getGame(rs.client, id)
}

type getter interface {
	Get(key string) *redis.StringCmd
}

func getGame(r getter, id string) (*controller.Game, error) {
	data, err := r.Get(gameKey(id)).Bytes()
	if err == redis.Nil {
		return nil, controller.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to load game")
	}
	g := &controller.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, errors.Wrap(err, "decoding game")
	}
	return g, nil
}

// PushTurn will push a turn onto the list of turns. The sequence check and
// the push run in one transaction watching the game's last turn.
func (rs *RedisStore) PushTurn(c context.Context, id string, t *controller.Turn) error {
	data, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "encoding turn")
	}
	return rs.client.Watch(func(tx *redis.Tx) error {
		if _, err := getGame(tx, id); err != nil {
			return err
		}
		last, err := tx.Get(lastKey(id)).Int64()
		if err != nil && err != redis.Nil {
			return errors.Wrap(err, "unable to read last turn")
		}
		if err == nil && last >= int64(t.Turn) {
			return controller.ErrInvalidSequence
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.RPush(turnsKey(id), data)
			pipe.Set(lastKey(id), strconv.Itoa(t.Turn), 0)
			return nil
		})
		return errors.Wrap(err, "unable to push turn")
	}, gameKey(id), lastKey(id))
}

// ListTurns will list turns by an offset and limit, it supports negative
// offset.
func (rs *RedisStore) ListTurns(c context.Context, id string, limit, offset int) ([]*controller.Turn, error) {
	if _, err := rs.GetGame(c, id); err != nil {
		return nil, err
	}
	n, err := rs.client.LLen(turnsKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to count turns")
	}
	start, end, ok := controller.Window(int(n), limit, offset)
	if !ok {
		return nil, nil
	}
	values, err := rs.client.LRange(turnsKey(id), int64(start), int64(end-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list turns")
	}
	turns := make([]*controller.Turn, 0, len(values))
	for _, v := range values {
		t := &controller.Turn{}
		if err := json.Unmarshal([]byte(v), t); err != nil {
			return nil, errors.Wrap(err, "decoding turn")
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// EndGame marks the game complete and stores its summary.
func (rs *RedisStore) EndGame(c context.Context, id string, s *controller.Summary) error {
	return rs.client.Watch(func(tx *redis.Tx) error {
		g, err := getGame(tx, id)
		if err != nil {
			return err
		}
		g.Status = controller.StatusComplete
		g.Summary = s
		data, err := json.Marshal(g)
		if err != nil {
			return errors.Wrap(err, "encoding game")
		}
		_, err = tx.Pipelined(func(pipe redis.Pipeliner) error {
			pipe.Set(gameKey(id), data, 0)
			return nil
		})
		return errors.Wrap(err, "unable to end game")
	}, gameKey(id))
}
