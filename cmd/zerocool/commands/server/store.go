package server

import (
	"io"
	"os"

	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/battlesnakeio/zerocool/controller/filestore"
	"github.com/battlesnakeio/zerocool/controller/redisstore"
	"github.com/battlesnakeio/zerocool/controller/sqlstore"
	"github.com/battlesnakeio/zerocool/strategy"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// openStore creates the store games are recorded to. The returned func
// releases it.
func openStore(kind string) (controller.Store, func(), error) {
	var (
		store controller.Store
		err   error
	)
	switch kind {
	case "", "memory":
		store = controller.InMemStore()
	case "file":
		store = filestore.NewFileStore(config.StoreDir)
	case "redis":
		store, err = redisstore.NewRedisStore(config.RedisURL)
	case "sql":
		store, err = sqlstore.NewSQLStore(config.DatabaseURL)
	default:
		return nil, nil, errors.Errorf("unknown store %q", kind)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %s store", kind)
	}
	log.WithField("store", kind).Info("recording games")

	release := func() {}
	if c, ok := store.(io.Closer); ok {
		release = func() {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("closing store")
			}
		}
	}
	return store, release, nil
}

// LoadWeights reads the weights in path. An empty path gives the defaults.
func LoadWeights(path string) (*strategy.Weights, error) {
	if path == "" {
		w := strategy.DefaultWeights()
		return &w, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening weights")
	}
	defer f.Close()
	w, err := strategy.LoadWeights(f)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
