package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq" // Import pq driver.

	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/controller"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const migrations = `
CREATE TABLE IF NOT EXISTS games (
	id VARCHAR(255) PRIMARY KEY,
	value jsonb,
	created timestamp default now()
);
CREATE TABLE IF NOT EXISTS turns (
	id VARCHAR(255),
	turn INTEGER,
	value jsonb,
	PRIMARY KEY (id, turn)
);
`

// NewSQLStore returns a new store using a postgres database.
func NewSQLStore(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	if err = db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	_, err = db.ExecContext(ctx, migrations)
	if err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}
	return &Store{db: db}, nil
}

// Store represents an SQL store.
type Store struct {
	db *sql.DB
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// transact is a transaction wrapper, helps avoid failed to close connections.
func (s *Store) transact(
	ctx context.Context, txFunc func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			// err is non-nil; don't change it
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
		} else {
			err = tx.Commit() // err is nil; if Commit returns error update err
		}
	}()
	err = txFunc(tx)
	return err
}

// CreateGame will insert or replace the game.
func (s *Store) CreateGame(ctx context.Context, g *controller.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "encoding game")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, value) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET value=$2`,
		g.ID, data,
	)
	return errors.Wrap(err, "saving game")
}

// PushTurn will push a turn onto the list of turns. Concurrent pushes of the
// same turn collide on the primary key.
func (s *Store) PushTurn(ctx context.Context, id string, t *controller.Turn) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		if _, err := getGame(ctx, tx, id); err != nil {
			return err
		}

		r := tx.QueryRowContext(
			ctx, "SELECT MAX(turn) FROM turns WHERE id=$1", id)
		var last *int
		if err := r.Scan(&last); err != nil && err != sql.ErrNoRows {
			return err
		}
		if last != nil && *last >= t.Turn {
			return controller.ErrInvalidSequence
		}

		data, err := json.Marshal(t)
		if err != nil {
			return errors.Wrap(err, "encoding turn")
		}
		_, err = tx.ExecContext(
			ctx, `INSERT INTO turns (id, turn, value) VALUES ($1, $2, $3)`,
			id, t.Turn, data,
		)
		return err
	})
}

// ListTurns will list turns by an offset and limit, it supports negative
// offset.
func (s *Store) ListTurns(ctx context.Context, id string, limit, offset int) ([]*controller.Turn, error) {
	if _, err := s.GetGame(ctx, id); err != nil {
		return nil, err
	}

	var n int
	r := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM turns WHERE id=$1", id)
	if err := r.Scan(&n); err != nil {
		return nil, errors.Wrap(err, "counting turns")
	}
	start, end, ok := controller.Window(n, limit, offset)
	if !ok {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM turns WHERE id=$1 ORDER BY turn ASC LIMIT $2 OFFSET $3`,
		id, end-start, start,
	)
	if err != nil {
		return nil, errors.Wrap(err, "listing turns")
	}

	var turns []*controller.Turn
	defer rows.Close()
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		t := &controller.Turn{}
		if err := json.Unmarshal(data, t); err != nil {
			return nil, errors.Wrap(err, "decoding turn")
		}

		turns = append(turns, t)
	}

	return turns, rows.Err()
}

// EndGame marks the game complete and stores its summary.
func (s *Store) EndGame(ctx context.Context, id string, sum *controller.Summary) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		g, err := getGame(ctx, tx, id)
		if err != nil {
			return err
		}
		g.Status = controller.StatusComplete
		g.Summary = sum
		data, err := json.Marshal(g)
		if err != nil {
			return errors.Wrap(err, "encoding game")
		}
		_, err = tx.ExecContext(ctx, `UPDATE games SET value=$2 WHERE id=$1`, id, data)
		return err
	})
}

// GetGame will fetch the game.
func (s *Store) GetGame(ctx context.Context, id string) (*controller.Game, error) {
	return getGame(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getGame(ctx context.Context, q queryer, id string) (*controller.Game, error) {
	r := q.QueryRowContext(ctx, "SELECT value FROM games WHERE id=$1", id)

	var data []byte
	if err := r.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, controller.ErrNotFound
		}
		return nil, err
	}

	g := &controller.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, errors.Wrap(err, "decoding game")
	}
	return g, nil
}
