package filestore

import (
	"context"
	"os/user"
	"path"
	"sync"

	"github.com/battlesnakeio/zerocool/controller"
	log "github.com/sirupsen/logrus"
)

func defaultDir() string {
	return path.Join(homeDir(), ".zerocool/games")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per game).
// Running games are cached in memory, completed games are read back from
// their file.
func NewFileStore(directory string) controller.Store {
	if directory == "" {
		directory = defaultDir()
	}

	return &fileStore{
		games:     map[string]*controller.Game{},
		turns:     map[string][]*controller.Turn{},
		writers:   map[string]writer{},
		directory: directory,
	}
}

type fileStore struct {
	games     map[string]*controller.Game
	turns     map[string][]*controller.Turn
	writers   map[string]writer
	lock      sync.Mutex
	directory string
}

// closeGame removes the game from in-memory cache and closes the handle to its
// file. Should be called when game is complete.
func (fs *fileStore) closeGame(id string) {
	if w, ok := fs.writers[id]; ok {
		err := w.Close()
		if err != nil {
			log.WithError(err).Error("Error while closing file writer")
		}
	}
	delete(fs.games, id)
	delete(fs.turns, id)
	delete(fs.writers, id)
}

func (fs *fileStore) CreateGame(ctx context.Context, g *controller.Game) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	handle, err := fs.requireHandle(g.ID)
	if err != nil {
		return err
	}
	if err := writeLine(handle, &line{Game: g}); err != nil {
		return err
	}
	fs.games[g.ID] = g.Copy()
	if _, ok := fs.turns[g.ID]; !ok {
		fs.turns[g.ID] = nil
	}
	return nil
}

func (fs *fileStore) GetGame(ctx context.Context, id string) (*controller.Game, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if g, ok := fs.games[id]; ok {
		return g.Copy(), nil
	}
	a, err := readArchive(fs.directory, id)
	if err != nil {
		return nil, err
	}
	return a.game, nil
}

func (fs *fileStore) PushTurn(ctx context.Context, id string, t *controller.Turn) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return err
	}
	turns := fs.turns[id]
	if n := len(turns); n > 0 && turns[n-1].Turn >= t.Turn {
		return controller.ErrInvalidSequence
	}
	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	if err := writeLine(handle, &line{Turn: t}); err != nil {
		return err
	}
	fs.turns[id] = append(turns, t)
	return nil
}

func (fs *fileStore) ListTurns(ctx context.Context, id string, limit, offset int) ([]*controller.Turn, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, ok := fs.games[id]; ok {
		return controller.Page(fs.turns[id], limit, offset), nil
	}
	a, err := readArchive(fs.directory, id)
	if err != nil {
		return nil, err
	}
	return controller.Page(a.turns, limit, offset), nil
}

// EndGame appends the summary and writes the game's log next to its archive.
func (fs *fileStore) EndGame(ctx context.Context, id string, s *controller.Summary) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return err
	}
	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	if s == nil {
		s = &controller.Summary{}
	}
	summary := *s
	logText := summary.Log
	summary.Log = ""
	if err := writeLine(handle, &line{Summary: &summary}); err != nil {
		return err
	}
	if logText != "" {
		if err := writeLogFile(fs.directory, id, logText); err != nil {
			return err
		}
	}
	fs.closeGame(id)
	return nil
}

func (fs *fileStore) requireHandle(id string) (writer, error) {
	if w, ok := fs.writers[id]; ok {
		return w, nil
	}

	handle, err := openFileWriter(fs.directory, id)
	if err != nil {
		return nil, err
	}

	fs.writers[id] = handle
	return handle, nil
}

// requireGame loads a game into the cache, reading its archive when it is
// not there yet.
func (fs *fileStore) requireGame(id string) (*controller.Game, error) {
	if g, ok := fs.games[id]; ok {
		return g, nil
	}

	a, err := readArchive(fs.directory, id)
	if err != nil {
		return nil, err
	}

	fs.games[id] = a.game
	fs.turns[id] = a.turns
	return a.game, nil
}

func getFilePath(directory string, id string) string {
	return path.Join(directory, id) + ".jsonl"
}

func getLogPath(directory string, id string) string {
	return path.Join(directory, id) + ".txt"
}
