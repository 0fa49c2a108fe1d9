package filestore

import (
	"bufio"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"

	"github.com/battlesnakeio/zerocool/controller"
	"github.com/pkg/errors"
)

var openFileReader = readOnlyFileReader

type reader interface {
	io.Reader
	Close() error
}

type gameArchive struct {
	game  *controller.Game
	turns []*controller.Turn
}

func readOnlyFileReader(directory, id string) (reader, error) {
	return os.Open(getFilePath(directory, id))
}

func readLine(r *bufio.Reader, out *line) (bool, error) {
	bytes, err := r.ReadBytes('\n')
	eof := err == io.EOF

	if err != nil && !eof {
		return false, err
	}
	if eof && len(bytes) == 0 {
		return false, nil
	}

	if err = json.Unmarshal(bytes, out); err != nil {
		return false, err
	}

	return !eof, nil
}

// readArchive replays the lines of a game's archive. Later game lines replace
// earlier ones.
func readArchive(directory, id string) (gameArchive, error) {
	f, err := openFileReader(directory, id)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return gameArchive{}, controller.ErrNotFound
		}
		return gameArchive{}, errors.Wrap(err, "opening archive")
	}
	defer f.Close()

	r := bufio.NewReader(f)

	a := gameArchive{}
	for more := true; more; {
		l := line{}
		more, err = readLine(r, &l)
		if err != nil {
			return gameArchive{}, errors.Wrapf(err, "reading archive %s", id)
		}
		switch {
		case l.Game != nil:
			a.game = l.Game
		case l.Turn != nil:
			a.turns = append(a.turns, l.Turn)
		case l.Summary != nil && a.game != nil:
			a.game.Status = controller.StatusComplete
			a.game.Summary = l.Summary
		}
	}
	if a.game == nil {
		return gameArchive{}, controller.ErrNotFound
	}
	if a.game.Summary != nil {
		if text, err := ioutil.ReadFile(getLogPath(directory, id)); err == nil {
			a.game.Summary.Log = string(text)
		}
	}
	return a, nil
}
