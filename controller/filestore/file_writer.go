package filestore

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/battlesnakeio/zerocool/controller"
	"github.com/pkg/errors"
)

var (
	openFileWriter = appendOnlyFileWriter
	writeLogFile   = writeLogToFile
)

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

// line is one line of a game archive. Exactly one field is set.
type line struct {
	Game    *controller.Game    `json:"game,omitempty"`
	Turn    *controller.Turn    `json:"turn,omitempty"`
	Summary *controller.Summary `json:"summary,omitempty"`
}

func requireSaveDir(directory string) error {
	return os.MkdirAll(directory, 0775)
}

func writeLine(w writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encoding archive line")
	}
	_, err = w.WriteString(string(j) + "\n")
	return errors.Wrap(err, "writing archive line")
}

func appendOnlyFileWriter(directory, id string) (writer, error) {
	if err := requireSaveDir(directory); err != nil {
		return nil, errors.Wrap(err, "creating save dir")
	}

	flags := os.O_APPEND | os.O_WRONLY | os.O_CREATE
	f, err := os.OpenFile(getFilePath(directory, id), flags, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "opening archive")
	}
	return f, nil
}

func writeLogToFile(directory, id, text string) error {
	if err := requireSaveDir(directory); err != nil {
		return errors.Wrap(err, "creating save dir")
	}
	err := ioutil.WriteFile(getLogPath(directory, id), []byte(text), 0644)
	return errors.Wrap(err, "writing game log")
}
