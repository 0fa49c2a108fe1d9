package filestore

import (
	"context"
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/battlesnakeio/zerocool/controller"
	"github.com/battlesnakeio/zerocool/controller/testsuite"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	text   string
	err    error
	closed bool
}

func (w *mockWriter) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	w.text += s
	return len(s), nil
}

func (w *mockWriter) Close() error {
	w.closed = true
	return nil
}

func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "zerocool-filestore")
	require.NoError(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

func basicGame() *controller.Game {
	return &controller.Game{
		ID:      "myid",
		Status:  controller.StatusRunning,
		Width:   11,
		Height:  11,
		Timeout: 500,
	}
}

func TestFileStoreSuite(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	testsuite.Suite(t, NewFileStore(dir), func() {})
}

func TestFileStore_ReadsCompletedGame(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	ctx := context.Background()

	fs := NewFileStore(dir)
	require.NoError(t, fs.CreateGame(ctx, basicGame()))
	require.NoError(t, fs.PushTurn(ctx, "myid", &controller.Turn{Turn: 0, Move: "up"}))
	require.NoError(t, fs.PushTurn(ctx, "myid", &controller.Turn{Turn: 1, Move: "left"}))
	require.NoError(t, fs.EndGame(ctx, "myid", &controller.Summary{Turns: 2, Log: "line one\nline two\n"}))

	_, err := os.Stat(path.Join(dir, "myid.jsonl"))
	require.NoError(t, err)
	text, err := ioutil.ReadFile(path.Join(dir, "myid.txt"))
	require.NoError(t, err)
	require.Equal(t, "line one\nline two\n", string(text))

	reopened := NewFileStore(dir)
	game, err := reopened.GetGame(ctx, "myid")
	require.NoError(t, err)
	require.Equal(t, controller.StatusComplete, game.Status)
	require.Equal(t, 2, game.Summary.Turns)
	require.Equal(t, "line one\nline two\n", game.Summary.Log)

	turns, err := reopened.ListTurns(ctx, "myid", 5, 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, "left", turns[1].Move)

	// Sequence is still enforced after a reload.
	err = reopened.PushTurn(ctx, "myid", &controller.Turn{Turn: 1})
	require.Equal(t, controller.ErrInvalidSequence, err)
}

func TestFileStore_ClosesWriterOnEnd(t *testing.T) {
	w := &mockWriter{}
	defer func(f func(string, string) (writer, error)) { openFileWriter = f }(openFileWriter)
	defer func(f func(string, string, string) error) { writeLogFile = f }(writeLogFile)
	openFileWriter = func(string, string) (writer, error) { return w, nil }
	var logged string
	writeLogFile = func(_, _, text string) error {
		logged = text
		return nil
	}

	fs := NewFileStore("unused")
	ctx := context.Background()
	require.NoError(t, fs.CreateGame(ctx, basicGame()))
	require.NoError(t, fs.PushTurn(ctx, "myid", &controller.Turn{Turn: 0}))
	require.NoError(t, fs.EndGame(ctx, "myid", &controller.Summary{Log: "bye\n"}))

	require.True(t, w.closed)
	require.Equal(t, "bye\n", logged)
	require.Contains(t, w.text, `"game":{"id":"myid"`)
	require.Contains(t, w.text, `"turn":{"turn":0`)
	require.Contains(t, w.text, `"summary":{`)
	require.NotContains(t, w.text, "bye")
}

func TestCreateGameHandlesWriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("fail")}
	defer func(f func(string, string) (writer, error)) { openFileWriter = f }(openFileWriter)
	openFileWriter = func(string, string) (writer, error) { return w, nil }

	fs := NewFileStore("unused")
	err := fs.CreateGame(context.Background(), basicGame())
	require.NotNil(t, err)
}

func TestCreateGameHandlesOpenFileError(t *testing.T) {
	defer func(f func(string, string) (writer, error)) { openFileWriter = f }(openFileWriter)
	openFileWriter = func(string, string) (writer, error) {
		return nil, errors.New("fail")
	}

	fs := NewFileStore("unused")
	err := fs.CreateGame(context.Background(), basicGame())
	require.NotNil(t, err)
}

func TestGetGameNotFound(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	fs := NewFileStore(dir)
	_, err := fs.GetGame(context.Background(), "notfound")
	require.Equal(t, controller.ErrNotFound, err)

	err = fs.PushTurn(context.Background(), "notfound", &controller.Turn{})
	require.Equal(t, controller.ErrNotFound, err)

	err = fs.EndGame(context.Background(), "notfound", nil)
	require.Equal(t, controller.ErrNotFound, err)
}

func TestReadArchiveCorruptLine(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	err := ioutil.WriteFile(path.Join(dir, "bad.jsonl"), []byte("{not json\n"), 0644)
	require.NoError(t, err)

	fs := NewFileStore(dir)
	_, err = fs.GetGame(context.Background(), "bad")
	require.NotNil(t, err)
	require.NotEqual(t, controller.ErrNotFound, err)
}
