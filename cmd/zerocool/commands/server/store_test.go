package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/battlesnakeio/zerocool/config"
	"github.com/battlesnakeio/zerocool/strategy"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "zerocool")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	prev := config.StoreDir
	config.StoreDir = dir
	defer func() { config.StoreDir = prev }()

	for _, kind := range []string{"", "memory", "file"} {
		store, release, err := openStore(kind)
		require.NoError(t, err, kind)
		require.NotNil(t, store, kind)
		release()
	}

	_, _, err = openStore("floppy")
	require.Error(t, err)
}

func TestLoadWeights(t *testing.T) {
	w, err := LoadWeights("")
	require.NoError(t, err)
	require.Equal(t, strategy.DefaultWeights(), *w)

	dir, err := ioutil.TempDir("", "zerocool")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "weights.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(`{"SurvivalMinHealth": 50}`), 0644))
	w, err = LoadWeights(path)
	require.NoError(t, err)
	require.Equal(t, 50, w.SurvivalMinHealth)

	_, err = LoadWeights(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
