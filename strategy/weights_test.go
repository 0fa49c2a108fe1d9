package strategy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWeights(t *testing.T) {
	w, err := LoadWeights(strings.NewReader(`{"SurvivalMinHealth": 40, "Decay": {"FoodDistance": 3.5}}`))
	require.NoError(t, err)

	expected := DefaultWeights()
	expected.SurvivalMinHealth = 40
	expected.Decay.FoodDistance = 3.5
	require.Equal(t, expected, w)
}

func TestLoadWeightsInvalid(t *testing.T) {
	_, err := LoadWeights(strings.NewReader(`{"SurvivalMinHealth": "high"}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid weights")
}
