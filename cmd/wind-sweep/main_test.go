package main

import (
	"testing"

	"forest-disease/internal/sims/forest"

	"github.com/stretchr/testify/require"
)

func TestParseWinds(t *testing.T) {
	dirs, err := parseWinds(" N, E ,,W")
	require.NoError(t, err)
	require.Equal(t, []forest.Direction{forest.North, forest.East, forest.West}, dirs)

	_, err = parseWinds("N,NE")
	require.Error(t, err)
}

func TestExpandIsCartesianProduct(t *testing.T) {
	sets := expand([]forest.Direction{forest.North, forest.South}, []float64{0.5, 1}, []int{1, 2, 3})
	require.Len(t, sets, 12)
	require.Equal(t, paramSet{wind: forest.North, density: 0.5, distance: 1}, sets[0])
	require.Equal(t, paramSet{wind: forest.South, density: 1, distance: 3}, sets[11])
}

func TestSweepReturnsOneResultPerSet(t *testing.T) {
	base := forest.DefaultConfig()
	base.Width = 12
	base.Height = 12
	sets := expand([]forest.Direction{forest.North, forest.East}, []float64{0.6}, []int{1, 2})

	results := sweep(base, sets, 3, 3000, 2)
	require.Len(t, results, len(sets))
	for _, res := range results {
		require.Equal(t, 3, res.runs)
		require.GreaterOrEqual(t, res.meanDead, 0.0)
		require.LessOrEqual(t, res.meanDead, 1.0)
		require.Positive(t, res.meanTicks)
	}
}
