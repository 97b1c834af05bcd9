package forest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateReportsEveryViolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	cfg.Params.Density = 0
	cfg.Params.Distance = -1

	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, ierrors.Is(err, ErrInvalidConfig))
	msg := err.Error()
	for _, want := range []string{"width", "density", "distance"} {
		require.Truef(t, strings.Contains(msg, want), "expected %q in %q", want, msg)
	}
}

func TestFromMapParsesRecognisedOptions(t *testing.T) {
	c := FromMap(map[string]string{
		"width":         "40",
		"height":        "30",
		"density":       "0.25",
		"mortality":     "4",
		"wind":          "E",
		"distance":      "2",
		"seed":          "9",
		"carrier_moore": "true",
	})
	require.Equal(t, 40, c.Width)
	require.Equal(t, 30, c.Height)
	require.Equal(t, int64(9), c.Seed)
	require.Equal(t, Params{Density: 0.25, Mortality: 4, Wind: East, Distance: 2, CarrierMoore: true}, c.Params)
}

func TestFromMapIgnoresInvalidValues(t *testing.T) {
	c := FromMap(map[string]string{
		"width":     "-1",
		"density":   "0",
		"mortality": "zero",
		"wind":      "NE",
		"distance":  "0",
	})
	require.Equal(t, DefaultConfig(), c)
	require.NoError(t, c.Validate())
}

func TestApplyKeepsUnsetFields(t *testing.T) {
	base := DefaultConfig()
	base.Width = 12
	base.Params.Wind = South

	c := base.Apply(map[string]string{"distance": "3"})
	require.Equal(t, 12, c.Width)
	require.Equal(t, South, c.Params.Wind)
	require.Equal(t, 3, c.Params.Distance)
	require.Equal(t, 1, base.Params.Distance)
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forest.yaml")
	body := "width: 50\nheight: 20\ndensity: 0.4\nmortality: 3\nwind: W\ndistance: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 50, c.Width)
	require.Equal(t, 20, c.Height)
	require.Equal(t, DefaultConfig().Seed, c.Seed, "unset keys keep their defaults")
	require.Equal(t, Params{Density: 0.4, Mortality: 3, Wind: West, Distance: 2}, c.Params)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	badWind := filepath.Join(dir, "wind.yaml")
	require.NoError(t, os.WriteFile(badWind, []byte("wind: Q\n"), 0o644))
	_, err := LoadConfig(badWind)
	require.Error(t, err)

	badDensity := filepath.Join(dir, "density.yaml")
	require.NoError(t, os.WriteFile(badDensity, []byte("density: 1.2\n"), 0o644))
	_, err = LoadConfig(badDensity)
	require.True(t, ierrors.Is(err, ErrInvalidConfig))

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
