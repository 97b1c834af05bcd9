package forest

import (
	"testing"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/stretchr/testify/require"

	"forest-disease/internal/core"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 18
	cfg.Seed = 42
	return cfg
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":      func(c *Config) { c.Width = 0 },
		"negative height": func(c *Config) { c.Height = -3 },
		"zero density":    func(c *Config) { c.Params.Density = 0 },
		"density above 1": func(c *Config) { c.Params.Density = 1.5 },
		"zero mortality":  func(c *Config) { c.Params.Mortality = 0 },
		"bad wind":        func(c *Config) { c.Params.Wind = 'X' },
		"zero distance":   func(c *Config) { c.Params.Distance = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := smallConfig()
			mutate(&cfg)
			w, err := NewWorld(cfg)
			require.Error(t, err)
			require.True(t, ierrors.Is(err, ErrInvalidConfig))
			require.Nil(t, w)
		})
	}
}

func TestSeedingPlacesCarrierAndTreeAtCenter(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)

	center := core.Pos{X: 12, Y: 9}
	require.Equal(t, center, w.Carrier().Pos)

	kinds := map[Kind]int{}
	for _, a := range w.ContentsAt(center) {
		kinds[a.Kind]++
	}
	require.Equal(t, 1, kinds[KindCarrier])
	require.GreaterOrEqual(t, kinds[KindTree], 1)

	require.Equal(t, CellCarrier, w.CellAt(center))
	require.Equal(t, 0, w.Tick())
	require.True(t, w.Running())
	require.Len(t, w.History(), 1)
	require.Equal(t, w.NumTrees(), w.Counts().Total())
	require.Equal(t, w.NumTrees(), w.Counts().Healthy)
	require.Len(t, w.Agents(), w.NumTrees()+1)
}

func TestFullDensityFillsEveryCell(t *testing.T) {
	cfg := smallConfig()
	cfg.Params.Density = 1
	w, err := NewWorld(cfg)
	require.NoError(t, err)

	require.Equal(t, cfg.Width*cfg.Height+1, w.NumTrees(), "centre gets an extra tree")
	for _, v := range w.Cells() {
		require.NotEqual(t, CellEmpty, v)
	}
}

func TestCountsAreConservedAndStatesMonotonic(t *testing.T) {
	cfg := smallConfig()
	cfg.Params.Mortality = 3
	cfg.Params.Distance = 2
	w, err := NewWorld(cfg)
	require.NoError(t, err)

	prevState := map[core.AgentID]State{}
	prevDuration := map[core.AgentID]int{}
	for _, tr := range w.trees {
		prevState[tr.id] = tr.state
	}

	for i := 0; i < 400 && w.Running(); i++ {
		w.Step()
		require.Equal(t, w.NumTrees(), w.Counts().Total(), "tick %d", w.Tick())

		carrierAt := w.Carrier().Pos
		for _, tr := range w.trees {
			before, now := prevState[tr.id], tr.state
			if now < before {
				require.Equal(t, Dead, before)
				require.Equal(t, Infected, now)
				require.Equal(t, carrierAt, tr.pos, "only the carrier can revive a dead tree")
			}
			require.GreaterOrEqual(t, tr.infectedFor, prevDuration[tr.id])
			if before == Healthy && now == Healthy {
				require.Equal(t, prevDuration[tr.id], tr.infectedFor, "healthy trees do not age")
			}
			prevState[tr.id] = now
			prevDuration[tr.id] = tr.infectedFor
		}
	}
	require.Len(t, w.History(), w.Tick()+1)
}

func TestSingleTreeHaltsWhenInfected(t *testing.T) {
	cfg := smallConfig()
	cfg.Width = 5
	cfg.Height = 5
	cfg.Params.Density = 1e-12
	cfg.Params.Mortality = 1
	w, err := NewWorld(cfg)
	require.NoError(t, err)
	require.Equal(t, 1, w.NumTrees())

	for i := 0; i < 10000 && w.Running(); i++ {
		w.Step()
		if w.Counts().Healthy == 0 {
			require.Equal(t, Halted, w.Phase(), "halt on the tick the last healthy tree is lost")
		} else {
			require.True(t, w.Running())
		}
	}
	require.Equal(t, Halted, w.Phase())

	tick := w.Tick()
	history := len(w.History())
	w.Step()
	require.Equal(t, tick, w.Tick(), "halted worlds do not step")
	require.Len(t, w.History(), history)
}

func TestWorldWithoutHealthyTreesIsHalted(t *testing.T) {
	w := bareWorld(3, 3, defaultParams())
	w.addCarrier(core.Pos{X: 1, Y: 1})
	w.settle()

	require.Equal(t, Halted, w.Phase())
	w.Step()
	require.Zero(t, w.Tick())
}

func TestResetIsDeterministic(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		w.Step()
	}
	first := w.History()
	firstCells := append([]uint8(nil), w.Cells()...)

	w.Reset(0)
	for i := 0; i < 30; i++ {
		w.Step()
	}
	require.Equal(t, first, w.History())
	require.Equal(t, firstCells, w.Cells())

	w.Reset(777)
	require.Equal(t, int64(777), w.Config().Seed)
	w.Reset(0)
	require.Equal(t, smallConfig().Seed, w.Config().Seed)
}

func TestStagedParametersApplyOnReset(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)

	require.True(t, w.SetFloatParameter("density", 0.2))
	require.True(t, w.SetIntParameter("mortality", 4))
	require.True(t, w.SetIntParameter("distance", 99))
	require.True(t, w.SetChoiceParameter("wind", "W"))
	require.False(t, w.SetChoiceParameter("wind", "Q"))
	require.False(t, w.SetIntParameter("width", 3))

	require.Equal(t, smallConfig().Params, w.Config().Params, "running parameters are immutable")
	param, ok := w.Parameters().Lookup("mortality")
	require.True(t, ok)
	require.Equal(t, "4", param.Value)

	w.Reset(0)
	got := w.Config().Params
	require.InDelta(t, 0.2, got.Density, 1e-12)
	require.Equal(t, 4, got.Mortality)
	require.Equal(t, 5, got.Distance, "distance is clamped to the control range")
	require.Equal(t, West, got.Wind)
}

func TestActivationHookSeesEveryAgentOncePerTick(t *testing.T) {
	w, err := NewWorld(smallConfig())
	require.NoError(t, err)

	seen := map[core.AgentID]int{}
	w.SetActivationHook(func(a Agent) { seen[a.ID()]++ })

	for tick := 1; tick <= 3 && w.Running(); tick++ {
		w.Step()
		require.Len(t, seen, len(w.Agents()))
		for id, n := range seen {
			require.Equalf(t, tick, n, "agent %d", id)
		}
	}
}

func TestRegisteredFactory(t *testing.T) {
	factory, ok := core.Sims()["forest"]
	require.True(t, ok)

	sim := factory(map[string]string{"width": "10", "height": "8", "wind": "S", "density": "2"})
	require.Equal(t, core.Size{W: 10, H: 8}, sim.Size())

	w := sim.(*World)
	require.Equal(t, South, w.Config().Params.Wind)
	require.Equal(t, DefaultConfig().Params.Density, w.Config().Params.Density, "out of range values are ignored")
}
