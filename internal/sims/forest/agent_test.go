package forest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"forest-disease/internal/core"
)

func TestHealthyAndDeadTreesAreInert(t *testing.T) {
	w := bareWorld(3, 3, defaultParams())
	healthy := w.addTree(core.Pos{X: 0, Y: 0})
	dead := w.addTree(core.Pos{X: 1, Y: 1})
	dead.state = Dead
	neighbor := w.addTree(core.Pos{X: 1, Y: 2})

	for i := 0; i < 20; i++ {
		healthy.Step(w, w.rng)
		dead.Step(w, w.rng)
	}

	require.Equal(t, Healthy, healthy.State())
	require.Zero(t, healthy.InfectedDuration())
	require.Equal(t, Dead, dead.State())
	require.Zero(t, dead.InfectedDuration())
	require.Equal(t, Healthy, neighbor.State())
}

func TestInfectedTreeDiesAfterMortality(t *testing.T) {
	params := defaultParams()
	params.Mortality = 2
	w := bareWorld(3, 3, params)
	tree := w.addTree(core.Pos{X: 1, Y: 1})
	tree.state = Infected

	tree.Step(w, w.rng)
	require.Equal(t, Infected, tree.State())
	require.Equal(t, 1, tree.InfectedDuration())

	tree.Step(w, w.rng)
	require.Equal(t, Infected, tree.State(), "duration equal to mortality is not yet fatal")

	tree.Step(w, w.rng)
	require.Equal(t, Dead, tree.State())
	require.Equal(t, 3, tree.InfectedDuration())

	tree.Step(w, w.rng)
	require.Equal(t, Dead, tree.State())
	require.Equal(t, 3, tree.InfectedDuration(), "duration only grows while infected")
}

func TestTreePastMortalityDiesOnNextActivation(t *testing.T) {
	params := defaultParams()
	params.Mortality = 1
	w := bareWorld(1, 1, params)
	tree := w.addTree(core.Pos{})
	tree.state = Infected
	tree.infectedFor = 5

	tree.Step(w, w.rng)
	require.Equal(t, Dead, tree.State())
}

func TestSpreadNeverTouchesInfectedOrDeadNeighbors(t *testing.T) {
	params := defaultParams()
	params.Mortality = 1000
	w := bareWorld(3, 3, params)
	src := w.addTree(core.Pos{X: 1, Y: 1})
	src.state = Infected
	dead := w.addTree(core.Pos{X: 1, Y: 2})
	dead.state = Dead
	infected := w.addTree(core.Pos{X: 2, Y: 1})
	infected.state = Infected

	for i := 0; i < 200; i++ {
		src.Step(w, w.rng)
	}

	require.Equal(t, Dead, dead.State())
	require.Equal(t, Infected, infected.State())
	require.Zero(t, infected.InfectedDuration(), "spread must not advance a neighbour's counter")
}

func TestSpreadStaysWithinDistance(t *testing.T) {
	params := defaultParams()
	params.Mortality = 1000
	params.Distance = 1
	w := bareWorld(5, 5, params)
	src := w.addTree(core.Pos{X: 2, Y: 2})
	src.state = Infected
	far := w.addTree(core.Pos{X: 2, Y: 4})
	near := w.addTree(core.Pos{X: 2, Y: 3})

	for i := 0; i < 200 && near.State() == Healthy; i++ {
		src.Step(w, w.rng)
	}
	require.Equal(t, Infected, near.State())
	require.Equal(t, Healthy, far.State(), "only the source's own activations ran, so nothing reaches distance 2")
}

func TestSpreadFavoursPrevailingWind(t *testing.T) {
	const trials = 3000
	northHits, southHits, sideHits := 0, 0, 0
	for seed := int64(1); seed <= trials; seed++ {
		w := bareWorld(3, 3, defaultParams())
		w.rng = core.NewRNG(seed)
		src := w.addTree(core.Pos{X: 1, Y: 1})
		src.state = Infected
		north := w.addTree(core.Pos{X: 1, Y: 2})
		south := w.addTree(core.Pos{X: 1, Y: 0})
		east := w.addTree(core.Pos{X: 2, Y: 1})

		src.Step(w, w.rng)

		if north.State() == Infected {
			northHits++
		}
		if south.State() == Infected {
			southHits++
		}
		if east.State() == Infected {
			sideHits++
		}
	}

	require.InDelta(t, 0.5, float64(northHits)/trials, 0.04)
	require.InDelta(t, 1.0/6.0, float64(southHits)/trials, 0.03)
	require.InDelta(t, 1.0/6.0, float64(sideHits)/trials, 0.03)
}

func TestCarrierOverridesDeadTree(t *testing.T) {
	w := bareWorld(1, 1, defaultParams())
	tree := w.addTree(core.Pos{})
	tree.state = Dead
	tree.infectedFor = 4
	carrier := w.addCarrier(core.Pos{})

	carrier.Step(w, w.rng)

	require.Equal(t, Infected, tree.State(), "carrier infection is unconditional")
	require.Equal(t, 4, tree.InfectedDuration())
}

func TestCarrierInfectsEveryTreeOnItsCell(t *testing.T) {
	w := bareWorld(1, 1, defaultParams())
	a := w.addTree(core.Pos{})
	b := w.addTree(core.Pos{})
	carrier := w.addCarrier(core.Pos{})

	carrier.Step(w, w.rng)

	require.Equal(t, Infected, a.State())
	require.Equal(t, Infected, b.State())
}

func TestCarrierMovesOneStepAndKeepsGridInSync(t *testing.T) {
	for _, moore := range []bool{false, true} {
		params := defaultParams()
		params.CarrierMoore = moore
		w := bareWorld(4, 4, params)
		carrier := w.addCarrier(core.Pos{X: 0, Y: 0})
		stayed, moved := 0, 0

		for i := 0; i < 500; i++ {
			before := carrier.Pos()
			carrier.Step(w, w.rng)
			after := carrier.Pos()

			require.True(t, w.grid.InBounds(after))
			dx, dy := absInt(after.X-before.X), absInt(after.Y-before.Y)
			if moore {
				require.LessOrEqual(t, max(dx, dy), 1)
			} else {
				require.LessOrEqual(t, dx+dy, 1)
			}
			if after == before {
				stayed++
			} else {
				moved++
			}

			recorded, ok := w.grid.PosOf(carrier.ID())
			require.True(t, ok)
			require.Equal(t, after, recorded)
			require.Contains(t, w.grid.Contents(after), carrier.ID())
			if after != before {
				require.NotContains(t, w.grid.Contents(before), carrier.ID())
			}
		}
		require.Positive(t, stayed, "staying put is a candidate")
		require.Positive(t, moved)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
