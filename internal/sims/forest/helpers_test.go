package forest

import "forest-disease/internal/core"

// bareWorld returns a world with an empty grid so tests can place agents by
// hand.
func bareWorld(w, h int, params Params) *World {
	cfg := Config{Width: w, Height: h, Seed: 1, Params: params}
	return &World{
		cfg:     cfg,
		pending: cfg,
		grid:    core.NewMultiGrid(w, h),
		rng:     core.NewRNG(1),
		rose:    newWindRose(params.Wind),
		sched:   &Scheduler{},
		display: make([]uint8, w*h),
	}
}

func defaultParams() Params {
	return Params{Density: 0.5, Mortality: 1, Wind: North, Distance: 1}
}
