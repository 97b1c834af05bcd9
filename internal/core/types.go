package core

import "image/color"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a grid simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// PaletteProvider is implemented by sims whose Cells values index a palette
// rather than encoding a binary on/off state.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// Halter is implemented by sims that can reach a terminal state. Frontends
// stop stepping once Running reports false.
type Halter interface {
	Running() bool
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}
