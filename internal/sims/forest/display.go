package forest

import (
	"image/color"

	"forest-disease/internal/core"
)

// Display values stored in Cells.
const (
	CellEmpty uint8 = iota
	CellHealthy
	CellInfected
	CellDead
	CellCarrier
)

var forestPalette = []color.RGBA{
	CellEmpty:    {R: 255, G: 255, B: 255, A: 255},
	CellHealthy:  {R: 0x00, G: 0xAA, B: 0x00, A: 255},
	CellInfected: {R: 0x88, G: 0x00, B: 0x00, A: 255},
	CellDead:     {R: 0x00, G: 0x00, B: 0x00, A: 255},
	CellCarrier:  {R: 0xFF, G: 0xF9, B: 0x00, A: 255},
}

// Palette exposes the color palette used for rendering the forest.
func (w *World) Palette() []color.RGBA {
	return forestPalette
}

// StateColor returns the portrayal color of an agent state.
func StateColor(s State) color.RGBA {
	return forestPalette[cellValue(s)]
}

// Cells exposes the current display buffer, one value per cell in row-major
// order.
func (w *World) Cells() []uint8 { return w.display }

func cellValue(s State) uint8 {
	switch s {
	case Healthy:
		return CellHealthy
	case Infected:
		return CellInfected
	case Dead:
		return CellDead
	case Spreading:
		return CellCarrier
	}
	return CellEmpty
}

// cellRank orders display values so that a shared cell shows the carrier
// first, then the most advanced tree state.
func cellRank(v uint8) int {
	switch v {
	case CellCarrier:
		return 4
	case CellDead:
		return 3
	case CellInfected:
		return 2
	case CellHealthy:
		return 1
	}
	return 0
}

func (w *World) rebuildDisplay() {
	for i := range w.display {
		w.display[i] = CellEmpty
	}
	for _, a := range w.agents {
		p := a.Pos()
		idx := w.grid.Index(p.X, p.Y)
		v := cellValue(a.State())
		if cellRank(v) > cellRank(w.display[idx]) {
			w.display[idx] = v
		}
	}
}

// CellAt returns the display value at p.
func (w *World) CellAt(p core.Pos) uint8 {
	if !w.grid.InBounds(p) {
		return CellEmpty
	}
	return w.display[w.grid.Index(p.X, p.Y)]
}
