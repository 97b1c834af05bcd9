//go:build ebiten

package app

import (
	"image/color"
	"time"

	"forest-disease/internal/core"
	"forest-disease/internal/render"
	"forest-disease/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var binaryPalette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	palette []color.RGBA

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64, hudWidth int) *Game {
	gp := render.NewGridPainter(sim.Size().W, sim.Size().H)
	palette := binaryPalette
	if provider, ok := sim.(core.PaletteProvider); ok {
		palette = provider.Palette()
	}
	return &Game{
		sim:      sim,
		painter:  gp,
		overlay:  ui.NewOverlay(sim, scale),
		hud:      ui.NewHUD(sim, hudWidth),
		palette:  palette,
		scale:    scale,
		hudWidth: hudWidth,
		seed:     seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	g.overlay.Update()
	g.hud.Update(g.sim.Size().W * g.scale)

	if halter, ok := g.sim.(core.Halter); ok && !halter.Running() {
		g.tickOnce = false
		return nil
	}
	if (!g.paused) || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
