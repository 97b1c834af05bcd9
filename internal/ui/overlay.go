//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"forest-disease/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type reachProvider interface {
	CarrierPos() core.Pos
	SpreadDistance() int
}

type windProvider interface {
	WindVector() (float64, float64)
}

// Overlay draws optional debugging visuals on top of the base simulation.
type Overlay struct {
	sim       core.Sim
	scale     int
	showReach bool
	showWind  bool

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update allows the overlay to update internal state.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showReach = !o.showReach
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showWind = !o.showWind
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.showReach {
		if provider, ok := o.sim.(reachProvider); ok {
			o.drawReach(screen, provider, size, scale)
		}
	}
	if o.showWind {
		if provider, ok := o.sim.(windProvider); ok {
			o.drawWind(screen, provider, size, scale)
		}
	}
}

// drawReach outlines the Moore neighbourhood an infected tree on the
// carrier's cell would reach, clipped to the grid.
func (o *Overlay) drawReach(screen *ebiten.Image, provider reachProvider, size core.Size, scale int) {
	pos := provider.CarrierPos()
	r := provider.SpreadDistance()
	minX := float64(max(pos.X-r, 0) * scale)
	minY := float64(max(pos.Y-r, 0) * scale)
	maxX := float64(min(pos.X+r+1, size.W) * scale)
	maxY := float64(min(pos.Y+r+1, size.H) * scale)

	col := color.RGBA{R: 255, G: 249, B: 0, A: 200}
	thickness := math.Max(1, float64(scale)*0.4)
	o.drawLine(screen, minX, minY, maxX, minY, thickness, col)
	o.drawLine(screen, maxX, minY, maxX, maxY, thickness, col)
	o.drawLine(screen, maxX, maxY, minX, maxY, thickness, col)
	o.drawLine(screen, minX, maxY, minX, minY, thickness, col)
	o.drawPoint(screen, (float64(pos.X)+0.5)*float64(scale), (float64(pos.Y)+0.5)*float64(scale), float64(scale), col)
}

// drawWind draws a single arrow at the grid centre pointing along the
// favoured spread direction in grid coordinates.
func (o *Overlay) drawWind(screen *ebiten.Image, provider windProvider, size core.Size, scale int) {
	vx, vy := provider.WindVector()
	speed := math.Hypot(vx, vy)
	if speed == 0 {
		return
	}
	const headAngle = math.Pi / 6

	nx := vx / speed
	ny := vy / speed
	span := float64(min(size.W, size.H)*scale) * 0.2
	cx := float64(size.W*scale) / 2
	cy := float64(size.H*scale) / 2
	tipX := cx + nx*span
	tipY := cy + ny*span
	tailX := cx - nx*span
	tailY := cy - ny*span
	headLength := span * 0.35
	thickness := math.Max(2, float64(scale)*0.6)

	col := color.RGBA{R: 90, G: 170, B: 240, A: 220}
	o.drawLine(screen, tailX, tailY, tipX-nx*headLength*0.5, tipY-ny*headLength*0.5, thickness, col)

	angle := math.Atan2(ny, nx)
	leftX := tipX - math.Cos(angle+headAngle)*headLength
	leftY := tipY - math.Sin(angle+headAngle)*headLength
	rightX := tipX - math.Cos(angle-headAngle)*headLength
	rightY := tipY - math.Sin(angle-headAngle)*headLength
	o.drawLine(screen, tipX, tipY, leftX, leftY, thickness*0.85, col)
	o.drawLine(screen, tipX, tipY, rightX, rightY, thickness*0.85, col)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
