//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strconv"
	"strings"

	"forest-disease/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// statusGroup is the snapshot group listed read-only under the controls.
const statusGroup = "Run"

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	controls     []hudControlState
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	choiceSetter core.ChoiceParameterSetter
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.title = buildTitle(sim)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl, value: "--"}
		}
		h.layoutControls()
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	if setter, ok := sim.(core.ChoiceParameterSetter); ok {
		h.choiceSetter = setter
	}
	return h
}

// Update refreshes the cached parameter snapshot from the simulation and handles
// HUD interactions.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	provider, ok := h.sim.(parameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	size := h.sim.Size()
	height := size.H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawControls()
	h.drawStatus()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(sim core.Sim) string {
	if sim == nil {
		return "Controls"
	}
	name := sim.Name()
	if name == "" {
		return "Controls"
	}
	return fmt.Sprintf("%s%s Controls", strings.ToUpper(name[:1]), name[1:])
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				state.hasValue = false
				state.value = "--"
				continue
			}
			state.intValue = parsed
			state.floatValue = float64(parsed)
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeFloat:
			parsed, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				state.hasValue = false
				state.value = "--"
				continue
			}
			state.floatValue = parsed
			state.value = h.formatFloat(state.control, parsed)
			state.hasValue = true
		case core.ParamTypeChoice:
			state.choiceIndex = slices.Index(state.control.Options, param.Value)
			state.value = param.Value
			state.hasValue = state.choiceIndex >= 0
		default:
			state.hasValue = false
			state.value = "--"
		}
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return
		}
	}
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	if state == nil || direction == 0 || !h.canAdjust(state, direction) {
		return
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		target := h.intTarget(state, direction)
		if target == state.intValue {
			return
		}
		if h.intSetter.SetIntParameter(state.control.Key, target) {
			state.intValue = target
			state.floatValue = float64(target)
			state.value = strconv.Itoa(target)
		}
	case core.ParamTypeFloat:
		target := h.floatTarget(state, direction)
		if math.Abs(target-state.floatValue) < 1e-9 {
			return
		}
		if h.floatSetter.SetFloatParameter(state.control.Key, target) {
			state.floatValue = target
			state.value = h.formatFloat(state.control, target)
		}
	case core.ParamTypeChoice:
		n := len(state.control.Options)
		next := ((state.choiceIndex+direction)%n + n) % n
		if h.choiceSetter.SetChoiceParameter(state.control.Key, state.control.Options[next]) {
			state.choiceIndex = next
			state.value = state.control.Options[next]
		}
	}
}

func (h *HUD) intTarget(state *hudControlState, direction int) int {
	step := int(math.Round(state.control.Step))
	if step <= 0 {
		step = 1
	}
	target := state.intValue + direction*step
	if state.control.HasMin {
		target = max(target, int(math.Round(state.control.Min)))
	}
	if state.control.HasMax {
		target = min(target, int(math.Round(state.control.Max)))
	}
	return target
}

func (h *HUD) floatTarget(state *hudControlState, direction int) float64 {
	step := state.control.Step
	if step <= 0 {
		step = 0.05
	}
	target := state.floatValue + float64(direction)*step
	if state.control.HasMin && target < state.control.Min {
		target = state.control.Min
	}
	if state.control.HasMax && target > state.control.Max {
		target = state.control.Max
	}
	return target
}

func (h *HUD) canAdjust(state *hudControlState, direction int) bool {
	switch state.control.Type {
	case core.ParamTypeInt:
		return h.intSetter != nil && h.intTarget(state, direction) != state.intValue
	case core.ParamTypeFloat:
		return h.floatSetter != nil && math.Abs(h.floatTarget(state, direction)-state.floatValue) >= 1e-9
	case core.ParamTypeChoice:
		return h.choiceSetter != nil && len(state.control.Options) > 1
	default:
		return false
	}
}

func (h *HUD) drawControls() {
	if h.panel == nil {
		return
	}
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	if len(h.controls) == 0 {
		infoY := headerY + infoSpacing
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, infoY, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		return
	}
	for i := range h.controls {
		state := &h.controls[i]
		top := state.top
		labelY := top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		value := state.value
		bounds := text.BoundString(face, value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, value, face, valueX, labelY, valueColor)

		minusEnabled := state.hasValue && h.canAdjust(state, -1)
		plusEnabled := state.hasValue && h.canAdjust(state, 1)
		h.drawButton(state.minusRect, "-", minusEnabled)
		h.drawButton(state.plusRect, "+", plusEnabled)
	}
	hintY := controlsTop + len(h.controls)*lineHeight + labelBaseline
	text.Draw(h.panel, "R applies changes", face, panelPadding, hintY, color.RGBA{R: 140, G: 140, B: 150, A: 255})
}

// drawStatus lists the live run values below the controls.
func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := controlsTop + len(h.controls)*lineHeight + labelBaseline + infoSpacing
	for _, group := range h.snapshot.Groups {
		if group.Name != statusGroup {
			continue
		}
		for _, param := range group.Params {
			text.Draw(h.panel, param.Label, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
			bounds := text.BoundString(face, param.Value)
			text.Draw(h.panel, param.Value, face, h.width-panelPadding-bounds.Dx(), y, color.RGBA{R: 230, G: 230, B: 240, A: 255})
			y += statusSpacing
		}
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if len(h.controls) == 0 || h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func (h *HUD) formatFloat(ctrl core.ParameterControl, value float64) string {
	precision := 1
	switch step := ctrl.Step; {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	intValue    int
	floatValue  float64
	choiceIndex int
	hasValue    bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	statusSpacing  = 18
	controlsTop    = panelPadding + headerBaseline + 14
)
