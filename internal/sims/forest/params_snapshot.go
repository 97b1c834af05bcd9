package forest

import (
	"strconv"

	"forest-disease/internal/core"
)

// Parameters reports the staged parameters (applied by the next Reset) along
// with the live state of the current run.
func (w *World) Parameters() core.ParameterSnapshot {
	next := w.pending
	params := next.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("width", "Width", next.Width),
				intParam("height", "Height", next.Height),
				int64Param("seed", "Seed", next.Seed),
			},
		},
		{
			Name:    "Disease",
			Summary: "Changes take effect on reset",
			Params: []core.Parameter{
				floatParam("density", "Tree density", params.Density),
				intParam("mortality", "Dead after n ticks", params.Mortality),
				choiceParam("wind", "Prevailing wind", params.Wind.String()),
				intParam("distance", "Spread distance", params.Distance),
				boolParam("carrier_moore", "Carrier moves diagonally", params.CarrierMoore),
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				intParam("tick", "Tick", w.tick),
				choiceParam("phase", "Phase", w.phase.String()),
				intParam("healthy", "Healthy", w.counts.Healthy),
				intParam("infected", "Infected", w.counts.Infected),
				intParam("dead", "Dead", w.counts.Dead),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "density", Label: "Tree density", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.01, Max: 1, HasMin: true, HasMax: true},
		{Key: "mortality", Label: "Dead after n ticks", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 10, HasMin: true, HasMax: true},
		{Key: "wind", Label: "Prevailing wind", Type: core.ParamTypeChoice, Options: []string{"N", "S", "E", "W"}},
		{Key: "distance", Label: "Spread distance", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 5, HasMin: true, HasMax: true},
	}
}

// SetIntParameter stages an integer parameter for the next Reset.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "mortality":
		w.pending.Params.Mortality = clampInt(value, 1, 10)
	case "distance":
		w.pending.Params.Distance = clampInt(value, 1, 5)
	default:
		return false
	}
	return true
}

// SetFloatParameter stages a floating point parameter for the next Reset.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "density":
		if value < 0.01 {
			value = 0.01
		}
		if value > 1 {
			value = 1
		}
		w.pending.Params.Density = value
	default:
		return false
	}
	return true
}

// SetChoiceParameter stages a choice parameter for the next Reset.
func (w *World) SetChoiceParameter(key string, value string) bool {
	switch key {
	case "wind":
		d, err := ParseDirection(value)
		if err != nil {
			return false
		}
		w.pending.Params.Wind = d
	default:
		return false
	}
	return true
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func choiceParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeChoice,
		Value: value,
	}
}
