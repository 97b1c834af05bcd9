package report

import (
	"fmt"
	"io"
	"image/color"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"forest-disease/internal/sims/forest"
)

// ChartOptions controls the size and labelling of a counts chart.
type ChartOptions struct {
	Title  string
	Width  int
	Height int
}

// DefaultChartOptions returns a 800x400 chart titled after the simulation.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Title: "Forest Disease", Width: 800, Height: 400}
}

// WriteCountsChart renders one line per tree state over the run's history as
// a PNG.
func WriteCountsChart(w io.Writer, history []forest.Counts, opts ChartOptions) error {
	if len(history) == 0 {
		return ierrors.New("no counts recorded")
	}
	ticks := make([]float64, len(history))
	healthy := make([]float64, len(history))
	infected := make([]float64, len(history))
	dead := make([]float64, len(history))
	yMax := 1.0
	for i, c := range history {
		ticks[i] = float64(i)
		healthy[i] = float64(c.Healthy)
		infected[i] = float64(c.Infected)
		dead[i] = float64(c.Dead)
		if total := float64(c.Total()); total > yMax {
			yMax = total
		}
	}
	xMax := float64(len(history) - 1)
	if xMax < 1 {
		xMax = 1
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:  "Tick",
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Trees",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		Series: []chart.Series{
			countSeries(forest.Healthy, ticks, healthy),
			countSeries(forest.Infected, ticks, infected),
			countSeries(forest.Dead, ticks, dead),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return ierrors.Wrap(err, "render counts chart")
	}
	return nil
}

func countSeries(state forest.State, xs, ys []float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    state.String(),
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: toDrawingColor(forest.StateColor(state)),
			StrokeWidth: 2.0,
		},
	}
}

func toDrawingColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
