package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forest-disease/internal/sims/forest"
)

const namespace = "forest"

// Collector exports the state of a forest world to prometheus.
type Collector struct {
	Registry *prometheus.Registry

	trees       *prometheus.GaugeVec
	running     prometheus.Gauge
	tick        prometheus.Gauge
	ticks       prometheus.Counter
	activations *prometheus.CounterVec
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		Registry: prometheus.NewRegistry(),
		trees: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trees",
			Help:      "Number of trees per health state.",
		}, []string{"state"}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while healthy trees remain, 0 once halted.",
		}),
		tick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tick",
			Help:      "Current tick of the run.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Ticks simulated across all runs.",
		}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activations_total",
			Help:      "Agent activations by agent kind.",
		}, []string{"kind"}),
	}
	c.Registry.MustRegister(c.trees, c.running, c.tick, c.ticks, c.activations)
	return c
}

// Attach installs the activation hook on w and publishes its current state.
func (c *Collector) Attach(w *forest.World) {
	w.SetActivationHook(c.ObserveActivation)
	c.Observe(w)
}

// ObserveActivation counts one agent activation.
func (c *Collector) ObserveActivation(a forest.Agent) {
	c.activations.WithLabelValues(a.Kind().String()).Inc()
}

// Observe publishes the counts and phase of w.
func (c *Collector) Observe(w *forest.World) {
	counts := w.Counts()
	c.trees.WithLabelValues(forest.Healthy.String()).Set(float64(counts.Healthy))
	c.trees.WithLabelValues(forest.Infected.String()).Set(float64(counts.Infected))
	c.trees.WithLabelValues(forest.Dead.String()).Set(float64(counts.Dead))
	running := 0.0
	if w.Running() {
		running = 1
	}
	c.running.Set(running)
	c.tick.Set(float64(w.Tick()))
}

// ObserveTick records a completed tick and publishes the new state.
func (c *Collector) ObserveTick(w *forest.World) {
	c.ticks.Inc()
	c.Observe(w)
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
