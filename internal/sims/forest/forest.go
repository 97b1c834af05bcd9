package forest

import (
	"slices"

	"forest-disease/internal/core"
)

// Phase is the controller state.
type Phase uint8

const (
	Running Phase = iota
	Halted
)

func (p Phase) String() string {
	if p == Halted {
		return "halted"
	}
	return "running"
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Counts is the number of trees per health state.
type Counts struct {
	Healthy  int `json:"healthy"`
	Infected int `json:"infected"`
	Dead     int `json:"dead"`
}

// Total returns the number of trees counted.
func (c Counts) Total() int { return c.Healthy + c.Infected + c.Dead }

// World owns the grid, the scheduler and every agent of a forest run.
type World struct {
	cfg     Config
	pending Config

	grid    *core.MultiGrid
	rng     *core.RNG
	rose    windRose
	sched   *Scheduler
	agents  []Agent
	trees   []*Tree
	carrier *Carrier

	counts  Counts
	history []Counts
	tick    int
	phase   Phase

	display []uint8

	onActivate func(Agent)
}

// New returns a forest world with the provided dimensions using defaults.
func New(w, h int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWorld(cfg)
}

// NewWorld validates cfg and returns a freshly seeded world. No world is
// returned when the configuration is invalid.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{cfg: cfg, pending: cfg}
	w.Reset(0)
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "forest" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Width, H: w.cfg.Height} }

// Config returns the configuration of the current run.
func (w *World) Config() Config { return w.cfg }

// Reset applies any staged parameters and reseeds the forest. A zero seed
// falls back to the configured seed.
func (w *World) Reset(seed int64) {
	w.cfg = w.pending
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.cfg.Seed = effective

	w.rng = core.NewRNG(effective)
	w.rose = newWindRose(w.cfg.Params.Wind)
	w.grid = core.NewMultiGrid(w.cfg.Width, w.cfg.Height)
	w.sched = &Scheduler{OnActivate: w.onActivate}
	w.agents = w.agents[:0]
	w.trees = w.trees[:0]
	w.carrier = nil
	w.tick = 0
	w.history = w.history[:0]
	w.display = make([]uint8, w.cfg.Width*w.cfg.Height)

	w.seed()
	w.phase = Running
	w.settle()
}

func (w *World) seed() {
	density := w.cfg.Params.Density
	for x := 0; x < w.cfg.Width; x++ {
		for y := 0; y < w.cfg.Height; y++ {
			if w.rng.Float64() < density {
				w.addTree(core.Pos{X: x, Y: y})
			}
		}
	}
	center := w.grid.Center()
	w.addTree(center)
	w.addCarrier(center)
}

func (w *World) addTree(p core.Pos) *Tree {
	t := &Tree{id: core.AgentID(len(w.agents)), pos: p, state: Healthy}
	w.grid.Place(p, t.id)
	w.agents = append(w.agents, t)
	w.trees = append(w.trees, t)
	w.sched.Add(t)
	return t
}

func (w *World) addCarrier(p core.Pos) *Carrier {
	c := &Carrier{id: core.AgentID(len(w.agents)), pos: p, moore: w.cfg.Params.CarrierMoore}
	w.grid.Place(p, c.id)
	w.agents = append(w.agents, c)
	w.carrier = c
	w.sched.Add(c)
	return c
}

// relocate moves a carrier on the grid and updates its own position record in
// the same call.
func (w *World) relocate(c *Carrier, p core.Pos) {
	w.grid.Move(c.id, p)
	c.pos = p
}

func (w *World) tree(id core.AgentID) (*Tree, bool) {
	if id < 0 || int(id) >= len(w.agents) {
		return nil, false
	}
	t, ok := w.agents[id].(*Tree)
	return t, ok
}

// Step runs one tick: every agent is activated once in random order, then the
// counts are refreshed and the halting condition evaluated. Halted worlds do
// not step.
func (w *World) Step() {
	if w.phase == Halted {
		return
	}
	w.sched.Step(w.rng, func(a Agent) { a.Step(w, w.rng) })
	w.tick++
	w.settle()
}

// settle snapshots the counts into the history and halts once no healthy tree
// is left.
func (w *World) settle() {
	w.counts = w.recount()
	w.history = append(w.history, w.counts)
	if w.counts.Healthy == 0 {
		w.phase = Halted
	}
	w.rebuildDisplay()
}

func (w *World) recount() Counts {
	var c Counts
	for _, t := range w.trees {
		switch t.state {
		case Healthy:
			c.Healthy++
		case Infected:
			c.Infected++
		case Dead:
			c.Dead++
		}
	}
	return c
}

// SetActivationHook installs fn as the scheduler's per-activation callback.
// The hook survives Reset.
func (w *World) SetActivationHook(fn func(Agent)) {
	w.onActivate = fn
	w.sched.OnActivate = fn
}

// Counts returns the tree counts after the last tick.
func (w *World) Counts() Counts { return w.counts }

// History returns the counts snapshot taken after seeding and after every tick.
func (w *World) History() []Counts { return slices.Clone(w.history) }

// Tick returns the number of completed ticks.
func (w *World) Tick() int { return w.tick }

// Phase returns the controller state.
func (w *World) Phase() Phase { return w.phase }

// Running reports whether the world still has healthy trees.
func (w *World) Running() bool { return w.phase == Running }

// Agents enumerates every agent in registration order.
func (w *World) Agents() []AgentView {
	out := make([]AgentView, len(w.agents))
	for i, a := range w.agents {
		out[i] = viewOf(a)
	}
	return out
}

// Agent returns the view of a single agent.
func (w *World) Agent(id core.AgentID) (AgentView, bool) {
	if id < 0 || int(id) >= len(w.agents) {
		return AgentView{}, false
	}
	return viewOf(w.agents[id]), true
}

// ContentsAt returns the agents occupying p.
func (w *World) ContentsAt(p core.Pos) []AgentView {
	ids := w.grid.Contents(p)
	out := make([]AgentView, 0, len(ids))
	for _, id := range ids {
		out = append(out, viewOf(w.agents[id]))
	}
	return out
}

// Carrier returns the view of the carrier.
func (w *World) Carrier() AgentView { return viewOf(w.carrier) }

// NumTrees returns the number of trees created at seeding.
func (w *World) NumTrees() int { return len(w.trees) }

func init() {
	core.Register("forest", func(cfg map[string]string) core.Sim {
		w, err := NewWorld(FromMap(cfg))
		if err != nil {
			panic(err)
		}
		return w
	})
}

// CarrierPos returns the carrier's current cell.
func (w *World) CarrierPos() core.Pos { return w.carrier.pos }

// WindVector returns the prevailing wind as a grid offset.
func (w *World) WindVector() (float64, float64) {
	dx, dy := w.cfg.Params.Wind.Vector()
	return float64(dx), float64(dy)
}

// SpreadDistance returns the Moore radius infected trees reach.
func (w *World) SpreadDistance() int { return w.cfg.Params.Distance }
