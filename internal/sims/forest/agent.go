package forest

import "forest-disease/internal/core"

// State is the display state of an agent.
type State uint8

const (
	Healthy State = iota
	Infected
	Dead
	// Spreading is the constant state of the carrier.
	Spreading
)

func (s State) String() string {
	switch s {
	case Healthy:
		return "Healthy"
	case Infected:
		return "Infected"
	case Dead:
		return "Dead"
	case Spreading:
		return "Spreading"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Kind distinguishes stationary trees from the mobile carrier.
type Kind uint8

const (
	KindTree Kind = iota
	KindCarrier
)

func (k Kind) String() string {
	if k == KindCarrier {
		return "carrier"
	}
	return "tree"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Agent is anything the scheduler activates once per tick.
type Agent interface {
	ID() core.AgentID
	Kind() Kind
	Pos() core.Pos
	State() State
	// Step performs one activation against the world using the shared RNG.
	Step(w *World, rng *core.RNG)
}

// Tree is a stationary cell agent carrying the disease state.
type Tree struct {
	id          core.AgentID
	pos         core.Pos
	state       State
	infectedFor int
}

func (t *Tree) ID() core.AgentID { return t.id }
func (t *Tree) Kind() Kind       { return KindTree }
func (t *Tree) Pos() core.Pos    { return t.pos }
func (t *Tree) State() State     { return t.state }

// InfectedDuration is the number of own activations spent infected.
func (t *Tree) InfectedDuration() int { return t.infectedFor }

// Step spreads the infection downwind and ages an infected tree. Healthy and
// dead trees do nothing.
func (t *Tree) Step(w *World, rng *core.RNG) {
	if t.state != Infected {
		return
	}
	t.infectedFor++
	for _, id := range w.grid.Neighbors(t.pos, w.cfg.Params.Distance, false) {
		dir := w.rose.Draw(rng)
		neighbor, ok := w.tree(id)
		if !ok || !dir.Matches(t.pos, neighbor.pos) {
			continue
		}
		if neighbor.state == Healthy {
			neighbor.state = Infected
		}
	}
	if t.infectedFor > w.cfg.Params.Mortality {
		t.state = Dead
	}
}

// Carrier wanders the grid and infects every tree it lands on.
type Carrier struct {
	id    core.AgentID
	pos   core.Pos
	moore bool
}

func (c *Carrier) ID() core.AgentID { return c.id }
func (c *Carrier) Kind() Kind       { return KindCarrier }
func (c *Carrier) Pos() core.Pos    { return c.pos }
func (c *Carrier) State() State     { return Spreading }

// Step moves to a random neighbouring cell (or stays) and then force-infects
// all trees on that cell, dead ones included.
func (c *Carrier) Step(w *World, rng *core.RNG) {
	candidates := w.grid.Neighborhood(c.pos, c.moore, false, 1)
	candidates = append(candidates, c.pos)
	w.relocate(c, candidates[rng.IntN(len(candidates))])

	for _, id := range w.grid.Contents(c.pos) {
		if t, ok := w.tree(id); ok {
			t.state = Infected
		}
	}
}

// AgentView is a read-only snapshot of an agent for renderers.
type AgentView struct {
	ID    core.AgentID `json:"id"`
	Kind  Kind         `json:"kind"`
	Pos   core.Pos     `json:"pos"`
	State State        `json:"state"`
}

func viewOf(a Agent) AgentView {
	return AgentView{ID: a.ID(), Kind: a.Kind(), Pos: a.Pos(), State: a.State()}
}
