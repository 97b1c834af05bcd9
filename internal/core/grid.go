package core

import (
	"fmt"
	"slices"
)

// Pos addresses a single grid cell.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AgentID identifies an agent placed on a MultiGrid. The grid only stores
// identifiers; whoever created the agents owns them.
type AgentID int

// MultiGrid is a bounded, non-toroidal lattice where every cell can hold any
// number of agents. It keeps two records in sync: the per-cell occupancy list
// and the per-agent position.
type MultiGrid struct {
	W, H  int
	cells [][]AgentID
	where map[AgentID]Pos
}

// NewMultiGrid allocates an empty grid with the given dimensions.
func NewMultiGrid(w, h int) *MultiGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &MultiGrid{W: w, H: h, cells: make([][]AgentID, w*h), where: map[AgentID]Pos{}}
}

// Index returns the linear slice index for coordinates (x, y).
func (g *MultiGrid) Index(x, y int) int { return y*g.W + x }

// Center returns the cell at (W/2, H/2).
func (g *MultiGrid) Center() Pos { return Pos{X: g.W / 2, Y: g.H / 2} }

// InBounds reports whether p addresses a cell of the grid.
func (g *MultiGrid) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// Len returns the number of placed agents.
func (g *MultiGrid) Len() int { return len(g.where) }

// Place puts a new agent on the grid. Placing an agent twice or outside the
// grid is a programming error.
func (g *MultiGrid) Place(p Pos, id AgentID) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("core: place agent %d out of bounds at %v", id, p))
	}
	if _, ok := g.where[id]; ok {
		panic(fmt.Sprintf("core: agent %d already placed", id))
	}
	idx := g.Index(p.X, p.Y)
	g.cells[idx] = append(g.cells[idx], id)
	g.where[id] = p
}

// Move relocates a placed agent. Both records are updated before returning,
// so no caller ever sees the agent in zero or two cells.
func (g *MultiGrid) Move(id AgentID, p Pos) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("core: move agent %d out of bounds to %v", id, p))
	}
	from, ok := g.where[id]
	if !ok {
		panic(fmt.Sprintf("core: move of unplaced agent %d", id))
	}
	if from == p {
		return
	}
	src := g.Index(from.X, from.Y)
	if i := slices.Index(g.cells[src], id); i >= 0 {
		g.cells[src] = slices.Delete(g.cells[src], i, i+1)
	}
	dst := g.Index(p.X, p.Y)
	g.cells[dst] = append(g.cells[dst], id)
	g.where[id] = p
}

// PosOf returns the recorded position of an agent.
func (g *MultiGrid) PosOf(id AgentID) (Pos, bool) {
	p, ok := g.where[id]
	return p, ok
}

// Contents returns a copy of the agents occupying p, in placement order.
func (g *MultiGrid) Contents(p Pos) []AgentID {
	if !g.InBounds(p) {
		return nil
	}
	return slices.Clone(g.cells[g.Index(p.X, p.Y)])
}

// IsEmpty reports whether no agent occupies p.
func (g *MultiGrid) IsEmpty(p Pos) bool {
	return !g.InBounds(p) || len(g.cells[g.Index(p.X, p.Y)]) == 0
}

// Neighborhood lists the in-bounds cells around p. With moore set the shape is
// the Chebyshev ball max(|dx|,|dy|) <= radius, otherwise the von Neumann
// diamond |dx|+|dy| <= radius.
func (g *MultiGrid) Neighborhood(p Pos, moore, includeCenter bool, radius int) []Pos {
	if radius < 0 {
		radius = 0
	}
	out := make([]Pos, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		y := p.Y + dy
		if y < 0 || y >= g.H {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			x := p.X + dx
			if x < 0 || x >= g.W {
				continue
			}
			if dx == 0 && dy == 0 && !includeCenter {
				continue
			}
			if !moore && absInt(dx)+absInt(dy) > radius {
				continue
			}
			out = append(out, Pos{X: x, Y: y})
		}
	}
	return out
}

// Neighbors returns the agents in the Moore neighbourhood of p.
func (g *MultiGrid) Neighbors(p Pos, radius int, includeCenter bool) []AgentID {
	var out []AgentID
	for _, c := range g.Neighborhood(p, true, includeCenter, radius) {
		out = append(out, g.cells[g.Index(c.X, c.Y)]...)
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
