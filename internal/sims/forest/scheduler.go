package forest

import "forest-disease/internal/core"

// Scheduler activates every registered agent exactly once per tick in a
// freshly shuffled order.
type Scheduler struct {
	agents []Agent

	// OnActivate, when set, is called after each activation.
	OnActivate func(Agent)
}

// Add registers an agent.
func (s *Scheduler) Add(a Agent) { s.agents = append(s.agents, a) }

// Len returns the number of registered agents.
func (s *Scheduler) Len() int { return len(s.agents) }

// Agents returns the registered agents in insertion order.
func (s *Scheduler) Agents() []Agent { return s.agents }

// Step runs one activation pass. The permutation is fixed before the first
// activation, so agents mutated earlier in the pass are still visited once.
func (s *Scheduler) Step(rng *core.RNG, activate func(Agent)) {
	order := rng.Perm(len(s.agents))
	for _, idx := range order {
		a := s.agents[idx]
		activate(a)
		if s.OnActivate != nil {
			s.OnActivate(a)
		}
	}
}
