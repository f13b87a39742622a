package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
)

// Scheduler activates registered patches in a fresh random order each step.
type Scheduler struct {
	agents []ecs.Entity
	order  []ecs.Entity
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add registers an entity for activation.
func (s *Scheduler) Add(e ecs.Entity) {
	s.agents = append(s.agents, e)
}

// Len returns the number of registered entities.
func (s *Scheduler) Len() int {
	return len(s.agents)
}

// Agents returns the entities in registration order. Callers must not modify it.
func (s *Scheduler) Agents() []ecs.Entity {
	return s.agents
}

// Shuffle returns all entities in a uniformly random permutation.
// The returned slice is reused by the next call.
func (s *Scheduler) Shuffle(rng *rand.Rand) []ecs.Entity {
	s.order = append(s.order[:0], s.agents...)
	rng.Shuffle(len(s.order), func(i, j int) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	})
	return s.order
}
