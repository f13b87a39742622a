package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/canefield/components"
)

func newScheduled(t *testing.T, n int) (*Scheduler, []ecs.Entity) {
	t.Helper()
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Patch](world)

	s := NewScheduler()
	entities := make([]ecs.Entity, n)
	for i := range entities {
		entities[i] = mapper.NewEntity(&components.Patch{ID: i})
		s.Add(entities[i])
	}
	return s, entities
}

func TestSchedulerShuffleIsPermutation(t *testing.T) {
	s, entities := newScheduled(t, 50)
	rng := rand.New(rand.NewSource(1))

	order := s.Shuffle(rng)
	if len(order) != len(entities) {
		t.Fatalf("len = %d, want %d", len(order), len(entities))
	}
	seen := make(map[ecs.Entity]int)
	for _, e := range order {
		seen[e]++
	}
	for _, e := range entities {
		if seen[e] != 1 {
			t.Errorf("entity %v activated %d times", e, seen[e])
		}
	}
}

func TestSchedulerShuffleLeavesAgentsUntouched(t *testing.T) {
	s, entities := newScheduled(t, 20)
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 3; i++ {
		s.Shuffle(rng)
	}
	for i, e := range s.Agents() {
		if e != entities[i] {
			t.Fatalf("Agents()[%d] changed after shuffling", i)
		}
	}
}

func TestSchedulerShuffleDeterministic(t *testing.T) {
	s1, _ := newScheduled(t, 30)
	s2, _ := newScheduled(t, 30)

	a := append([]ecs.Entity(nil), s1.Shuffle(rand.New(rand.NewSource(7)))...)
	b := s2.Shuffle(rand.New(rand.NewSource(7)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("orders diverge at %d", i)
		}
	}
}

func TestSchedulerShuffleVaries(t *testing.T) {
	s, _ := newScheduled(t, 30)
	rng := rand.New(rand.NewSource(3))

	first := append([]ecs.Entity(nil), s.Shuffle(rng)...)
	second := s.Shuffle(rng)
	same := true
	for i := range first {
		if first[i] != second[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("two consecutive shuffles of 30 entities produced the same order")
	}
}
