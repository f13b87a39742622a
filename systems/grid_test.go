package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/canefield/components"
	"github.com/pthm-cable/canefield/config"
)

func TestLayoutCellsSkipsMill(t *testing.T) {
	cells := LayoutCells(12, 12, map[config.Cell]struct{}{{X: 11, Y: 0}: {}})

	if len(cells) != 143 {
		t.Fatalf("len = %d, want 143", len(cells))
	}
	seen := make(map[config.Cell]bool, len(cells))
	for _, c := range cells {
		if c == (config.Cell{X: 11, Y: 0}) {
			t.Error("mill cell was laid out")
		}
		if seen[c] {
			t.Errorf("cell %v laid out twice", c)
		}
		seen[c] = true
	}
}

func TestLayoutCellsOrder(t *testing.T) {
	cells := LayoutCells(2, 2, nil)
	want := []config.Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	for i, c := range want {
		if cells[i] != c {
			t.Errorf("cells[%d] = %v, want %v", i, cells[i], c)
		}
	}
}

func TestGridPlaceAndLookup(t *testing.T) {
	world := ecs.NewWorld()
	mapper := ecs.NewMap1[components.Patch](world)
	a := mapper.NewEntity(&components.Patch{ID: 0})
	b := mapper.NewEntity(&components.Patch{ID: 1})

	g := NewGrid(3, 2)
	var posA, posB components.GridPos

	if err := g.Place(a, &posA, 2, 1); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if !posA.Placed || posA.X != 2 || posA.Y != 1 {
		t.Errorf("pos = %+v, want placed at (2,1)", posA)
	}

	if e, ok := g.At(2, 1); !ok || e != a {
		t.Errorf("At(2,1) = %v, %v", e, ok)
	}
	if _, ok := g.At(0, 0); ok {
		t.Error("At(0,0) should be empty")
	}
	if _, ok := g.At(5, 0); ok {
		t.Error("At(5,0) is out of bounds")
	}

	if err := g.Place(b, &posB, 2, 1); err == nil {
		t.Error("placing into an occupied cell should fail")
	}
	if err := g.Place(b, &posB, 3, 0); err == nil {
		t.Error("placing outside the grid should fail")
	}
	if err := g.Place(a, &posA, 0, 0); err == nil {
		t.Error("placing an already placed patch should fail")
	}
	if posB.Placed {
		t.Error("failed placement must leave the position unset")
	}
}
