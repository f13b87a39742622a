package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/canefield/components"
	"github.com/pthm-cable/canefield/config"
)

// LayoutCells lists the cells that receive a patch, x-major then y, skipping
// the excluded set.
func LayoutCells(width, height int, excluded map[config.Cell]struct{}) []config.Cell {
	cells := make([]config.Cell, 0, width*height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			cell := config.Cell{X: x, Y: y}
			if _, skip := excluded[cell]; skip {
				continue
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Grid is a fixed-size position index of patch entities.
type Grid struct {
	width    int
	height   int
	cells    []ecs.Entity
	occupied []bool
}

// NewGrid creates an empty grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:    width,
		height:   height,
		cells:    make([]ecs.Entity, width*height),
		occupied: make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Place puts e at (x, y) and assigns its position. A cell holds at most one patch.
func (g *Grid) Place(e ecs.Entity, pos *components.GridPos, x, y int) error {
	if pos.Placed {
		return fmt.Errorf("patch already placed at (%d,%d)", pos.X, pos.Y)
	}
	idx, ok := g.index(x, y)
	if !ok {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid", x, y, g.width, g.height)
	}
	if g.occupied[idx] {
		return fmt.Errorf("cell (%d,%d) already occupied", x, y)
	}

	g.cells[idx] = e
	g.occupied[idx] = true
	*pos = components.GridPos{X: x, Y: y, Placed: true}
	return nil
}

// At returns the patch at (x, y), if any.
func (g *Grid) At(x, y int) (ecs.Entity, bool) {
	idx, ok := g.index(x, y)
	if !ok || !g.occupied[idx] {
		return ecs.Entity{}, false
	}
	return g.cells[idx], true
}

func (g *Grid) index(x, y int) (int, bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, false
	}
	return y*g.width + x, true
}
