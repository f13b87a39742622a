// Package components defines ECS components for the simulation.
package components

// Patch identifies one cell of farmland.
type Patch struct {
	ID int
}

// GridPos is a patch's integer grid coordinate.
// It is assigned once by the grid; Placed stays false until then.
type GridPos struct {
	X, Y   int
	Placed bool
}

// Crop holds the growing cane on a patch.
type Crop struct {
	Height float64 // biomass height, >= 0
	Sugar  float64 // sugar content, >= 0
}

// MillPrice caches the price the patch would fetch at the mill.
// Derived from Crop.Sugar and GridPos, refreshed every step.
type MillPrice struct {
	Value float64
}

// Equal reports whether two positions name the same placed cell.
func (p GridPos) Equal(o GridPos) bool {
	return p.Placed && o.Placed && p.X == o.X && p.Y == o.Y
}
