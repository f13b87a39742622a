package systems

import (
	"fmt"
	"math"

	"github.com/pthm-cable/canefield/components"
)

// Mill location and pricing constants. The distance discount was tuned for a
// 12x12 field with the mill in its top-right cell; other sizes keep the same
// fixed mill coordinate.
const (
	MillX = 11
	MillY = 0

	SugarPrice       = 14000.0
	DistanceDiscount = 0.6 / 16.9
)

// UnplacedPatchError is returned when a price is requested for a patch that
// has not been placed on the grid.
type UnplacedPatchError struct {
	PatchID int
}

func (e *UnplacedPatchError) Error() string {
	return fmt.Sprintf("patch %d has no grid position", e.PatchID)
}

// ComputeMillPrice returns the rounded price a patch's sugar fetches at the mill.
func ComputeMillPrice(id int, pos components.GridPos, sugar float64) (float64, error) {
	if !pos.Placed {
		return 0, &UnplacedPatchError{PatchID: id}
	}
	d := MillDistance(pos)
	return roundCents(SugarPrice * (sugar * (1 - d*DistanceDiscount))), nil
}

// MillDistance is the Euclidean distance from pos to the mill.
func MillDistance(pos components.GridPos) float64 {
	dx := float64(MillX - pos.X)
	dy := float64(MillY - pos.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
