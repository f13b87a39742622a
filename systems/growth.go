// Package systems provides the per-patch rules and scheduling for the field.
package systems

import "github.com/pthm-cable/canefield/components"

// Base growth per step on a dry step. Good-rain steps grow twice as much.
const (
	HeightGrowthRate = 0.00123
	SugarGrowthRate  = 0.0000688
)

// IrrigationCost is charged per patch on every dry step.
const IrrigationCost = 0.3

// Grow advances a patch's crop by one step and returns the cashflow delta.
// A rain draw at or below rainProbability counts as good rain and costs nothing.
func Grow(crop *components.Crop, rain, rainProbability float64) float64 {
	if rain <= rainProbability {
		crop.Height += HeightGrowthRate * 2
		crop.Sugar += SugarGrowthRate * 2
		return 0
	}

	crop.Height += HeightGrowthRate
	crop.Sugar += SugarGrowthRate
	return -IrrigationCost
}
