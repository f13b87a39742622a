package systems

import "github.com/pthm-cable/canefield/components"

// HarvestCost is charged for every harvested patch.
const HarvestCost = 0.05

// CanHarvest reports whether a patch at pos may be cut this step.
func CanHarvest(pos, best components.GridPos, crop components.Crop, minHeight float64, capacity int) bool {
	return pos.Equal(best) && crop.Height >= minHeight && capacity > 0
}

// Harvest cuts the crop and returns the sale revenue and the harvest cost.
// Revenue is the cached mill price; the cache is then reset to the price of
// an empty patch so it stays consistent with the crop.
func Harvest(crop *components.Crop, price *components.MillPrice) (revenue, cost float64) {
	revenue = price.Value
	crop.Height = 0
	crop.Sugar = 0
	price.Value = 0
	return revenue, HarvestCost
}
