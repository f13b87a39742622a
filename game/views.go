package game

import "github.com/pthm-cable/canefield/telemetry"

// PatchView is a read-only copy of one patch's state, for renderers and exports.
type PatchView struct {
	ID        int
	X, Y      int
	Height    float64
	Sugar     float64
	MillPrice float64
}

// Patches returns a snapshot of every patch in registration order.
func (f *Field) Patches() []PatchView {
	views := make([]PatchView, 0, f.scheduler.Len())
	for _, e := range f.scheduler.Agents() {
		patch, pos, crop, price := f.patchMap.Get(e)
		views = append(views, PatchView{
			ID:        patch.ID,
			X:         pos.X,
			Y:         pos.Y,
			Height:    crop.Height,
			Sugar:     crop.Sugar,
			MillPrice: price.Value,
		})
	}
	return views
}

// PatchAt returns the patch at (x, y), if the cell holds one.
func (f *Field) PatchAt(x, y int) (PatchView, bool) {
	e, ok := f.grid.At(x, y)
	if !ok {
		return PatchView{}, false
	}
	crop := f.cropMap.Get(e)
	return PatchView{
		ID:        f.idMap.Get(e).ID,
		X:         x,
		Y:         y,
		Height:    crop.Height,
		Sugar:     crop.Sugar,
		MillPrice: f.priceMap.Get(e).Value,
	}, true
}

// Heights returns the current height of every patch in registration order.
func (f *Field) Heights() []float64 {
	heights := make([]float64, 0, f.scheduler.Len())
	for _, e := range f.scheduler.Agents() {
		heights = append(heights, f.cropMap.Get(e).Height)
	}
	return heights
}

// AverageHeight returns the mean current height across all patches.
func (f *Field) AverageHeight() float64 {
	return telemetry.Mean(f.Heights())
}

// HeightHistogram bins the current heights into equal-width buckets.
func (f *Field) HeightHistogram(bins int) telemetry.Histogram {
	return telemetry.ComputeHistogram(f.Heights(), bins)
}

// Summary describes the run so far.
func (f *Field) Summary(bins int) telemetry.RunSummary {
	return telemetry.NewRunSummary(f.recorder, f.seed, InitialCashflow, f.cashflow, f.harvestCount, f.AverageHeight(), bins)
}
