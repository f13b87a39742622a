package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/canefield/components"
	"github.com/pthm-cable/canefield/systems"
	"github.com/pthm-cable/canefield/telemetry"
)

// Step advances the field by one step:
//
//  1. draw rain
//  2. select the best patch from last step's prices
//  3. record metrics (state before this step's growth)
//  4. grow, price and possibly harvest every patch in random order
//  5. restore harvesting capacity
//
// A failed step leaves no metrics row and no cashflow change behind. After an
// error the field is unusable and every later call returns the same error.
func (f *Field) Step() error {
	if f.err != nil {
		return f.err
	}

	f.perf.StartStep()
	defer f.perf.EndStep()

	f.perf.StartPhase(telemetry.PhaseRain)
	f.rain = f.rng.Float64()

	f.perf.StartPhase(telemetry.PhaseSelect)
	f.bestPatch = f.findBestPatch()

	f.perf.StartPhase(telemetry.PhaseRecord)
	f.collect()

	f.perf.StartPhase(telemetry.PhaseActivate)
	if err := f.activatePatches(); err != nil {
		f.recorder.DropLast()
		f.err = fmt.Errorf("step %d: %w", f.tick, err)
		return f.err
	}

	f.perf.StartPhase(telemetry.PhaseReset)
	f.currentCapacity = f.capacityPerStep
	f.tick++
	return nil
}

// findBestPatch returns the position of the highest cached price.
// Ties keep the earliest registered patch.
func (f *Field) findBestPatch() components.GridPos {
	maxPrice := math.Inf(-1)
	var best components.GridPos

	for _, e := range f.scheduler.Agents() {
		price := f.priceMap.Get(e)
		if price.Value > maxPrice {
			maxPrice = price.Value
			best = *f.posMap.Get(e)
		}
	}
	return best
}

// collect appends this step's pre-growth observations to the recorder.
func (f *Field) collect() {
	f.samples = f.samples[:0]

	query := f.patchFilter.Query()
	for query.Next() {
		patch, crop := query.Get()
		f.samples = append(f.samples, telemetry.PatchSample{ID: patch.ID, Height: crop.Height})
	}

	f.recorder.Collect(f.tick, meanHeight(f.samples), f.cashflow, f.harvestCount, f.samples)
}

// activatePatches grows and prices every patch, then folds the results into
// the field in activation order. Harvesting happens during the fold, so the
// capacity counter has a single writer.
func (f *Field) activatePatches() error {
	order := f.scheduler.Shuffle(f.rng)
	p := f.parallel

	// Phase A: snapshot (single-threaded)
	p.snapshots = p.snapshots[:0]
	for _, e := range order {
		patch, pos, crop, _ := f.patchMap.Get(e)
		p.snapshots = append(p.snapshots, patchSnapshot{
			Entity: e,
			ID:     patch.ID,
			Pos:    *pos,
			Crop:   *crop,
		})
	}

	// Phase B: compute
	p.compute(f.rain, f.rainProbability)

	for i := range p.results {
		if err := p.results[i].Err; err != nil {
			return err
		}
	}

	// Phase C: apply in activation order
	for i := range p.snapshots {
		snap := &p.snapshots[i]
		res := &p.results[i]

		crop := f.cropMap.Get(snap.Entity)
		price := f.priceMap.Get(snap.Entity)
		*crop = res.Crop
		f.cashflow += res.CashflowDelta
		price.Value = res.Price

		if systems.CanHarvest(snap.Pos, f.bestPatch, *crop, f.minHeight, f.currentCapacity) {
			revenue, cost := systems.Harvest(crop, price)
			f.cashflow += revenue
			f.cashflow -= cost
			f.harvestCount++
			f.currentCapacity--

			slog.Debug("harvest",
				"step", f.tick,
				"patch", snap.ID,
				"x", snap.Pos.X,
				"y", snap.Pos.Y,
				"revenue", revenue,
			)
		}
	}
	return nil
}

func meanHeight(samples []telemetry.PatchSample) float64 {
	heights := make([]float64, len(samples))
	for i, s := range samples {
		heights[i] = s.Height
	}
	return telemetry.Mean(heights)
}
