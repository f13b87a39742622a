// Package game wires the field simulation: patches, scheduling and bookkeeping.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/canefield/components"
	"github.com/pthm-cable/canefield/config"
	"github.com/pthm-cable/canefield/systems"
	"github.com/pthm-cable/canefield/telemetry"
)

// InitialCashflow is the farm's balance before the first step.
const InitialCashflow = 1000000.0

// Options holds runtime settings that are not part of the model configuration.
type Options struct {
	Workers int                      // >1 grows patches on a worker pool
	Perf    *telemetry.PerfCollector // nil disables step timing
}

// Field is the simulation engine. It owns the patch world, the grid, the
// scheduler and all global step state. A Field is not safe for concurrent use.
type Field struct {
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	patchMap    *ecs.Map4[components.Patch, components.GridPos, components.Crop, components.MillPrice]
	patchFilter *ecs.Filter2[components.Patch, components.Crop]
	posMap      *ecs.Map[components.GridPos]
	cropMap     *ecs.Map[components.Crop]
	priceMap    *ecs.Map[components.MillPrice]
	idMap       *ecs.Map[components.Patch]

	grid      *systems.Grid
	scheduler *systems.Scheduler
	recorder  *telemetry.Recorder
	perf      *telemetry.PerfCollector
	parallel  *parallelState

	// Model parameters
	minHeight       float64
	capacityPerStep int
	rainProbability float64

	// Step state
	tick            int
	rain            float64
	bestPatch       components.GridPos
	currentCapacity int
	cashflow        float64
	harvestCount    int
	err             error

	samples []telemetry.PatchSample
}

// NewField validates cfg and builds a field with one patch per non-excluded cell.
// cfg.Run.Seed seeds the run RNG; nil uses the current time.
func NewField(cfg *config.Config, opts Options) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if cfg.Run.Seed != nil {
		seed = *cfg.Run.Seed
	}

	world := ecs.NewWorld()
	f := &Field{
		world:       world,
		rng:         rand.New(rand.NewSource(seed)),
		seed:        seed,
		patchMap:    ecs.NewMap4[components.Patch, components.GridPos, components.Crop, components.MillPrice](world),
		patchFilter: ecs.NewFilter2[components.Patch, components.Crop](world),
		posMap:      ecs.NewMap[components.GridPos](world),
		cropMap:     ecs.NewMap[components.Crop](world),
		priceMap:    ecs.NewMap[components.MillPrice](world),
		idMap:       ecs.NewMap[components.Patch](world),
		grid:        systems.NewGrid(cfg.Field.Width, cfg.Field.Height),
		scheduler:   systems.NewScheduler(),
		perf:        opts.Perf,
		parallel:    newParallelState(opts.Workers),

		minHeight:       cfg.Harvest.MinimumHeight,
		capacityPerStep: cfg.Harvest.CapacityPerStep,
		rainProbability: cfg.Weather.RainProbability,
		currentCapacity: cfg.Harvest.CapacityPerStep,
		cashflow:        InitialCashflow,
	}

	if err := f.plantPatches(cfg); err != nil {
		return nil, err
	}

	f.recorder = telemetry.NewRecorder(cfg.Run.Steps, f.scheduler.Len())
	f.samples = make([]telemetry.PatchSample, 0, f.scheduler.Len())
	return f, nil
}

// plantPatches creates and places a patch on every crop cell, in layout order.
func (f *Field) plantPatches(cfg *config.Config) error {
	for id, cell := range systems.LayoutCells(cfg.Field.Width, cfg.Field.Height, cfg.Derived.Excluded) {
		// Sugar is drawn before height.
		crop := components.Crop{
			Sugar:  f.rng.Float64() * cfg.Field.InitialSugarMax,
			Height: f.rng.Float64() * cfg.Field.InitialHeightMax,
		}
		e := f.patchMap.NewEntity(
			&components.Patch{ID: id},
			&components.GridPos{},
			&crop,
			&components.MillPrice{},
		)
		if err := f.grid.Place(e, f.posMap.Get(e), cell.X, cell.Y); err != nil {
			return fmt.Errorf("placing patch %d: %w", id, err)
		}
		f.scheduler.Add(e)
	}
	return nil
}

// Close stops the worker pool, if one was started.
func (f *Field) Close() {
	f.parallel.stopWorkers()
}

// Run advances the field by steps, stopping at the first error.
func (f *Field) Run(steps int) error {
	for i := 0; i < steps; i++ {
		if err := f.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Seed returns the seed of the run RNG.
func (f *Field) Seed() int64 { return f.seed }

// Tick returns the number of completed steps.
func (f *Field) Tick() int { return f.tick }

// Rain returns the rain draw of the last step.
func (f *Field) Rain() float64 { return f.rain }

// Cashflow returns the farm's running balance.
func (f *Field) Cashflow() float64 { return f.cashflow }

// HarvestCount returns the number of harvests so far.
func (f *Field) HarvestCount() int { return f.harvestCount }

// CurrentCapacity returns the harvests still allowed in the current step.
func (f *Field) CurrentCapacity() int { return f.currentCapacity }

// BestPatch returns the position selected as best at the start of the last step.
// ok is false before the first step.
func (f *Field) BestPatch() (x, y int, ok bool) {
	return f.bestPatch.X, f.bestPatch.Y, f.bestPatch.Placed
}

// Recorder returns the metrics recorded so far.
func (f *Field) Recorder() *telemetry.Recorder { return f.recorder }

// Size returns the grid dimensions.
func (f *Field) Size() (width, height int) { return f.grid.Width(), f.grid.Height() }

// NumPatches returns the number of patches on the field.
func (f *Field) NumPatches() int { return f.scheduler.Len() }
