package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/canefield/config"
	"github.com/pthm-cable/canefield/game"
	"github.com/pthm-cable/canefield/telemetry"
)

// FitnessEvaluator runs headless fields and scores them by final cashflow.
type FitnessEvaluator struct {
	params     *ParamVector
	steps      int
	seeds      []int64
	baseConfig *config.Config
	bins       int

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestSummary *telemetry.RunSummary
	lastHarvest float64 // mean harvests from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, steps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		steps:       steps,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bins:        baseCfg.Telemetry.HistogramBins,
		bestFitness: math.Inf(1),
	}
}

// BestSummary returns the summary of the best single-seed run seen so far.
func (fe *FitnessEvaluator) BestSummary() *telemetry.RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSummary
}

// LastHarvests returns the mean harvest count from the most recent evaluation.
func (fe *FitnessEvaluator) LastHarvests() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastHarvest
}

type seedResult struct {
	fitness float64
	summary telemetry.RunSummary
	err     error
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the negated mean final cashflow across seeds. A failed run
// scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runField(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total, harvests float64
	best := math.Inf(1)
	var bestSummary telemetry.RunSummary
	for _, r := range results {
		if r.err != nil {
			return math.Inf(1)
		}
		total += r.fitness
		harvests += float64(r.summary.HarvestCount)
		if r.fitness < best {
			best = r.fitness
			bestSummary = r.summary
		}
	}

	n := float64(len(fe.seeds))
	avg := total / n

	fe.mu.Lock()
	if avg < fe.bestFitness {
		fe.bestFitness = avg
		fe.bestSummary = &bestSummary
	}
	fe.lastHarvest = harvests / n
	fe.mu.Unlock()

	return avg
}

// runField executes one headless run with the given parameters and seed.
func (fe *FitnessEvaluator) runField(x []float64, seed int64) seedResult {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return seedResult{err: err}
	}
	cfg.Run.Seed = &seed
	cfg.Run.Steps = fe.steps

	f, err := game.NewField(cfg, game.Options{})
	if err != nil {
		return seedResult{err: err}
	}
	defer f.Close()

	if err := f.Run(fe.steps); err != nil {
		return seedResult{err: err}
	}
	return seedResult{
		fitness: -f.Cashflow(),
		summary: f.Summary(fe.bins),
	}
}
