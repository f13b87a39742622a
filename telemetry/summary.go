package telemetry

import (
	"encoding/json"
	"log/slog"
)

// StepStats is the periodic progress line logged during a run.
type StepStats struct {
	Step          int
	Rain          float64
	BestX, BestY  int
	AverageHeight float64
	Cashflow      float64
	HarvestCount  int
}

// LogStats logs the step stats using slog.
func (s StepStats) LogStats() {
	slog.Info("stats",
		"step", s.Step,
		"rain", s.Rain,
		"best_x", s.BestX,
		"best_y", s.BestY,
		"average_height", s.AverageHeight,
		"cashflow", s.Cashflow,
		"number_harvested", s.HarvestCount,
	)
}

// RunSummary describes a finished run.
type RunSummary struct {
	Seed          int64   `json:"seed"`
	Steps         int     `json:"steps"`
	Patches       int     `json:"patches"`
	StartCashflow float64 `json:"start_cashflow"`
	FinalCashflow float64 `json:"final_cashflow"`
	HarvestCount  int     `json:"number_harvested"`
	AverageHeight float64 `json:"average_height"`

	// Heights as recorded at the last collected step
	FinalHeights    Distribution `json:"final_heights"`
	HeightHistogram Histogram    `json:"height_histogram"`
}

// NewRunSummary builds a summary from the recorder's last collected step and
// the engine's closing totals.
func NewRunSummary(rec *Recorder, seed int64, startCashflow, finalCashflow float64, harvests int, avgHeight float64, bins int) RunSummary {
	var heights []float64
	if rec.Len() > 0 {
		heights = rec.HeightsAt(rec.Len() - 1)
	}
	return RunSummary{
		Seed:            seed,
		Steps:           rec.Len(),
		Patches:         len(heights),
		StartCashflow:   startCashflow,
		FinalCashflow:   finalCashflow,
		HarvestCount:    harvests,
		AverageHeight:   avgHeight,
		FinalHeights:    Describe(heights),
		HeightHistogram: ComputeHistogram(heights, bins),
	}
}

// MarshalIndent renders the summary as indented JSON.
func (s RunSummary) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("seed", s.Seed),
		slog.Int("steps", s.Steps),
		slog.Int("patches", s.Patches),
		slog.Float64("final_cashflow", s.FinalCashflow),
		slog.Float64("net_cashflow", s.FinalCashflow-s.StartCashflow),
		slog.Int("number_harvested", s.HarvestCount),
		slog.Float64("average_height", s.AverageHeight),
		slog.Any("final_heights", s.FinalHeights),
	)
}
