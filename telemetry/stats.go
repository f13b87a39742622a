package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution summarizes a set of patch heights.
type Distribution struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	P10  float64 `json:"p10"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	Max  float64 `json:"max"`
}

// Histogram is a fixed-bin count of values. Edges has one more entry than Counts.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Mean returns the arithmetic mean, or NaN for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Describe computes the distribution of values. Returns the zero value if empty.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  std,
		Min:  sorted[0],
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
		Max:  sorted[len(sorted)-1],
	}
}

// ComputeHistogram bins values into bins equal-width buckets spanning their range.
// The top edge is inclusive.
func ComputeHistogram(values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}
	h := Histogram{Counts: make([]int, bins)}
	if len(values) == 0 {
		h.Edges = floats.Span(make([]float64, bins+1), 0, 1)
		return h
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if hi == lo {
		hi = lo + 1
	}
	h.Edges = floats.Span(make([]float64, bins+1), lo, hi)

	// stat.Histogram treats the last divider as exclusive; nudge it so the
	// maximum lands in the top bin.
	dividers := append([]float64(nil), h.Edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	for i, c := range counts {
		h.Counts[i] = int(c)
	}
	return h
}

// LogValue implements slog.LogValuer for structured logging.
func (d Distribution) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("mean", d.Mean),
		slog.Float64("std", d.Std),
		slog.Float64("min", d.Min),
		slog.Float64("p10", d.P10),
		slog.Float64("p50", d.P50),
		slog.Float64("p90", d.P90),
		slog.Float64("max", d.Max),
	)
}
