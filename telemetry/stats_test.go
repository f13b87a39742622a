package telemetry

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	if got := Mean(nil); !math.IsNaN(got) {
		t.Errorf("Mean(nil) = %v, want NaN", got)
	}
}

func TestDescribe(t *testing.T) {
	values := []float64{0.9, 0.1, 0.5, 0.3, 0.7}
	d := Describe(values)

	if math.Abs(d.Mean-0.5) > 1e-12 {
		t.Errorf("mean = %v, want 0.5", d.Mean)
	}
	if d.Min != 0.1 || d.Max != 0.9 {
		t.Errorf("min/max = %v/%v, want 0.1/0.9", d.Min, d.Max)
	}
	if !(d.Min <= d.P10 && d.P10 <= d.P50 && d.P50 <= d.P90 && d.P90 <= d.Max) {
		t.Errorf("percentiles out of order: %+v", d)
	}
	// Population std of {0.1,0.3,0.5,0.7,0.9} is sqrt(0.08)
	if math.Abs(d.Std-math.Sqrt(0.08)) > 1e-12 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(0.08))
	}
	// Input must not be reordered.
	if values[0] != 0.9 {
		t.Error("Describe sorted its input in place")
	}
}

func TestDescribeEmpty(t *testing.T) {
	if d := Describe(nil); d != (Distribution{}) {
		t.Errorf("Describe(nil) = %+v, want zero", d)
	}
}

func TestComputeHistogram(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		bins   int
		want   []int
	}{
		{"even spread", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 5, []int{2, 2, 2, 2, 2}},
		{"max in top bin", []float64{0, 10}, 2, []int{1, 1}},
		{"all equal", []float64{3, 3, 3}, 4, []int{3, 0, 0, 0}},
		{"empty", nil, 3, []int{0, 0, 0}},
		{"single bin", []float64{0.2, 0.4, 2.2}, 1, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ComputeHistogram(tt.values, tt.bins)
			if len(h.Edges) != tt.bins+1 {
				t.Errorf("len(Edges) = %d, want %d", len(h.Edges), tt.bins+1)
			}
			total := 0
			for i, c := range h.Counts {
				if c != tt.want[i] {
					t.Errorf("Counts[%d] = %d, want %d", i, c, tt.want[i])
				}
				total += c
			}
			if total != len(tt.values) {
				t.Errorf("histogram holds %d values, want %d", total, len(tt.values))
			}
		})
	}
}
