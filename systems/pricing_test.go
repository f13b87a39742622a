package systems

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/canefield/components"
)

func TestComputeMillPrice(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		sugar float64
		want  float64
	}{
		{"at the mill", 11, 0, 0.1, 1400.00},
		{"zero sugar", 0, 0, 0, 0},
		// d = 11: 14000 * 0.1 * (1 - 11*0.6/16.9) = 853.254...
		{"far corner of the top row", 0, 0, 0.1, 853.25},
		// d = 5: 14000 * 0.05 * (1 - 5*0.6/16.9) = 575.739...
		{"five cells below the mill", 11, 5, 0.05, 575.74},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := components.GridPos{X: tt.x, Y: tt.y, Placed: true}
			got, err := ComputeMillPrice(0, pos, tt.sugar)
			if err != nil {
				t.Fatalf("ComputeMillPrice error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("price = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeMillPriceRoundsToCents(t *testing.T) {
	pos := components.GridPos{X: 3, Y: 7, Placed: true}
	for _, sugar := range []float64{0.0123, 0.0567, 0.1, 0.11199} {
		got, err := ComputeMillPrice(1, pos, sugar)
		if err != nil {
			t.Fatal(err)
		}
		if cents := got * 100; math.Abs(cents-math.Round(cents)) > 1e-6 {
			t.Errorf("price %v for sugar %v is not rounded to cents", got, sugar)
		}
	}
}

func TestComputeMillPriceUnplaced(t *testing.T) {
	_, err := ComputeMillPrice(42, components.GridPos{}, 0.1)

	var upe *UnplacedPatchError
	if !errors.As(err, &upe) {
		t.Fatalf("error = %v, want *UnplacedPatchError", err)
	}
	if upe.PatchID != 42 {
		t.Errorf("PatchID = %d, want 42", upe.PatchID)
	}
}

func TestMillDistance(t *testing.T) {
	got := MillDistance(components.GridPos{X: 8, Y: 4, Placed: true})
	if got != 5 {
		t.Errorf("distance = %v, want 5", got)
	}
}
