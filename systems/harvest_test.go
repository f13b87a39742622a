package systems

import (
	"testing"

	"github.com/pthm-cable/canefield/components"
)

func TestHarvest(t *testing.T) {
	crop := components.Crop{Height: 2.7, Sugar: 0.09}
	price := components.MillPrice{Value: 812.34}

	revenue, cost := Harvest(&crop, &price)

	if revenue != 812.34 {
		t.Errorf("revenue = %v, want 812.34", revenue)
	}
	if cost != HarvestCost {
		t.Errorf("cost = %v, want %v", cost, HarvestCost)
	}
	if crop.Height != 0 || crop.Sugar != 0 {
		t.Errorf("crop = %+v, want zeroed", crop)
	}

	// The cached price must agree with the emptied crop.
	want, _ := ComputeMillPrice(0, components.GridPos{X: 4, Y: 4, Placed: true}, crop.Sugar)
	if price.Value != want {
		t.Errorf("cached price = %v, want %v", price.Value, want)
	}
}

func TestHarvestTwiceYieldsNothing(t *testing.T) {
	crop := components.Crop{Height: 3, Sugar: 0.1}
	price := components.MillPrice{Value: 1000}

	Harvest(&crop, &price)
	revenue, _ := Harvest(&crop, &price)
	if revenue != 0 {
		t.Errorf("second harvest revenue = %v, want 0", revenue)
	}
}

func TestCanHarvest(t *testing.T) {
	best := components.GridPos{X: 2, Y: 3, Placed: true}
	tall := components.Crop{Height: 2.5}

	tests := []struct {
		name     string
		pos      components.GridPos
		best     components.GridPos
		crop     components.Crop
		min      float64
		capacity int
		want     bool
	}{
		{"eligible", best, best, tall, 2.4, 1, true},
		{"height equal to threshold", best, best, components.Crop{Height: 2.4}, 2.4, 1, true},
		{"too short", best, best, components.Crop{Height: 2.39}, 2.4, 1, false},
		{"not the best patch", components.GridPos{X: 2, Y: 4, Placed: true}, best, tall, 2.4, 1, false},
		{"no capacity left", best, best, tall, 2.4, 0, false},
		{"no best patch selected", best, components.GridPos{}, tall, 2.4, 1, false},
		{"zero threshold", best, best, components.Crop{}, 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanHarvest(tt.pos, tt.best, tt.crop, tt.min, tt.capacity); got != tt.want {
				t.Errorf("CanHarvest() = %v, want %v", got, tt.want)
			}
		})
	}
}
