package telemetry

import "testing"

func TestRecorderCollect(t *testing.T) {
	r := NewRecorder(2, 3)
	r.Collect(0, 1.0, 1000000, 0, []PatchSample{{0, 0.5}, {1, 1.0}, {2, 1.5}})
	r.Collect(1, 1.1, 999999.1, 1, []PatchSample{{0, 0.6}, {1, 0}, {2, 1.6}})

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	model := r.ModelSeries()
	if model[1].Step != 1 || model[1].Cashflow != 999999.1 || model[1].HarvestCount != 1 {
		t.Errorf("model[1] = %+v", model[1])
	}

	agents := r.AgentSeries()
	if len(agents) != 6 {
		t.Fatalf("len(agents) = %d, want 6", len(agents))
	}
	if agents[4] != (AgentRow{Step: 1, PatchID: 1, Height: 0}) {
		t.Errorf("agents[4] = %+v", agents[4])
	}

	heights := r.HeightsAt(1)
	want := []float64{0.6, 0, 1.6}
	for i := range want {
		if heights[i] != want[i] {
			t.Errorf("HeightsAt(1)[%d] = %v, want %v", i, heights[i], want[i])
		}
	}
	if len(r.HeightsAt(2)) != 0 {
		t.Error("HeightsAt past the end should be empty")
	}
}

func TestRecorderSeriesAreCopies(t *testing.T) {
	r := NewRecorder(1, 1)
	r.Collect(0, 2.0, 10, 0, []PatchSample{{0, 2.0}})

	model := r.ModelSeries()
	model[0].Cashflow = -1
	agents := r.AgentSeries()
	agents[0].Height = -1

	if got := r.ModelSeries()[0].Cashflow; got != 10 {
		t.Errorf("recorded cashflow mutated to %v", got)
	}
	if got := r.AgentSeries()[0].Height; got != 2.0 {
		t.Errorf("recorded height mutated to %v", got)
	}
}

func TestRecorderDropLast(t *testing.T) {
	r := NewRecorder(0, 0)
	r.DropLast()
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after dropping from an empty recorder", r.Len())
	}

	r.Collect(0, 1, 2, 0, []PatchSample{{0, 1.0}, {1, 1.5}})
	r.Collect(1, 4, 5, 1, []PatchSample{{0, 1.1}, {1, 1.6}})
	r.DropLast()

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if got := len(r.AgentSeries()); got != 2 {
		t.Errorf("%d agent rows, want 2", got)
	}
	if rows := r.AgentRowsAt(1); rows != nil {
		t.Errorf("AgentRowsAt(1) = %v, want nil", rows)
	}

	r.Collect(1, 7, 8, 2, []PatchSample{{0, 1.2}, {1, 1.7}})
	if h := r.HeightsAt(1); len(h) != 2 || h[0] != 1.2 {
		t.Errorf("HeightsAt(1) = %v after re-collecting", h)
	}
}
