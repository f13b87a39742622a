// Package telemetry records per-step metrics and writes run outputs.
package telemetry

// ModelRow is one step's model-level observation.
type ModelRow struct {
	Step          int     `csv:"step"`
	AverageHeight float64 `csv:"average_height"`
	Cashflow      float64 `csv:"cashflow"`
	HarvestCount  int     `csv:"number_harvested"`
}

// AgentRow is one patch's observation at one step.
type AgentRow struct {
	Step    int     `csv:"step"`
	PatchID int     `csv:"patch_id"`
	Height  float64 `csv:"height"`
}

// PatchSample is the per-patch input to Collect.
type PatchSample struct {
	ID     int
	Height float64
}

// Recorder is an append-only store of model and agent rows.
type Recorder struct {
	model  []ModelRow
	agents []AgentRow
	// agentStart[i] is the index of step i's first agent row
	agentStart []int
}

// NewRecorder creates an empty recorder, sized for steps rows of patches each.
func NewRecorder(steps, patches int) *Recorder {
	if steps < 0 {
		steps = 0
	}
	return &Recorder{
		model:      make([]ModelRow, 0, steps),
		agents:     make([]AgentRow, 0, steps*patches),
		agentStart: make([]int, 0, steps),
	}
}

// Collect appends one step's rows.
func (r *Recorder) Collect(step int, avgHeight, cashflow float64, harvestCount int, patches []PatchSample) {
	r.model = append(r.model, ModelRow{
		Step:          step,
		AverageHeight: avgHeight,
		Cashflow:      cashflow,
		HarvestCount:  harvestCount,
	})
	r.agentStart = append(r.agentStart, len(r.agents))
	for _, p := range patches {
		r.agents = append(r.agents, AgentRow{Step: step, PatchID: p.ID, Height: p.Height})
	}
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.model)
}

// ModelSeries returns a copy of the model-level rows.
func (r *Recorder) ModelSeries() []ModelRow {
	return append([]ModelRow(nil), r.model...)
}

// AgentSeries returns a copy of the agent-level rows, ordered by step then patch.
func (r *Recorder) AgentSeries() []AgentRow {
	return append([]AgentRow(nil), r.agents...)
}

// DropLast removes the most recently collected step, if any.
func (r *Recorder) DropLast() {
	n := len(r.model)
	if n == 0 {
		return
	}
	r.agents = r.agents[:r.agentStart[n-1]]
	r.agentStart = r.agentStart[:n-1]
	r.model = r.model[:n-1]
}

// AgentRowsAt returns a copy of the agent rows recorded for the i-th collected step.
func (r *Recorder) AgentRowsAt(i int) []AgentRow {
	if i < 0 || i >= len(r.agentStart) {
		return nil
	}
	end := len(r.agents)
	if i+1 < len(r.agentStart) {
		end = r.agentStart[i+1]
	}
	return append([]AgentRow(nil), r.agents[r.agentStart[i]:end]...)
}

// HeightsAt returns the patch heights recorded for the i-th collected step.
func (r *Recorder) HeightsAt(i int) []float64 {
	rows := r.AgentRowsAt(i)
	heights := make([]float64, len(rows))
	for j, row := range rows {
		heights[j] = row.Height
	}
	return heights
}
