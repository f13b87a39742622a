package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorStats(t *testing.T) {
	p := NewPerfCollector(4)
	for i := 0; i < 6; i++ {
		p.StartStep()
		p.StartPhase(PhaseRain)
		p.StartPhase(PhaseActivate)
		time.Sleep(time.Millisecond)
		p.EndStep()
	}

	s := p.Stats()
	if s.AvgStepDuration <= 0 {
		t.Fatalf("AvgStepDuration = %v, want > 0", s.AvgStepDuration)
	}
	if s.MinStepDuration > s.AvgStepDuration || s.AvgStepDuration > s.MaxStepDuration {
		t.Errorf("min/avg/max out of order: %v/%v/%v", s.MinStepDuration, s.AvgStepDuration, s.MaxStepDuration)
	}
	if s.PhasePct[PhaseActivate] <= s.PhasePct[PhaseRain] {
		t.Errorf("activate pct %v should dominate rain pct %v", s.PhasePct[PhaseActivate], s.PhasePct[PhaseRain])
	}
	if s.StepsPerSecond <= 0 {
		t.Errorf("StepsPerSecond = %v", s.StepsPerSecond)
	}

	row := s.ToCSV(6)
	if row.WindowEnd != 6 || row.ActivatePct != s.PhasePct[PhaseActivate] {
		t.Errorf("ToCSV = %+v", row)
	}
}

func TestPerfCollectorNilSafe(t *testing.T) {
	var p *PerfCollector
	p.StartStep()
	p.StartPhase(PhaseSelect)
	p.EndStep()
	if s := p.Stats(); s.AvgStepDuration != 0 {
		t.Errorf("nil collector stats = %+v", s)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	s := NewPerfCollector(0).Stats()
	if s.AvgStepDuration != 0 || s.PhasePct == nil {
		t.Errorf("empty stats = %+v", s)
	}
}
