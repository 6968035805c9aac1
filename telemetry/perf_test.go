package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartEpoch()
		pc.StartPhase(PhaseScatter)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseTicks)
		time.Sleep(200 * time.Microsecond)
		pc.EndEpoch(1000)
	}

	stats := pc.Stats()

	if stats.AvgEpochDuration <= 0 {
		t.Error("expected positive average epoch duration")
	}
	if _, ok := stats.PhaseAvg[PhaseScatter]; !ok {
		t.Error("expected scatter phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseTicks]; !ok {
		t.Error("expected ticks phase to be tracked")
	}
	if stats.NsPerUnit <= 0 {
		t.Error("expected positive ns per unit")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartEpoch()
		pc.StartPhase(PhaseTicks)
		time.Sleep(10 * time.Microsecond)
		pc.EndEpoch(100)
	}

	stats := pc.Stats()
	if stats.AvgEpochDuration <= 0 {
		t.Error("expected positive average epoch duration after window filled")
	}
	if stats.EpochsPerSecond <= 0 {
		t.Error("expected positive epochs per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartEpoch()
		pc.StartPhase(PhaseSelection)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseTicks)
		time.Sleep(500 * time.Microsecond)
		pc.EndEpoch(0)
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseTicks] <= stats.PhasePct[PhaseSelection] {
		t.Errorf("expected ticks (%v%%) > selection (%v%%)", stats.PhasePct[PhaseTicks], stats.PhasePct[PhaseSelection])
	}
	if stats.NsPerUnit != 0 {
		t.Errorf("ns per unit with zero work = %v, want 0", stats.NsPerUnit)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgEpochDuration != 0 {
		t.Error("expected zero avg epoch duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgEpochDuration: 1500 * time.Microsecond,
		PhasePct:         map[string]float64{PhaseTicks: 80, PhaseRefill: 5},
		NsPerUnit:        2.5,
	}
	row := s.ToCSV("run", 7)
	if row.RunID != "run" || row.Epoch != 7 || row.AvgEpochUS != 1500 {
		t.Errorf("row = %+v", row)
	}
	if row.TicksPct != 80 || row.RefillPct != 5 || row.ScatterPct != 0 || row.NsPerUnit != 2.5 {
		t.Errorf("phase columns = %+v", row)
	}
}
