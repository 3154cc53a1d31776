package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verdantlab/verdant/internal/bridge"
	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/runner"
	"github.com/verdantlab/verdant/internal/sensors"
)

func sampleTrace(n int) []engine.Snapshot {
	trace := make([]engine.Snapshot, 0, n)
	for i := 1; i <= n; i++ {
		snap := engine.Snapshot{
			CycleIndex: i,
			Time:       float64(i) * 0.1,
			Life:       engine.LifeState{Phase: engine.PhaseAlive, Stress: 0.3},
		}
		snap.Uniforms.UVitality = 0.8
		if i == 3 {
			snap.MacroMutationFired = true
		}
		trace = append(trace, snap)
	}
	return trace
}

func TestSaveAndList(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := s.Save(RunTuple{Seed: "test-1", Scenario: "forest-day", DtMs: 100, Biome: "temperate-forest"}, sampleTrace(10))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("list = %+v", runs)
	}
	if runs[0].Cycles != 10 || runs[0].Fractures != 1 {
		t.Fatalf("metadata wrong: %+v", runs[0])
	}
	if runs[0].FinalPhase != engine.PhaseAlive || runs[0].FinalVitality != 0.8 {
		t.Fatalf("final fields wrong: %+v", runs[0])
	}
}

func TestLoadMissingRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("absent"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestListEmptyDir(t *testing.T) {
	s := New(t.TempDir() + "/never-created")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}

func TestTraceColumn(t *testing.T) {
	s := New(t.TempDir())
	runID, err := s.Save(RunTuple{Seed: "test-1", Scenario: "forest-day", DtMs: 100, Biome: "urban"}, sampleTrace(5))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	vals, err := s.TraceColumn(runID, "vitality")
	if err != nil {
		t.Fatalf("trace column: %v", err)
	}
	if len(vals) != 5 {
		t.Fatalf("got %d values, want 5", len(vals))
	}
	for _, v := range vals {
		if v != 0.8 {
			t.Fatalf("vitality column corrupted: %v", vals)
		}
	}

	if _, err := s.TraceColumn(runID, "nope"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestTraceColumnMalformedRow(t *testing.T) {
	s := New(t.TempDir())
	runID, err := s.Save(RunTuple{Seed: "test-1", Scenario: "forest-day", DtMs: 100, Biome: "urban"}, sampleTrace(3))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Corrupt one row: right field count, unparsable number.
	path := filepath.Join(s.baseDir, runID, "trace.csv")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	if _, err := f.WriteString("4,0.4,ALIVE,oops,0.8,0,0,0,0,0,0\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	if _, err := s.TraceColumn(runID, "stress"); err == nil {
		t.Fatal("expected error for unparsable trace row")
	}
}

// A run saved with accessibility flags and sensor overrides must replay
// bit-for-bit from its stored metadata alone. Photosensitivity-safe mode
// stretches the fracture cadence and caps pulse output, so dropping it from
// the tuple silently diverges from the stored trace.
func TestMetadataTupleReplaysTrace(t *testing.T) {
	tuple := RunTuple{
		Seed:          "replay-1",
		Scenario:      "storm-front",
		DtMs:          100,
		Biome:         "wetland",
		Accessibility: engine.Accessibility{PhotosensitivitySafe: true},
		Overrides:     map[string]float64{"light": 0.9},
	}

	trace := replayTuple(t, tuple, 200)

	s := New(t.TempDir())
	runID, err := s.Save(tuple, trace)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := s.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Accessibility != tuple.Accessibility {
		t.Fatalf("accessibility lost in metadata: %+v", meta.Accessibility)
	}
	if meta.Overrides["light"] != 0.9 {
		t.Fatalf("overrides lost in metadata: %+v", meta.Overrides)
	}

	replayed := replayTuple(t, meta.RunTuple, meta.Cycles)
	for i := range trace {
		if replayed[i] != trace[i] {
			t.Fatalf("replay diverged at cycle %d: u_pulseAmp saved=%v replayed=%v",
				i+1, trace[i].Uniforms.UPulseAmp, replayed[i].Uniforms.UPulseAmp)
		}
	}
}

// replayTuple runs the simulation from a reproducibility tuple, the way the
// export command rebuilds a saved run.
func replayTuple(t *testing.T, tuple RunTuple, cycles int) []engine.Snapshot {
	t.Helper()

	set := bridge.Settings{Biome: tuple.Biome, Access: tuple.Accessibility}
	for name, v := range tuple.Overrides {
		i := sensors.Index(name)
		if i < 0 {
			t.Fatalf("unknown override channel %q", name)
		}
		set.Overrides[i] = v
		set.OverrideMask |= 1 << uint(i)
	}
	b := bridge.New()
	b.SetSettings(set)

	run, err := runner.New(runner.Config{SeedText: tuple.Seed, Scenario: tuple.Scenario, DtMs: tuple.DtMs}, b)
	if err != nil {
		t.Fatalf("runner: %v", err)
	}
	trace := make([]engine.Snapshot, 0, cycles)
	for i := 0; i < cycles; i++ {
		trace = append(trace, run.StepOnce())
	}
	return trace
}
