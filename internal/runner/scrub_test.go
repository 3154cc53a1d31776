package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/sensors"
)

func TestScrubMatchesLiveReplay(t *testing.T) {
	cfg := Config{SeedText: "test-1", Scenario: "forest-day", DtMs: 100}

	live, _ := newTestRunner(t, cfg)
	var want engine.Snapshot
	for i := 0; i < 500; i++ {
		want = live.StepOnce()
	}

	fresh, _ := newTestRunner(t, cfg)
	got, err := fresh.SnapshotAtCycle(context.Background(), 500, nil)
	if err != nil {
		t.Fatalf("SnapshotAtCycle: %v", err)
	}
	if got != want {
		t.Fatalf("scrub result differs from 500-step live replay:\n got life=%+v u_vitality=%v\nwant life=%+v u_vitality=%v",
			got.Life, got.Uniforms.UVitality, want.Life, want.Uniforms.UVitality)
	}
}

func TestScrubDeterministicAcrossTargets(t *testing.T) {
	cfg := Config{SeedText: "seed-a", Scenario: "storm-front", DtMs: 100, CheckpointInterval: 50, ChunkSize: 20}
	r, _ := newTestRunner(t, cfg)

	for _, target := range []int{1, 49, 50, 51, 137, 400} {
		a, err := r.SnapshotAtCycle(context.Background(), target, nil)
		if err != nil {
			t.Fatalf("first seek to %d: %v", target, err)
		}
		b, err := r.SnapshotAtCycle(context.Background(), target, nil)
		if err != nil {
			t.Fatalf("second seek to %d: %v", target, err)
		}
		if a != b {
			t.Fatalf("seek to %d not idempotent", target)
		}
		if a.CycleIndex != target {
			t.Fatalf("snapshot cycle = %d, want %d", a.CycleIndex, target)
		}
	}
}

func TestCheckpointTransparency(t *testing.T) {
	cfg := Config{SeedText: "seed-b", Scenario: "urban-drift", DtMs: 100, CheckpointInterval: 100, ChunkSize: 40}

	// Cold runner: seek straight to 350, replaying everything from cycle 0.
	cold, _ := newTestRunner(t, cfg)
	want, err := cold.SnapshotAtCycle(context.Background(), 350, nil)
	if err != nil {
		t.Fatalf("cold seek: %v", err)
	}

	// Warm runner: an earlier seek left checkpoints at 100/200/300, so this
	// seek restores from cycle 300. Checkpointing must be unobservable.
	warm, _ := newTestRunner(t, cfg)
	if _, err := warm.SnapshotAtCycle(context.Background(), 320, nil); err != nil {
		t.Fatalf("warm-up seek: %v", err)
	}
	got, err := warm.SnapshotAtCycle(context.Background(), 350, nil)
	if err != nil {
		t.Fatalf("warm seek: %v", err)
	}
	if got != want {
		t.Fatal("checkpointed seek differs from cold replay")
	}
}

func TestScrubCancellation(t *testing.T) {
	cfg := Config{SeedText: "seed-c", Scenario: "forest-day", DtMs: 100, ChunkSize: 50}
	r, _ := newTestRunner(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.SnapshotAtCycle(ctx, 1000, nil)
	if !errors.Is(err, ErrScrubCancelled) {
		t.Fatalf("want ErrScrubCancelled, got %v", err)
	}
}

func TestScrubCancellationMidReplay(t *testing.T) {
	cfg := Config{SeedText: "seed-d", Scenario: "forest-day", DtMs: 100, ChunkSize: 50}
	r, _ := newTestRunner(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	chunks := 0
	_, err := r.SnapshotAtCycle(ctx, 1000, func(done, total int) {
		chunks++
		if chunks == 2 {
			cancel()
		}
	})
	if !errors.Is(err, ErrScrubCancelled) {
		t.Fatalf("want ErrScrubCancelled, got %v", err)
	}
	if chunks != 2 {
		t.Fatalf("cancellation observed after %d chunks, want 2 (chunk-boundary latency)", chunks)
	}
}

func TestScrubProgress(t *testing.T) {
	cfg := Config{SeedText: "seed-e", Scenario: "forest-day", DtMs: 100, ChunkSize: 60}
	r, _ := newTestRunner(t, cfg)

	var dones []int
	var total int
	if _, err := r.SnapshotAtCycle(context.Background(), 150, func(d, tot int) {
		dones = append(dones, d)
		total = tot
	}); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if total != 150 {
		t.Fatalf("progress total = %d, want 150", total)
	}
	want := []int{60, 120, 150}
	if len(dones) != len(want) {
		t.Fatalf("progress calls = %v, want %v", dones, want)
	}
	for i := range want {
		if dones[i] != want[i] {
			t.Fatalf("progress calls = %v, want %v", dones, want)
		}
	}
}

func TestScrubRejectsCycleZero(t *testing.T) {
	r, _ := newTestRunner(t, Config{SeedText: "s", Scenario: "forest-day"})
	if _, err := r.SnapshotAtCycle(context.Background(), 0, nil); err == nil {
		t.Fatal("cycle 0 has no snapshot; expected error")
	}
}

func TestSessionsKeyedByConfig(t *testing.T) {
	r, b := newTestRunner(t, Config{SeedText: "s", Scenario: "forest-day"})
	ctx := context.Background()

	if _, err := r.SnapshotAtCycle(ctx, 10, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SnapshotAtCycle(ctx, 20, nil); err != nil {
		t.Fatal(err)
	}
	if r.SessionCount() != 1 {
		t.Fatalf("same config should reuse one session, have %d", r.SessionCount())
	}

	set := b.Settings()
	set.Biome = "desert"
	b.SetSettings(set)
	if _, err := r.SnapshotAtCycle(ctx, 10, nil); err != nil {
		t.Fatal(err)
	}
	if r.SessionCount() != 2 {
		t.Fatalf("changed biome should open a new session, have %d", r.SessionCount())
	}
}

func TestSessionsKeyedByOverrides(t *testing.T) {
	r, b := newTestRunner(t, Config{SeedText: "s2", Scenario: "forest-day"})
	ctx := context.Background()

	base, err := r.SnapshotAtCycle(ctx, 40, nil)
	if err != nil {
		t.Fatal(err)
	}

	b.SetOverride(sensors.Light, 1.0)
	pinned, err := r.SnapshotAtCycle(ctx, 40, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.SessionCount() != 2 {
		t.Fatalf("changed override should open a new session, have %d", r.SessionCount())
	}
	if pinned.SensorsRaw[sensors.Light] != 1.0 {
		t.Fatalf("pinned light = %v, want 1.0", pinned.SensorsRaw[sensors.Light])
	}
	if pinned == base {
		t.Fatal("pinned light override did not change the cycle-40 snapshot")
	}

	// Clearing the override must route back to the original session, whose
	// captured settings still match.
	b.ClearOverride(sensors.Light)
	again, err := r.SnapshotAtCycle(ctx, 40, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again != base {
		t.Fatal("clearing the override should reuse the unpinned session")
	}
	if r.SessionCount() != 2 {
		t.Fatalf("cleared override should not open a third session, have %d", r.SessionCount())
	}
}

func TestScrubIsolatedFromLivePlayback(t *testing.T) {
	cfg := Config{SeedText: "seed-f", Scenario: "night-migration", DtMs: 100}
	r, _ := newTestRunner(t, cfg)

	for i := 0; i < 100; i++ {
		r.StepOnce()
	}
	liveCycle := r.CycleIndex()
	liveHistory := r.History()

	if _, err := r.SnapshotAtCycle(context.Background(), 400, nil); err != nil {
		t.Fatal(err)
	}

	if r.CycleIndex() != liveCycle {
		t.Fatal("scrub advanced the live simulation")
	}
	after := r.History()
	if len(after) != len(liveHistory) || after[len(after)-1] != liveHistory[len(liveHistory)-1] {
		t.Fatal("scrub mutated live history")
	}

	// Live playback continues bit-identically to an undisturbed run.
	undisturbed, _ := newTestRunner(t, cfg)
	for i := 0; i < 150; i++ {
		undisturbed.StepOnce()
	}
	var next engine.Snapshot
	for i := 0; i < 50; i++ {
		next = r.StepOnce()
	}
	if next != undisturbed.History()[len(undisturbed.History())-1] {
		t.Fatal("live playback diverged after scrubbing")
	}
}
