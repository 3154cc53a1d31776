// Package runner orchestrates real-time playback of the simulation and
// provides random-access scrubbing via checkpointed replay sessions.
package runner

import (
	"fmt"
	"time"

	"github.com/verdantlab/verdant/internal/bridge"
	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/rng"
	"github.com/verdantlab/verdant/internal/scenario"
	"github.com/verdantlab/verdant/internal/sensors"
)

// Defaults. DtMs is the per-cycle timestep; the checkpoint interval and chunk
// size trade memory for seek latency and cancellation latency respectively.
const (
	DefaultDtMs               = 100
	DefaultMaxHistory         = 600
	DefaultMaxStepsPerTick    = 8
	DefaultCheckpointInterval = 500
	DefaultChunkSize          = 200

	// RunForever disables the remaining-cycle countdown.
	RunForever = -1
)

// Status is the playback state.
type Status string

const (
	StatusPaused  Status = "paused"
	StatusRunning Status = "running"
)

// Config fixes everything reproducibility-relevant about a run.
type Config struct {
	SeedText           string
	Scenario           string
	DtMs               int
	Speed              float64
	MaxHistory         int
	MaxStepsPerTick    int
	CheckpointInterval int
	ChunkSize          int
}

func (c *Config) applyDefaults() {
	if c.DtMs <= 0 {
		c.DtMs = DefaultDtMs
	}
	if c.Speed <= 0 {
		c.Speed = 1
	}
	if c.MaxHistory <= 0 {
		c.MaxHistory = DefaultMaxHistory
	}
	if c.MaxStepsPerTick <= 0 {
		c.MaxStepsPerTick = DefaultMaxStepsPerTick
	}
	if c.CheckpointInterval <= 0 {
		c.CheckpointInterval = DefaultCheckpointInterval
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
}

// Runner drives the live playback simulation instance. Scrub sessions own
// fully separate instances; the only state they share with playback is the
// bridge settings read at invocation time.
type Runner struct {
	cfg    Config
	brid   *bridge.Bridge
	scn    scenario.Scenario
	status Status

	lastTick  time.Time
	accumMs   float64
	remaining int // RunForever or cycles left before auto-pause

	state      engine.State
	simRNG     *rng.Source
	scnRNG     *rng.Source
	cycleIndex int
	history    []engine.Snapshot

	sessions map[SessionKey]*ScrubSession
}

// New builds a paused runner for the given configuration.
func New(cfg Config, b *bridge.Bridge) (*Runner, error) {
	cfg.applyDefaults()
	scn, ok := scenario.Lookup(cfg.Scenario)
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
	simR, scnR := seedPair(cfg.SeedText)
	return &Runner{
		cfg:       cfg,
		brid:      b,
		scn:       scn,
		status:    StatusPaused,
		remaining: RunForever,
		state:     engine.NewState(),
		simRNG:    simR,
		scnRNG:    scnR,
		history:   make([]engine.Snapshot, 0, cfg.MaxHistory),
		sessions:  make(map[SessionKey]*ScrubSession),
	}, nil
}

// seedPair derives independent simulation and scenario RNG streams from one
// textual seed.
func seedPair(seedText string) (*rng.Source, *rng.Source) {
	return rng.New(rng.SeedFromString(seedText)),
		rng.New(rng.SeedFromString(seedText + ":scenario"))
}

// Status reports whether playback is running.
func (r *Runner) Status() Status { return r.status }

// CycleIndex is the last completed cycle (0 before the first step).
func (r *Runner) CycleIndex() int { return r.cycleIndex }

// Config returns the runner's configuration with defaults applied.
func (r *Runner) Config() Config { return r.cfg }

// Start resumes playback. The wall-clock reference resets so paused time is
// not replayed as a burst.
func (r *Runner) Start() {
	if r.status == StatusRunning {
		return
	}
	r.status = StatusRunning
	r.lastTick = time.Time{}
}

// Pause halts playback, retaining the millisecond accumulator so
// pause/resume does not skip or double-count cycles.
func (r *Runner) Pause() { r.status = StatusPaused }

// SetSpeed changes the playback speed multiplier.
func (r *Runner) SetSpeed(v float64) {
	if v > 0 {
		r.cfg.Speed = v
	}
}

// RunFor limits playback to n further cycles; reaching zero auto-pauses.
// Pass RunForever to clear the limit.
func (r *Runner) RunFor(n int) {
	if n < 0 {
		r.remaining = RunForever
		return
	}
	r.remaining = n
}

// Tick advances playback by the wall-clock time since the previous Tick,
// draining the accumulator in fixed steps of dtMs/speed. At most
// MaxStepsPerTick cycles run per call so a stalled host cannot trigger a
// runaway catch-up; leftover debt beyond that is dropped.
func (r *Runner) Tick(now time.Time) int {
	if r.status != StatusRunning {
		r.lastTick = now
		return 0
	}
	if r.lastTick.IsZero() {
		r.lastTick = now
		return 0
	}
	r.accumMs += float64(now.Sub(r.lastTick)) / float64(time.Millisecond)
	r.lastTick = now

	stepMs := float64(r.cfg.DtMs) / r.cfg.Speed
	steps := 0
	for r.accumMs >= stepMs && steps < r.cfg.MaxStepsPerTick && r.status == StatusRunning {
		r.StepOnce()
		r.accumMs -= stepMs
		steps++
	}
	if max := stepMs * float64(r.cfg.MaxStepsPerTick); r.accumMs > max {
		r.accumMs = max
	}
	return steps
}

// StepOnce advances the live simulation by exactly one cycle: scenario input
// for the next cycle, user overrides applied on top (overrides win), one
// engine update, then snapshot publication.
func (r *Runner) StepOnce() engine.Snapshot {
	set := r.brid.Settings()
	snap := advance(&r.state, r.simRNG, r.scnRNG, r.scn, set, r.cfg.DtMs, r.cycleIndex+1)
	r.cycleIndex++

	r.brid.PushSnapshot(snap)
	r.history = append(r.history, snap)
	if len(r.history) > r.cfg.MaxHistory {
		r.history = r.history[1:]
	}

	if r.remaining > 0 {
		r.remaining--
		if r.remaining == 0 {
			r.status = StatusPaused
		}
	}
	return snap
}

// History returns a copy of the rolling snapshot trace, oldest first.
func (r *Runner) History() []engine.Snapshot {
	out := make([]engine.Snapshot, len(r.history))
	copy(out, r.history)
	return out
}

// advance runs one cycle against the given state and RNG streams. Live
// playback and scrub replay share this path; any divergence between them
// would break the bit-for-bit scrub guarantee.
func advance(st *engine.State, simR, scnR *rng.Source, scn scenario.Scenario, set bridge.Settings, dtMs, cycle int) engine.Snapshot {
	dtSec := float64(dtMs) / 1000.0
	raw := scn.Generate(scenario.Context{
		T:          float64(cycle) * dtSec,
		CycleIndex: cycle,
		Rand:       scnR,
		Base:       sensors.Baseline(),
	})
	raw = set.Apply(raw)

	in := engine.Input{
		DeltaSeconds: dtSec,
		Raw:          raw,
		Biome:        set.Biome,
		Access:       set.Access,
		CycleIndex:   cycle,
	}
	var snap engine.Snapshot
	*st, snap = engine.Update(*st, in, simR)
	return snap
}
