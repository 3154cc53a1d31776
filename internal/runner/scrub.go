package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/verdantlab/verdant/internal/bridge"
	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/rng"
	"github.com/verdantlab/verdant/internal/scenario"
	"github.com/verdantlab/verdant/internal/sensors"
)

// ErrScrubCancelled distinguishes a user-cancelled scrub from a failed one.
// Cancellation is cooperative: it is observed only at chunk boundaries, so
// the chunk size caps worst-case cancellation latency.
var ErrScrubCancelled = errors.New("scrub cancelled")

// SessionKey identifies one reproducible configuration. Anything that alters
// the cycle stream is part of the key: seed, scenario, timestep, biome,
// accessibility, and the sensor overrides in force when the seek starts.
type SessionKey struct {
	Seed         string
	Scenario     string
	DtMs         int
	Biome        string
	Access       engine.Accessibility
	Overrides    sensors.Vector
	OverrideMask uint32
}

// checkpoint is a full save point: engine state, both RNG accumulators, and
// the snapshot produced at that cycle (absent only at cycle 0).
type checkpoint struct {
	state    engine.State
	simState uint32
	scnState uint32
	snap     engine.Snapshot
	hasSnap  bool
}

// ScrubSession owns a private simulation instance for random-access seeks.
// It never touches the live playback state. Checkpoints accumulate at fixed
// cycle intervals for the life of the runner; there is no eviction, so
// memory grows O(sessions x checkpoints).
type ScrubSession struct {
	key      SessionKey
	settings bridge.Settings
	scn      scenario.Scenario
	dtMs     int
	interval int
	chunk    int

	checkpoints map[int]checkpoint
}

// Progress reports replay progress after each chunk: cycles replayed so far
// and the total the seek requires.
type Progress func(done, total int)

// newSession seeds the mandatory cycle-0 checkpoint. Settings are captured
// once, at creation; that is safe because every component of the settings is
// folded into the session key, so editing overrides or accessibility during
// live playback routes later seeks to a different session.
func newSession(key SessionKey, scn scenario.Scenario, set bridge.Settings, interval, chunk int) *ScrubSession {
	simR, scnR := seedPair(key.Seed)
	s := &ScrubSession{
		key:         key,
		settings:    set,
		scn:         scn,
		dtMs:        key.DtMs,
		interval:    interval,
		chunk:       chunk,
		checkpoints: make(map[int]checkpoint),
	}
	s.checkpoints[0] = checkpoint{
		state:    engine.NewState(),
		simState: simR.State(),
		scnState: scnR.State(),
	}
	return s
}

// nearest returns the highest checkpointed cycle at or below target.
func (s *ScrubSession) nearest(target int) (int, checkpoint, bool) {
	for c := target - target%s.interval; c >= 0; c -= s.interval {
		if ck, ok := s.checkpoints[c]; ok {
			return c, ck, true
		}
	}
	return 0, checkpoint{}, false
}

// seek replays from the nearest checkpoint to the target cycle in bounded
// chunks, saving new checkpoints along the way. The context is polled once
// per chunk; mid-chunk cancellation is deliberately not observed, since
// aborting inside a cycle computation would forfeit determinism.
func (s *ScrubSession) seek(ctx context.Context, target int, progress Progress) (engine.Snapshot, error) {
	if target < 1 {
		return engine.Snapshot{}, fmt.Errorf("target cycle must be >= 1, got %d", target)
	}

	start, ck, ok := s.nearest(target)
	if !ok {
		// The cycle-0 checkpoint is seeded at session creation, so a miss is
		// an internal invariant violation, not a recoverable condition.
		return engine.Snapshot{}, fmt.Errorf("internal: no checkpoint at or below cycle %d", target)
	}
	if start == target {
		if !ck.hasSnap {
			return engine.Snapshot{}, fmt.Errorf("internal: checkpoint at cycle %d has no snapshot", target)
		}
		return ck.snap, nil
	}

	st := ck.state
	simR := rng.New(0)
	simR.SetState(ck.simState)
	scnR := rng.New(0)
	scnR.SetState(ck.scnState)

	total := target - start
	var last engine.Snapshot
	haveLast := false

	for cur := start; cur < target; {
		if err := ctx.Err(); err != nil {
			return engine.Snapshot{}, fmt.Errorf("%w at cycle %d: %v", ErrScrubCancelled, cur, err)
		}

		end := cur + s.chunk
		if end > target {
			end = target
		}
		for ; cur < end; cur++ {
			next := cur + 1
			last = advance(&st, simR, scnR, s.scn, s.settings, s.dtMs, next)
			haveLast = true
			if next%s.interval == 0 {
				s.checkpoints[next] = checkpoint{
					state:    st,
					simState: simR.State(),
					scnState: scnR.State(),
					snap:     last,
					hasSnap:  true,
				}
			}
		}
		if progress != nil {
			progress(cur-start, total)
		}
	}

	if !haveLast {
		return engine.Snapshot{}, fmt.Errorf("internal: no snapshot produced replaying to cycle %d", target)
	}
	return last, nil
}

// SnapshotAtCycle resolves (or lazily creates) the scrub session for the
// runner's configuration and the bridge settings in force right now, then
// seeks to the target cycle. The result is bit-for-bit identical to stepping
// the live runner from cycle 0, because a checkpoint restores the complete
// simulation and RNG state.
func (r *Runner) SnapshotAtCycle(ctx context.Context, target int, progress Progress) (engine.Snapshot, error) {
	set := r.brid.Settings()
	key := SessionKey{
		Seed:         r.cfg.SeedText,
		Scenario:     r.cfg.Scenario,
		DtMs:         r.cfg.DtMs,
		Biome:        set.Biome,
		Access:       set.Access,
		Overrides:    set.MaskedOverrides(),
		OverrideMask: set.OverrideMask,
	}
	sess, ok := r.sessions[key]
	if !ok {
		sess = newSession(key, r.scn, set, r.cfg.CheckpointInterval, r.cfg.ChunkSize)
		r.sessions[key] = sess
	}
	return sess.seek(ctx, target, progress)
}

// SessionCount reports how many scrub sessions the runner currently holds.
func (r *Runner) SessionCount() int { return len(r.sessions) }
