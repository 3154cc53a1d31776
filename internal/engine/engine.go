package engine

import (
	"math"

	"github.com/verdantlab/verdant/internal/rng"
)

// Update advances the simulation by one cycle. It is the only mutation path:
// given the previous State, the cycle Input, and the simulation RNG, it
// returns the next State and the Snapshot for the cycle. Identical
// (State, Input, RNG state) triples always produce identical results, which
// is what the checkpoint/scrub machinery relies on.
//
// A delta outside [0,1] seconds is clamped silently; the visualizer favors
// continuous operation over rejecting a bad host timestep.
func Update(st State, in Input, r *rng.Source) (State, Snapshot) {
	dt := clampRange(in.DeltaSeconds, 0, 1)
	st.Time += dt

	raw := in.Raw.Clamp01()

	// Asymmetric EMA. The first cycle adopts the raw reading outright so a
	// fresh run does not ramp up from zero.
	if !st.SmoothedInit {
		st.Smoothed = raw
		st.SmoothedInit = true
	} else {
		for i := range raw {
			half := ReleaseHalfLife
			if raw[i] >= st.Smoothed[i] {
				half = AttackHalfLife
			}
			alpha := 1 - math.Exp(-dt/half)
			st.Smoothed[i] += (raw[i] - st.Smoothed[i]) * alpha
		}
	}

	ch := deriveChannels(st.Smoothed)
	stress := deriveStress(ch)

	prevPhase := st.Life.Phase
	st.Life = stepLifecycle(st.Life, stress, dt)

	plants := derivePlantWeights(ch, st.Smoothed, stress)
	sel := selectTop3(plants)

	vitality := clampRange(0.5+0.3*ch.A+0.2*ch.B-0.25*stress, 0.2, 1.0)
	tune := TuningFor(in.Biome)

	var fired bool
	st, fired = stepFracture(st, r, dt, stress, healTimeFor(vitality), in.Access)

	st.Uniforms = synthesizeUniforms(st, ch, plants, sel, stress, vitality, tune, in.Access)

	snap := Snapshot{
		Time:               st.Time,
		CycleIndex:         in.CycleIndex,
		SensorsRaw:         raw,
		SensorsSmoothed:    st.Smoothed,
		Channels:           ch,
		Life:               st.Life,
		PlantsRaw:          plants,
		PlantsTop3:         sel,
		Uniforms:           st.Uniforms,
		MacroMutationFired: fired,
		CollapseEntered:    prevPhase != PhaseCollapse && st.Life.Phase == PhaseCollapse,
		ExtinctionEntered:  prevPhase != PhaseExtinction && st.Life.Phase == PhaseExtinction,
		AttackHalfLife:     AttackHalfLife,
		ReleaseHalfLife:    ReleaseHalfLife,
	}
	return st, snap
}
