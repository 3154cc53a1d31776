package engine

import (
	"math"

	"github.com/verdantlab/verdant/internal/rng"
)

// Fracture scheduling constants. The trigger interval shrinks as stress
// climbs, so a strained organism ruptures more often.
const (
	fractureHoldFrames   = 2
	fractureBaseInterval = 22.0
	fractureStressPull   = 14.0
	fractureMinInterval  = 4.0
	fractureJitterSpan   = 6.0
	photosafeIntervalMul = 1.6
	photosafeCeiling     = 0.35
)

// stepFracture advances the stochastic macro-mutation event. It returns the
// updated state fields and whether the event fired this cycle. RNG is only
// consumed on a trigger, which is itself fully determined by prior state.
func stepFracture(st State, r *rng.Source, dt, stress, healTime float64, access Accessibility) (State, bool) {
	if st.Time >= st.NextFractureAt {
		st.FractureFrames = fractureHoldFrames
		st.FractureIntensity = 1
		st.FractureSeed = r.Next()

		interval := fractureBaseInterval - fractureStressPull*stress
		if access.PhotosensitivitySafe {
			interval *= photosafeIntervalMul
		}
		st.NextFractureAt = st.Time + math.Max(fractureMinInterval, interval) + r.Next()*fractureJitterSpan
		return st, true
	}

	if st.FractureFrames > 0 {
		st.FractureIntensity = 1
		st.FractureFrames--
		return st, false
	}

	if healTime > 0 {
		st.FractureIntensity *= math.Exp(-math.Ln2 * dt / healTime)
	}
	ceiling := 1.0
	if access.PhotosensitivitySafe {
		ceiling = photosafeCeiling
	}
	if st.FractureIntensity > ceiling {
		st.FractureIntensity = ceiling
	}
	return st, false
}
