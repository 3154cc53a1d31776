package engine

import "github.com/verdantlab/verdant/internal/sensors"

// deriveChannels computes the four aggregate signals from smoothed sensors.
// The weights are a design contract shared with the plant-weight formulas.
func deriveChannels(s sensors.Vector) Channels {
	return Channels{
		A: clamp01(0.35*s[sensors.Light] +
			0.25*s[sensors.GreenExposureProxy] +
			0.20*s[sensors.Humidity] +
			0.20*s[sensors.Precipitation]),
		B: clamp01(0.30*s[sensors.NetworkDensity] +
			0.30*s[sensors.EncounterRate] +
			0.20*s[sensors.Mobility] +
			0.20*s[sensors.EventCrowdProxy]),
		S: clamp01(0.30*s[sensors.TempStress] +
			0.25*s[sensors.StormProb] +
			0.20*s[sensors.Wind] +
			0.15*s[sensors.BatteryStress] +
			0.10*s[sensors.AttentionFrag]),
		T: clamp01(0.30*s[sensors.AutomationUsage] +
			0.25*s[sensors.PredictiveHabits] +
			0.20*s[sensors.AttentionFrag] +
			0.15*s[sensors.LowTouchRate] +
			0.10*s[sensors.BatteryStress]),
	}
}

// deriveStress folds the two stress channels into the scalar the lifecycle
// machine runs on.
func deriveStress(ch Channels) float64 {
	return clamp01(0.6*ch.S + 0.4*ch.T)
}
