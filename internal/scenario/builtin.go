package scenario

import (
	"math"

	"github.com/verdantlab/verdant/internal/sensors"
)

const (
	dayPeriod   = 120.0 // seconds per simulated day
	jitterScale = 0.03
)

// drawJitter consumes exactly four RNG values regardless of scenario branch,
// keeping per-cycle RNG consumption fixed.
func drawJitter(ctx Context) [4]float64 {
	return [4]float64{
		ctx.Rand.Next(), ctx.Rand.Next(), ctx.Rand.Next(), ctx.Rand.Next(),
	}
}

// phase maps the clock onto [0, 2π) over one simulated day.
func phase(t float64) float64 {
	return 2 * math.Pi * math.Mod(t, dayPeriod) / dayPeriod
}

// pulse is a smooth bump centered at c with half-width w, on a [0,1) phase
// fraction axis.
func pulse(frac, c, w float64) float64 {
	d := math.Abs(frac - c)
	if d > 0.5 {
		d = 1 - d
	}
	if d >= w {
		return 0
	}
	return 0.5 * (1 + math.Cos(math.Pi*d/w))
}

var forestDay = Scenario{
	ID:          "forest-day",
	Label:       "Forest Day",
	Description: "gentle diurnal light and humidity swings over a calm canopy",
	Generate: func(ctx Context) sensors.Vector {
		j := drawJitter(ctx)
		p := phase(ctx.T)
		frac := math.Mod(ctx.T, dayPeriod) / dayPeriod
		v := ctx.Base

		day := 0.5 + 0.5*math.Sin(p)
		v[sensors.Light] = 0.25 + 0.65*day + jitterScale*j[0]
		v[sensors.NightTime] = 1 - day
		v[sensors.Humidity] = 0.5 + 0.2*math.Sin(p-1.1) + jitterScale*j[1]
		v[sensors.GreenExposureProxy] = 0.6 + 0.15*math.Sin(p*0.5)
		v[sensors.Precipitation] = 0.15 + 0.25*pulse(frac, 0.7, 0.08) + jitterScale*j[2]
		v[sensors.Wind] = 0.15 + 0.1*math.Sin(p*3) + jitterScale*j[3]
		v[sensors.TempStress] = 0.2 + 0.1*math.Sin(p-0.4)
		v[sensors.StormProb] = 0.05 + 0.1*pulse(frac, 0.72, 0.1)
		v[sensors.Mobility] = 0.3 + 0.2*day

		return v.Clamp01()
	},
}

var stormFront = Scenario{
	ID:          "storm-front",
	Label:       "Storm Front",
	Description: "a pressure front builds, breaks, and washes out each day",
	Generate: func(ctx Context) sensors.Vector {
		j := drawJitter(ctx)
		p := phase(ctx.T)
		frac := math.Mod(ctx.T, dayPeriod) / dayPeriod
		v := ctx.Base

		front := pulse(frac, 0.55, 0.18)
		v[sensors.Light] = 0.5 - 0.35*front + 0.15*math.Sin(p) + jitterScale*j[0]
		v[sensors.StormProb] = 0.2 + 0.75*front + jitterScale*j[1]
		v[sensors.Wind] = 0.25 + 0.6*front + jitterScale*j[2]
		v[sensors.Precipitation] = 0.2 + 0.7*pulse(frac, 0.6, 0.14) + jitterScale*j[3]
		v[sensors.Humidity] = 0.55 + 0.3*front
		v[sensors.TempStress] = 0.35 + 0.35*front
		v[sensors.BatteryStress] = 0.35 + 0.2*front
		v[sensors.NightTime] = 0.5 - 0.5*math.Sin(p)

		return v.Clamp01()
	},
}

var urbanDrift = Scenario{
	ID:          "urban-drift",
	Label:       "Urban Drift",
	Description: "commute pulses, crowd density, and attention churn",
	Generate: func(ctx Context) sensors.Vector {
		j := drawJitter(ctx)
		p := phase(ctx.T)
		frac := math.Mod(ctx.T, dayPeriod) / dayPeriod
		v := ctx.Base

		commute := pulse(frac, 0.3, 0.07) + pulse(frac, 0.75, 0.07)
		v[sensors.Mobility] = 0.3 + 0.55*commute + jitterScale*j[0]
		v[sensors.EventCrowdProxy] = 0.2 + 0.5*commute + jitterScale*j[1]
		v[sensors.EncounterRate] = 0.35 + 0.35*commute
		v[sensors.NetworkDensity] = 0.6 + 0.2*math.Sin(p*2) + jitterScale*j[2]
		v[sensors.AttentionFrag] = 0.45 + 0.3*commute + jitterScale*j[3]
		v[sensors.AutomationUsage] = 0.55 + 0.15*math.Sin(p*0.5)
		v[sensors.PredictiveHabits] = 0.5 + 0.2*math.Sin(p*0.25)
		v[sensors.GreenExposureProxy] = 0.25 + 0.1*math.Sin(p)
		v[sensors.Light] = 0.45 + 0.35*math.Sin(p)
		v[sensors.NightTime] = 0.5 - 0.5*math.Sin(p)

		return v.Clamp01()
	},
}

var nightMigration = Scenario{
	ID:          "night-migration",
	Label:       "Night Migration",
	Description: "long dark stretches with sparse contact and low touch",
	Generate: func(ctx Context) sensors.Vector {
		j := drawJitter(ctx)
		p := phase(ctx.T)
		frac := math.Mod(ctx.T, dayPeriod) / dayPeriod
		v := ctx.Base

		dark := 0.7 + 0.3*math.Cos(p)
		v[sensors.NightTime] = dark + jitterScale*j[0]
		v[sensors.Light] = 0.15 + 0.2*(1-dark) + jitterScale*j[1]
		v[sensors.Mobility] = 0.5 + 0.3*pulse(frac, 0.15, 0.12) + jitterScale*j[2]
		v[sensors.LowTouchRate] = 0.6 + 0.25*dark + jitterScale*j[3]
		v[sensors.EncounterRate] = 0.15 + 0.1*pulse(frac, 0.5, 0.1)
		v[sensors.NetworkDensity] = 0.25 + 0.1*math.Sin(p*0.5)
		v[sensors.TempStress] = 0.3 + 0.2*dark
		v[sensors.Humidity] = 0.4 + 0.1*math.Sin(p-0.8)
		v[sensors.AttentionFrag] = 0.25 + 0.15*dark

		return v.Clamp01()
	},
}
