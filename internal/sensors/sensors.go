// Package sensors defines the fixed set of scalar input channels driving the
// simulation. All channels live in [0,1].
package sensors

// Channel indices into a Vector. The order is canonical: exports, override
// masks, and the plant-weight formulas all index by these constants.
const (
	Light = iota
	TempStress
	Precipitation
	Wind
	StormProb
	Humidity
	GreenExposureProxy
	Mobility
	NightTime
	NetworkDensity
	EncounterRate
	EventCrowdProxy
	BatteryStress
	AttentionFrag
	LowTouchRate
	AutomationUsage
	PredictiveHabits

	Count
)

// Names holds the canonical channel names, indexed by the constants above.
var Names = [Count]string{
	"light",
	"tempStress",
	"precipitation",
	"wind",
	"stormProb",
	"humidity",
	"greenExposureProxy",
	"mobility",
	"nightTime",
	"networkDensity",
	"encounterRate",
	"eventCrowdProxy",
	"batteryStress",
	"attentionFrag",
	"lowTouchRate",
	"automationUsage",
	"predictiveHabits",
}

// Vector is one full sensor reading. It is a value type; copying it copies
// the reading, which keeps checkpointing trivial.
type Vector [Count]float64

// Clamp01 returns a copy with every channel clamped to [0,1].
func (v Vector) Clamp01() Vector {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		} else if v[i] > 1 {
			v[i] = 1
		}
	}
	return v
}

// Map returns the vector keyed by channel name, for export.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, Count)
	for i, name := range Names {
		m[name] = v[i]
	}
	return m
}

// Index returns the channel index for a name, or -1 if unknown.
func Index(name string) int {
	for i, n := range Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Baseline returns the default resting sensor values used when no scenario
// or override supplies a channel.
func Baseline() Vector {
	var v Vector
	v[Light] = 0.55
	v[TempStress] = 0.25
	v[Precipitation] = 0.2
	v[Wind] = 0.2
	v[StormProb] = 0.1
	v[Humidity] = 0.45
	v[GreenExposureProxy] = 0.5
	v[Mobility] = 0.35
	v[NightTime] = 0.2
	v[NetworkDensity] = 0.4
	v[EncounterRate] = 0.3
	v[EventCrowdProxy] = 0.2
	v[BatteryStress] = 0.3
	v[AttentionFrag] = 0.35
	v[LowTouchRate] = 0.4
	v[AutomationUsage] = 0.45
	v[PredictiveHabits] = 0.4
	return v
}
