// Package engine implements the deterministic per-cycle state update: sensor
// smoothing, derived channels, the lifecycle hysteresis machine, plant-weight
// selection, the fracture scheduler, and uniform synthesis.
//
// The engine is written as an explicit (state, input) -> (state, snapshot)
// transition function over value types. Checkpointing a run is a plain struct
// copy of State plus the RNG accumulator; no serialization layer is needed.
package engine

import "github.com/verdantlab/verdant/internal/sensors"

// EMA half-lives, seconds. Attack (value rising) is faster than release.
const (
	AttackHalfLife  = 0.35
	ReleaseHalfLife = 1.2
)

// Phase is one of the six lifecycle states.
type Phase string

const (
	PhaseAlive      Phase = "ALIVE"
	PhaseStressed   Phase = "STRESSED"
	PhaseCollapse   Phase = "COLLAPSE"
	PhaseRecover    Phase = "RECOVER"
	PhaseExtinction Phase = "EXTINCTION"
	PhaseRebirth    Phase = "REBIRTH"
)

// LifeState holds the lifecycle machine: the active phase, its age, the
// scalar stress driving it, and the five hysteresis hold-timers. Timers
// accumulate while their threshold condition holds and reset to zero
// otherwise; entering a new phase zeroes the age and all five timers.
type LifeState struct {
	Phase       Phase
	TimeInPhase float64
	Stress      float64

	StressHold     float64
	CollapseHold   float64
	RecoverHold    float64
	ExtinctionHold float64
	RebirthHold    float64
}

// Accessibility flags cap color and motion output. Photosensitivity-safe
// mode also stretches the fracture cadence, so the flags are part of the
// reproducibility tuple alongside seed, scenario, timestep and biome.
type Accessibility struct {
	ColorAgnostic        bool `yaml:"color_agnostic" json:"color_agnostic"`
	ReducedMotion        bool `yaml:"reduced_motion" json:"reduced_motion"`
	PhotosensitivitySafe bool `yaml:"photosensitivity_safe" json:"photosensitivity_safe"`
}

// State is the full internal simulation state. It is a value type with no
// pointers: copying it is checkpointing it.
type State struct {
	Time float64

	Smoothed     sensors.Vector
	SmoothedInit bool

	Life LifeState

	FractureIntensity float64
	FractureFrames    int
	FractureSeed      float64
	NextFractureAt    float64

	Uniforms Uniforms
}

// NewState returns the initial pre-cycle state. The first fracture is
// scheduled a few seconds in so a fresh organism does not open on a rupture.
func NewState() State {
	return State{
		Life:           LifeState{Phase: PhaseAlive},
		NextFractureAt: 6.0,
	}
}

// Input is everything one Update call reads besides State and the RNG.
type Input struct {
	DeltaSeconds float64
	Raw          sensors.Vector
	Biome        string
	Access       Accessibility
	CycleIndex   int
}

// Channels are the four derived aggregate signals.
type Channels struct {
	A float64 // abundance: light, canopy, moisture
	B float64 // biotic contact: network, encounters, crowds
	S float64 // environmental stress
	T float64 // technological stress
}

// Snapshot is the immutable per-cycle output bundle. Every field is a value;
// consumers may hold it without copying, and two snapshots compare with ==.
type Snapshot struct {
	Time       float64
	CycleIndex int

	SensorsRaw      sensors.Vector
	SensorsSmoothed sensors.Vector
	Channels        Channels
	Life            LifeState
	PlantsRaw       PlantWeights
	PlantsTop3      PlantSelection
	Uniforms        Uniforms

	MacroMutationFired bool
	CollapseEntered    bool
	ExtinctionEntered  bool

	AttackHalfLife  float64
	ReleaseHalfLife float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
