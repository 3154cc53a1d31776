// Package scenario synthesizes raw sensor readings for each simulation cycle.
// Scenarios are pure aside from RNG consumption, and every Generate call must
// consume the RNG a fixed number of times so checkpoint replay stays aligned
// with the original run.
package scenario

import (
	"github.com/verdantlab/verdant/internal/rng"
	"github.com/verdantlab/verdant/internal/sensors"
)

// Context carries everything a scenario may read when producing one cycle's
// raw sensors.
type Context struct {
	T          float64 // simulation clock, seconds
	CycleIndex int
	Rand       *rng.Source
	Base       sensors.Vector
}

// Scenario is the pluggable generator contract.
type Scenario struct {
	ID          string
	Label       string
	Description string
	Generate    func(Context) sensors.Vector
}

var registry = []Scenario{forestDay, stormFront, urbanDrift, nightMigration}

// Lookup returns the scenario with the given id, or false.
func Lookup(id string) (Scenario, bool) {
	for _, s := range registry {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// List returns the builtin scenarios in registration order.
func List() []Scenario {
	out := make([]Scenario, len(registry))
	copy(out, registry)
	return out
}
