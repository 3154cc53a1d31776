// Package bridge is the core's only interface surface: it carries
// user-adjustable settings into the runner and the latest computed snapshot
// out to consumers. Reads and writes are last-write-wins; consumers poll or
// subscribe at their own cadence.
package bridge

import (
	"sync"

	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/sensors"
)

// Settings are the user-adjustable inputs read once per cycle. OverrideMask
// is a bitmask over sensor channel indices; a set bit means the corresponding
// Overrides value replaces the scenario's raw output for that channel.
type Settings struct {
	Biome        string
	Overrides    sensors.Vector
	OverrideMask uint32
	Access       engine.Accessibility
}

// Apply returns raw with every masked channel replaced by its override.
// Overrides win over scenario output.
func (s Settings) Apply(raw sensors.Vector) sensors.Vector {
	if s.OverrideMask == 0 {
		return raw
	}
	for i := 0; i < sensors.Count; i++ {
		if s.OverrideMask&(1<<uint(i)) != 0 {
			raw[i] = s.Overrides[i]
		}
	}
	return raw.Clamp01()
}

// MaskedOverrides returns the override vector with every unmasked channel
// zeroed. Unmasked values are dead to Apply, so two settings that differ
// only in stale unmasked values drive identical cycle streams.
func (s Settings) MaskedOverrides() sensors.Vector {
	var out sensors.Vector
	for i := 0; i < sensors.Count; i++ {
		if s.OverrideMask&(1<<uint(i)) != 0 {
			out[i] = s.Overrides[i]
		}
	}
	return out
}

// Bridge is the process-wide broadcast channel between the simulation core
// and its external consumers.
type Bridge struct {
	mu       sync.RWMutex
	settings Settings
	latest   engine.Snapshot
	hasSnap  bool
	subs     []chan engine.Snapshot
}

// New creates a bridge with default settings.
func New() *Bridge {
	return &Bridge{settings: Settings{Biome: engine.DefaultBiome}}
}

// Settings returns the current settings snapshot.
func (b *Bridge) Settings() Settings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settings
}

// SetSettings replaces the settings wholesale.
func (b *Bridge) SetSettings(s Settings) {
	b.mu.Lock()
	b.settings = s
	b.mu.Unlock()
}

// SetOverride pins one sensor channel to a fixed value.
func (b *Bridge) SetOverride(channel int, v float64) {
	if channel < 0 || channel >= sensors.Count {
		return
	}
	b.mu.Lock()
	b.settings.Overrides[channel] = v
	b.settings.OverrideMask |= 1 << uint(channel)
	b.mu.Unlock()
}

// ClearOverride releases one pinned channel back to the scenario.
func (b *Bridge) ClearOverride(channel int) {
	if channel < 0 || channel >= sensors.Count {
		return
	}
	b.mu.Lock()
	b.settings.Overrides[channel] = 0
	b.settings.OverrideMask &^= 1 << uint(channel)
	b.mu.Unlock()
}

// PushSnapshot publishes the latest snapshot. Subscriber sends never block;
// a subscriber that falls behind misses intermediate snapshots and catches
// up on the next push.
func (b *Bridge) PushSnapshot(s engine.Snapshot) {
	b.mu.Lock()
	b.latest = s
	b.hasSnap = true
	subs := b.subs
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Latest returns the most recently pushed snapshot.
func (b *Bridge) Latest() (engine.Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.hasSnap
}

// Subscribe registers a snapshot listener with the given buffer size.
func (b *Bridge) Subscribe(buffer int) <-chan engine.Snapshot {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan engine.Snapshot, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}
