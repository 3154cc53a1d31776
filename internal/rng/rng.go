package rng

import (
	"crypto/sha256"
	"encoding/binary"
)

// Source is a deterministic 32-bit generator with an exposed accumulator so
// sequences can be paused and resumed exactly. Every seed consumer in the
// simulation uses this same mix function; checkpoint restore depends on it.
type Source struct {
	state uint32
}

// New creates a Source from a 32-bit seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// SeedFromString derives a 32-bit seed from an arbitrary string using SHA-256.
func SeedFromString(s string) uint32 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint32(h[:4])
}

// Next advances the accumulator by a fixed increment and returns a mixed
// float64 in [0, 1).
func (s *Source) Next() float64 {
	s.state += 0x6D2B79F5
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return float64(z^(z>>14)) / 4294967296.0
}

// State returns the raw accumulator.
func (s *Source) State() uint32 { return s.state }

// SetState restores the raw accumulator.
func (s *Source) SetState(v uint32) { s.state = v }
