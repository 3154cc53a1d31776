package config

import "github.com/verdantlab/verdant/internal/engine"

var Presets = map[string]*Config{
	"quiet-canopy": {
		Seed: "quiet-canopy", Scenario: "forest-day", DtMs: 100, Cycles: 2400,
		Biome: "temperate-forest",
	},
	"storm-watch": {
		Seed: "storm-watch", Scenario: "storm-front", DtMs: 100, Cycles: 3600,
		Biome: "wetland",
	},
	"city-pulse": {
		Seed: "city-pulse", Scenario: "urban-drift", DtMs: 50, Cycles: 4800,
		Biome: "urban",
	},
	"polar-night": {
		Seed: "polar-night", Scenario: "night-migration", DtMs: 100, Cycles: 2400,
		Biome: "tundra",
	},
	"calm-viewing": {
		Seed: "calm-viewing", Scenario: "forest-day", DtMs: 100, Cycles: 2400,
		Biome:         "temperate-forest",
		Accessibility: engine.Accessibility{ReducedMotion: true, PhotosensitivitySafe: true},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	// Copy so callers can layer flag overrides without mutating the table.
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
