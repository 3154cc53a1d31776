package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verdantlab/verdant/internal/bridge"
	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/runner"
	"github.com/verdantlab/verdant/internal/sensors"
)

const (
	DefaultSeed     = "verdant"
	DefaultScenario = "forest-day"
	DefaultCycles   = 1200
)

type Config struct {
	Seed     string  `yaml:"seed"`
	Scenario string  `yaml:"scenario"`
	DtMs     int     `yaml:"dt_ms"`
	Speed    float64 `yaml:"speed"`
	Cycles   int     `yaml:"cycles"`

	MaxHistory         int `yaml:"max_history"`
	CheckpointInterval int `yaml:"checkpoint_interval"`
	ChunkSize          int `yaml:"chunk_size"`

	Biome         string               `yaml:"biome"`
	Accessibility engine.Accessibility `yaml:"accessibility"`

	// Overrides pins named sensor channels to fixed values, replacing the
	// scenario output for those channels.
	Overrides map[string]float64 `yaml:"overrides"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:               DefaultSeed,
		Scenario:           DefaultScenario,
		DtMs:               runner.DefaultDtMs,
		Speed:              1.0,
		Cycles:             DefaultCycles,
		MaxHistory:         runner.DefaultMaxHistory,
		CheckpointInterval: runner.DefaultCheckpointInterval,
		ChunkSize:          runner.DefaultChunkSize,
		Biome:              engine.DefaultBiome,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RunnerConfig maps the file config onto the runner's reproducibility tuple.
func (c *Config) RunnerConfig() runner.Config {
	return runner.Config{
		SeedText:           c.Seed,
		Scenario:           c.Scenario,
		DtMs:               c.DtMs,
		Speed:              c.Speed,
		MaxHistory:         c.MaxHistory,
		CheckpointInterval: c.CheckpointInterval,
		ChunkSize:          c.ChunkSize,
	}
}

// Settings builds the bridge settings carried into each cycle, resolving the
// named overrides to channel indices.
func (c *Config) Settings() (bridge.Settings, error) {
	set := bridge.Settings{Biome: c.Biome, Access: c.Accessibility}
	if set.Biome == "" {
		set.Biome = engine.DefaultBiome
	}
	for name, v := range c.Overrides {
		i := sensors.Index(name)
		if i < 0 {
			return bridge.Settings{}, fmt.Errorf("unknown sensor channel %q in overrides", name)
		}
		set.Overrides[i] = v
		set.OverrideMask |= 1 << uint(i)
	}
	return set, nil
}
