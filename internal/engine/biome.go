package engine

// BiomeTuning offsets the color and surface output per biome. Values are
// additive biases except Saturation/Roughness/Subsurface, which are baseline
// levels the uniform formulas modulate.
type BiomeTuning struct {
	TempShift  float64
	GreenBias  float64
	BlueBias   float64
	Saturation float64
	Roughness  float64
	Subsurface float64
}

// DefaultBiome is used when a config names no biome or an unknown one.
const DefaultBiome = "temperate-forest"

var biomes = map[string]BiomeTuning{
	"temperate-forest": {TempShift: 0.0, GreenBias: 0.12, BlueBias: 0.02, Saturation: 0.75, Roughness: 0.45, Subsurface: 0.35},
	"desert":           {TempShift: 0.25, GreenBias: -0.08, BlueBias: -0.05, Saturation: 0.6, Roughness: 0.7, Subsurface: 0.15},
	"tundra":           {TempShift: -0.3, GreenBias: -0.04, BlueBias: 0.15, Saturation: 0.5, Roughness: 0.55, Subsurface: 0.25},
	"wetland":          {TempShift: -0.05, GreenBias: 0.08, BlueBias: 0.1, Saturation: 0.7, Roughness: 0.3, Subsurface: 0.5},
	"urban":            {TempShift: 0.1, GreenBias: -0.1, BlueBias: 0.05, Saturation: 0.55, Roughness: 0.8, Subsurface: 0.1},
}

// TuningFor resolves a biome name, falling back to the default biome.
func TuningFor(name string) BiomeTuning {
	if t, ok := biomes[name]; ok {
		return t
	}
	return biomes[DefaultBiome]
}

// BiomeNames lists the known biomes in a fixed order for CLI listings.
func BiomeNames() []string {
	return []string{"temperate-forest", "desert", "tundra", "wetland", "urban"}
}
