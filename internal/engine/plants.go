package engine

import "github.com/verdantlab/verdant/internal/sensors"

// Plant weight indices, canonical order. Consumers index the selection by
// this order; it is never compacted or sorted.
const (
	PlantVeins = iota
	PlantMargins
	PlantChlorophyll
	PlantCellWalls
	PlantMoss
	PlantRoots
	PlantSenescence

	PlantCount
)

// PlantNames holds the canonical plant-weight names.
var PlantNames = [PlantCount]string{
	"veins", "margins", "chlorophyll", "cellWalls", "moss", "roots", "senescence",
}

// activeThreshold is the minimum raw weight for a plant system to compete
// for one of the three active slots.
const activeThreshold = 0.12

// PlantWeights are the raw derived weights, clamped to [0,1].
type PlantWeights [PlantCount]float64

// PlantEntry is one plant system in the exposed selection.
type PlantEntry struct {
	Name   string
	Weight float64
	Active bool
}

// PlantSelection keeps all seven entries in canonical order; inactive ones
// carry weight 0 rather than being removed.
type PlantSelection [PlantCount]PlantEntry

// derivePlantWeights computes the seven raw weights from channels and
// smoothed sensors.
func derivePlantWeights(ch Channels, s sensors.Vector, stress float64) PlantWeights {
	var w PlantWeights
	w[PlantVeins] = clamp01(0.50*ch.A + 0.30*s[sensors.Mobility] + 0.20*ch.B)
	w[PlantMargins] = clamp01(0.40*s[sensors.Wind] + 0.30*ch.T + 0.30*s[sensors.AttentionFrag])
	w[PlantChlorophyll] = clamp01(0.60*s[sensors.Light] + 0.25*s[sensors.GreenExposureProxy] + 0.15*ch.A)
	w[PlantCellWalls] = clamp01(0.50*s[sensors.TempStress] + 0.30*ch.S + 0.20*s[sensors.Wind])
	w[PlantMoss] = clamp01(0.50*s[sensors.Humidity] + 0.30*s[sensors.Precipitation] + 0.20*s[sensors.NightTime])
	w[PlantRoots] = clamp01(0.40*(1-s[sensors.Mobility]) + 0.30*ch.A + 0.30*s[sensors.LowTouchRate])
	w[PlantSenescence] = clamp01(0.50*stress + 0.30*ch.S + 0.20*(1-s[sensors.Light]))
	return w
}

// selectTop3 marks the three largest weights above the active threshold and
// renormalizes them to sum to 1. Everything else is reported inactive with
// weight 0. Order stays canonical.
func selectTop3(raw PlantWeights) PlantSelection {
	var sel PlantSelection
	for i := range sel {
		sel[i] = PlantEntry{Name: PlantNames[i]}
	}

	// Pick the three largest actives. Ties break toward the lower index,
	// which keeps selection deterministic.
	chosen := [3]int{-1, -1, -1}
	for slot := 0; slot < 3; slot++ {
		best := -1
		for i := 0; i < PlantCount; i++ {
			if raw[i] <= activeThreshold || taken(chosen, i) {
				continue
			}
			if best == -1 || raw[i] > raw[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		chosen[slot] = best
	}

	var sum float64
	for _, i := range chosen {
		if i >= 0 {
			sum += raw[i]
		}
	}
	if sum <= 0 {
		return sel
	}
	for _, i := range chosen {
		if i >= 0 {
			sel[i].Active = true
			sel[i].Weight = raw[i] / sum
		}
	}
	return sel
}

func taken(chosen [3]int, i int) bool {
	return chosen[0] == i || chosen[1] == i || chosen[2] == i
}
