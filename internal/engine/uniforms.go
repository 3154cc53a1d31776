package engine

import (
	"math"

	"github.com/verdantlab/verdant/internal/sensors"
)

// Uniforms is the flat record of named scalars handed to the renderer. The
// field names (via the json tags) and their clamp ranges are the
// compatibility surface with the shader side; changing either requires a
// coordinated renderer update.
type Uniforms struct {
	UTime      float64 `json:"u_time"`
	UTimeScale float64 `json:"u_timeScale"`
	UPhase     float64 `json:"u_phase"`
	UVitality  float64 `json:"u_vitality"`
	UStress    float64 `json:"u_stress"`

	UChannelA float64 `json:"u_channelA"`
	UChannelB float64 `json:"u_channelB"`
	UChannelS float64 `json:"u_channelS"`
	UChannelT float64 `json:"u_channelT"`

	UNoiseAmp     float64 `json:"u_noiseAmp"`
	UNoiseFreq    float64 `json:"u_noiseFreq"`
	UNoiseOctaves float64 `json:"u_noiseOctaves"`
	UDisplacement float64 `json:"u_displacement"`
	UGrainAmp     float64 `json:"u_grainAmp"`

	USwayAmp    float64 `json:"u_swayAmp"`
	USwayFreq   float64 `json:"u_swayFreq"`
	UCurlAmount float64 `json:"u_curlAmount"`

	UPulseRate      float64 `json:"u_pulseRate"`
	UPulseAmp       float64 `json:"u_pulseAmp"`
	UPulseSharpness float64 `json:"u_pulseSharpness"`
	UBreathDepth    float64 `json:"u_breathDepth"`
	UBreathRate     float64 `json:"u_breathRate"`

	UVeinDensity   float64 `json:"u_veinDensity"`
	UVeinThickness float64 `json:"u_veinThickness"`
	UVeinGlow      float64 `json:"u_veinGlow"`
	UBranchDensity float64 `json:"u_branchDensity"`

	UMyceliumDensity float64 `json:"u_myceliumDensity"`
	UMyceliumReach   float64 `json:"u_myceliumReach"`
	ULichenDensity   float64 `json:"u_lichenDensity"`
	ULichenPatch     float64 `json:"u_lichenPatch"`
	UMossCover       float64 `json:"u_mossCover"`
	URootSpread      float64 `json:"u_rootSpread"`

	UMarginSerration  float64 `json:"u_marginSerration"`
	UCellWallHardness float64 `json:"u_cellWallHardness"`
	UChlorophyll      float64 `json:"u_chlorophyll"`
	USenescence       float64 `json:"u_senescence"`
	UBudProbability   float64 `json:"u_budProbability"`
	UPetalSpread      float64 `json:"u_petalSpread"`

	UColorShiftWarm float64 `json:"u_colorShiftWarm"`
	UColorShiftCool float64 `json:"u_colorShiftCool"`
	UGreenBias      float64 `json:"u_greenBias"`
	UBlueBias       float64 `json:"u_blueBias"`
	USaturation     float64 `json:"u_saturation"`
	URoughness      float64 `json:"u_roughness"`
	USubsurface     float64 `json:"u_subsurface"`

	UFractureIntensity float64 `json:"u_fractureIntensity"`
	UFractureChroma    float64 `json:"u_fractureChroma"`
	UFractureSpread    float64 `json:"u_fractureSpread"`
	UFractureSeed      float64 `json:"u_fractureSeed"`
	UHealTimeS         float64 `json:"u_healTime_s"`

	UGlowStrength float64 `json:"u_glowStrength"`
	UShadowDepth  float64 `json:"u_shadowDepth"`
	UEdgeFade     float64 `json:"u_edgeFade"`
	UStormFlicker float64 `json:"u_stormFlicker"`
	UNightDim     float64 `json:"u_nightDim"`
}

// healTimeFor is the fracture decay half-life. Healthier organisms close
// ruptures faster.
func healTimeFor(vitality float64) float64 {
	return clampRange(4.5-2.5*vitality, 1.5, 4.0)
}

// synthesizeUniforms builds the full renderer parameter set for one cycle.
// Each formula's input set and clamp bounds are fixed contract; the biome
// tuning and accessibility flags only act where noted.
func synthesizeUniforms(st State, ch Channels, raw PlantWeights, sel PlantSelection, stress, vitality float64, tune BiomeTuning, access Accessibility) Uniforms {
	fr := st.FractureIntensity

	u := Uniforms{
		UTime:     st.Time,
		UPhase:    math.Mod(st.Time*0.25, 2*math.Pi),
		UVitality: vitality,
		UStress:   stress,

		UChannelA: ch.A,
		UChannelB: ch.B,
		UChannelS: ch.S,
		UChannelT: ch.T,

		UNoiseAmp:     clampRange(0.1+0.5*stress+0.2*fr, 0.1, 0.8),
		UNoiseFreq:    clampRange(1.5+3.0*ch.T, 1.5, 4.5),
		UNoiseOctaves: clampRange(2+3*ch.S, 2, 5),
		UGrainAmp:     clampRange(0.05+0.25*ch.T, 0.05, 0.3),

		UPulseRate:      clampRange(0.4+1.6*stress, 0.4, 2.0),
		UPulseSharpness: clampRange(1+4*ch.T, 1, 5),
		UBreathDepth:    clampRange(0.05+0.25*vitality, 0.05, 0.3),
		UBreathRate:     clampRange(0.15+0.35*vitality, 0.15, 0.5),

		UVeinDensity:   clampRange(0.2+0.8*selWeight(sel, PlantVeins)+0.2*ch.A, 0.2, 1.2),
		UVeinThickness: clampRange(0.3+0.5*raw[PlantVeins], 0.3, 0.8),
		UVeinGlow:      clampRange(0.1+0.6*vitality*selWeight(sel, PlantVeins), 0.1, 0.7),
		UBranchDensity: clampRange(0.2+0.6*ch.A+0.2*raw[PlantVeins], 0.2, 1.0),

		UMyceliumDensity: clampRange(0.1+0.7*selWeight(sel, PlantRoots)+0.2*ch.B, 0.1, 1.0),
		UMyceliumReach:   clampRange(0.2+0.6*raw[PlantRoots], 0.2, 0.8),
		ULichenDensity:   clampRange(0.05+0.6*selWeight(sel, PlantMoss)*ch.S, 0.05, 0.65),
		ULichenPatch:     clampRange(0.2+0.5*raw[PlantMoss], 0.2, 0.7),
		UMossCover:       clampRange(raw[PlantMoss], 0, 1),
		URootSpread:      clampRange(0.2+0.8*raw[PlantRoots], 0.2, 1.0),

		UMarginSerration:  clampRange(raw[PlantMargins], 0, 1),
		UCellWallHardness: clampRange(0.2+0.8*raw[PlantCellWalls], 0.2, 1.0),
		UChlorophyll:      clampRange(raw[PlantChlorophyll]*(1-0.5*raw[PlantSenescence]), 0, 1),
		USenescence:       clampRange(raw[PlantSenescence], 0, 1),
		UBudProbability:   clampRange(0.4*vitality*ch.A*(1-stress), 0, 0.4),
		UPetalSpread:      clampRange(0.3+0.7*vitality*ch.B, 0.3, 1.0),

		UColorShiftWarm: clampRange(tune.TempShift+0.3*stress, -0.5, 0.8),
		UColorShiftCool: clampRange(tune.BlueBias+0.25*(1-stress)-0.5*tune.TempShift, -0.5, 0.8),
		UGreenBias:      clampRange(tune.GreenBias+0.2*raw[PlantChlorophyll], -0.3, 0.4),
		UBlueBias:       clampRange(tune.BlueBias+0.15*ch.S, -0.3, 0.4),
		USaturation:     clampRange(tune.Saturation*(0.6+0.4*vitality), 0.1, 1.0),
		URoughness:      clampRange(tune.Roughness+0.3*stress, 0.1, 1.0),
		USubsurface:     clampRange(tune.Subsurface*(0.5+0.5*vitality), 0.05, 0.8),

		UFractureIntensity: clampRange(fr, 0, 1),
		UFractureChroma:    clampRange(0.6*fr+0.2*ch.T, 0, 0.8),
		UFractureSpread:    clampRange(0.3+0.5*fr, 0.3, 0.8),
		UFractureSeed:      st.FractureSeed,
		UHealTimeS:         healTimeFor(vitality),

		UGlowStrength: clampRange(0.2+0.5*vitality-0.2*stress, 0.05, 0.7),
		UShadowDepth:  clampRange(0.3+0.5*stress, 0.3, 0.8),
		UEdgeFade:     clampRange(0.1+0.3*(1-vitality), 0.1, 0.4),
		UStormFlicker: clampRange(ch.S*ch.S, 0, 1),
		UNightDim:     clampRange(1-0.6*st.Smoothed[sensors.NightTime], 0.4, 1),
	}

	// Motion amplitudes derive from wind/vitality before accessibility caps.
	u.UTimeScale = clampRange(0.6+0.8*vitality, 0.6, 1.4)
	u.UDisplacement = clampRange(0.1+0.4*stress+0.4*fr, 0.1, 0.9)
	u.USwayAmp = clampRange(0.05+0.4*st.Smoothed[sensors.Wind], 0.05, 0.45)
	u.USwayFreq = clampRange(0.3+1.2*st.Smoothed[sensors.Wind], 0.3, 1.5)
	u.UCurlAmount = clampRange(0.1+0.5*ch.B, 0.1, 0.6)
	u.UPulseAmp = clampRange(0.1+0.5*stress+0.3*fr, 0.1, 0.9)

	if access.ReducedMotion {
		u.UTimeScale = math.Min(u.UTimeScale, 0.8)
		u.UDisplacement = math.Min(u.UDisplacement, 0.25)
		u.USwayAmp = math.Min(u.USwayAmp, 0.15)
		u.UCurlAmount = math.Min(u.UCurlAmount, 0.2)
	}
	if access.PhotosensitivitySafe {
		u.UPulseAmp = math.Min(u.UPulseAmp, 0.2)
		u.UPulseRate = math.Min(u.UPulseRate, 0.8)
		u.UStormFlicker = math.Min(u.UStormFlicker, 0.15)
		u.UFractureChroma = math.Min(u.UFractureChroma, 0.25)
	}
	if access.ColorAgnostic {
		u.UColorShiftWarm = 0
		u.UColorShiftCool = 0
		u.UGreenBias = 0
		u.UBlueBias = 0
		u.UFractureChroma = 0
		u.USaturation = math.Min(u.USaturation, 0.25)
	}

	return u
}

func selWeight(sel PlantSelection, i int) float64 { return sel[i].Weight }
