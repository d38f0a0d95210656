package config

import "sort"

// Presets are named tunings for the dial feel. "standard" is the zero
// preset: pure glass defaults.
var Presets = map[string]*Config{
	"standard": {
		Seed: DefaultSeed, FPS: DefaultFPS, Audio: true, Frames: DefaultFrames,
	},
	"fragile": {
		Seed: DefaultSeed, FPS: DefaultFPS, Audio: true, Frames: DefaultFrames,
		Tuning: Tuning{
			Increment:          0.02,
			BranchProb:         0.8,
			PropagateProb:      0.25,
			ShatterBurst:       120,
			HeavyBurst:         200,
			IdleTimeoutSeconds: 6,
		},
	},
	"tempered": {
		Seed: DefaultSeed, FPS: DefaultFPS, Audio: true, Frames: DefaultFrames,
		Tuning: Tuning{
			Increment:          0.004,
			BranchProb:         0.45,
			PropagateProb:      0.05,
			IdleTimeoutSeconds: 20,
			RecoverySpeed:      0.003,
		},
	},
	"demo": {
		Seed: DefaultSeed, FPS: DefaultFPS, Audio: true, Frames: 1800,
		Tuning: Tuning{
			Increment:          0.015,
			IdleTimeoutSeconds: 3,
			RecoverySpeed:      0.01,
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
