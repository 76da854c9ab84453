package config

import (
	_ "embed"
)

//go:embed defaults/crabmix.yaml
var defaultCrabmixYAML []byte

// DefaultCrabmixConfig returns the default configuration.
func DefaultCrabmixConfig() CrabmixConfig {
	return CrabmixConfig{
		Engine: EngineConfig{
			MaxRounds: 8,
			Brighten:  1.2,
			Darken:    0.8,
		},
		Crab: CrabConfig{
			Tolerance:       0.25,
			ContentPoints:   40,
			DelightedPoints: 80,
			Cravings: []string{
				"128,0,128",   // purple
				"128,64,0",    // orange
				"0,128,0",     // green
				"204,0,0",     // dark red
				"255,255,128", // pale yellow
			},
		},
		Palette: []PaletteEntry{
			{Name: "red", Color: "255,0,0"},
			{Name: "yellow", Color: "255,255,0"},
			{Name: "blue", Color: "0,0,255"},
			{Name: "white", Color: "255,255,255"},
			{Name: "black", Color: "0,0,0"},
		},
		SSH: SSHConfig{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKeyPath: ".ssh/crabmix_ed25519",
			IdleMinutes: 30,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 1000,
			},
			Scaling: ScalingConfig{
				ToleranceReduction: 0.5,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultCrabmixYAML
}
