package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search directories.
const FileName = "crabmix.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.crabmix/configs/crabmix.yaml -> ./configs/crabmix.yaml -> embedded default
// Values missing from a file keep their defaults.
func Load(customPath string) (CrabmixConfig, error) {
	cfg := DefaultCrabmixConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if loaded, ok := tryFile(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryFile(filepath.Join("configs", FileName)); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultCrabmixYAML, &cfg); err != nil {
		return DefaultCrabmixConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryFile parses an optional config file. Unreadable or invalid files are skipped.
func tryFile(path string) (CrabmixConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CrabmixConfig{}, false
	}
	cfg := DefaultCrabmixConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CrabmixConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".crabmix", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *CrabmixConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the crab based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Crab.Tolerance = 0.35
		cfg.Crab.DelightedPoints = 70
	case DifficultyHard:
		cfg.Crab.Tolerance = 0.15
		cfg.Crab.DelightedPoints = 90
	}
}
