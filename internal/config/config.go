// Package config provides YAML-based configuration loading and difficulty
// management for crabmix.
package config

// CrabmixConfig contains all configuration for the game.
type CrabmixConfig struct {
	Engine     EngineConfig     `yaml:"engine"`
	Crab       CrabConfig       `yaml:"crab"`
	Palette    []PaletteEntry   `yaml:"palette"`
	SSH        SSHConfig        `yaml:"ssh"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// EngineConfig defines propagation and mixing parameters.
type EngineConfig struct {
	MaxRounds int     `yaml:"max_rounds"` // Propagation round budget
	Brighten  float64 `yaml:"brighten"`   // Gradientor factor, > 1
	Darken    float64 `yaml:"darken"`     // Gradientor factor, < 1
}

// CrabConfig defines how the crab judges what it is fed.
type CrabConfig struct {
	Tolerance       float64  `yaml:"tolerance"`        // CIEDE2000 distance that scores zero
	ContentPoints   int      `yaml:"content_points"`   // Points needed for a content crab
	DelightedPoints int      `yaml:"delighted_points"` // Points needed for a delighted crab
	Cravings        []string `yaml:"cravings"`         // Palette names, "#rrggbb" or "r,g,b"
}

// PaletteEntry is one factory color the player can place.
type PaletteEntry struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"` // "#rrggbb" or "r,g,b"
}

// SSHConfig defines the SSH workshop server.
type SSHConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
	IdleMinutes int    `yaml:"idle_minutes"` // 0 disables the idle timeout
}

// DifficultyConfig defines how the crab gets pickier as the player scores.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "feedings", or "none"
	MaxAt int    `yaml:"max_at"` // Score/feedings at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	ToleranceReduction float64 `yaml:"tolerance_reduction"` // Fraction of tolerance removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return DifficultyNormal, false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
