package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg CrabmixConfig
	if err := yaml.Unmarshal(GetDefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if want := DefaultCrabmixConfig(); !reflect.DeepEqual(cfg, want) {
		t.Errorf("embedded defaults = %+v, want %+v", cfg, want)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("engine:\n  max_rounds: 3\ncrab:\n  tolerance: 0.1\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.MaxRounds != 3 {
		t.Errorf("MaxRounds = %d, want 3", cfg.Engine.MaxRounds)
	}
	if cfg.Crab.Tolerance != 0.1 {
		t.Errorf("Tolerance = %v, want 0.1", cfg.Crab.Tolerance)
	}
	if cfg.Engine.Darken != 0.8 {
		t.Errorf("Darken = %v, want default 0.8", cfg.Engine.Darken)
	}
	if len(cfg.Palette) != 5 {
		t.Errorf("Palette len = %d, want defaults kept", len(cfg.Palette))
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir) // keep a real user config out of the way

	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	data := []byte("ssh:\n  port: 4444\n")
	if err := os.WriteFile(filepath.Join(dir, "configs", FileName), data, 0o644); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SSH.Port != 4444 {
		t.Errorf("SSH.Port = %d, want 4444", cfg.SSH.Port)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset        DifficultyPreset
		wantEnabled   bool
		wantLevel     float64
		wantTolerance float64
	}{
		{DifficultyEasy, true, 0.0, 0.35},
		{DifficultyNormal, true, 0.3, 0.25},
		{DifficultyHard, true, 0.7, 0.15},
		{DifficultyFixed, false, 0.0, 0.25},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultCrabmixConfig()
			ApplyPreset(&cfg, tt.preset)
			if cfg.Difficulty.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", cfg.Difficulty.Enabled, tt.wantEnabled)
			}
			if cfg.Difficulty.InitialLevel != tt.wantLevel {
				t.Errorf("InitialLevel = %v, want %v", cfg.Difficulty.InitialLevel, tt.wantLevel)
			}
			if cfg.Crab.Tolerance != tt.wantTolerance {
				t.Errorf("Tolerance = %v, want %v", cfg.Crab.Tolerance, tt.wantTolerance)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		ok   bool
	}{
		{"", DifficultyNormal, true},
		{"easy", DifficultyEasy, true},
		{"fixed", DifficultyFixed, true},
		{"nightmare", DifficultyNormal, false},
	}
	for _, tt := range tests {
		got, ok := ParsePreset(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePreset(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{ToleranceReduction: 0.5},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		score int
		want  float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tt := range tests {
		if got := d.Level(tt.score, 0); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Level(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}

	d.SetEnabled(false)
	if got := d.Level(100, 0); got != 0.2 {
		t.Errorf("disabled Level = %v, want initial 0.2", got)
	}
}

func TestDifficultyFeedingsProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "feedings", MaxAt: 10},
	})
	if got := d.Level(9999, 5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Level = %v, want 0.5", got)
	}
}

func TestDifficultyTolerance(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{ToleranceReduction: 0.5},
	})

	if got := d.Tolerance(0.2, 0, 0); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Tolerance at start = %v, want 0.2", got)
	}
	if got := d.Tolerance(0.2, 100, 0); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Tolerance at max = %v, want 0.1", got)
	}
}
