package blueprints

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/crabmix/internal/games/crabmix/grid"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

// YAMLBlueprint represents the YAML structure for a blueprint file.
type YAMLBlueprint struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Craving     string          `yaml:"craving,omitempty"`
	Components  []YAMLComponent `yaml:"components"`
	Links       []YAMLLink      `yaml:"links,omitempty"`
}

// YAMLComponent represents a component in YAML format.
type YAMLComponent struct {
	Label  string            `yaml:"label"`
	Kind   string            `yaml:"kind"`
	Color  string            `yaml:"color,omitempty"` // Factory
	Mode   string            `yaml:"mode,omitempty"`  // Gradientor
	At     *YAMLPosition     `yaml:"at,omitempty"`
	Stored map[string]string `yaml:"stored,omitempty"` // Storage slot -> color
}

// YAMLPosition represents a board tile.
type YAMLPosition struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

// YAMLLink represents a connection as two "label:port" endpoints.
type YAMLLink struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// ParseYAML parses a YAML blueprint file.
func ParseYAML(data []byte) (Blueprint, error) {
	var yb YAMLBlueprint
	if err := yaml.Unmarshal(data, &yb); err != nil {
		return Blueprint{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yb.ID == "" {
		return Blueprint{}, errors.New("blueprint has no id")
	}

	bp := Blueprint{
		ID:          yb.ID,
		Name:        yb.Name,
		Description: yb.Description,
	}
	if bp.Name == "" {
		bp.Name = yb.ID
	}

	if yb.Craving != "" {
		c, err := pigment.Parse(yb.Craving)
		if err != nil {
			return Blueprint{}, fmt.Errorf("%s: craving: %w", yb.ID, err)
		}
		bp.Craving = pigment.Of(c)
	}

	seen := make(map[string]bool, len(yb.Components))
	tiles := make(map[grid.Position]string)
	for i, yc := range yb.Components {
		spec, err := parseComponent(yc)
		if err != nil {
			return Blueprint{}, fmt.Errorf("%s: component %d: %w", yb.ID, i, err)
		}
		if seen[spec.Label] {
			return Blueprint{}, fmt.Errorf("%s: duplicate label %q", yb.ID, spec.Label)
		}
		seen[spec.Label] = true
		if spec.Position != nil {
			if other, taken := tiles[*spec.Position]; taken {
				return Blueprint{}, fmt.Errorf("%s: %s and %s share tile %d,%d",
					yb.ID, other, spec.Label, spec.Position.Col, spec.Position.Row)
			}
			tiles[*spec.Position] = spec.Label
		}
		bp.Components = append(bp.Components, spec)
	}

	for i, yl := range yb.Links {
		a, err := ParseEndpoint(yl.A)
		if err != nil {
			return Blueprint{}, fmt.Errorf("%s: link %d: %w", yb.ID, i, err)
		}
		b, err := ParseEndpoint(yl.B)
		if err != nil {
			return Blueprint{}, fmt.Errorf("%s: link %d: %w", yb.ID, i, err)
		}
		if !seen[a.Label] || !seen[b.Label] {
			return Blueprint{}, fmt.Errorf("%s: link %d: unknown component", yb.ID, i)
		}
		bp.Links = append(bp.Links, LinkSpec{A: a, B: b})
	}

	return bp, nil
}

func parseComponent(yc YAMLComponent) (ComponentSpec, error) {
	if yc.Label == "" {
		return ComponentSpec{}, errors.New("missing label")
	}
	kind, ok := grid.ParseKind(yc.Kind)
	if !ok {
		return ComponentSpec{}, fmt.Errorf("%s: unknown kind %q", yc.Label, yc.Kind)
	}

	spec := ComponentSpec{Label: yc.Label, Kind: kind}

	switch kind {
	case grid.KindFactory:
		c, err := pigment.Parse(yc.Color)
		if err != nil {
			return ComponentSpec{}, fmt.Errorf("%s: %w", yc.Label, err)
		}
		spec.Color = pigment.Of(c)
	case grid.KindGradientor:
		if yc.Mode != "" {
			m, ok := pigment.ParseMode(yc.Mode)
			if !ok {
				return ComponentSpec{}, fmt.Errorf("%s: unknown mode %q", yc.Label, yc.Mode)
			}
			spec.Mode = m
		}
	case grid.KindStorage:
		for slot, color := range yc.Stored {
			n, err := strconv.Atoi(slot)
			if err != nil || n < 0 || n >= grid.StorageSlots {
				return ComponentSpec{}, fmt.Errorf("%s: invalid slot %q", yc.Label, slot)
			}
			c, err := pigment.Parse(color)
			if err != nil {
				return ComponentSpec{}, fmt.Errorf("%s: slot %d: %w", yc.Label, n, err)
			}
			if spec.Stored == nil {
				spec.Stored = make(map[grid.PortID]pigment.Color)
			}
			spec.Stored[grid.PortID(n)] = c
		}
	}

	if yc.At != nil {
		spec.Position = &grid.Position{Col: yc.At.Col, Row: yc.At.Row}
	}
	return spec, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
