// Package blueprints provides puzzle loading for crabmix. A blueprint is a
// starting grid plus the color the crab craves. Blueprints are built into a
// grid.Session through its public API, so every link passes the resolver.
package blueprints

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/crabmix/internal/games/crabmix/grid"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

var (
	// ErrNotFound is returned when no blueprint has the requested ID.
	ErrNotFound = errors.New("blueprints: not found")
	// ErrRejected is returned when a blueprint link is refused by the grid.
	ErrRejected = errors.New("blueprints: connection rejected")
)

// Blueprint is a parsed puzzle ready to apply.
type Blueprint struct {
	ID          string
	Name        string
	Description string
	Craving     pigment.Paint // Absent lets the crab pick
	Components  []ComponentSpec
	Links       []LinkSpec
	Source      string // File the blueprint was read from
}

// ComponentSpec describes one component to create.
type ComponentSpec struct {
	Label    string
	Kind     grid.Kind
	Color    pigment.Paint
	Mode     pigment.Mode
	Position *grid.Position
	Stored   map[grid.PortID]pigment.Color
}

// Endpoint names a port by component label and port index or name.
type Endpoint struct {
	Label string
	Port  string
}

// String returns "label:port".
func (e Endpoint) String() string {
	return e.Label + ":" + e.Port
}

// LinkSpec is a connection in selection order.
type LinkSpec struct {
	A Endpoint
	B Endpoint
}

// ParseEndpoint parses "label:port".
func ParseEndpoint(s string) (Endpoint, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return Endpoint{}, fmt.Errorf("blueprints: invalid endpoint %q: want label:port", s)
	}
	return Endpoint{Label: strings.TrimSpace(s[:i]), Port: strings.TrimSpace(s[i+1:])}, nil
}

// Apply creates the blueprint's components and links in s and returns the
// created component IDs by label. The session is not reset first.
func (b Blueprint) Apply(s *grid.Session) (map[string]grid.ComponentID, error) {
	ids := make(map[string]grid.ComponentID, len(b.Components))

	for _, spec := range b.Components {
		c, err := s.CreateComponent(spec.Kind, grid.ComponentOptions{
			Label:    spec.Label,
			Color:    spec.Color,
			Mode:     spec.Mode,
			Position: spec.Position,
			Stored:   spec.Stored,
		})
		if err != nil {
			return ids, fmt.Errorf("blueprints: %s: component %s: %w", b.ID, spec.Label, err)
		}
		ids[spec.Label] = c.ID
	}

	for _, link := range b.Links {
		a, err := resolve(s, ids, link.A)
		if err != nil {
			return ids, fmt.Errorf("blueprints: %s: %w", b.ID, err)
		}
		z, err := resolve(s, ids, link.B)
		if err != nil {
			return ids, fmt.Errorf("blueprints: %s: %w", b.ID, err)
		}
		if _, ok := s.TryConnect(a, z); !ok {
			return ids, fmt.Errorf("%w: %s: %s - %s", ErrRejected, b.ID, link.A, link.B)
		}
	}
	return ids, nil
}

// resolve maps an endpoint to a port reference. Ports match by index or by
// name with spaces ignored ("inA" matches "in A").
func resolve(s *grid.Session, ids map[string]grid.ComponentID, e Endpoint) (grid.PortRef, error) {
	id, ok := ids[e.Label]
	if !ok {
		return grid.PortRef{}, fmt.Errorf("unknown component %q", e.Label)
	}
	c, ok := s.Component(id)
	if !ok {
		return grid.PortRef{}, fmt.Errorf("unknown component %q", e.Label)
	}

	if n, err := strconv.Atoi(e.Port); err == nil {
		if _, ok := c.Port(grid.PortID(n)); ok {
			return grid.Ref(id, grid.PortID(n)), nil
		}
		return grid.PortRef{}, fmt.Errorf("component %q has no port %d", e.Label, n)
	}

	want := normalize(e.Port)
	for _, p := range c.Ports {
		if normalize(p.Name) == want {
			return p.Ref(), nil
		}
	}
	return grid.PortRef{}, fmt.Errorf("component %q has no port %q", e.Label, e.Port)
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
