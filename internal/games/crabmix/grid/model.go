// Package grid implements the factory grid: components wired together by
// ports, and the propagation engine that computes the color at every port.
// This package is UI-agnostic and deterministic.
package grid

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vovakirdan/crabmix/internal/pigment"
)

// ComponentID identifies a component within a session. IDs are never reused.
type ComponentID int

// PortID identifies a port within its component (its index in Ports).
type PortID int

// Kind is the type of a grid component.
type Kind uint8

const (
	KindFactory Kind = iota
	KindAdder
	KindGradientor
	KindStorage
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindFactory:
		return "factory"
	case KindAdder:
		return "adder"
	case KindGradientor:
		return "gradientor"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Prefix returns the single letter used in component labels.
func (k Kind) Prefix() string {
	switch k {
	case KindFactory:
		return "F"
	case KindAdder:
		return "A"
	case KindGradientor:
		return "G"
	case KindStorage:
		return "S"
	default:
		return "?"
	}
}

// ParseKind converts a string to a Kind.
// Returns KindFactory and false if the string is not recognized.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "factory", "f":
		return KindFactory, true
	case "adder", "a":
		return KindAdder, true
	case "gradientor", "g":
		return KindGradientor, true
	case "storage", "s":
		return KindStorage, true
	default:
		return KindFactory, false
	}
}

// Role determines which side of a connection a port may take.
type Role uint8

const (
	RoleInput Role = iota
	RoleOutput
	RoleFlex
)

// String returns the string representation of a role.
func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleFlex:
		return "flex"
	default:
		return "unknown"
	}
}

// Port arity per kind.
const (
	FactoryOutputs = 4
	StorageSlots   = 6
)

// Adder and gradientor port layout.
const (
	AdderInputA PortID = 0
	AdderInputB PortID = 1
	AdderOutput PortID = 2

	GradientorInput  PortID = 0
	GradientorOutput PortID = 1
)

// PortRef addresses a port across the whole session.
type PortRef struct {
	Component ComponentID
	Port      PortID
}

// Ref is a shorthand for building a PortRef.
func Ref(c ComponentID, p PortID) PortRef {
	return PortRef{Component: c, Port: p}
}

// String returns "component:port".
func (r PortRef) String() string {
	return fmt.Sprintf("%d:%d", r.Component, r.Port)
}

// Port is a connection point owned by a component.
type Port struct {
	ID        PortID
	Component ComponentID
	Role      Role
	Name      string // Short display name ("in A", "out", "s3")
}

// Ref returns the session-wide reference to this port.
func (p Port) Ref() PortRef {
	return PortRef{Component: p.Component, Port: p.ID}
}

// Position is a component's tile on the board. It never affects propagation.
type Position struct {
	Col int
	Row int
}

// Component is a node of the factory grid.
type Component struct {
	ID       ComponentID
	Kind     Kind
	Label    string
	Color    pigment.Color // Factory only
	Mode     pigment.Mode  // Gradientor only
	Ports    []Port
	Stored   map[PortID]pigment.Paint // Storage only: held color per slot
	Position Position
}

// Port returns the port with the given id.
func (c *Component) Port(id PortID) (Port, bool) {
	if id < 0 || int(id) >= len(c.Ports) {
		return Port{}, false
	}
	return c.Ports[id], true
}

// PortsWithRole returns the component's ports of the given role in order.
func (c *Component) PortsWithRole(role Role) []Port {
	ports := make([]Port, 0, len(c.Ports))
	for _, p := range c.Ports {
		if p.Role == role {
			ports = append(ports, p)
		}
	}
	return ports
}

// Held returns the color a storage slot currently holds.
func (c *Component) Held(id PortID) pigment.Paint {
	if c.Stored == nil {
		return pigment.None()
	}
	return c.Stored[id]
}

// clone returns a deep copy safe to hand out of the session.
func (c *Component) clone() Component {
	out := *c
	out.Ports = slices.Clone(c.Ports)
	if c.Stored != nil {
		out.Stored = maps.Clone(c.Stored)
	}
	return out
}

// Connection is a directed link: From is the color source, To the sink.
type Connection struct {
	From PortRef
	To   PortRef
}

// String returns "from -> to".
func (c Connection) String() string {
	return c.From.String() + " -> " + c.To.String()
}

// Touches reports whether either endpoint belongs to the component.
func (c Connection) Touches(id ComponentID) bool {
	return c.From.Component == id || c.To.Component == id
}

// buildPorts pre-populates the role-appropriate ports for a kind.
func buildPorts(id ComponentID, kind Kind) []Port {
	port := func(n int, role Role, name string) Port {
		return Port{ID: PortID(n), Component: id, Role: role, Name: name}
	}

	switch kind {
	case KindFactory:
		ports := make([]Port, FactoryOutputs)
		for i := range ports {
			ports[i] = port(i, RoleOutput, fmt.Sprintf("out%d", i+1))
		}
		return ports
	case KindAdder:
		return []Port{
			port(int(AdderInputA), RoleInput, "in A"),
			port(int(AdderInputB), RoleInput, "in B"),
			port(int(AdderOutput), RoleOutput, "out"),
		}
	case KindGradientor:
		return []Port{
			port(int(GradientorInput), RoleInput, "in"),
			port(int(GradientorOutput), RoleOutput, "out"),
		}
	case KindStorage:
		ports := make([]Port, StorageSlots)
		for i := range ports {
			ports[i] = port(i, RoleFlex, fmt.Sprintf("s%d", i+1))
		}
		return ports
	default:
		return nil
	}
}
