package grid

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/crabmix/internal/pigment"
)

// DefaultMaxRounds bounds propagation so cyclic wiring always terminates.
const DefaultMaxRounds = 8

// BoardColumns is the number of tile columns used for automatic placement.
const BoardColumns = 4

var (
	// ErrUnknownKind is returned when creating a component of an unknown kind.
	ErrUnknownKind = errors.New("grid: unknown component kind")
	// ErrMissingColor is returned when creating a factory without a color.
	ErrMissingColor = errors.New("grid: factory requires a color")
)

// Mixer is the color service the engine consumes.
type Mixer interface {
	Mix(a, b pigment.Color) pigment.Color
	Adjust(p pigment.Paint, m pigment.Mode) pigment.Paint
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxRounds sets the propagation round budget. Values below 1 are ignored.
func WithMaxRounds(n int) Option {
	return func(s *Session) {
		if n >= 1 {
			s.maxRounds = n
		}
	}
}

// WithMixer sets the color service.
func WithMixer(m Mixer) Option {
	return func(s *Session) {
		if m != nil {
			s.mixer = m
		}
	}
}

// Session owns one factory grid: its components, connections and storage
// state. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	mixer     Mixer
	logger    *log.Logger
	maxRounds int

	components  map[ComponentID]*Component
	order       []ComponentID
	connections []Connection
	nextID      ComponentID
	last        Snapshot
}

// NewSession creates an empty grid.
func NewSession(opts ...Option) *Session {
	s := &Session{
		mixer:      pigment.DefaultPalette(),
		logger:     log.New(io.Discard),
		maxRounds:  DefaultMaxRounds,
		components: make(map[ComponentID]*Component),
		nextID:     1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.last = emptySnapshot()
	return s
}

// MaxRounds returns the propagation round budget.
func (s *Session) MaxRounds() int {
	return s.maxRounds
}

// ComponentOptions holds the kind-specific payload for CreateComponent.
type ComponentOptions struct {
	Label    string                   // Defaults to kind prefix + id ("F1")
	Color    pigment.Paint            // Factory: required
	Mode     pigment.Mode             // Gradientor
	Position *Position                // Nil or an occupied tile places the component on the first free tile
	Stored   map[PortID]pigment.Color // Storage: initially held colors
}

// CreateComponent adds a component with its role-appropriate ports.
func (s *Session) CreateComponent(kind Kind, opts ComponentOptions) (Component, error) {
	if kind > KindStorage {
		return Component{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	if kind == KindFactory && !opts.Color.Present {
		return Component{}, ErrMissingColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	c := &Component{
		ID:    id,
		Kind:  kind,
		Label: opts.Label,
		Ports: buildPorts(id, kind),
	}
	if c.Label == "" {
		c.Label = fmt.Sprintf("%s%d", kind.Prefix(), id)
	}

	switch kind {
	case KindFactory:
		c.Color = opts.Color.Color
	case KindGradientor:
		c.Mode = opts.Mode
	case KindStorage:
		c.Stored = make(map[PortID]pigment.Paint, StorageSlots)
		for port, color := range opts.Stored {
			if port >= 0 && int(port) < StorageSlots {
				c.Stored[port] = pigment.Of(color)
			}
		}
	}

	if opts.Position != nil && !s.occupied(*opts.Position) {
		c.Position = *opts.Position
	} else {
		c.Position = s.freeTile()
	}

	s.components[id] = c
	s.order = append(s.order, id)

	s.logger.Debug("component created", "id", id, "kind", kind, "label", c.Label)
	return c.clone(), nil
}

func (s *Session) occupied(p Position) bool {
	for _, c := range s.components {
		if c.Position == p {
			return true
		}
	}
	return false
}

// freeTile returns the first tile, row-major, not occupied by a component.
func (s *Session) freeTile() Position {
	used := make(map[Position]bool, len(s.components))
	for _, c := range s.components {
		used[c.Position] = true
	}
	for i := 0; ; i++ {
		p := Position{Col: i % BoardColumns, Row: i / BoardColumns}
		if !used[p] {
			return p
		}
	}
}

// Component returns a copy of the component with the given id.
func (s *Session) Component(id ComponentID) (Component, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.components[id]
	if !ok {
		return Component{}, false
	}
	return c.clone(), true
}

// ComponentByLabel returns the first component carrying the label.
func (s *Session) ComponentByLabel(label string) (Component, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if c := s.components[id]; c.Label == label {
			return c.clone(), true
		}
	}
	return Component{}, false
}

// Port looks up a port by reference.
func (s *Session) Port(ref PortRef) (Port, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port(ref)
}

func (s *Session) port(ref PortRef) (Port, bool) {
	c, ok := s.components[ref.Component]
	if !ok {
		return Port{}, false
	}
	return c.Port(ref.Port)
}

// Components returns copies of all components in insertion order.
func (s *Session) Components() []Component {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Component, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.components[id].clone())
	}
	return out
}

// Connections returns all connections in creation order.
func (s *Session) Connections() []Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.connections)
}

// Len returns the number of components.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// DeleteComponent removes a component and every connection touching it.
// Deleting an unknown id is a no-op and returns false.
func (s *Session) DeleteComponent(id ComponentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.components[id]; !ok {
		return false
	}
	delete(s.components, id)
	s.order = slices.DeleteFunc(s.order, func(other ComponentID) bool { return other == id })
	s.connections = slices.DeleteFunc(s.connections, func(c Connection) bool { return c.Touches(id) })

	s.logger.Debug("component deleted", "id", id)
	return true
}

// Move repositions a component on the board. Positions never affect colors.
func (s *Session) Move(id ComponentID, pos Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.components[id]
	if !ok {
		return false
	}
	c.Position = pos
	return true
}

// Disconnect removes one connection. Returns false if it does not exist.
func (s *Session) Disconnect(conn Connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.connections, conn)
	if i < 0 {
		return false
	}
	s.connections = slices.Delete(s.connections, i, i+1)
	return true
}

// DisconnectPort removes every connection with an endpoint at ref and
// returns how many were removed.
func (s *Session) DisconnectPort(ref PortRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.connections)
	s.connections = slices.DeleteFunc(s.connections, func(c Connection) bool {
		return c.From == ref || c.To == ref
	})
	return before - len(s.connections)
}

// Reset clears the grid back to the empty state. IDs keep increasing.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.components = make(map[ComponentID]*Component)
	s.order = nil
	s.connections = nil
	s.last = emptySnapshot()
	s.logger.Debug("grid reset")
}
