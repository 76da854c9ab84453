package grid

import (
	"maps"

	"github.com/vovakirdan/crabmix/internal/pigment"
)

// Snapshot is the result of one propagation. It is never mutated after
// Recompute returns it.
type Snapshot struct {
	PortColors      map[PortRef]pigment.Paint     // Every port of every component
	DisplayColors   map[ComponentID]pigment.Paint // Representative color per component
	StorageWarnings map[ComponentID]bool          // Storage lacking inbound or outbound traffic
	Rounds          int
	Converged       bool
}

func (s Snapshot) clone() Snapshot {
	s.PortColors = maps.Clone(s.PortColors)
	s.DisplayColors = maps.Clone(s.DisplayColors)
	s.StorageWarnings = maps.Clone(s.StorageWarnings)
	return s
}

func emptySnapshot() Snapshot {
	return Snapshot{
		PortColors:      map[PortRef]pigment.Paint{},
		DisplayColors:   map[ComponentID]pigment.Paint{},
		StorageWarnings: map[ComponentID]bool{},
		Converged:       true,
	}
}

// Color returns the paint at a port (absent for unknown ports).
func (s Snapshot) Color(ref PortRef) pigment.Paint {
	return s.PortColors[ref]
}

// HasColor reports whether a port currently carries a color.
func (s Snapshot) HasColor(ref PortRef) bool {
	return s.PortColors[ref].Present
}

// Display returns a component's representative color.
func (s Snapshot) Display(id ComponentID) pigment.Paint {
	return s.DisplayColors[id]
}

// Warned reports whether a storage component is flagged as idle.
func (s Snapshot) Warned(id ComponentID) bool {
	return s.StorageWarnings[id]
}

// phases is the evaluation order within a round.
var phases = [...]Kind{KindFactory, KindAdder, KindGradientor, KindStorage}

// Recompute propagates colors through the grid until a round changes
// nothing or the round budget runs out, updating storage held colors on the
// way. It never fails; non-convergence is logged and the last state is
// returned.
func (s *Session) Recompute() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	inbound := make(map[PortRef]PortRef, len(s.connections))
	for _, c := range s.connections {
		inbound[c.To] = c.From
	}

	p := &pass{
		session: s,
		inbound: inbound,
		outputs: make(map[PortRef]pigment.Paint),
	}

	rounds, converged := 0, false
	for rounds < s.maxRounds {
		rounds++
		p.changed = false
		for _, kind := range phases {
			for _, id := range s.order {
				if c := s.components[id]; c.Kind == kind {
					p.evaluate(c)
				}
			}
		}
		if !p.changed {
			converged = true
			break
		}
	}

	snap := s.snapshot(p.outputs, rounds, converged)
	if !converged {
		s.logger.Warn("propagation did not converge",
			"rounds", rounds,
			"components", len(s.order),
			"connections", len(s.connections))
	} else {
		s.logger.Debug("propagation converged", "rounds", rounds)
	}
	s.last = snap.clone()
	return snap
}

// Last returns the snapshot produced by the most recent Recompute.
func (s *Session) Last() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.clone()
}

// pass holds the state of one Recompute call.
type pass struct {
	session *Session
	inbound map[PortRef]PortRef // sink -> source
	outputs map[PortRef]pigment.Paint
	changed bool
}

// read returns the color arriving at a sink port. Unconnected ports and
// sources not yet emitted read as absent.
func (p *pass) read(ref PortRef) pigment.Paint {
	from, ok := p.inbound[ref]
	if !ok {
		return pigment.None()
	}
	return p.outputs[from]
}

func (p *pass) emit(ref PortRef, paint pigment.Paint) {
	if !p.outputs[ref].Equal(paint) {
		p.changed = true
	}
	p.outputs[ref] = paint
}

func (p *pass) evaluate(c *Component) {
	mixer := p.session.mixer

	switch c.Kind {
	case KindFactory:
		for _, port := range c.Ports {
			p.emit(port.Ref(), pigment.Of(c.Color))
		}

	case KindAdder:
		a := p.read(Ref(c.ID, AdderInputA))
		b := p.read(Ref(c.ID, AdderInputB))
		out := pigment.None()
		if a.Present && b.Present {
			out = pigment.Of(mixer.Mix(a.Color, b.Color))
		}
		for _, port := range c.PortsWithRole(RoleOutput) {
			p.emit(port.Ref(), out)
		}

	case KindGradientor:
		out := mixer.Adjust(p.read(Ref(c.ID, GradientorInput)), c.Mode)
		for _, port := range c.PortsWithRole(RoleOutput) {
			p.emit(port.Ref(), out)
		}

	case KindStorage:
		for _, port := range c.Ports {
			ref := port.Ref()
			if _, fed := p.inbound[ref]; fed {
				in := p.read(ref)
				if !c.Held(port.ID).Equal(in) {
					c.Stored[port.ID] = in
					p.changed = true
				}
			}
			p.emit(ref, c.Held(port.ID))
		}
	}
}

// snapshot derives the consumer views from the final output map.
func (s *Session) snapshot(outputs map[PortRef]pigment.Paint, rounds int, converged bool) Snapshot {
	snap := Snapshot{
		PortColors:      make(map[PortRef]pigment.Paint, len(outputs)),
		DisplayColors:   make(map[ComponentID]pigment.Paint, len(s.order)),
		StorageWarnings: make(map[ComponentID]bool),
		Rounds:          rounds,
		Converged:       converged,
	}

	inbound := make(map[PortRef]PortRef, len(s.connections))
	hasIn := make(map[ComponentID]bool)
	hasOut := make(map[ComponentID]bool)
	for _, c := range s.connections {
		inbound[c.To] = c.From
		hasIn[c.To.Component] = true
		hasOut[c.From.Component] = true
	}

	for _, id := range s.order {
		c := s.components[id]
		for _, port := range c.Ports {
			ref := port.Ref()
			paint, ok := outputs[ref]
			if !ok {
				// Input ports show what arrives at them.
				paint = pigment.None()
				if from, fed := inbound[ref]; fed {
					paint = outputs[from]
				}
			}
			snap.PortColors[ref] = paint
		}

		switch c.Kind {
		case KindFactory:
			snap.DisplayColors[id] = pigment.Of(c.Color)
		case KindAdder:
			snap.DisplayColors[id] = snap.PortColors[Ref(id, AdderOutput)]
		case KindGradientor:
			snap.DisplayColors[id] = snap.PortColors[Ref(id, GradientorOutput)]
		case KindStorage:
			display := pigment.None()
			for _, port := range c.Ports {
				if held := c.Held(port.ID); held.Present {
					display = held
					break
				}
			}
			snap.DisplayColors[id] = display
			if !hasIn[id] || !hasOut[id] {
				snap.StorageWarnings[id] = true
			}
		}
	}
	return snap
}
