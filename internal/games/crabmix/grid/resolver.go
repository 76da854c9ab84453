package grid

// TryConnect links two ports given in selection order. It orients the link
// by port roles and applies the capacity gates. An illegal link is not an
// error: it returns false and leaves the grid unchanged.
func (s *Session) TryConnect(a, b PortRef) (Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.resolve(a, b)
	if !ok {
		s.logger.Debug("connection rejected", "a", a, "b", b)
		return Connection{}, false
	}
	s.connections = append(s.connections, conn)
	s.logger.Debug("connected", "from", conn.From, "to", conn.To)
	return conn, true
}

// CanConnect reports whether TryConnect(a, b) would succeed, without
// changing the grid.
func (s *Session) CanConnect(a, b PortRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.resolve(a, b)
	return ok
}

// resolve validates and orients a proposed link. Callers hold s.mu.
func (s *Session) resolve(a, b PortRef) (Connection, bool) {
	if a.Component == b.Component {
		return Connection{}, false
	}
	pa, ok := s.port(a)
	if !ok {
		return Connection{}, false
	}
	pb, ok := s.port(b)
	if !ok {
		return Connection{}, false
	}

	conn, ok := orient(a, b, pa.Role, pb.Role)
	if !ok {
		return Connection{}, false
	}

	if s.hasSink(conn.To) {
		return Connection{}, false
	}
	if s.hasSource(conn.From) && !s.fansOut(conn.From) {
		return Connection{}, false
	}
	for _, c := range s.connections {
		if c == conn {
			return Connection{}, false
		}
	}
	return conn, true
}

// orient applies the role compatibility rules to a selection-ordered pair.
func orient(a, b PortRef, ra, rb Role) (Connection, bool) {
	switch {
	case ra == RoleOutput && rb == RoleInput, ra == RoleOutput && rb == RoleFlex:
		return Connection{From: a, To: b}, true
	case ra == RoleInput && rb == RoleOutput, ra == RoleFlex && rb == RoleOutput:
		return Connection{From: b, To: a}, true
	case ra == RoleFlex && rb == RoleInput:
		return Connection{From: a, To: b}, true
	case ra == RoleInput && rb == RoleFlex:
		return Connection{From: b, To: a}, true
	case ra == RoleFlex && rb == RoleFlex:
		return Connection{From: a, To: b}, true
	default:
		return Connection{}, false
	}
}

func (s *Session) hasSink(ref PortRef) bool {
	for _, c := range s.connections {
		if c.To == ref {
			return true
		}
	}
	return false
}

func (s *Session) hasSource(ref PortRef) bool {
	for _, c := range s.connections {
		if c.From == ref {
			return true
		}
	}
	return false
}

// fansOut reports whether a source port may feed any number of sinks:
// adder and gradientor outputs only.
func (s *Session) fansOut(ref PortRef) bool {
	c, ok := s.components[ref.Component]
	if !ok {
		return false
	}
	if c.Kind != KindAdder && c.Kind != KindGradientor {
		return false
	}
	p, ok := c.Port(ref.Port)
	return ok && p.Role == RoleOutput
}
