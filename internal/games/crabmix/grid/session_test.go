package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/crabmix/internal/pigment"
)

func TestCreateComponentPorts(t *testing.T) {
	tests := []struct {
		kind  Kind
		opts  ComponentOptions
		roles []Role
	}{
		{KindFactory, ComponentOptions{Color: pigment.Of(pigment.Red)}, []Role{RoleOutput, RoleOutput, RoleOutput, RoleOutput}},
		{KindAdder, ComponentOptions{}, []Role{RoleInput, RoleInput, RoleOutput}},
		{KindGradientor, ComponentOptions{Mode: pigment.Darken}, []Role{RoleInput, RoleOutput}},
		{KindStorage, ComponentOptions{}, []Role{RoleFlex, RoleFlex, RoleFlex, RoleFlex, RoleFlex, RoleFlex}},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			s := NewSession()
			c, err := s.CreateComponent(tc.kind, tc.opts)
			require.NoError(t, err)

			require.Len(t, c.Ports, len(tc.roles))
			for i, p := range c.Ports {
				assert.Equal(t, PortID(i), p.ID)
				assert.Equal(t, c.ID, p.Component)
				assert.Equal(t, tc.roles[i], p.Role)
			}
		})
	}
}

func TestCreateComponentErrors(t *testing.T) {
	s := NewSession()

	_, err := s.CreateComponent(Kind(42), ComponentOptions{})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = s.CreateComponent(KindFactory, ComponentOptions{})
	assert.ErrorIs(t, err, ErrMissingColor)

	assert.Zero(t, s.Len())
}

func TestCreateComponentDefaults(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.Yellow)
	a := mustCreate(t, s, KindAdder, ComponentOptions{Label: "mixer"})
	st := mustCreate(t, s, KindStorage, ComponentOptions{
		Stored: map[PortID]pigment.Color{2: pigment.Blue, 9: pigment.Red},
	})

	assert.Equal(t, "F1", f.Label)
	assert.Equal(t, pigment.Yellow, f.Color)
	assert.Equal(t, "mixer", a.Label)
	assert.Equal(t, Position{Col: 0, Row: 0}, f.Position)
	assert.Equal(t, Position{Col: 1, Row: 0}, a.Position)

	assert.Equal(t, pigment.Of(pigment.Blue), st.Held(2))
	assert.False(t, st.Held(0).Present)
	assert.Len(t, st.Stored, 1, "out of range presets are dropped")
}

func TestIDsAreNeverReused(t *testing.T) {
	s := NewSession()
	a := mustCreate(t, s, KindAdder, ComponentOptions{})
	require.True(t, s.DeleteComponent(a.ID))
	b := mustCreate(t, s, KindAdder, ComponentOptions{})
	assert.NotEqual(t, a.ID, b.ID)

	s.Reset()
	c := mustCreate(t, s, KindAdder, ComponentOptions{})
	assert.Greater(t, c.ID, b.ID)
}

func TestLookups(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.Red)

	got, ok := s.Component(f.ID)
	require.True(t, ok)
	assert.Equal(t, f.ID, got.ID)

	p, ok := s.Port(Ref(f.ID, 3))
	require.True(t, ok)
	assert.Equal(t, RoleOutput, p.Role)

	_, ok = s.Port(Ref(f.ID, 4))
	assert.False(t, ok)
	_, ok = s.Component(77)
	assert.False(t, ok)

	byLabel, ok := s.ComponentByLabel("F1")
	require.True(t, ok)
	assert.Equal(t, f.ID, byLabel.ID)
}

func TestReturnedComponentsAreCopies(t *testing.T) {
	s := NewSession()
	st := mustCreate(t, s, KindStorage, ComponentOptions{})

	st.Ports[0].Role = RoleInput
	st.Stored[0] = pigment.Of(pigment.Red)

	fresh, ok := s.Component(st.ID)
	require.True(t, ok)
	assert.Equal(t, RoleFlex, fresh.Ports[0].Role)
	assert.False(t, fresh.Held(0).Present)
}

func TestDeleteComponent(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.Red)
	g := mustCreate(t, s, KindGradientor, ComponentOptions{})
	st := mustCreate(t, s, KindStorage, ComponentOptions{})

	_, ok := s.TryConnect(Ref(f.ID, 0), Ref(g.ID, GradientorInput))
	require.True(t, ok)
	_, ok = s.TryConnect(Ref(g.ID, GradientorOutput), Ref(st.ID, 0))
	require.True(t, ok)

	assert.True(t, s.DeleteComponent(g.ID))
	assert.False(t, s.DeleteComponent(g.ID), "second delete is a no-op")
	assert.Empty(t, s.Connections())

	ids := []ComponentID{}
	for _, c := range s.Components() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []ComponentID{f.ID, st.ID}, ids)

	snap := s.Recompute()
	for ref := range snap.PortColors {
		assert.NotEqual(t, g.ID, ref.Component)
	}
	_, ok = snap.DisplayColors[g.ID]
	assert.False(t, ok)
}

func TestMoveDoesNotTouchColors(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.Red)
	before := s.Recompute()

	assert.True(t, s.Move(f.ID, Position{Col: 3, Row: 2}))
	assert.False(t, s.Move(99, Position{}))

	got, _ := s.Component(f.ID)
	assert.Equal(t, Position{Col: 3, Row: 2}, got.Position)
	assert.Equal(t, before.PortColors, s.Recompute().PortColors)
}

func TestReset(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.Red)
	g := mustCreate(t, s, KindGradientor, ComponentOptions{})
	_, ok := s.TryConnect(Ref(f.ID, 0), Ref(g.ID, GradientorInput))
	require.True(t, ok)
	s.Recompute()

	s.Reset()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.Connections())
	assert.Empty(t, s.Last().PortColors)

	snap := s.Recompute()
	assert.True(t, snap.Converged)
	assert.Empty(t, snap.PortColors)
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindFactory, KindAdder, KindGradientor, KindStorage} {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("blender")
	assert.False(t, ok)
}

func TestCreateComponentOnTakenTile(t *testing.T) {
	s := NewSession()
	first := mustCreate(t, s, KindAdder, ComponentOptions{})
	second := mustCreate(t, s, KindAdder, ComponentOptions{Position: &Position{}})
	third := mustCreate(t, s, KindStorage, ComponentOptions{Position: &Position{Col: 2, Row: 3}})

	assert.Equal(t, Position{}, first.Position)
	assert.Equal(t, Position{Col: 1, Row: 0}, second.Position, "taken tile falls back to the first free one")
	assert.Equal(t, Position{Col: 2, Row: 3}, third.Position)

	tiles := make(map[Position]ComponentID)
	for _, c := range s.Components() {
		other, dup := tiles[c.Position]
		assert.False(t, dup, "%d and %d share %v", other, c.ID, c.Position)
		tiles[c.Position] = c.ID
	}
}
