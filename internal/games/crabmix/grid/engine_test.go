package grid

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/crabmix/internal/pigment"
)

func connect(t *testing.T, s *Session, a, b PortRef) {
	t.Helper()
	_, ok := s.TryConnect(a, b)
	require.True(t, ok, "connect %s and %s", a, b)
}

func TestRecomputeEmptyGrid(t *testing.T) {
	snap := NewSession().Recompute()
	assert.True(t, snap.Converged)
	assert.Equal(t, 1, snap.Rounds)
	assert.Empty(t, snap.PortColors)
}

func TestAdderMixesRedAndBlue(t *testing.T) {
	s := NewSession()
	red := factory(t, s, pigment.Red)
	blue := factory(t, s, pigment.Blue)
	add := mustCreate(t, s, KindAdder, ComponentOptions{})

	connect(t, s, Ref(red.ID, 0), Ref(add.ID, AdderInputA))
	connect(t, s, Ref(blue.ID, 0), Ref(add.ID, AdderInputB))

	snap := s.Recompute()
	require.True(t, snap.Converged)

	out := snap.Color(Ref(add.ID, AdderOutput))
	require.True(t, out.Present)
	assert.Equal(t, pigment.Mix(pigment.Red, pigment.Blue), out.Color)
	assert.Greater(t, out.Color.R, out.Color.G)
	assert.Greater(t, out.Color.B, out.Color.G)

	assert.Equal(t, out, snap.Display(add.ID))
	assert.Equal(t, pigment.Of(pigment.Red), snap.Color(Ref(add.ID, AdderInputA)), "inputs show what arrives")
	assert.True(t, snap.HasColor(Ref(red.ID, 3)), "unconnected factory outputs still emit")
}

func TestAdderNeedsBothInputs(t *testing.T) {
	s := NewSession()
	red := factory(t, s, pigment.Red)
	add := mustCreate(t, s, KindAdder, ComponentOptions{})
	connect(t, s, Ref(red.ID, 0), Ref(add.ID, AdderInputA))

	snap := s.Recompute()
	assert.True(t, snap.Converged)
	assert.False(t, snap.HasColor(Ref(add.ID, AdderOutput)))
	assert.False(t, snap.HasColor(Ref(add.ID, AdderInputB)))
	assert.False(t, snap.Display(add.ID).Present)
}

func TestGradientorDarkens(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.RGB(200, 100, 50))
	g := mustCreate(t, s, KindGradientor, ComponentOptions{Mode: pigment.Darken})
	connect(t, s, Ref(f.ID, 0), Ref(g.ID, GradientorInput))

	snap := s.Recompute()
	out := snap.Color(Ref(g.ID, GradientorOutput))
	require.True(t, out.Present)
	assert.Equal(t, pigment.RGB(160, 80, 40), out.Color)
}

func TestGradientorUnconnectedIsAbsent(t *testing.T) {
	s := NewSession()
	g := mustCreate(t, s, KindGradientor, ComponentOptions{Mode: pigment.Brighten})

	snap := s.Recompute()
	assert.False(t, snap.HasColor(Ref(g.ID, GradientorOutput)))
}

func TestStorageHoldsInboundAndWarns(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.RGB(10, 20, 30))
	st := mustCreate(t, s, KindStorage, ComponentOptions{})
	connect(t, s, Ref(f.ID, 0), Ref(st.ID, 0))

	snap := s.Recompute()
	require.True(t, snap.Converged)

	got, ok := s.Component(st.ID)
	require.True(t, ok)
	assert.Equal(t, pigment.Of(pigment.RGB(10, 20, 30)), got.Held(0))
	assert.Equal(t, pigment.Of(pigment.RGB(10, 20, 30)), snap.Display(st.ID))
	assert.True(t, snap.Warned(st.ID), "no outbound link")

	g := mustCreate(t, s, KindGradientor, ComponentOptions{Mode: pigment.Brighten})
	connect(t, s, Ref(st.ID, 1), Ref(g.ID, GradientorInput))

	snap = s.Recompute()
	assert.False(t, snap.Warned(st.ID))
	assert.False(t, snap.HasColor(Ref(g.ID, GradientorOutput)), "slot 1 holds nothing")
}

func TestStorageKeepsColorAfterSourceRemoved(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.Yellow)
	st := mustCreate(t, s, KindStorage, ComponentOptions{})
	g := mustCreate(t, s, KindGradientor, ComponentOptions{Mode: pigment.Darken})
	connect(t, s, Ref(f.ID, 0), Ref(st.ID, 2))
	connect(t, s, Ref(st.ID, 2), Ref(g.ID, GradientorInput))
	s.Recompute()

	require.True(t, s.DeleteComponent(f.ID))
	snap := s.Recompute()

	assert.Equal(t, pigment.Of(pigment.Yellow), snap.Color(Ref(st.ID, 2)), "unfed slots keep their color")
	assert.Equal(t, pigment.Of(pigment.RGB(204, 204, 0)), snap.Color(Ref(g.ID, GradientorOutput)))
	assert.True(t, snap.Warned(st.ID), "no inbound link")
}

func TestStoragePresetFeedsDownstream(t *testing.T) {
	s := NewSession()
	st := mustCreate(t, s, KindStorage, ComponentOptions{Stored: map[PortID]pigment.Color{0: pigment.Red}})
	g := mustCreate(t, s, KindGradientor, ComponentOptions{Mode: pigment.Darken})
	connect(t, s, Ref(st.ID, 0), Ref(g.ID, GradientorInput))

	snap := s.Recompute()
	assert.Equal(t, pigment.Of(pigment.RGB(204, 0, 0)), snap.Color(Ref(g.ID, GradientorOutput)))
}

func TestStorageChainPropagates(t *testing.T) {
	// Storages created before their source take one round per hop.
	s := NewSession()
	s1 := mustCreate(t, s, KindStorage, ComponentOptions{})
	s2 := mustCreate(t, s, KindStorage, ComponentOptions{})
	s3 := mustCreate(t, s, KindStorage, ComponentOptions{})
	f := factory(t, s, pigment.Red)

	connect(t, s, Ref(f.ID, 0), Ref(s3.ID, 0))
	connect(t, s, Ref(s3.ID, 0), Ref(s2.ID, 0))
	connect(t, s, Ref(s2.ID, 0), Ref(s1.ID, 0))

	snap := s.Recompute()
	assert.True(t, snap.Converged)
	assert.Equal(t, 4, snap.Rounds)
	assert.Equal(t, pigment.Of(pigment.Red), snap.Color(Ref(s1.ID, 0)))
}

func TestRoundCapStopsPropagation(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})

	s := NewSession(WithMaxRounds(2), WithLogger(logger))
	s1 := mustCreate(t, s, KindStorage, ComponentOptions{})
	s2 := mustCreate(t, s, KindStorage, ComponentOptions{})
	s3 := mustCreate(t, s, KindStorage, ComponentOptions{})
	f := factory(t, s, pigment.Red)

	connect(t, s, Ref(f.ID, 0), Ref(s3.ID, 0))
	connect(t, s, Ref(s3.ID, 0), Ref(s2.ID, 0))
	connect(t, s, Ref(s2.ID, 0), Ref(s1.ID, 0))

	snap := s.Recompute()
	assert.False(t, snap.Converged)
	assert.Equal(t, 2, snap.Rounds)
	assert.True(t, snap.HasColor(Ref(s2.ID, 0)))
	assert.False(t, snap.HasColor(Ref(s1.ID, 0)))
	assert.Contains(t, buf.String(), "did not converge")
}

func TestCyclesTerminate(t *testing.T) {
	s := NewSession()
	f := factory(t, s, pigment.Red)
	add := mustCreate(t, s, KindAdder, ComponentOptions{})
	g := mustCreate(t, s, KindGradientor, ComponentOptions{Mode: pigment.Brighten})
	a := mustCreate(t, s, KindStorage, ComponentOptions{Stored: map[PortID]pigment.Color{0: pigment.Blue}})
	b := mustCreate(t, s, KindStorage, ComponentOptions{Stored: map[PortID]pigment.Color{0: pigment.Yellow}})

	connect(t, s, Ref(f.ID, 0), Ref(add.ID, AdderInputA))
	connect(t, s, Ref(add.ID, AdderOutput), Ref(g.ID, GradientorInput))
	connect(t, s, Ref(g.ID, GradientorOutput), Ref(add.ID, AdderInputB))
	connect(t, s, Ref(a.ID, 0), Ref(b.ID, 0))
	connect(t, s, Ref(b.ID, 0), Ref(a.ID, 0))

	var snap Snapshot
	assert.NotPanics(t, func() { snap = s.Recompute() })
	assert.LessOrEqual(t, snap.Rounds, s.MaxRounds())
	assert.Len(t, snap.PortColors, 4+3+2+6+6)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	s := NewSession()
	red := factory(t, s, pigment.Red)
	yellow := factory(t, s, pigment.Yellow)
	add := mustCreate(t, s, KindAdder, ComponentOptions{})
	g := mustCreate(t, s, KindGradientor, ComponentOptions{Mode: pigment.Brighten})
	st := mustCreate(t, s, KindStorage, ComponentOptions{})

	connect(t, s, Ref(red.ID, 0), Ref(add.ID, AdderInputA))
	connect(t, s, Ref(yellow.ID, 0), Ref(add.ID, AdderInputB))
	connect(t, s, Ref(add.ID, AdderOutput), Ref(g.ID, GradientorInput))
	connect(t, s, Ref(add.ID, AdderOutput), Ref(st.ID, 0))
	connect(t, s, Ref(g.ID, GradientorOutput), Ref(st.ID, 1))

	first := s.Recompute()
	second := s.Recompute()
	assert.Equal(t, first.PortColors, second.PortColors)
	assert.Equal(t, first.DisplayColors, second.DisplayColors)
	assert.Equal(t, second, s.Last())
}

type fixedMixer struct{}

func (fixedMixer) Mix(a, b pigment.Color) pigment.Color { return pigment.White }

func (fixedMixer) Adjust(p pigment.Paint, m pigment.Mode) pigment.Paint { return p }

func TestWithMixer(t *testing.T) {
	s := NewSession(WithMixer(fixedMixer{}))
	red := factory(t, s, pigment.Red)
	blue := factory(t, s, pigment.Blue)
	add := mustCreate(t, s, KindAdder, ComponentOptions{})
	connect(t, s, Ref(red.ID, 0), Ref(add.ID, AdderInputA))
	connect(t, s, Ref(blue.ID, 0), Ref(add.ID, AdderInputB))

	assert.Equal(t, pigment.Of(pigment.White), s.Recompute().Color(Ref(add.ID, AdderOutput)))
}

func TestLastIsolatedFromReturnedSnapshot(t *testing.T) {
	s := NewSession()
	f, err := s.CreateComponent(KindFactory, ComponentOptions{Color: pigment.Of(pigment.Red)})
	require.NoError(t, err)
	ref := Ref(f.ID, 0)

	snap := s.Recompute()
	snap.PortColors[ref] = pigment.None()
	snap.DisplayColors[f.ID] = pigment.None()
	snap.StorageWarnings[f.ID] = true

	last := s.Last()
	assert.True(t, last.HasColor(ref))
	assert.Equal(t, pigment.Of(pigment.Red), last.Display(f.ID))
	assert.False(t, last.Warned(f.ID))

	last.PortColors[ref] = pigment.None()
	assert.True(t, s.Last().HasColor(ref))
}
