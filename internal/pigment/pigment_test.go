package pigment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func near(t *testing.T, want, got Color) {
	t.Helper()
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	assert.LessOrEqual(t, diff(want.R, got.R), 1, "red channel of %v vs %v", got, want)
	assert.LessOrEqual(t, diff(want.G, got.G), 1, "green channel of %v vs %v", got, want)
	assert.LessOrEqual(t, diff(want.B, got.B), 1, "blue channel of %v vs %v", got, want)
}

func TestMixPrimaries(t *testing.T) {
	t.Run("red and blue make purple", func(t *testing.T) {
		c := Mix(Red, Blue)
		assert.Greater(t, c.R, c.G)
		assert.Greater(t, c.B, c.G)
		near(t, RGB(128, 0, 128), c)
	})

	t.Run("red and yellow make orange", func(t *testing.T) {
		c := Mix(Red, Yellow)
		assert.Greater(t, c.R, c.G)
		assert.Greater(t, c.G, c.B)
		near(t, RGB(128, 64, 0), c)
	})

	t.Run("yellow and blue make green", func(t *testing.T) {
		c := Mix(Yellow, Blue)
		assert.Greater(t, c.G, c.R)
		assert.Greater(t, c.G, c.B)
		near(t, RGB(0, 128, 0), c)
	})
}

func TestMixWithSelf(t *testing.T) {
	colors := []Color{Red, Yellow, Blue, White, Black, RGB(10, 20, 30), RGB(200, 100, 50), RGB(17, 240, 99)}
	for _, c := range colors {
		near(t, c, Mix(c, c))
	}
}

func TestMixIsDeterministic(t *testing.T) {
	a, b := RGB(12, 200, 77), RGB(240, 3, 150)
	assert.Equal(t, Mix(a, b), Mix(a, b))
}

func TestMixWhiteAndBlack(t *testing.T) {
	base := RGB(200, 100, 50)

	light := Mix(base, White)
	assert.GreaterOrEqual(t, light.R, base.R)
	assert.Greater(t, light.G, base.G)
	assert.Greater(t, light.B, base.B)
	assert.Greater(t, light.R, light.G)
	assert.Greater(t, light.G, light.B)

	dark := Mix(base, Black)
	assert.Less(t, dark.R, base.R)
	assert.Less(t, dark.G, base.G)
	assert.Greater(t, dark.R, dark.G)
	assert.Greater(t, dark.G, dark.B)
}

func TestAdjust(t *testing.T) {
	p := DefaultPalette()

	dark := p.Adjust(Of(RGB(200, 100, 50)), Darken)
	require.True(t, dark.Present)
	assert.Equal(t, RGB(160, 80, 40), dark.Color)

	bright := p.Adjust(Of(RGB(250, 100, 0)), Brighten)
	require.True(t, bright.Present)
	assert.Equal(t, RGB(255, 120, 0), bright.Color, "channels clamp at 255")

	assert.False(t, p.Adjust(None(), Brighten).Present)
	assert.False(t, p.Adjust(None(), Darken).Present)
}

func TestNewPaletteRejectsBadFactors(t *testing.T) {
	p := NewPalette(0.5, 1.5)
	assert.Equal(t, DefaultBrightenFactor, p.Factor(Brighten))
	assert.Equal(t, DefaultDarkenFactor, p.Factor(Darken))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"10,20,30", RGB(10, 20, 30), false},
		{" 255, 0 ,7 ", RGB(255, 0, 7), false},
		{"rgb(1, 2, 3)", RGB(1, 2, 3), false},
		{"1,2", Color{}, true},
		{"1,2,256", Color{}, true},
		{"a,b,c", Color{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestColorStringForms(t *testing.T) {
	c := RGB(10, 20, 30)
	assert.Equal(t, "rgb(10, 20, 30)", c.String())
	assert.Equal(t, "10,20,30", c.Triple())
	assert.Equal(t, "#0a141e", c.Hex())

	back, err := ParseColor(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)

	fromHex, err := ParseHex(c.Hex())
	require.NoError(t, err)
	assert.Equal(t, c, fromHex)
}

func TestParse(t *testing.T) {
	c, err := Parse("Blue")
	require.NoError(t, err)
	assert.Equal(t, Blue, c)

	c, err = Parse("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, Red, c)

	_, err = Parse("mauve")
	assert.Error(t, err)
}

func TestPaintEqual(t *testing.T) {
	assert.True(t, None().Equal(None()))
	assert.True(t, None().Equal(Paint{Color: Red}), "absent ignores payload")
	assert.False(t, None().Equal(Of(Black)))
	assert.True(t, Of(Red).Equal(Of(Red)))
	assert.False(t, Of(Red).Equal(Of(Blue)))
	assert.Equal(t, "none", None().String())
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 0, Red.Distance(Red), 1e-9)
	assert.Less(t, Red.Distance(RGB(250, 10, 10)), Red.Distance(Blue))
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("Darken")
	assert.True(t, ok)
	assert.Equal(t, Darken, m)

	_, ok = ParseMode("sideways")
	assert.False(t, ok)
}
