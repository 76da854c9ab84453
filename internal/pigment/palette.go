package pigment

import "strings"

// Mode selects how a gradientor adjusts its input.
type Mode uint8

const (
	Brighten Mode = iota
	Darken
)

// String returns the string representation of a mode.
func (m Mode) String() string {
	switch m {
	case Brighten:
		return "brighten"
	case Darken:
		return "darken"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to a Mode.
// Returns Brighten and false if the string is not recognized.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "brighten", "bright", "b", "+":
		return Brighten, true
	case "darken", "dark", "d", "-":
		return Darken, true
	default:
		return Brighten, false
	}
}

// Default adjustment factors.
const (
	DefaultBrightenFactor = 1.2
	DefaultDarkenFactor   = 0.8
)

// Palette is the mixing service. Its zero value is not usable; use
// NewPalette or DefaultPalette.
type Palette struct {
	brighten float64
	darken   float64
}

// NewPalette creates a palette with the given adjustment factors.
// Factors on the wrong side of 1 fall back to the defaults.
func NewPalette(brighten, darken float64) Palette {
	if brighten <= 1 {
		brighten = DefaultBrightenFactor
	}
	if darken <= 0 || darken >= 1 {
		darken = DefaultDarkenFactor
	}
	return Palette{brighten: brighten, darken: darken}
}

// DefaultPalette returns a palette with the default factors.
func DefaultPalette() Palette {
	return NewPalette(DefaultBrightenFactor, DefaultDarkenFactor)
}

// Factor returns the channel multiplier used for mode m.
func (p Palette) Factor(m Mode) float64 {
	if m == Darken {
		return p.darken
	}
	return p.brighten
}

// Mix mixes two colors in pigment space.
func (p Palette) Mix(a, b Color) Color {
	return Mix(a, b)
}

// Adjust multiplies every channel by the mode's factor, clamped to 0-255.
// Absent paint stays absent.
func (p Palette) Adjust(in Paint, m Mode) Paint {
	if !in.Present {
		return None()
	}
	f := p.Factor(m)
	c := in.Color
	return Of(Color{
		R: channel(float64(c.R) * f),
		G: channel(float64(c.G) * f),
		B: channel(float64(c.B) * f),
	})
}
