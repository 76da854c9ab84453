// Package pigment provides the color representation and the paint-mixing
// service used by the factory grid. It is pure and has no UI dependencies.
package pigment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 3-channel display color, 0-255 per channel.
type Color struct {
	R, G, B uint8
}

// RGB creates a color from channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// String renders the color in the view layer's "rgb(r, g, b)" form.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Triple returns the channels in the compact "r,g,b" form accepted by ParseColor.
func (c Color) Triple() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// Distance returns the perceptual CIEDE2000 distance between two colors.
// Identical colors have distance 0; black to white is roughly 1.
func (c Color) Distance(other Color) float64 {
	return c.colorful().DistanceCIEDE2000(other.colorful())
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// ParseColor parses "r,g,b" (and the rendered "rgb(r, g, b)" form).
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "rgb(")
	raw = strings.TrimSuffix(raw, ")")

	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("pigment: invalid color %q: want 3 channels", s)
	}

	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Color{}, fmt.Errorf("pigment: invalid color %q: %w", s, err)
		}
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("pigment: invalid color %q: channel %d out of range", s, v)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("pigment: invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Parse accepts a palette name, "#rrggbb" or "r,g,b".
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := Named(s); ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return ParseHex(s)
	}
	return ParseColor(s)
}

// Paint is a color that may be absent ("no color").
type Paint struct {
	Present bool  // Whether a color is present
	Color   Color // Valid only when Present is true
}

// None returns the absent paint.
func None() Paint {
	return Paint{}
}

// Of returns a present paint holding c.
func Of(c Color) Paint {
	return Paint{Present: true, Color: c}
}

// Equal reports whether two paints match. "No color" equals only "no color".
func (p Paint) Equal(other Paint) bool {
	if !p.Present || !other.Present {
		return p.Present == other.Present
	}
	return p.Color == other.Color
}

// String returns the rendered color or "none".
func (p Paint) String() string {
	if !p.Present {
		return "none"
	}
	return p.Color.String()
}

// Standard factory colors.
var (
	Red    = RGB(255, 0, 0)
	Yellow = RGB(255, 255, 0)
	Blue   = RGB(0, 0, 255)
	White  = RGB(255, 255, 255)
	Black  = RGB(0, 0, 0)
)

var named = map[string]Color{
	"red":    Red,
	"yellow": Yellow,
	"blue":   Blue,
	"white":  White,
	"black":  Black,
}

// Named looks up a standard factory color by name (case-insensitive).
func Named(name string) (Color, bool) {
	c, ok := named[strings.ToLower(name)]
	return c, ok
}
