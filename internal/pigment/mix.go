package pigment

import "math"

// ryb is a color in the subtractive red/yellow/blue pigment space, 0-255 floats.
type ryb struct {
	r, y, b float64
}

// toRYB converts a display color into pigment space.
func toRYB(c Color) ryb {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)

	// Remove the whiteness.
	w := min(r, g, b)
	r, g, b = r-w, g-w, b-w
	mg := max(r, g, b)

	// Yellow is the shared part of red and green.
	y := min(r, g)
	r -= y
	g -= y

	// Blue and green would otherwise double count.
	if b > 0 && g > 0 {
		b /= 2
		g /= 2
	}

	y += g
	b += g

	// Normalise to the original value.
	if my := max(r, y, b); my > 0 {
		n := mg / my
		r, y, b = r*n, y*n, b*n
	}

	return ryb{r: r + w, y: y + w, b: b + w}
}

// toRGB converts a pigment-space color back to display space.
func (p ryb) toRGB() Color {
	r, y, b := p.r, p.y, p.b

	// Remove the whiteness.
	w := min(r, y, b)
	r, y, b = r-w, y-w, b-w
	my := max(r, y, b)

	// Green is the shared part of yellow and blue.
	g := min(y, b)
	y -= g
	b -= g

	if b > 0 && g > 0 {
		b *= 2
		g *= 2
	}

	// Yellow is red plus green.
	r += y
	g += y

	if mg := max(r, g, b); mg > 0 {
		n := my / mg
		r, g, b = r*n, g*n, b*n
	}

	return Color{R: channel(r + w), G: channel(g + w), B: channel(b + w)}
}

// channel rounds and clamps a float channel into 0-255.
func channel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Mix mixes two colors the way paint mixes: both are converted to pigment
// space, averaged per channel and converted back.
func Mix(a, b Color) Color {
	pa, pb := toRYB(a), toRYB(b)
	return ryb{
		r: (pa.r + pb.r) / 2,
		y: (pa.y + pb.y) / 2,
		b: (pa.b + pb.b) / 2,
	}.toRGB()
}
