package core

import "github.com/vovakirdan/crabmix/internal/pigment"

// Style is the foreground and background of a screen cell.
// Absent paint means the terminal default.
type Style struct {
	Fg pigment.Paint
	Bg pigment.Paint
}

// Fg returns a style with only a foreground color.
func Fg(c pigment.Color) Style {
	return Style{Fg: pigment.Of(c)}
}

// OnBg returns the style with a background color added.
func (s Style) OnBg(c pigment.Color) Style {
	s.Bg = pigment.Of(c)
	return s
}

// Predefined styles for board chrome.
var (
	StyleDefault = Style{}
	StyleFrame   = Fg(pigment.RGB(110, 110, 130))
	StyleCursor  = Fg(pigment.RGB(255, 200, 60))
	StylePending = Fg(pigment.RGB(90, 220, 255))
	StyleDim     = Fg(pigment.RGB(90, 90, 90))
	StyleText    = Fg(pigment.RGB(220, 220, 220))
	StyleWarn    = Fg(pigment.RGB(255, 120, 80))
)
