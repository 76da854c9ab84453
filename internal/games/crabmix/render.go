package crabmix

import (
	"fmt"

	"github.com/vovakirdan/crabmix/internal/core"
	"github.com/vovakirdan/crabmix/internal/games/crabmix/grid"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

// Tile size on the board, in cells.
const (
	TileW = 16
	TileH = 6
)

// Port glyphs by role.
var portGlyphs = map[grid.Role]rune{
	grid.RoleInput:  '▷',
	grid.RoleOutput: '▶',
	grid.RoleFlex:   '◆',
}

// Render draws the visible part of the board. The view scrolls to keep the
// cursor row on screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	rows := max(1, dst.Height()/TileH)
	if g.cursor.Row < g.scroll {
		g.scroll = g.cursor.Row
	}
	if g.cursor.Row >= g.scroll+rows {
		g.scroll = g.cursor.Row - rows + 1
	}

	byPos := make(map[grid.Position]grid.Component)
	for _, c := range g.session.Components() {
		byPos[c.Position] = c
	}

	for row := g.scroll; row < g.scroll+rows; row++ {
		for col := 0; col < grid.BoardColumns; col++ {
			pos := grid.Position{Col: col, Row: row}
			r := core.NewRect(col*TileW, (row-g.scroll)*TileH, TileW, TileH)
			if !r.Within(dst.Bounds()) {
				continue
			}
			if c, ok := byPos[pos]; ok {
				g.drawTile(dst, r, c, pos == g.cursor)
			} else {
				drawEmpty(dst, r, pos == g.cursor)
			}
		}
	}
}

func drawEmpty(dst *core.Screen, r core.Rect, cursor bool) {
	if !cursor {
		dst.Set(r.X+r.W/2, r.Y+r.H/2, '·')
		return
	}
	dst.DrawBox(r, core.StyleCursor)
	dst.DrawStyledText(r.X+r.W/2, r.Y+r.H/2, "+", core.StyleCursor)
}

func (g *Game) drawTile(dst *core.Screen, r core.Rect, c grid.Component, cursor bool) {
	frame := core.StyleFrame
	switch {
	case g.grabbed != nil && *g.grabbed == c.ID:
		frame = core.StylePending
	case cursor:
		frame = core.StyleCursor
	}
	dst.DrawBox(r, frame)

	inner := r.Inset(1)
	title := fit(" "+c.Label+" "+c.Kind.String()+" ", inner.W)
	dst.DrawStyledText(inner.X, r.Y, title, frame)

	// Swatch row
	swatch := core.NewRect(inner.X, inner.Y, inner.W, 1)
	if paint := g.snap.Display(c.ID); paint.Present {
		dst.FillRect(swatch, ' ', core.Style{Bg: paint})
	} else {
		dst.FillRect(swatch, '░', core.StyleDim)
	}

	// Port row
	for i, p := range c.Ports {
		dst.SetCell(inner.X+i*2, inner.Y+1, core.Cell{Rune: portGlyphs[p.Role], Style: g.portStyle(c, p, cursor)})
	}

	// Detail rows
	info, st := g.tileInfo(c)
	dst.DrawStyledText(inner.X, inner.Y+2, fit(info, inner.W), st)
	if cursor {
		if p, ok := c.Port(g.port); ok {
			line := p.Name + " " + paintText(g.snap.Color(p.Ref()))
			dst.DrawStyledText(inner.X, inner.Y+3, fit(line, inner.W), core.StyleCursor)
		}
	}
}

func (g *Game) portStyle(c grid.Component, p grid.Port, cursor bool) core.Style {
	st := core.StyleDim
	if paint := g.snap.Color(p.Ref()); paint.Present {
		st = core.Style{Fg: paint}
	}
	ref := p.Ref()
	switch {
	case g.pending != nil && *g.pending == ref:
		st.Bg = core.StylePending.Fg
	case cursor && p.ID == g.port:
		st.Bg = core.StyleCursor.Fg
	}
	return st
}

// tileInfo returns a one-line summary of a component.
func (g *Game) tileInfo(c grid.Component) (string, core.Style) {
	switch c.Kind {
	case grid.KindFactory:
		return c.Color.Triple(), core.StyleText
	case grid.KindAdder:
		if out := g.snap.Display(c.ID); out.Present {
			return "= " + out.Color.Triple(), core.StyleText
		}
		return "needs A and B", core.StyleDim
	case grid.KindGradientor:
		return c.Mode.String(), core.StyleText
	case grid.KindStorage:
		if g.snap.Warned(c.ID) {
			return "needs in+out", core.StyleWarn
		}
		held := 0
		for _, p := range c.Ports {
			if c.Held(p.ID).Present {
				held++
			}
		}
		return fmt.Sprintf("held %d/%d", held, len(c.Ports)), core.StyleText
	}
	return "", core.StyleDefault
}

func paintText(p pigment.Paint) string {
	if !p.Present {
		return "none"
	}
	return p.Color.Triple()
}

// fit truncates s to at most w runes.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	return string(runes[:w])
}

// Crab sprite frames. %s is replaced by the eyes for the mood.
var crabFrames = [2][]string{
	{
		`(\/)     (\/)`,
		`  \\ %s //`,
		`   (_____)`,
		`   /  |  \`,
	},
	{
		`(/\)     (/\)`,
		`  \\ %s //`,
		`   (_____)`,
		`    \ | /`,
	},
}

var crabEyes = map[Mood]string{
	MoodHungry:    "o . o",
	MoodContent:   "^ ‿ ^",
	MoodDelighted: "* ᴗ *",
}

// crabSprite returns the sprite lines for a tick count and mood. The claws
// snap every four ticks.
func crabSprite(ticks int, mood Mood) []string {
	frame := crabFrames[(ticks/4)%2]
	eyes, ok := crabEyes[mood]
	if !ok {
		eyes = crabEyes[MoodHungry]
	}
	out := make([]string, len(frame))
	for i, line := range frame {
		if i == 1 {
			line = fmt.Sprintf(line, eyes)
		}
		out[i] = line
	}
	return out
}
