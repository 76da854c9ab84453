package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/crabmix/internal/core"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

// lipglossStyle converts a cell style to a truecolor lipgloss style.
func lipglossStyle(st core.Style) lipgloss.Style {
	style := lipgloss.NewStyle()
	if st.Fg.Present {
		style = style.Foreground(lipgloss.Color(st.Fg.Color.Hex()))
	}
	if st.Bg.Present {
		style = style.Background(lipgloss.Color(st.Bg.Color.Hex()))
	}
	return style
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[core.Style]lipgloss.Style)
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y).Style

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Style != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == core.StyleDefault {
				sb.WriteString(run.String())
				continue
			}
			style, ok := styles[start]
			if !ok {
				style = lipglossStyle(start)
				styles[start] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Swatch renders a block of the given paint, or a hatched block when absent.
func Swatch(p pigment.Paint, width int) string {
	if width <= 0 {
		return ""
	}
	if !p.Present {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(strings.Repeat("░", width))
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(p.Color.Hex())).Render(strings.Repeat(" ", width))
}
