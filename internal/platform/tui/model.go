package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/crabmix/internal/core"
	"github.com/vovakirdan/crabmix/internal/games/crabmix"
	"github.com/vovakirdan/crabmix/internal/games/crabmix/grid"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

// Layout constants
const (
	boardWidth    = grid.BoardColumns * crabmix.TileW
	chromeLines   = 4 // title, status, help, gap
	panelMinWidth = 26
	maxLinkLines  = 8
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Italic(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Model is the Bubble Tea model for the crab workshop.
type Model struct {
	game       *crabmix.Game
	screen     *core.Screen
	keys       *KeyMapper
	help       help.Model
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game *crabmix.Game, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	w, h := boardSize(cfg.ScreenW, cfg.ScreenH)
	return Model{
		game:       game,
		screen:     core.NewScreen(w, h),
		keys:       NewKeyMapper(),
		help:       help.New(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
	}
}

// boardSize returns the board area for a terminal size.
func boardSize(width, height int) (int, int) {
	return min(width, boardWidth), max(crabmix.TileH, height-chromeLines)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(boardSize(msg.Width, msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		// Ticks only animate the crab; edits happen on key presses.
		m.gameState = m.game.Step(core.InputFrame{}).State
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input. Each key is applied immediately.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys.Keys()
	switch {
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Back):
		m.backToMenu = true
		return m, tea.Quit
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if !m.inputFrame.Empty() {
		result := m.game.Step(m.inputFrame)
		m.gameState = result.State
		m.inputFrame.Clear()
		if result.Quit {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// saveScreenshot saves the current board to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".crabmix", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the workshop: board, crab panel, status line and help.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.game.Render(m.screen)
	board := RenderScreen(m.screen)

	body := board
	if panelWidth := m.width - boardWidth - 2; panelWidth >= panelMinWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", m.renderPanel(panelWidth-4))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.game.Title()))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.game.Message()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys.Keys())))
	return b.String()
}

// renderPanel renders the crab, the next placement and the link list.
func (m Model) renderPanel(width int) string {
	g := m.game
	crab := g.Crab()
	snap := g.Snapshot()

	var b strings.Builder
	for _, line := range g.CrabArt() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render("craves"), Swatch(pigment.Of(crab.Craving()), 4), crab.Craving().Triple())
	fmt.Fprintf(&b, "%s %s  %s %d\n", labelStyle.Render("mood"), crab.Mood(), labelStyle.Render("score"), crab.Score())
	fmt.Fprintf(&b, "%s %.3f\n", labelStyle.Render("tolerance"), crab.Tolerance())
	if f, ok := g.LastFeeding(); ok {
		fmt.Fprintf(&b, "%s %s %d pts\n", labelStyle.Render("last meal"), Swatch(pigment.Of(f.Fed), 2), f.Points)
	}
	b.WriteString("\n")

	next := g.NextFactory()
	fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render("next factory"), Swatch(pigment.Of(next.Color), 2), next.Name)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("next gradientor"), g.NextMode())
	if label, paint, ok := g.Selection(); ok {
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render("port"), label, Swatch(paint, 2))
	}
	b.WriteString("\n")

	links := g.Links()
	fmt.Fprintf(&b, "%s (%d)\n", labelStyle.Render("links"), len(links))
	for i, l := range links {
		if i == maxLinkLines {
			fmt.Fprintf(&b, "… %d more\n", len(links)-maxLinkLines)
			break
		}
		fmt.Fprintf(&b, "%s %s → %s\n", Swatch(l.Paint, 1), l.From, l.To)
	}

	if !snap.Converged {
		b.WriteString(warnStyle.Render(fmt.Sprintf("unsettled after %d rounds", snap.Rounds)))
		b.WriteString("\n")
	}
	if n := len(snap.StorageWarnings); n > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d idle storage", n)))
		b.WriteString("\n")
	}

	return panelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Config returns the current runtime config (may have been updated by resize).
func (m Model) Config() core.RuntimeConfig {
	return m.config
}

// Run starts the workshop for the given game.
// Returns true if the user wants to go back to the menu.
func Run(game *crabmix.Game, cfg core.RuntimeConfig) (goBack bool, err error) {
	model := NewModel(game, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
