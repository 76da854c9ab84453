// Package crabmix implements the crab feeding game: the player edits a
// factory grid of pigment components and feeds the mixed colors to a crab.
// The game is UI-agnostic; the platform maps keys to core actions and draws
// the board this package renders into a core.Screen.
package crabmix

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/crabmix/internal/config"
	"github.com/vovakirdan/crabmix/internal/core"
	"github.com/vovakirdan/crabmix/internal/games/crabmix/blueprints"
	"github.com/vovakirdan/crabmix/internal/games/crabmix/grid"
	"github.com/vovakirdan/crabmix/internal/pigment"
)

// FreePlayID is the score key used when no blueprint is loaded.
const FreePlayID = "free"

// PaletteColor is a factory color the player can place.
type PaletteColor struct {
	Name  string
	Color pigment.Color
}

// FeedingRecord is one accepted meal as it is persisted.
type FeedingRecord struct {
	Player      string
	Session     string
	BlueprintID string
	Craving     pigment.Color
	Fed         pigment.Color
	Distance    float64
	Points      int
	Mood        string
}

// FeedingSaver persists feedings.
type FeedingSaver interface {
	SaveFeeding(rec FeedingRecord) error
}

// LinkView describes a connection for display.
type LinkView struct {
	Conn  grid.Connection
	From  string // "F1:out1"
	To    string
	Paint pigment.Paint // Color carried by the link
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the game logger. It is also handed to the grid session.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithSaver sets where accepted feedings are recorded.
func WithSaver(s FeedingSaver) Option {
	return func(g *Game) {
		g.saver = s
	}
}

// WithPlayer sets the player name stored with feedings.
func WithPlayer(name string) Option {
	return func(g *Game) {
		if name != "" {
			g.player = name
		}
	}
}

// WithSessionID tags saved feedings with a play session.
func WithSessionID(id string) Option {
	return func(g *Game) {
		g.sessionID = id
	}
}

// WithBlueprint loads a blueprint on every reset.
func WithBlueprint(bp blueprints.Blueprint) Option {
	return func(g *Game) {
		g.blueprint = &bp
	}
}

// Game implements the crabmix game logic.
type Game struct {
	cfg       config.CrabmixConfig
	logger    *log.Logger
	saver     FeedingSaver
	player    string
	sessionID string
	blueprint *blueprints.Blueprint

	palette []PaletteColor
	session *grid.Session
	crab    *Crab
	snap    grid.Snapshot
	runtime core.RuntimeConfig

	cursor   grid.Position
	port     grid.PortID
	pending  *grid.PortRef
	grabbed  *grid.ComponentID
	colorIdx int
	mode     pigment.Mode
	scroll   int
	message  string
	last     *Feeding
	ticks    int
}

// New creates a game from config. Call Reset before the first Step.
func New(cfg config.CrabmixConfig, opts ...Option) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		logger: log.New(io.Discard),
		player: "anonymous",
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, entry := range cfg.Palette {
		c, err := pigment.Parse(entry.Color)
		if err != nil {
			return nil, fmt.Errorf("crabmix: palette %s: %w", entry.Name, err)
		}
		g.palette = append(g.palette, PaletteColor{Name: entry.Name, Color: c})
	}
	if len(g.palette) == 0 {
		g.palette = []PaletteColor{
			{Name: "red", Color: pigment.Red},
			{Name: "yellow", Color: pigment.Yellow},
			{Name: "blue", Color: pigment.Blue},
		}
	}

	crab, err := NewCrab(cfg.Crab, config.NewDifficultyManager(cfg.Difficulty), 0)
	if err != nil {
		return nil, err
	}
	g.crab = crab

	g.session = grid.NewSession(
		grid.WithLogger(g.logger),
		grid.WithMaxRounds(cfg.Engine.MaxRounds),
		grid.WithMixer(pigment.NewPalette(cfg.Engine.Brighten, cfg.Engine.Darken)),
	)
	g.snap = g.session.Last()
	return g, nil
}

// ID returns the score key: the blueprint ID, or FreePlayID.
func (g *Game) ID() string {
	if g.blueprint != nil {
		return g.blueprint.ID
	}
	return FreePlayID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.blueprint != nil {
		return "Crabmix: " + g.blueprint.Name
	}
	return "Crabmix"
}

// Reset starts a new game: fresh grid from the blueprint, fresh crab.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg

	if g.blueprint != nil && g.blueprint.Craving.Present {
		g.crab.Pin(g.blueprint.Craving.Color)
	} else {
		g.crab.Unpin()
	}
	g.crab.Reset(cfg.Seed)

	g.last = nil
	g.ticks = 0
	g.resetGrid()
	if g.blueprint != nil && g.blueprint.Description != "" {
		g.message = g.blueprint.Description
	}
}

// resetGrid clears the grid and the editor state and reapplies the blueprint.
func (g *Game) resetGrid() {
	g.session.Reset()
	g.cursor = grid.Position{}
	g.port = 0
	g.pending = nil
	g.grabbed = nil
	g.scroll = 0
	g.message = "Place factories with f, link ports with enter, feed with e."

	if g.blueprint != nil {
		if _, err := g.blueprint.Apply(g.session); err != nil {
			g.logger.Error("blueprint failed to load", "blueprint", g.blueprint.ID, "err", err)
			g.message = "Blueprint failed to load: " + err.Error()
		}
	}
	g.snap = g.session.Recompute()
}

// actionOrder is the order in which a frame's actions are applied.
var actionOrder = []core.Action{
	core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight,
	core.ActionNextPort, core.ActionPrevPort,
	core.ActionCancel,
	core.ActionCycleColor, core.ActionToggleMode,
	core.ActionAddFactory, core.ActionAddAdder, core.ActionAddGradientor, core.ActionAddStorage,
	core.ActionDelete, core.ActionDisconnect,
	core.ActionSelect, core.ActionGrab,
	core.ActionFeed, core.ActionReset,
}

// Step applies one frame of input. Every grid edit triggers a recompute.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.ticks++
	if in.Has(core.ActionQuit) {
		return core.StepResult{State: g.State(), Quit: true}
	}

	changed := false
	for _, a := range actionOrder {
		if in.Has(a) && g.apply(a) {
			changed = true
		}
	}
	if changed {
		g.snap = g.session.Recompute()
	}
	return core.StepResult{State: g.State(), Changed: changed}
}

// apply performs one action and reports whether the grid topology changed.
func (g *Game) apply(a core.Action) bool {
	switch a {
	case core.ActionUp:
		g.moveCursor(0, -1)
	case core.ActionDown:
		g.moveCursor(0, 1)
	case core.ActionLeft:
		g.moveCursor(-1, 0)
	case core.ActionRight:
		g.moveCursor(1, 0)
	case core.ActionNextPort:
		g.cyclePort(1)
	case core.ActionPrevPort:
		g.cyclePort(-1)
	case core.ActionCancel:
		g.pending = nil
		g.grabbed = nil
		g.message = ""
	case core.ActionCycleColor:
		g.colorIdx = (g.colorIdx + 1) % len(g.palette)
		g.message = "Next factory: " + g.palette[g.colorIdx].Name
	case core.ActionToggleMode:
		if g.mode == pigment.Brighten {
			g.mode = pigment.Darken
		} else {
			g.mode = pigment.Brighten
		}
		g.message = "Next gradientor: " + g.mode.String()
	case core.ActionAddFactory:
		return g.place(grid.KindFactory)
	case core.ActionAddAdder:
		return g.place(grid.KindAdder)
	case core.ActionAddGradientor:
		return g.place(grid.KindGradientor)
	case core.ActionAddStorage:
		return g.place(grid.KindStorage)
	case core.ActionDelete:
		return g.deleteCurrent()
	case core.ActionDisconnect:
		return g.disconnectCurrent()
	case core.ActionSelect:
		return g.selectPort()
	case core.ActionGrab:
		g.grab()
	case core.ActionFeed:
		g.feed()
	case core.ActionReset:
		g.resetGrid()
		return true
	}
	return false
}

func (g *Game) moveCursor(dc, dr int) {
	maxRow := 0
	for _, c := range g.session.Components() {
		maxRow = max(maxRow, c.Position.Row)
	}
	g.cursor.Col = core.Clamp(g.cursor.Col+dc, 0, grid.BoardColumns-1)
	g.cursor.Row = core.Clamp(g.cursor.Row+dr, 0, maxRow+1)
	g.port = 0
}

func (g *Game) cyclePort(delta int) {
	c, ok := g.current()
	if !ok || len(c.Ports) == 0 {
		return
	}
	n := len(c.Ports)
	g.port = grid.PortID((int(g.port) + delta + n) % n)
}

// current returns the component under the cursor.
func (g *Game) current() (grid.Component, bool) {
	return g.componentAt(g.cursor)
}

func (g *Game) componentAt(pos grid.Position) (grid.Component, bool) {
	for _, c := range g.session.Components() {
		if c.Position == pos {
			return c, true
		}
	}
	return grid.Component{}, false
}

// currentPort returns the selected port of the component under the cursor.
func (g *Game) currentPort() (grid.Component, grid.Port, bool) {
	c, ok := g.current()
	if !ok {
		return grid.Component{}, grid.Port{}, false
	}
	p, ok := c.Port(g.port)
	if !ok {
		g.port = 0
		p, ok = c.Port(0)
	}
	return c, p, ok
}

func (g *Game) place(kind grid.Kind) bool {
	if _, taken := g.current(); taken {
		g.message = "That tile is taken."
		return false
	}

	pos := g.cursor
	opts := grid.ComponentOptions{Position: &pos}
	switch kind {
	case grid.KindFactory:
		opts.Color = pigment.Of(g.palette[g.colorIdx].Color)
	case grid.KindGradientor:
		opts.Mode = g.mode
	}

	c, err := g.session.CreateComponent(kind, opts)
	if err != nil {
		g.logger.Error("create component", "kind", kind, "err", err)
		return false
	}
	g.port = 0
	g.message = fmt.Sprintf("Placed %s (%s).", c.Label, kind)
	return true
}

func (g *Game) deleteCurrent() bool {
	c, ok := g.current()
	if !ok {
		return false
	}
	if g.pending != nil && g.pending.Component == c.ID {
		g.pending = nil
	}
	if g.grabbed != nil && *g.grabbed == c.ID {
		g.grabbed = nil
	}
	g.session.DeleteComponent(c.ID)
	g.port = 0
	g.message = "Deleted " + c.Label + "."
	return true
}

func (g *Game) disconnectCurrent() bool {
	c, p, ok := g.currentPort()
	if !ok {
		return false
	}
	n := g.session.DisconnectPort(p.Ref())
	if n == 0 {
		g.message = fmt.Sprintf("%s:%s has no links.", c.Label, p.Name)
		return false
	}
	g.message = fmt.Sprintf("Removed %d link(s) from %s:%s.", n, c.Label, p.Name)
	return true
}

// selectPort picks the first port of a link, or links it to the picked one.
// Illegal links just clear the pick.
func (g *Game) selectPort() bool {
	c, p, ok := g.currentPort()
	if !ok {
		return false
	}
	ref := p.Ref()

	if g.pending == nil {
		g.pending = &ref
		g.message = fmt.Sprintf("Picked %s:%s. Pick another port to link.", c.Label, p.Name)
		return false
	}

	from := *g.pending
	g.pending = nil
	if from == ref {
		g.message = ""
		return false
	}

	conn, ok := g.session.TryConnect(from, ref)
	if !ok {
		g.message = "Those ports don't fit together."
		return false
	}
	g.message = fmt.Sprintf("Linked %s to %s.", g.portLabel(conn.From), g.portLabel(conn.To))
	return true
}

// grab picks up the component under the cursor, or drops the held one.
// Moving never changes colors, so no recompute is needed.
func (g *Game) grab() {
	if g.grabbed == nil {
		c, ok := g.current()
		if !ok {
			return
		}
		id := c.ID
		g.grabbed = &id
		g.message = "Holding " + c.Label + ". Move and press v to drop."
		return
	}

	if other, taken := g.current(); taken && other.ID != *g.grabbed {
		g.message = "That tile is taken."
		return
	}
	g.session.Move(*g.grabbed, g.cursor)
	g.grabbed = nil
	g.message = "Dropped."
}

func (g *Game) feed() {
	c, p, ok := g.currentPort()
	if !ok {
		g.message = "Select a port to feed from."
		return
	}

	f, ok := g.crab.Feed(g.snap.Color(p.Ref()))
	if !ok {
		g.message = fmt.Sprintf("The crab sniffs %s:%s. Nothing there.", c.Label, p.Name)
		return
	}
	g.last = &f
	g.message = fmt.Sprintf("The crab is %s: %d points.", f.Mood, f.Points)

	g.logger.Info("crab fed",
		"player", g.player,
		"blueprint", g.ID(),
		"craving", f.Craving.Triple(),
		"fed", f.Fed.Triple(),
		"points", f.Points)

	if g.saver != nil {
		rec := FeedingRecord{
			Player:      g.player,
			Session:     g.sessionID,
			BlueprintID: g.ID(),
			Craving:     f.Craving,
			Fed:         f.Fed,
			Distance:    f.Distance,
			Points:      f.Points,
			Mood:        f.Mood.String(),
		}
		if err := g.saver.SaveFeeding(rec); err != nil {
			g.logger.Warn("feeding not saved", "err", err)
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:     g.crab.Score(),
		Feedings:  g.crab.Feedings(),
		Converged: g.snap.Converged,
	}
}

// Session returns the grid being edited.
func (g *Game) Session() *grid.Session {
	return g.session
}

// Snapshot returns the colors from the last recompute.
func (g *Game) Snapshot() grid.Snapshot {
	return g.snap
}

// Crab returns the crab.
func (g *Game) Crab() *Crab {
	return g.crab
}

// Player returns the player name.
func (g *Game) Player() string {
	return g.player
}

// Message returns the latest status line.
func (g *Game) Message() string {
	return g.message
}

// LastFeeding returns the most recent accepted meal.
func (g *Game) LastFeeding() (Feeding, bool) {
	if g.last == nil {
		return Feeding{}, false
	}
	return *g.last, true
}

// NextFactory returns the palette color used by the next placed factory.
func (g *Game) NextFactory() PaletteColor {
	return g.palette[g.colorIdx]
}

// NextMode returns the mode used by the next placed gradientor.
func (g *Game) NextMode() pigment.Mode {
	return g.mode
}

// Cursor returns the board tile under the cursor.
func (g *Game) Cursor() grid.Position {
	return g.cursor
}

// Selection describes the selected port, if any.
func (g *Game) Selection() (label string, paint pigment.Paint, ok bool) {
	_, p, ok := g.currentPort()
	if !ok {
		return "", pigment.None(), false
	}
	return g.portLabel(p.Ref()), g.snap.Color(p.Ref()), true
}

// Links returns every connection with its carried color.
func (g *Game) Links() []LinkView {
	conns := g.session.Connections()
	out := make([]LinkView, 0, len(conns))
	for _, conn := range conns {
		out = append(out, LinkView{
			Conn:  conn,
			From:  g.portLabel(conn.From),
			To:    g.portLabel(conn.To),
			Paint: g.snap.Color(conn.From),
		})
	}
	return out
}

// portLabel renders a port reference as "label:port".
func (g *Game) portLabel(ref grid.PortRef) string {
	c, ok := g.session.Component(ref.Component)
	if !ok {
		return ref.String()
	}
	p, ok := c.Port(ref.Port)
	if !ok {
		return c.Label + ":?"
	}
	return c.Label + ":" + p.Name
}

// CrabArt returns the crab sprite for the current animation frame.
func (g *Game) CrabArt() []string {
	return crabSprite(g.ticks, g.crab.Mood())
}
