package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/crabmix/internal/core"
)

// KeyMap holds the workshop key bindings.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	NextPort      key.Binding
	PrevPort      key.Binding
	Select        key.Binding
	Cancel        key.Binding
	AddFactory    key.Binding
	AddAdder      key.Binding
	AddGradientor key.Binding
	AddStorage    key.Binding
	CycleColor    key.Binding
	ToggleMode    key.Binding
	Delete        key.Binding
	Disconnect    key.Binding
	Grab          key.Binding
	Feed          key.Binding
	Reset         key.Binding
	Back          key.Binding
	Help          key.Binding
	Screenshot    key.Binding
	Quit          key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.NextPort, k.AddFactory, k.AddAdder, k.Feed, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextPort, k.PrevPort},
		{k.AddFactory, k.AddAdder, k.AddGradientor, k.AddStorage, k.CycleColor, k.ToggleMode},
		{k.Select, k.Cancel, k.Disconnect, k.Delete, k.Grab},
		{k.Feed, k.Reset, k.Back, k.Screenshot, k.Quit},
	}
}

// DefaultKeyMap returns the default workshop bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		NextPort:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next port")),
		PrevPort:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev port")),
		Select:        key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "pick/link")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		AddFactory:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "factory")),
		AddAdder:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "adder")),
		AddGradientor: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gradientor")),
		AddStorage:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "storage")),
		CycleColor:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next color")),
		ToggleMode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		Delete:        key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "delete")),
		Disconnect:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlink port")),
		Grab:          key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "grab/drop")),
		Feed:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "feed crab")),
		Reset:         key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset grid")),
		Back:          key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "menu")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Screenshot:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "screenshot")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys     KeyMap
	bindings []actionBinding
}

type actionBinding struct {
	binding key.Binding
	action  core.Action
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return NewKeyMapperWith(DefaultKeyMap())
}

// NewKeyMapperWith creates a key mapper over custom bindings.
func NewKeyMapperWith(k KeyMap) *KeyMapper {
	return &KeyMapper{
		keys: k,
		bindings: []actionBinding{
			{k.Up, core.ActionUp},
			{k.Down, core.ActionDown},
			{k.Left, core.ActionLeft},
			{k.Right, core.ActionRight},
			{k.NextPort, core.ActionNextPort},
			{k.PrevPort, core.ActionPrevPort},
			{k.Select, core.ActionSelect},
			{k.Cancel, core.ActionCancel},
			{k.AddFactory, core.ActionAddFactory},
			{k.AddAdder, core.ActionAddAdder},
			{k.AddGradientor, core.ActionAddGradientor},
			{k.AddStorage, core.ActionAddStorage},
			{k.CycleColor, core.ActionCycleColor},
			{k.ToggleMode, core.ActionToggleMode},
			{k.Delete, core.ActionDelete},
			{k.Disconnect, core.ActionDisconnect},
			{k.Grab, core.ActionGrab},
			{k.Feed, core.ActionFeed},
			{k.Reset, core.ActionReset},
		},
	}
}

// Keys returns the bindings for help rendering.
func (km *KeyMapper) Keys() KeyMap {
	return km.keys
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.ActionQuit, true
	}
	for _, b := range km.bindings {
		if key.Matches(msg, b.binding) {
			return b.action, false
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
