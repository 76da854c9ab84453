package core

// Action represents a semantic editor action, abstracted from physical key presses.
// This allows the game to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone          Action = iota
	ActionUp                   // Up arrow, k - move cursor up
	ActionDown                 // Down arrow, j - move cursor down
	ActionLeft                 // Left arrow, h - move cursor left
	ActionRight                // Right arrow, l - move cursor right
	ActionNextPort             // Tab - select the next port of the component under the cursor
	ActionPrevPort             // Shift+Tab - select the previous port
	ActionSelect               // Enter, Space - pick a port, or link it to the picked one
	ActionCancel               // Esc - drop the picked port or grabbed component
	ActionAddFactory           // f - place a factory with the current palette color
	ActionAddAdder             // a - place an adder
	ActionAddGradientor        // g - place a gradientor with the current mode
	ActionAddStorage           // s - place a storage jar
	ActionCycleColor           // c - next palette color for new factories
	ActionToggleMode           // m - toggle brighten/darken for new gradientors
	ActionDelete               // x, Delete - delete the component under the cursor
	ActionDisconnect           // u - remove every link on the selected port
	ActionGrab                 // v - pick up the component, press again to drop it
	ActionFeed                 // e - feed the selected port's color to the crab
	ActionReset                // r - clear the grid and reload the blueprint
	ActionQuit                 // q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionNextPort:
		return "NextPort"
	case ActionPrevPort:
		return "PrevPort"
	case ActionSelect:
		return "Select"
	case ActionCancel:
		return "Cancel"
	case ActionAddFactory:
		return "AddFactory"
	case ActionAddAdder:
		return "AddAdder"
	case ActionAddGradientor:
		return "AddGradientor"
	case ActionAddStorage:
		return "AddStorage"
	case ActionCycleColor:
		return "CycleColor"
	case ActionToggleMode:
		return "ToggleMode"
	case ActionDelete:
		return "Delete"
	case ActionDisconnect:
		return "Disconnect"
	case ActionGrab:
		return "Grab"
	case ActionFeed:
		return "Feed"
	case ActionReset:
		return "Reset"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input collected for one game step.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// FrameOf creates an input frame with the given actions set.
func FrameOf(actions ...Action) InputFrame {
	f := NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty returns true if no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
