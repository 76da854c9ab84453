package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses this to adapt to screen size and for deterministic cravings.
type RuntimeConfig struct {
	ScreenW  int   // Board width in characters
	ScreenH  int   // Board height in characters
	TickRate int   // Animation ticks per second (default 8)
	Seed     int64 // RNG seed for deterministic cravings
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  64,
		ScreenH:  18,
		TickRate: 8,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score     int  // Total crab points
	Feedings  int  // Meals the crab accepted
	Converged bool // Whether the last propagation reached a fixed point
}

// StepResult is returned by Game.Step() after each input frame or tick.
type StepResult struct {
	State   GameState
	Changed bool // Whether the grid was edited this step
	Quit    bool // Whether the player asked to leave
}
