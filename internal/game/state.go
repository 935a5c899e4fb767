// Package game provides the main game loop and state management.
package game

// State represents the current loop state.
type State int

const (
	// StateIdle is a game that has been built but not started.
	StateIdle State = iota
	// StateRunning is a game whose loop has started. There is no way back.
	StateRunning
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}
