// Package game provides the terminal driver: it owns the screen, turns key
// presses into combat actions, and runs sequencer operations off the input
// loop.
package game

// State is the screen the player is looking at.
type State int

const (
	// StateCombat is a fight against the active enemy.
	StateCombat State = iota
	// StateReward shows the reward panel after an original enemy falls.
	StateReward
	// StateStageComplete waits for the player to move on.
	StateStageComplete
	// StateGameComplete is shown after the last stage.
	StateGameComplete
	// StateDefeat waits for the player to retry the stage.
	StateDefeat
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateCombat:
		return "combat"
	case StateReward:
		return "reward"
	case StateStageComplete:
		return "stage_complete"
	case StateGameComplete:
		return "game_complete"
	case StateDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}
