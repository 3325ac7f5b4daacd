package encounter

import "github.com/samdwyer/deckband/internal/gamedata"

// EventKind identifies a sequencer event.
type EventKind int

const (
	EventEnemySpawned EventKind = iota
	EventSpawnFailed
	EventEnemyDefeated
	EventSummonEntered
	EventSummonDefeated
	EventEncounterRestored
	EventStageCompleted
	EventStageFailed
	EventGameCompleted
	EventStageTransition
)

// String returns a human-readable event name.
func (k EventKind) String() string {
	switch k {
	case EventEnemySpawned:
		return "enemy_spawned"
	case EventSpawnFailed:
		return "spawn_failed"
	case EventEnemyDefeated:
		return "enemy_defeated"
	case EventSummonEntered:
		return "summon_entered"
	case EventSummonDefeated:
		return "summon_defeated"
	case EventEncounterRestored:
		return "encounter_restored"
	case EventStageCompleted:
		return "stage_completed"
	case EventStageFailed:
		return "stage_failed"
	case EventGameCompleted:
		return "game_completed"
	case EventStageTransition:
		return "stage_transition"
	default:
		return "unknown"
	}
}

// Event is emitted to listeners outside the core. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind  EventKind
	Actor Actor
	Stage *gamedata.Stage
	Next  *gamedata.Stage // StageTransition target; Stage is the previous stage
	Depth int             // Summon depth after the event
	Err   error           // SpawnFailed cause
}

// Listener receives sequencer events. Listeners run on the caller's goroutine
// after internal locks are released and may read sequencer state.
type Listener func(Event)
