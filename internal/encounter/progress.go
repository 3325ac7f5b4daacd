package encounter

// ProgressState is the stage-level progress state.
type ProgressState int

const (
	StateNotStarted ProgressState = iota
	StateInProgress
	StateCompleted
	StateFailed
)

// String returns a human-readable state name.
func (s ProgressState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StageProgress is the sequencer's mutable progress record.
type StageProgress struct {
	State           ProgressState
	StageNumber     int
	EnemyIndex      int // Next original enemy to spawn; only spawn success advances it
	StagesCompleted int
	GameCompleted   bool
}
