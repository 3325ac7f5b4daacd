package encounter

// Code is a machine-readable sequencing error code.
type Code string

const (
	CodeEmptyStage        Code = "EMPTY_STAGE"
	CodeNoStage           Code = "NO_STAGE"
	CodeMissingEnemySpec  Code = "MISSING_ENEMY_SPEC"
	CodeMissingTemplate   Code = "MISSING_ACTOR_TEMPLATE"
	CodeEnemiesExhausted  Code = "ENEMIES_EXHAUSTED"
	CodeActorCreation     Code = "ACTOR_CREATION_FAILED"
	CodeNoActiveEnemy     Code = "NO_ACTIVE_ENEMY"
	CodeUnknownActor      Code = "UNKNOWN_ACTOR"
	CodeStageBusy         Code = "STAGE_BUSY"
	CodeStageNotCompleted Code = "STAGE_NOT_COMPLETED"
	CodeGameCompleted     Code = "GAME_COMPLETED"
	CodeRewardGate        Code = "REWARD_GATE_FAILED"
	CodeInvariant         Code = "INVARIANT_VIOLATION"
)

// Error is a sequencing error with a code for errors.Is matching.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Internal message for logs and telemetry
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Sentinels for errors.Is. Returned errors carry their own messages.
var (
	ErrEmptyStage        = newError(CodeEmptyStage, "stage has no enemies")
	ErrNoStage           = newError(CodeNoStage, "no stage loaded")
	ErrMissingEnemySpec  = newError(CodeMissingEnemySpec, "missing enemy spec")
	ErrMissingTemplate   = newError(CodeMissingTemplate, "missing actor template")
	ErrEnemiesExhausted  = newError(CodeEnemiesExhausted, "enemy list exhausted")
	ErrActorCreation     = newError(CodeActorCreation, "actor creation failed")
	ErrNoActiveEnemy     = newError(CodeNoActiveEnemy, "no active enemy")
	ErrUnknownActor      = newError(CodeUnknownActor, "actor is not the active enemy")
	ErrStageBusy         = newError(CodeStageBusy, "stage operation in flight")
	ErrStageNotCompleted = newError(CodeStageNotCompleted, "stage not completed")
	ErrGameCompleted     = newError(CodeGameCompleted, "game already completed")
	ErrRewardGate        = newError(CodeRewardGate, "reward gate failed")
	ErrInvariant         = newError(CodeInvariant, "invariant violation")
)
