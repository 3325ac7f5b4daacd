// Package combat provides the combat lifecycle state machine and the combat slot set.
package combat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Phase is a state of the combat lifecycle.
type Phase string

const (
	PhaseInit        Phase = "init"
	PhasePreparation Phase = "preparation"
	PhasePlayerTurn  Phase = "player_turn"
	PhaseEnemyTurn   Phase = "enemy_turn"
	PhaseResolution  Phase = "resolution"
	PhaseVictory     Phase = "victory"
	PhaseDefeat      Phase = "defeat"
	PhaseEnded       Phase = "ended"
	PhasePaused      Phase = "paused"
)

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// IsActive reports whether combat is underway in this phase. Only active
// phases can be paused.
func (p Phase) IsActive() bool {
	switch p {
	case PhasePreparation, PhasePlayerTurn, PhaseEnemyTurn, PhaseResolution:
		return true
	default:
		return false
	}
}

const (
	eventStartCombat      = "start_combat"
	eventNextEnemySpawned = "next_enemy_spawned"
	eventPrepared         = "prepared"
	eventEndPlayerTurn    = "end_player_turn"
	eventEndEnemyTurn     = "end_enemy_turn"
	eventEnemyDeath       = "enemy_death_detected"
	eventPlayerDefeated   = "player_defeated"
	eventDeclareVictory   = "declare_victory"
	eventDeclareDefeat    = "declare_defeat"
	eventEnd              = "end"
	eventPause            = "pause"
)

var (
	// ErrNotActive is returned when pausing outside an active phase.
	ErrNotActive = errors.New("combat is not in an active phase")
	// ErrNotPaused is returned when resuming a lifecycle that is not paused.
	ErrNotPaused = errors.New("combat is not paused")
)

// EventKind identifies a lifecycle notification.
type EventKind int

const (
	// EventStateEntered fires after every phase change.
	EventStateEntered EventKind = iota
	// EventEnemyDeathDetected fires before the dead actor is destroyed.
	EventEnemyDeathDetected
)

// Event is delivered to lifecycle listeners.
type Event struct {
	Kind     EventKind
	Phase    Phase  // Phase entered (EventStateEntered) or current phase
	Previous Phase  // Phase left, for EventStateEntered
	ActorID  string // Dead actor, for EventEnemyDeathDetected
}

// Listener receives lifecycle events. Listeners must not block.
type Listener func(Event)

// Lifecycle is the combat phase state machine. Transitions are driven by the
// encounter sequencer (StartCombat, NextEnemySpawned, EnemyDeathDetected,
// EndCombat) and by the turn subsystem (Prepared, EndPlayerTurn,
// EndEnemyTurn, PlayerDefeated). Pause is orthogonal: it can be entered from
// any active phase and Resume returns to the phase that was paused.
type Lifecycle struct {
	mu        sync.Mutex
	machine   *fsm.FSM
	resumeTo  Phase
	listeners []Listener
	logger    *zap.Logger
}

// NewLifecycle creates a lifecycle in PhaseInit.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Lifecycle{logger: logger.Named("combat")}

	active := []string{
		string(PhasePreparation),
		string(PhasePlayerTurn),
		string(PhaseEnemyTurn),
		string(PhaseResolution),
	}
	fighting := active[:3]

	l.machine = fsm.NewFSM(
		string(PhaseInit),
		fsm.Events{
			{Name: eventStartCombat, Src: []string{string(PhaseInit), string(PhaseEnded)}, Dst: string(PhasePreparation)},
			{Name: eventNextEnemySpawned, Src: []string{string(PhaseInit), string(PhaseVictory), string(PhaseEnded)}, Dst: string(PhasePreparation)},
			{Name: eventPrepared, Src: []string{string(PhasePreparation)}, Dst: string(PhasePlayerTurn)},
			{Name: eventEndPlayerTurn, Src: []string{string(PhasePlayerTurn)}, Dst: string(PhaseEnemyTurn)},
			{Name: eventEndEnemyTurn, Src: []string{string(PhaseEnemyTurn)}, Dst: string(PhasePlayerTurn)},
			{Name: eventEnemyDeath, Src: fighting, Dst: string(PhaseResolution)},
			{Name: eventPlayerDefeated, Src: fighting, Dst: string(PhaseResolution)},
			{Name: eventDeclareVictory, Src: []string{string(PhaseResolution)}, Dst: string(PhaseVictory)},
			{Name: eventDeclareDefeat, Src: []string{string(PhaseResolution)}, Dst: string(PhaseDefeat)},
			{Name: eventEnd, Src: []string{string(PhaseVictory), string(PhaseDefeat)}, Dst: string(PhaseEnded)},
			{Name: eventPause, Src: active, Dst: string(PhasePaused)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				l.logger.Debug("combat phase entered",
					zap.String("event", e.Event),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
				)
			},
		},
	)
	return l
}

// Subscribe registers a listener for lifecycle events.
func (l *Lifecycle) Subscribe(listener Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

// Phase returns the current phase.
func (l *Lifecycle) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Phase(l.machine.Current())
}

// Reset returns the lifecycle to PhaseInit, discarding any paused phase.
func (l *Lifecycle) Reset() {
	l.mu.Lock()
	from := Phase(l.machine.Current())
	l.machine.SetState(string(PhaseInit))
	l.resumeTo = ""
	l.mu.Unlock()

	if from != PhaseInit {
		l.emit(Event{Kind: EventStateEntered, Phase: PhaseInit, Previous: from})
	}
}

// StartCombat begins combat against the first enemy of a stage.
func (l *Lifecycle) StartCombat(ctx context.Context) error {
	return l.fire(ctx, eventStartCombat)
}

// NextEnemySpawned begins combat against a follow-up enemy of the same stage.
func (l *Lifecycle) NextEnemySpawned(ctx context.Context) error {
	return l.fire(ctx, eventNextEnemySpawned)
}

// Prepared ends the preparation phase and hands the first turn to the player.
func (l *Lifecycle) Prepared(ctx context.Context) error {
	return l.fire(ctx, eventPrepared)
}

// EndPlayerTurn passes the turn to the enemy.
func (l *Lifecycle) EndPlayerTurn(ctx context.Context) error {
	return l.fire(ctx, eventEndPlayerTurn)
}

// EndEnemyTurn passes the turn back to the player.
func (l *Lifecycle) EndEnemyTurn(ctx context.Context) error {
	return l.fire(ctx, eventEndEnemyTurn)
}

// EnemyDeathDetected notifies listeners of the death and resolves the
// encounter as a victory. Callers must invoke it before destroying the actor.
func (l *Lifecycle) EnemyDeathDetected(ctx context.Context, actorID string) error {
	l.emit(Event{Kind: EventEnemyDeathDetected, Phase: l.Phase(), ActorID: actorID})
	return l.fire(ctx, eventEnemyDeath, eventDeclareVictory)
}

// PlayerDefeated resolves the encounter as a defeat.
func (l *Lifecycle) PlayerDefeated(ctx context.Context) error {
	return l.fire(ctx, eventPlayerDefeated, eventDeclareDefeat)
}

// EndCombat closes a finished encounter.
func (l *Lifecycle) EndCombat(ctx context.Context) error {
	return l.fire(ctx, eventEnd)
}

// Pause suspends an active phase.
func (l *Lifecycle) Pause(ctx context.Context) error {
	l.mu.Lock()
	from := Phase(l.machine.Current())
	if !from.IsActive() {
		l.mu.Unlock()
		return fmt.Errorf("pause from %s: %w", from, ErrNotActive)
	}
	if err := l.machine.Event(ctx, eventPause); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("pause from %s: %w", from, err)
	}
	l.resumeTo = from
	l.mu.Unlock()

	l.emit(Event{Kind: EventStateEntered, Phase: PhasePaused, Previous: from})
	return nil
}

// Resume returns to the phase that was active when Pause was called.
func (l *Lifecycle) Resume(ctx context.Context) error {
	l.mu.Lock()
	if !l.machine.Is(string(PhasePaused)) {
		current := l.machine.Current()
		l.mu.Unlock()
		return fmt.Errorf("resume from %s: %w", current, ErrNotPaused)
	}
	to := l.resumeTo
	l.machine.SetState(string(to))
	l.resumeTo = ""
	l.mu.Unlock()

	l.emit(Event{Kind: EventStateEntered, Phase: to, Previous: PhasePaused})
	return nil
}

// fire applies events in order, stopping at the first rejected transition.
// Listeners are notified after the lock is released.
func (l *Lifecycle) fire(ctx context.Context, events ...string) error {
	var entered []Event

	l.mu.Lock()
	for _, name := range events {
		from := Phase(l.machine.Current())
		if err := l.machine.Event(ctx, name); err != nil {
			l.mu.Unlock()
			l.emit(entered...)
			return fmt.Errorf("combat %s from %s: %w", name, from, err)
		}
		entered = append(entered, Event{
			Kind:     EventStateEntered,
			Phase:    Phase(l.machine.Current()),
			Previous: from,
		})
	}
	l.mu.Unlock()

	l.emit(entered...)
	return nil
}

func (l *Lifecycle) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	l.mu.Lock()
	listeners := append([]Listener(nil), l.listeners...)
	l.mu.Unlock()

	for _, ev := range events {
		for _, listener := range listeners {
			listener(ev)
		}
	}
}
