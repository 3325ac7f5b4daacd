// Package encounter sequences the enemies of a stage, drives the combat
// lifecycle on spawn and death, and suspends parent encounters behind nested
// summons.
package encounter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/samdwyer/deckband/internal/gamedata"
	"github.com/samdwyer/deckband/internal/telemetry"
)

// DefaultEntranceTimeout caps how long a spawn waits on the entrance animation.
const DefaultEntranceTimeout = 2 * time.Second

// Deps are the collaborators a Sequencer drives. Animator may be nil.
type Deps struct {
	Factory   ActorFactory
	Animator  EntranceAnimator
	Gate      RewardGate
	Lifecycle Lifecycle
	Slots     SlotClearer
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger.Named("encounter")
		}
	}
}

// WithEntranceTimeout overrides DefaultEntranceTimeout.
func WithEntranceTimeout(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > 0 {
			s.entranceTimeout = d
		}
	}
}

// WithStrictInvariants makes invariant violations panic instead of
// returning ErrInvariant.
func WithStrictInvariants(strict bool) Option {
	return func(s *Sequencer) {
		s.strict = strict
	}
}

// Sequencer owns stage progress, the encounter slot and the summon stack.
//
// At most one spawn, summon or death resolution is in flight at a time; the
// single-flight guard is held across every suspension point (actor creation,
// entrance animation, reward gate). Destroy marks the sequencer torn down and
// every later resume point becomes a silent no-op.
type Sequencer struct {
	factory         ActorFactory
	animator        EntranceAnimator
	gate            RewardGate
	lifecycle       Lifecycle
	slots           SlotClearer
	logger          *zap.Logger
	entranceTimeout time.Duration
	strict          bool

	guard     *semaphore.Weighted
	destroyed atomic.Bool

	mu        sync.Mutex
	stage     *gamedata.Stage
	progress  StageProgress
	slot      Slot
	summons   SummonStack
	resolved  map[string]struct{}
	listeners []Listener
}

// NewSequencer creates a sequencer with no stage loaded.
func NewSequencer(deps Deps, opts ...Option) (*Sequencer, error) {
	switch {
	case deps.Factory == nil:
		return nil, errors.New("encounter: actor factory is required")
	case deps.Gate == nil:
		return nil, errors.New("encounter: reward gate is required")
	case deps.Lifecycle == nil:
		return nil, errors.New("encounter: combat lifecycle is required")
	case deps.Slots == nil:
		return nil, errors.New("encounter: combat slots are required")
	}

	s := &Sequencer{
		factory:         deps.Factory,
		animator:        deps.Animator,
		gate:            deps.Gate,
		lifecycle:       deps.Lifecycle,
		slots:           deps.Slots,
		logger:          zap.NewNop(),
		entranceTimeout: DefaultEntranceTimeout,
		guard:           semaphore.NewWeighted(1),
		resolved:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Subscribe registers a listener for sequencer events.
func (s *Sequencer) Subscribe(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// =============================================================================
// Stage sequencing
// =============================================================================

// StartStage resets progress for stage, clears the summon stack and combat
// slots, and spawns the first enemy.
func (s *Sequencer) StartStage(ctx context.Context, stage *gamedata.Stage) error {
	if s.isDestroyed("start stage") {
		return nil
	}
	if stage == nil {
		return newError(CodeNoStage, "start stage: nil stage definition")
	}
	if len(stage.Enemies) == 0 {
		return newError(CodeEmptyStage, fmt.Sprintf("start stage %d: no enemies", stage.Number))
	}

	ctx, span := telemetry.Tracer("encounter").Start(ctx, "encounter.start_stage")
	span.SetAttributes(
		attribute.Int("stage.number", stage.Number),
		attribute.Int("stage.enemies", len(stage.Enemies)),
		attribute.Bool("stage.last", stage.IsLast),
	)
	defer span.End()

	if !s.guard.TryAcquire(1) {
		s.logger.Warn("start stage rejected: operation in flight", zap.Int("stage", stage.Number))
		return newError(CodeStageBusy, fmt.Sprintf("start stage %d: operation in flight", stage.Number))
	}
	defer s.guard.Release(1)

	s.mu.Lock()
	previous := s.slot.Vacate()
	s.stage = stage
	s.progress.State = StateInProgress
	s.progress.StageNumber = stage.Number
	s.progress.EnemyIndex = 0
	s.summons.Clear()
	s.resolved = make(map[string]struct{})
	s.mu.Unlock()

	if previous != nil {
		previous.Destroy()
	}
	s.slots.ClearAll()
	s.lifecycle.Reset()

	s.logger.Info("stage started",
		zap.Int("stage", stage.Number),
		zap.String("name", stage.Name),
		zap.Int("enemies", len(stage.Enemies)),
	)

	if _, err := s.spawnNext(ctx, true); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// SpawnNextEnemy spawns the next original enemy of the stage. It returns
// false without error when a spawn is already in flight, the encounter slot
// is occupied, the enemy list is exhausted, or the sequencer is torn down.
func (s *Sequencer) SpawnNextEnemy(ctx context.Context) (bool, error) {
	if s.isDestroyed("spawn") {
		return false, nil
	}
	if !s.guard.TryAcquire(1) {
		s.logger.Info("spawn skipped: spawn already in flight")
		return false, nil
	}
	defer s.guard.Release(1)

	return s.spawnNext(ctx, false)
}

// AdvanceProgress spawns the next enemy, or completes the stage when none
// remain. Callers use it to retry after a failed reward gate or spawn. While
// a suspended parent is waiting to be restored it retries the restore
// instead.
func (s *Sequencer) AdvanceProgress(ctx context.Context) error {
	if s.isDestroyed("advance") {
		return nil
	}
	if !s.guard.TryAcquire(1) {
		return newError(CodeStageBusy, "advance: operation in flight")
	}
	defer s.guard.Release(1)

	return s.advance(ctx)
}

// FailStage marks the current stage failed after the party is defeated.
// The stage can be replayed with StartStage.
func (s *Sequencer) FailStage(ctx context.Context) error {
	if s.isDestroyed("fail stage") {
		return nil
	}

	s.mu.Lock()
	if s.progress.State != StateInProgress {
		state := s.progress.State
		s.mu.Unlock()
		return newError(CodeNoStage, fmt.Sprintf("fail stage: stage is %s", state))
	}
	s.progress.State = StateFailed
	stage := s.stage
	s.mu.Unlock()

	_, span := telemetry.Tracer("encounter").Start(ctx, "encounter.fail_stage")
	span.SetAttributes(attribute.Int("stage.number", stage.Number))
	span.End()

	s.logger.Info("stage failed", zap.Int("stage", stage.Number))
	s.emit(Event{Kind: EventStageFailed, Stage: stage})
	return nil
}

// RequestNextStage starts next after the current stage completed. Progression
// never happens on its own: the caller decides when the player has confirmed.
func (s *Sequencer) RequestNextStage(ctx context.Context, next *gamedata.Stage) error {
	if s.isDestroyed("next stage") {
		return nil
	}
	if next == nil {
		return newError(CodeNoStage, "next stage: nil stage definition")
	}

	s.mu.Lock()
	state := s.progress.State
	gameDone := s.progress.GameCompleted
	previous := s.stage
	s.mu.Unlock()

	if gameDone {
		return newError(CodeGameCompleted, "next stage: game already completed")
	}
	if state != StateCompleted {
		return newError(CodeStageNotCompleted, fmt.Sprintf("next stage: current stage is %s", state))
	}

	s.logger.Info("stage transition",
		zap.Int("from", previous.Number),
		zap.Int("to", next.Number),
	)
	s.emit(Event{Kind: EventStageTransition, Stage: previous, Next: next})
	return s.StartStage(ctx, next)
}

// spawnNext requires the guard. forced turns an exhausted enemy list into an
// error instead of a no-op.
func (s *Sequencer) spawnNext(ctx context.Context, forced bool) (bool, error) {
	s.mu.Lock()
	stage := s.stage
	if stage == nil {
		s.mu.Unlock()
		return false, newError(CodeNoStage, "spawn: no stage loaded")
	}
	if occupant := s.slot.Current(); occupant != nil {
		s.mu.Unlock()
		s.logger.Warn("spawn skipped: encounter slot occupied", zap.String("occupant", occupant.ID()))
		return false, nil
	}
	if depth := s.summons.Depth(); depth > 0 {
		s.mu.Unlock()
		s.logger.Warn("spawn skipped: parent encounter awaiting restore", zap.Int("summon_depth", depth))
		return false, nil
	}
	index := s.progress.EnemyIndex
	if index >= len(stage.Enemies) {
		s.mu.Unlock()
		if forced {
			return false, newError(CodeEnemiesExhausted,
				fmt.Sprintf("stage %d: no enemy at index %d", stage.Number, index))
		}
		s.logger.Info("spawn skipped: enemy list exhausted", zap.Int("stage", stage.Number))
		return false, nil
	}
	spec := stage.Enemies[index]
	s.mu.Unlock()

	ctx, span := telemetry.Tracer("encounter").Start(ctx, "encounter.spawn")
	span.SetAttributes(
		attribute.Int("stage.number", stage.Number),
		attribute.Int("enemy.index", index),
	)
	defer span.End()

	actor, err := s.materialize(ctx, spec)
	if s.isDestroyed("spawn") {
		return false, nil
	}
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("spawn failed; stage blocked until spawn is retried",
			zap.Int("stage", stage.Number),
			zap.Int("enemy_index", index),
			zap.Error(err),
		)
		s.emit(Event{Kind: EventSpawnFailed, Stage: stage, Err: err})
		return false, err
	}

	s.mu.Lock()
	if err := s.slot.Occupy(actor); err != nil {
		s.mu.Unlock()
		actor.Destroy()
		return false, s.violation(err.Error())
	}
	s.progress.EnemyIndex = index + 1
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("enemy.id", spec.ID),
		attribute.String("actor.id", actor.ID()),
	)
	s.logger.Info("enemy spawned",
		zap.Int("stage", stage.Number),
		zap.Int("enemy_index", index),
		zap.String("enemy", spec.ID),
		zap.String("actor", actor.ID()),
	)

	if index == 0 {
		err = s.lifecycle.StartCombat(ctx)
	} else {
		err = s.lifecycle.NextEnemySpawned(ctx)
	}
	if err != nil {
		s.logger.Warn("combat lifecycle rejected spawn notification", zap.Error(err))
	}

	s.emit(Event{Kind: EventEnemySpawned, Actor: actor, Stage: stage})
	return true, nil
}

// advance requires the guard.
func (s *Sequencer) advance(ctx context.Context) error {
	s.mu.Lock()
	stage := s.stage
	state := s.progress.State
	remaining := stage != nil && s.progress.EnemyIndex < len(stage.Enemies)
	pending := s.summons.Depth() > 0 && !s.slot.Occupied()
	s.mu.Unlock()

	if stage == nil {
		return newError(CodeNoStage, "advance: no stage loaded")
	}
	if state != StateInProgress {
		s.logger.Info("advance skipped", zap.Stringer("state", state))
		return nil
	}
	if pending {
		s.logger.Info("retrying restore of suspended parent")
		return s.restoreParent(ctx)
	}
	if !remaining {
		return s.completeStage(ctx)
	}

	cleared := s.slots.ClearAll()
	s.logger.Debug("combat slots cleared", zap.Int("cards", cleared))

	_, err := s.spawnNext(ctx, true)
	return err
}

// completeStage requires the guard.
func (s *Sequencer) completeStage(ctx context.Context) error {
	s.mu.Lock()
	if s.progress.State != StateInProgress {
		s.mu.Unlock()
		return nil
	}
	stage := s.stage
	s.progress.State = StateCompleted
	s.progress.StagesCompleted++
	if stage.IsLast {
		s.progress.GameCompleted = true
	}
	completed := s.progress.StagesCompleted
	s.mu.Unlock()

	ctx, span := telemetry.Tracer("encounter").Start(ctx, "encounter.complete_stage")
	span.SetAttributes(
		attribute.Int("stage.number", stage.Number),
		attribute.Int("stages.completed", completed),
		attribute.Bool("game.completed", stage.IsLast),
	)
	defer span.End()

	if err := s.lifecycle.EndCombat(ctx); err != nil {
		s.logger.Warn("combat lifecycle rejected end of combat", zap.Error(err))
	}

	s.logger.Info("stage completed",
		zap.Int("stage", stage.Number),
		zap.Int("stages_completed", completed),
	)
	s.emit(Event{Kind: EventStageCompleted, Stage: stage})

	if stage.IsLast {
		s.logger.Info("game completed", zap.Int("stages_completed", completed))
		s.emit(Event{Kind: EventGameCompleted, Stage: stage})
	}
	return nil
}

// =============================================================================
// Death handling
// =============================================================================

// OnEnemyDeath is the single entry point for enemy deaths. A death while the
// summon stack is non-empty restores the suspended parent; otherwise the
// original encounter ends, the reward gate runs, and the stage advances.
func (s *Sequencer) OnEnemyDeath(ctx context.Context, actor Actor) error {
	if s.isDestroyed("enemy death") {
		return nil
	}
	if actor == nil {
		return newError(CodeUnknownActor, "enemy death: nil actor")
	}
	if s.deathResolved(actor) {
		return s.violation(fmt.Sprintf("death of %s handled twice", actor.ID()))
	}

	if err := s.guard.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("enemy death: %w", err)
	}
	defer s.guard.Release(1)

	if s.isDestroyed("enemy death") {
		return nil
	}

	s.mu.Lock()
	if _, seen := s.resolved[actor.ID()]; seen {
		s.mu.Unlock()
		return s.violation(fmt.Sprintf("death of %s handled twice", actor.ID()))
	}
	if !s.slot.Holds(actor) {
		s.mu.Unlock()
		return newError(CodeUnknownActor, fmt.Sprintf("enemy death: %s is not the active enemy", actor.ID()))
	}
	s.resolved[actor.ID()] = struct{}{}
	summoned := s.summons.Depth() > 0
	s.mu.Unlock()

	if summoned {
		return s.resolveSummonDeath(ctx, actor)
	}
	return s.resolveOriginalDeath(ctx, actor)
}

func (s *Sequencer) resolveOriginalDeath(ctx context.Context, actor Actor) error {
	s.mu.Lock()
	stage := s.stage
	index := s.progress.EnemyIndex
	s.mu.Unlock()

	ctx, span := telemetry.Tracer("encounter").Start(ctx, "encounter.original_death")
	span.SetAttributes(
		attribute.Int("stage.number", stage.Number),
		attribute.Int("enemy.index", index),
		attribute.String("enemy.id", actor.Spec().ID),
	)
	defer span.End()

	// Listeners must see the actor before it is destroyed.
	if err := s.lifecycle.EnemyDeathDetected(ctx, actor.ID()); err != nil {
		s.logger.Warn("combat lifecycle rejected death notification", zap.Error(err))
	}
	s.emit(Event{Kind: EventEnemyDefeated, Actor: actor, Stage: stage})

	s.mu.Lock()
	s.slot.Vacate()
	s.mu.Unlock()
	actor.Destroy()

	s.logger.Info("original enemy defeated",
		zap.Int("stage", stage.Number),
		zap.String("enemy", actor.Spec().ID),
		zap.String("actor", actor.ID()),
	)

	if err := s.gate.OnOriginalEnemyDefeated(ctx, actor); err != nil {
		if s.isDestroyed("reward gate") {
			return nil
		}
		span.RecordError(err)
		s.logger.Warn("reward gate did not complete; stage advancement blocked", zap.Error(err))
		return wrapError(CodeRewardGate, "reward gate", err)
	}
	if s.isDestroyed("advance") {
		return nil
	}
	return s.advance(ctx)
}

func (s *Sequencer) deathResolved(actor Actor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, seen := s.resolved[actor.ID()]
	return seen
}

// =============================================================================
// Summons
// =============================================================================

// EnterSummon suspends the active enemy and makes target the active enemy.
// Summoned enemies do not consume the stage's enemy list. It returns false
// without error when another operation is in flight or after teardown.
func (s *Sequencer) EnterSummon(ctx context.Context, target *gamedata.EnemyDef) (bool, error) {
	if s.isDestroyed("enter summon") {
		return false, nil
	}
	if !s.guard.TryAcquire(1) {
		s.logger.Info("summon skipped: operation in flight")
		return false, nil
	}
	defer s.guard.Release(1)

	s.mu.Lock()
	parent := s.slot.Current()
	stage := s.stage
	s.mu.Unlock()
	if parent == nil {
		return false, newError(CodeNoActiveEnemy, "enter summon: no active enemy to suspend")
	}

	ctx, span := telemetry.Tracer("encounter").Start(ctx, "encounter.enter_summon")
	span.SetAttributes(attribute.String("parent.id", parent.Spec().ID))
	defer span.End()

	actor, err := s.materialize(ctx, target)
	if s.isDestroyed("enter summon") {
		return false, nil
	}
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("summon failed", zap.String("parent", parent.ID()), zap.Error(err))
		s.emit(Event{Kind: EventSpawnFailed, Stage: stage, Err: err})
		return false, err
	}

	s.mu.Lock()
	if !s.slot.Holds(parent) {
		s.mu.Unlock()
		actor.Destroy()
		return false, s.violation("active enemy changed while summoning")
	}
	s.slot.Vacate()
	if err := s.slot.Occupy(actor); err != nil {
		_ = s.slot.Occupy(parent)
		s.mu.Unlock()
		actor.Destroy()
		return false, s.violation(err.Error())
	}
	s.summons.Push(SummonFrame{Enemy: parent.Spec(), HP: parent.HP()})
	depth := s.summons.Depth()
	s.mu.Unlock()

	parent.Deactivate()

	span.SetAttributes(
		attribute.String("summon.id", target.ID),
		attribute.Int("summon.depth", depth),
	)
	s.logger.Info("summon entered",
		zap.String("parent", parent.Spec().ID),
		zap.Int("parent_hp", parent.HP()),
		zap.String("summon", target.ID),
		zap.Int("summon_depth", depth),
	)
	s.emit(Event{Kind: EventSummonEntered, Actor: actor, Stage: stage, Depth: depth})
	return true, nil
}

// UpdateTopHP records a new HP for the innermost suspended parent. It reports
// false and records nothing when no parent is suspended or hp is not
// positive; a restored parent must be alive. Actors may clamp the value to
// their own maximum on restore.
func (s *Sequencer) UpdateTopHP(hp int) bool {
	if hp <= 0 {
		s.logger.Warn("suspended parent HP update rejected", zap.Int("hp", hp))
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summons.UpdateTopHP(hp)
}

func (s *Sequencer) resolveSummonDeath(ctx context.Context, actor Actor) error {
	ctx, span := telemetry.Tracer("encounter").Start(ctx, "encounter.summon_death")
	defer span.End()

	s.mu.Lock()
	frame, ok := s.summons.Peek()
	if !ok {
		s.mu.Unlock()
		return s.violation("summoned death with an empty summon stack")
	}
	s.slot.Vacate()
	depth := s.summons.Depth() - 1
	stage := s.stage
	s.mu.Unlock()

	span.SetAttributes(
		attribute.String("summon.id", actor.Spec().ID),
		attribute.String("parent.id", frame.Enemy.ID),
		attribute.Int("parent.hp", frame.HP),
		attribute.Int("summon.depth", depth),
	)

	s.emit(Event{Kind: EventSummonDefeated, Actor: actor, Stage: stage, Depth: depth})
	actor.Destroy()

	if err := s.restoreParent(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// restoreParent requires the guard and an empty slot. The innermost frame is
// popped only once its parent holds the slot, so a failed restore leaves the
// frame in place for AdvanceProgress to retry.
func (s *Sequencer) restoreParent(ctx context.Context) error {
	s.mu.Lock()
	frame, ok := s.summons.Peek()
	stage := s.stage
	s.mu.Unlock()
	if !ok {
		return s.violation("restore with an empty summon stack")
	}

	parent, err := s.restore(ctx, frame)
	if s.isDestroyed("restore") {
		return nil
	}
	if err != nil {
		s.logger.Error("parent encounter could not be restored; stage blocked",
			zap.String("parent", frame.Enemy.ID),
			zap.Error(err),
		)
		return err
	}

	s.mu.Lock()
	if err := s.slot.Occupy(parent); err != nil {
		s.mu.Unlock()
		return s.violation(err.Error())
	}
	s.summons.Pop()
	depth := s.summons.Depth()
	s.mu.Unlock()

	s.logger.Info("parent encounter restored",
		zap.String("parent", frame.Enemy.ID),
		zap.Int("hp", frame.HP),
		zap.Int("summon_depth", depth),
	)
	s.emit(Event{Kind: EventEncounterRestored, Actor: parent, Stage: stage, Depth: depth})
	return nil
}

// restore brings back a suspended parent, reusing the deactivated instance
// when the factory still has it.
func (s *Sequencer) restore(ctx context.Context, frame SummonFrame) (Actor, error) {
	parent, err := s.factory.ReactivateActor(ctx, frame.Enemy, frame.HP)
	if err != nil {
		return nil, wrapError(CodeActorCreation, "reactivate "+frame.Enemy.ID, err)
	}
	if parent == nil {
		s.logger.Debug("no suspended instance; recreating parent", zap.String("parent", frame.Enemy.ID))
		if parent, err = s.materialize(ctx, frame.Enemy); err != nil {
			return nil, err
		}
	}
	parent.SetHP(frame.HP)
	return parent, nil
}

// =============================================================================
// Actor creation
// =============================================================================

func (s *Sequencer) materialize(ctx context.Context, spec *gamedata.EnemyDef) (Actor, error) {
	if spec == nil {
		return nil, newError(CodeMissingEnemySpec, "spawn: missing enemy spec")
	}
	if spec.Template == "" {
		return nil, newError(CodeMissingTemplate, fmt.Sprintf("spawn %s: missing actor template", spec.ID))
	}

	actor, err := s.factory.CreateActor(ctx, spec)
	if err != nil {
		return nil, wrapError(CodeActorCreation, "create actor "+spec.ID, err)
	}
	if actor == nil {
		return nil, newError(CodeActorCreation, "create actor "+spec.ID+": factory returned no actor")
	}

	s.playEntrance(ctx, actor)
	return actor, nil
}

// playEntrance waits for the entrance animation for at most entranceTimeout.
// On timeout the animation's context is cancelled and the spawn proceeds.
func (s *Sequencer) playEntrance(ctx context.Context, actor Actor) {
	if s.animator == nil {
		return
	}

	actx, cancel := context.WithTimeout(ctx, s.entranceTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.animator.PlayEntrance(actx, actor)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			s.logger.Warn("entrance animation failed", zap.String("actor", actor.ID()), zap.Error(err))
		}
	case <-actx.Done():
		s.logger.Info("entrance animation cut short",
			zap.String("actor", actor.ID()),
			zap.Duration("timeout", s.entranceTimeout),
			zap.Error(actx.Err()),
		)
	}
}

// =============================================================================
// Teardown, invariants, events
// =============================================================================

// Destroy marks the sequencer torn down. Pending and later operations return
// without touching actors, slots or collaborators.
func (s *Sequencer) Destroy() {
	if s.destroyed.CompareAndSwap(false, true) {
		s.logger.Info("sequencer destroyed")
	}
}

// IsDestroyed reports whether Destroy has been called.
func (s *Sequencer) IsDestroyed() bool {
	return s.destroyed.Load()
}

func (s *Sequencer) isDestroyed(op string) bool {
	if !s.destroyed.Load() {
		return false
	}
	s.logger.Info("operation ignored after teardown", zap.String("op", op))
	return true
}

func (s *Sequencer) violation(detail string) error {
	s.logger.Error("encounter invariant violated", zap.String("detail", detail))
	if s.strict {
		panic("encounter: invariant violated: " + detail)
	}
	return newError(CodeInvariant, "invariant violated: "+detail)
}

func (s *Sequencer) emit(ev Event) {
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(ev)
	}
}
