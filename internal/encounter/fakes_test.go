package encounter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samdwyer/deckband/internal/gamedata"
)

var actorSeq atomic.Int64

func testDef(id string, hp int) *gamedata.EnemyDef {
	return &gamedata.EnemyDef{ID: id, Name: id, HP: hp, Template: "actors/" + id}
}

func testStage(number int, last bool, defs ...*gamedata.EnemyDef) *gamedata.Stage {
	return &gamedata.Stage{Number: number, Name: fmt.Sprintf("stage %d", number), Enemies: defs, IsLast: last}
}

// fakeActor is a minimal Actor.
type fakeActor struct {
	mu          sync.Mutex
	id          string
	spec        *gamedata.EnemyDef
	hp          int
	deactivated bool
	destroyed   bool
}

func newFakeActor(spec *gamedata.EnemyDef) *fakeActor {
	return &fakeActor{
		id:   fmt.Sprintf("%s-%d", spec.ID, actorSeq.Add(1)),
		spec: spec,
		hp:   spec.HP,
	}
}

func (a *fakeActor) ID() string { return a.id }
func (a *fakeActor) Spec() *gamedata.EnemyDef { return a.spec }

func (a *fakeActor) HP() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hp
}

func (a *fakeActor) SetHP(hp int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hp = hp
}

func (a *fakeActor) Deactivate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deactivated = true
}

func (a *fakeActor) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyed = true
}

func (a *fakeActor) isDestroyed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destroyed
}

func (a *fakeActor) isDeactivated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deactivated
}

// fakeFactory creates fakeActors. With reuse set, ReactivateActor returns a
// deactivated instance of the same spec.
type fakeFactory struct {
	mu      sync.Mutex
	created []*fakeActor
	err     error
	reuse   bool

	// When block is non-nil CreateActor signals entered and waits for block
	// to close.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeFactory) CreateActor(ctx context.Context, spec *gamedata.EnemyDef) (Actor, error) {
	f.mu.Lock()
	err, block, entered := f.err, f.block, f.entered
	f.mu.Unlock()

	if block != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	actor := newFakeActor(spec)
	f.mu.Lock()
	f.created = append(f.created, actor)
	f.mu.Unlock()
	return actor, nil
}

func (f *fakeFactory) ReactivateActor(_ context.Context, spec *gamedata.EnemyDef, hp int) (Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.reuse {
		return nil, nil
	}
	for _, a := range f.created {
		if a.spec.ID == spec.ID && a.isDeactivated() && !a.isDestroyed() {
			a.mu.Lock()
			a.deactivated = false
			a.hp = hp
			a.mu.Unlock()
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeFactory) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// fakeAnimator waits delay or until ctx ends.
type fakeAnimator struct {
	delay     time.Duration
	calls     atomic.Int32
	cancelled atomic.Bool
}

func (a *fakeAnimator) PlayEntrance(ctx context.Context, _ Actor) error {
	a.calls.Add(1)
	if a.delay == 0 {
		return nil
	}
	select {
	case <-time.After(a.delay):
		return nil
	case <-ctx.Done():
		a.cancelled.Store(true)
		return ctx.Err()
	}
}

// fakeGate records every original-enemy defeat it is asked to gate.
type fakeGate struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (g *fakeGate) OnOriginalEnemyDefeated(_ context.Context, actor Actor) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, actor.Spec().ID)
	return g.err
}

func (g *fakeGate) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// fakeLifecycle records the lifecycle calls in order.
type fakeLifecycle struct {
	mu    sync.Mutex
	calls []string
}

func (l *fakeLifecycle) record(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *fakeLifecycle) Reset() { l.record("reset") }

func (l *fakeLifecycle) StartCombat(context.Context) error {
	l.record("start")
	return nil
}

func (l *fakeLifecycle) NextEnemySpawned(context.Context) error {
	l.record("next")
	return nil
}

func (l *fakeLifecycle) EndCombat(context.Context) error {
	l.record("end")
	return nil
}

func (l *fakeLifecycle) EnemyDeathDetected(context.Context, string) error {
	l.record("death")
	return nil
}

func (l *fakeLifecycle) history() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeSlots struct {
	clears atomic.Int32
}

func (s *fakeSlots) ClearAll() int {
	s.clears.Add(1)
	return 0
}

// eventLog collects sequencer events.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) listen(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) kinds() []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]EventKind, len(l.events))
	for i, ev := range l.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, k := range l.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}
