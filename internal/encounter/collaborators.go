package encounter

import (
	"context"

	"github.com/samdwyer/deckband/internal/gamedata"
)

// Actor is a live enemy instance.
type Actor interface {
	ID() string
	Spec() *gamedata.EnemyDef
	HP() int
	SetHP(hp int)
	// Deactivate suspends the actor behind a summon without destroying it.
	Deactivate()
	Destroy()
}

// ActorFactory creates and reuses enemy actors.
type ActorFactory interface {
	CreateActor(ctx context.Context, spec *gamedata.EnemyDef) (Actor, error)
	// ReactivateActor returns a previously deactivated actor for spec with its
	// HP set to hp, or nil if no such instance exists.
	ReactivateActor(ctx context.Context, spec *gamedata.EnemyDef, hp int) (Actor, error)
}

// EntranceAnimator plays an actor's arrival effect. Implementations should
// stop when ctx is cancelled; the sequencer stops waiting either way.
type EntranceAnimator interface {
	PlayEntrance(ctx context.Context, actor Actor) error
}

// RewardGate runs the post-defeat reward flow for an original enemy and
// returns once the player closes it.
type RewardGate interface {
	OnOriginalEnemyDefeated(ctx context.Context, actor Actor) error
}

// Lifecycle is the combat lifecycle as driven by the sequencer.
type Lifecycle interface {
	Reset()
	StartCombat(ctx context.Context) error
	NextEnemySpawned(ctx context.Context) error
	EnemyDeathDetected(ctx context.Context, actorID string) error
	EndCombat(ctx context.Context) error
}

// SlotClearer empties every combat slot in one call.
type SlotClearer interface {
	ClearAll() int
}
