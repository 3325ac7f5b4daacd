package game

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/samdwyer/deckband/internal/encounter"
	"github.com/samdwyer/deckband/internal/entity"
	"github.com/samdwyer/deckband/internal/gamedata"
)

// actorFactory instantiates enemies and remembers them so a parent suspended
// behind a summon can be reactivated instead of rebuilt.
type actorFactory struct {
	mu     sync.Mutex
	actors []*entity.Enemy
	logger *zap.Logger
}

func newActorFactory(logger *zap.Logger) *actorFactory {
	return &actorFactory{logger: logger.Named("factory")}
}

// CreateActor implements encounter.ActorFactory.
func (f *actorFactory) CreateActor(ctx context.Context, spec *gamedata.EnemyDef) (encounter.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if spec.HP <= 0 {
		return nil, fmt.Errorf("enemy %q: hp must be positive, got %d", spec.ID, spec.HP)
	}

	enemy := entity.NewEnemy(spec)

	f.mu.Lock()
	f.prune()
	f.actors = append(f.actors, enemy)
	f.mu.Unlock()

	f.logger.Debug("actor created", zap.String("enemy", spec.ID), zap.String("actor", enemy.ID()))
	return enemy, nil
}

// ReactivateActor implements encounter.ActorFactory. The most recently
// suspended instance of spec wins.
func (f *actorFactory) ReactivateActor(_ context.Context, spec *gamedata.EnemyDef, hp int) (encounter.Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prune()
	var latest *entity.Enemy
	for _, enemy := range f.actors {
		if enemy.Spec().ID != spec.ID || enemy.IsActive() || enemy.IsDestroyed() {
			continue
		}
		if latest == nil || enemy.SuspendOrder() > latest.SuspendOrder() {
			latest = enemy
		}
	}
	if latest == nil {
		return nil, nil
	}

	latest.Activate()
	latest.SetHP(hp)
	f.logger.Debug("actor reactivated", zap.String("enemy", spec.ID), zap.Int("hp", hp))
	return latest, nil
}

// DiscardSuspended destroys every suspended enemy. A new stage starts with
// an empty summon stack, so nothing can reactivate them.
func (f *actorFactory) DiscardSuspended() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	discarded := 0
	for _, enemy := range f.actors {
		if !enemy.IsActive() && !enemy.IsDestroyed() {
			enemy.Destroy()
			discarded++
		}
	}
	f.prune()
	return discarded
}

// Live returns the number of instances that are not destroyed.
func (f *actorFactory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune()
	return len(f.actors)
}

func (f *actorFactory) prune() {
	f.actors = slices.DeleteFunc(f.actors, (*entity.Enemy).IsDestroyed)
}
