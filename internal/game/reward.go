package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/samdwyer/deckband/internal/encounter"
)

// Reward is what the player earns for defeating an original enemy.
type Reward struct {
	Enemy string
	Gold  int
}

// String formats the reward for the panel.
func (r Reward) String() string {
	return fmt.Sprintf("%s defeated! +%d gold", r.Enemy, r.Gold)
}

// rewardFor computes the reward for a defeated enemy: half its max HP plus
// any gold it carried.
func rewardFor(actor encounter.Actor) Reward {
	spec := actor.Spec()
	return Reward{Enemy: spec.Name, Gold: spec.HP/2 + spec.Resources["gold"]}
}

// rewardPanel is a RewardGate that stays open until the player dismisses it.
type rewardPanel struct {
	mu      sync.Mutex
	pending chan struct{}
	current Reward
	total   int
	onOpen  func(Reward)
}

// OnOriginalEnemyDefeated implements encounter.RewardGate.
func (p *rewardPanel) OnOriginalEnemyDefeated(ctx context.Context, actor encounter.Actor) error {
	reward := rewardFor(actor)
	closed := make(chan struct{})

	p.mu.Lock()
	p.pending = closed
	p.current = reward
	p.mu.Unlock()

	if p.onOpen != nil {
		p.onOpen(reward)
	}

	select {
	case <-closed:
		p.mu.Lock()
		p.total += reward.Gold
		p.mu.Unlock()
		return nil
	case <-ctx.Done():
		p.mu.Lock()
		if p.pending == closed {
			p.pending = nil
		}
		p.mu.Unlock()
		return ctx.Err()
	}
}

// Close dismisses the open panel. It reports false when none is open.
func (p *rewardPanel) Close() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return false
	}
	close(p.pending)
	p.pending = nil
	return true
}

// Open returns the reward on display, if any.
func (p *rewardPanel) Open() (Reward, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.pending != nil
}

// Gold returns the gold collected from closed panels.
func (p *rewardPanel) Gold() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}
