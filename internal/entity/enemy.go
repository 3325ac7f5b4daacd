// Package entity provides the live actors and card handles placed into combat.
package entity

import (
	"maps"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/samdwyer/deckband/internal/gamedata"
)

// suspensions orders Deactivate calls across all enemies.
var suspensions atomic.Uint64

// Enemy is a live enemy actor instantiated from an EnemyDef.
// An enemy is either active, deactivated (suspended behind a summon) or destroyed.
type Enemy struct {
	mu        sync.RWMutex
	id        string
	def       *gamedata.EnemyDef
	hp        int
	resources map[string]int
	active    bool
	destroyed bool
	suspended uint64 // Order of the latest Deactivate; 0 if never suspended
}

// NewEnemy creates an active enemy at full HP from its definition.
func NewEnemy(def *gamedata.EnemyDef) *Enemy {
	return &Enemy{
		id:        uuid.NewString(),
		def:       def,
		hp:        def.HP,
		resources: maps.Clone(def.Resources),
		active:    true,
	}
}

// ID returns the unique instance identifier.
func (e *Enemy) ID() string { return e.id }

// Spec returns the definition this enemy was created from.
func (e *Enemy) Spec() *gamedata.EnemyDef { return e.def }

// Name returns the display name.
func (e *Enemy) Name() string { return e.def.Name }

// HP returns current hit points.
func (e *Enemy) HP() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hp
}

// MaxHP returns maximum hit points.
func (e *Enemy) MaxHP() int { return e.def.HP }

// SetHP overwrites current hit points, clamped to [0, MaxHP].
func (e *Enemy) SetHP(hp int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hp = min(max(hp, 0), e.def.HP)
}

// IsAlive returns true if the enemy has HP remaining.
func (e *Enemy) IsAlive() bool { return e.HP() > 0 }

// TakeDamage reduces HP and returns actual damage taken.
func (e *Enemy) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	actual := min(amount, e.hp)
	e.hp -= actual
	return actual
}

// Resource returns the current amount of a named resource.
func (e *Enemy) Resource(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.resources[name]
}

// Activate marks a deactivated enemy as active again.
func (e *Enemy) Activate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.destroyed {
		e.active = true
	}
}

// Deactivate suspends the enemy without destroying it.
func (e *Enemy) Deactivate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.suspended = suspensions.Add(1)
}

// SuspendOrder reports when the enemy was last deactivated. Later suspensions
// return larger values; an enemy never deactivated returns 0.
func (e *Enemy) SuspendOrder() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.suspended
}

// Destroy releases the enemy. A destroyed enemy cannot be reactivated.
func (e *Enemy) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	e.destroyed = true
}

// IsActive reports whether the enemy is the one currently fighting.
func (e *Enemy) IsActive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// IsDestroyed reports whether Destroy has been called.
func (e *Enemy) IsDestroyed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.destroyed
}

// Symbol returns the display glyph.
func (e *Enemy) Symbol() rune { return e.def.GlyphRune() }

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color { return e.def.TCellColor() }
