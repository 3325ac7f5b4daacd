package gamedata

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownEnemy is returned when a stage references an enemy ID with no definition.
	ErrUnknownEnemy = errors.New("unknown enemy")
	// ErrUnknownStage is returned when no stage has the requested number.
	ErrUnknownStage = errors.New("unknown stage")
)

// EnemyRegistry holds loaded enemy definitions keyed by ID.
type EnemyRegistry struct {
	enemies map[string]*EnemyDef
	all     []EnemyDef
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	registry := &EnemyRegistry{
		enemies: make(map[string]*EnemyDef, len(enemies)),
		all:     enemies,
	}
	for i := range enemies {
		registry.enemies[enemies[i].ID] = &enemies[i]
	}
	return registry
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	return r.enemies[id]
}

// All returns all enemy definitions.
func (r *EnemyRegistry) All() []EnemyDef {
	return r.all
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// StageRegistry
// =============================================================================

// StageRegistry resolves stage numbers to playable stages.
type StageRegistry struct {
	stages  map[int]StageDef
	order   []int
	enemies *EnemyRegistry
}

// NewStageRegistry creates a registry whose stages draw enemies from the given registry.
func NewStageRegistry(stages []StageDef, enemies *EnemyRegistry) *StageRegistry {
	registry := &StageRegistry{
		stages:  make(map[int]StageDef, len(stages)),
		enemies: enemies,
	}
	for _, s := range stages {
		if _, dup := registry.stages[s.Number]; !dup {
			registry.order = append(registry.order, s.Number)
		}
		registry.stages[s.Number] = s
	}
	sort.Ints(registry.order)
	return registry
}

// LoadStageRegistry loads the embedded enemies.json and stages.json.
func LoadStageRegistry() (*StageRegistry, error) {
	enemies, err := LoadEnemyRegistry()
	if err != nil {
		return nil, err
	}
	stages, err := LoadStages()
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, errors.New("no stages loaded from stages.json")
	}
	return NewStageRegistry(stages, enemies), nil
}

// LoadPackRegistry builds a stage registry from an external content pack.
func LoadPackRegistry(path string) (*StageRegistry, error) {
	pack, err := LoadPack(path)
	if err != nil {
		return nil, err
	}
	if len(pack.Stages) == 0 {
		return nil, fmt.Errorf("no stages in %s", path)
	}
	return NewStageRegistry(pack.Stages, NewEnemyRegistry(pack.Enemies)), nil
}

// MustLoadStageRegistry loads the embedded registry, panicking on error.
func MustLoadStageRegistry() *StageRegistry {
	registry, err := LoadStageRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Enemies returns the enemy registry stages are resolved against.
func (r *StageRegistry) Enemies() *EnemyRegistry {
	return r.enemies
}

// Build resolves a stage by number. Every enemy ID must have a definition.
func (r *StageRegistry) Build(number int) (*Stage, error) {
	def, ok := r.stages[number]
	if !ok {
		return nil, fmt.Errorf("stage %d: %w", number, ErrUnknownStage)
	}

	stage := &Stage{
		Number:  def.Number,
		Name:    def.Name,
		Enemies: make([]*EnemyDef, 0, len(def.Enemies)),
		IsLast:  def.IsLast,
	}
	for _, id := range def.Enemies {
		enemy := r.enemies.GetByID(id)
		if enemy == nil {
			return nil, fmt.Errorf("stage %d enemy %q: %w", number, id, ErrUnknownEnemy)
		}
		stage.Enemies = append(stage.Enemies, enemy)
	}
	return stage, nil
}

// First resolves the lowest-numbered stage.
func (r *StageRegistry) First() (*Stage, error) {
	if len(r.order) == 0 {
		return nil, ErrUnknownStage
	}
	return r.Build(r.order[0])
}

// Next resolves the stage that follows the given stage number.
func (r *StageRegistry) Next(number int) (*Stage, error) {
	for _, n := range r.order {
		if n > number {
			return r.Build(n)
		}
	}
	return nil, fmt.Errorf("after stage %d: %w", number, ErrUnknownStage)
}

// Count returns the number of stages in the registry.
func (r *StageRegistry) Count() int {
	return len(r.order)
}
