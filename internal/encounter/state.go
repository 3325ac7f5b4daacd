package encounter

import "github.com/samdwyer/deckband/internal/gamedata"

// Progress returns a copy of the progress record.
func (s *Sequencer) Progress() StageProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// State returns the stage progress state.
func (s *Sequencer) State() ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.State
}

// Stage returns the loaded stage, or nil.
func (s *Sequencer) Stage() *gamedata.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// StageNumber returns the current stage number, 0 before the first stage.
func (s *Sequencer) StageNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.StageNumber
}

// EnemyIndex returns the index of the next original enemy to spawn.
func (s *Sequencer) EnemyIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.EnemyIndex
}

// SetEnemyIndex restores a saved enemy index. Values outside the loaded
// stage's enemy list are clamped.
func (s *Sequencer) SetEnemyIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if s.stage != nil && index > len(s.stage.Enemies) {
		index = len(s.stage.Enemies)
	}
	s.progress.EnemyIndex = index
}

// RemainingEnemies returns how many original enemies have not spawned yet.
func (s *Sequencer) RemainingEnemies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage == nil {
		return 0
	}
	return len(s.stage.Enemies) - s.progress.EnemyIndex
}

// StagesCompleted returns the number of stages completed this run.
func (s *Sequencer) StagesCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.StagesCompleted
}

// SetStagesCompleted restores a saved completion count.
func (s *Sequencer) SetStagesCompleted(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.StagesCompleted = max(n, 0)
}

// GameCompleted reports whether the last stage has been completed.
func (s *Sequencer) GameCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.GameCompleted
}

// ActiveEnemy returns the actor in the encounter slot, or nil.
func (s *Sequencer) ActiveEnemy() Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot.Current()
}

// SummonDepth returns the current summon nesting level.
func (s *Sequencer) SummonDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summons.Depth()
}

// SummonFrames returns the suspended parents, outermost first.
func (s *Sequencer) SummonFrames() []SummonFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summons.Frames()
}
