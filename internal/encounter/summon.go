package encounter

import "github.com/samdwyer/deckband/internal/gamedata"

// SummonFrame is a suspended parent encounter: which enemy to bring back and
// with how much HP.
type SummonFrame struct {
	Enemy *gamedata.EnemyDef
	HP    int
}

// SummonStack holds suspended parents, innermost last. Its depth equals the
// current summon nesting level.
type SummonStack struct {
	frames []SummonFrame
}

// Push suspends a parent encounter.
func (s *SummonStack) Push(frame SummonFrame) {
	s.frames = append(s.frames, frame)
}

// Pop removes and returns the topmost frame, or false if the stack is empty.
func (s *SummonStack) Pop() (SummonFrame, bool) {
	if len(s.frames) == 0 {
		return SummonFrame{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = SummonFrame{}
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Peek returns the topmost frame without removing it.
func (s *SummonStack) Peek() (SummonFrame, bool) {
	if len(s.frames) == 0 {
		return SummonFrame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// UpdateTopHP sets the HP of the topmost frame. It reports false and does
// nothing when the stack is empty.
func (s *SummonStack) UpdateTopHP(hp int) bool {
	if len(s.frames) == 0 {
		return false
	}
	s.frames[len(s.frames)-1].HP = hp
	return true
}

// Depth returns the number of suspended parents.
func (s *SummonStack) Depth() int {
	return len(s.frames)
}

// Frames returns a copy of the stack, outermost first.
func (s *SummonStack) Frames() []SummonFrame {
	return append([]SummonFrame(nil), s.frames...)
}

// Clear drops every frame.
func (s *SummonStack) Clear() {
	clear(s.frames)
	s.frames = s.frames[:0]
}
