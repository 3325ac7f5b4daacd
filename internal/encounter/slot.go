package encounter

// Slot holds the single active enemy actor. It is owned by the Sequencer and
// accessed only under the sequencer's lock.
type Slot struct {
	actor Actor
}

// Occupy places an actor into an empty slot.
func (s *Slot) Occupy(actor Actor) error {
	if actor == nil {
		return newError(CodeNoActiveEnemy, "occupy slot with nil actor")
	}
	if s.actor != nil {
		return wrapError(CodeInvariant, "slot already holds "+s.actor.ID(), ErrInvariant)
	}
	s.actor = actor
	return nil
}

// Vacate empties the slot and returns the previous occupant, if any.
func (s *Slot) Vacate() Actor {
	actor := s.actor
	s.actor = nil
	return actor
}

// Current returns the occupant, or nil.
func (s *Slot) Current() Actor {
	return s.actor
}

// Occupied reports whether an actor holds the slot.
func (s *Slot) Occupied() bool {
	return s.actor != nil
}

// Holds reports whether the given actor is the occupant.
func (s *Slot) Holds(actor Actor) bool {
	return s.actor != nil && actor != nil && s.actor.ID() == actor.ID()
}
