package combat

import (
	"errors"
	"fmt"
	"sync"
)

// Owner tags which side placed a card into a slot.
type Owner int

const (
	OwnerNone Owner = iota
	OwnerPlayer
	OwnerEnemy
)

// String returns a human-readable owner name.
func (o Owner) String() string {
	switch o {
	case OwnerNone:
		return "none"
	case OwnerPlayer:
		return "player"
	case OwnerEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Position addresses a slot: the battle slot is 0, wait slots are 1..N.
type Position int

// PositionBattle is the slot where the acting card resolves.
const PositionBattle Position = 0

// WaitPosition returns the position of the n-th wait slot (1-based).
func WaitPosition(n int) Position {
	return Position(n)
}

// String returns "battle" or "wait-N".
func (p Position) String() string {
	if p == PositionBattle {
		return "battle"
	}
	return fmt.Sprintf("wait-%d", int(p))
}

// Card is a card handle that can sit in a slot.
type Card interface {
	ID() string
	Destroy()
}

var (
	ErrInvalidPosition = errors.New("invalid slot position")
	ErrInvalidOwner    = errors.New("slot owner must be player or enemy")
	ErrSlotOccupied    = errors.New("slot occupied")
	ErrSlotEmpty       = errors.New("slot empty")
)

// SlotView is a read-only copy of one slot.
type SlotView struct {
	Position Position
	Card     Card
	Owner    Owner
}

type slot struct {
	card  Card
	owner Owner
}

// SlotSet is the battle slot plus a fixed number of wait slots.
// ClearAll empties every slot under one lock, so readers never observe a
// partially cleared set.
type SlotSet struct {
	mu    sync.RWMutex
	slots []slot
}

// NewSlotSet creates a slot set with the given number of wait slots.
func NewSlotSet(waitSlots int) *SlotSet {
	if waitSlots < 0 {
		waitSlots = 0
	}
	return &SlotSet{slots: make([]slot, waitSlots+1)}
}

// WaitSlots returns the number of wait slots.
func (s *SlotSet) WaitSlots() int {
	return len(s.slots) - 1
}

// Place puts a card into an empty slot.
func (s *SlotSet) Place(pos Position, card Card, owner Owner) error {
	if card == nil {
		return fmt.Errorf("place %s: nil card", pos)
	}
	if owner != OwnerPlayer && owner != OwnerEnemy {
		return fmt.Errorf("place %s: %w", pos, ErrInvalidOwner)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(pos) {
		return fmt.Errorf("place %s: %w", pos, ErrInvalidPosition)
	}
	if s.slots[pos].card != nil {
		return fmt.Errorf("place %s: %w", pos, ErrSlotOccupied)
	}
	s.slots[pos] = slot{card: card, owner: owner}
	return nil
}

// Take removes and returns the card in a slot without destroying it.
func (s *SlotSet) Take(pos Position) (Card, Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid(pos) {
		return nil, OwnerNone, fmt.Errorf("take %s: %w", pos, ErrInvalidPosition)
	}
	entry := s.slots[pos]
	if entry.card == nil {
		return nil, OwnerNone, fmt.Errorf("take %s: %w", pos, ErrSlotEmpty)
	}
	s.slots[pos] = slot{}
	return entry.card, entry.owner, nil
}

// Get returns the card in a slot, or false if the slot is empty or invalid.
func (s *SlotSet) Get(pos Position) (Card, Owner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.valid(pos) || s.slots[pos].card == nil {
		return nil, OwnerNone, false
	}
	return s.slots[pos].card, s.slots[pos].owner, true
}

// FirstFreeWait returns the first empty wait slot.
func (s *SlotSet) FirstFreeWait() (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 1; i < len(s.slots); i++ {
		if s.slots[i].card == nil {
			return Position(i), true
		}
	}
	return 0, false
}

// IsEmpty reports whether every slot is empty.
func (s *SlotSet) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.slots {
		if entry.card != nil {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of every slot in position order.
func (s *SlotSet) Snapshot() []SlotView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]SlotView, len(s.slots))
	for i, entry := range s.slots {
		views[i] = SlotView{Position: Position(i), Card: entry.card, Owner: entry.owner}
	}
	return views
}

// ClearAll empties every slot regardless of owner and destroys the removed
// cards before returning. It returns the number of cards destroyed.
// Card.Destroy must not call back into the slot set.
func (s *SlotSet) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for i := range s.slots {
		if card := s.slots[i].card; card != nil {
			card.Destroy()
			cleared++
		}
		s.slots[i] = slot{}
	}
	return cleared
}

func (s *SlotSet) valid(pos Position) bool {
	return pos >= 0 && int(pos) < len(s.slots)
}
