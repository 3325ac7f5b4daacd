package combat

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// mockCard is a test implementation of the Card interface.
type mockCard struct {
	id        string
	destroyed atomic.Bool
}

func (c *mockCard) ID() string { return c.id }
func (c *mockCard) Destroy()   { c.destroyed.Store(true) }

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos      Position
		expected string
	}{
		{PositionBattle, "battle"},
		{WaitPosition(1), "wait-1"},
		{WaitPosition(3), "wait-3"},
	}

	for _, tt := range tests {
		if got := tt.pos.String(); got != tt.expected {
			t.Errorf("Position(%d).String() = %q, want %q", int(tt.pos), got, tt.expected)
		}
	}
}

func TestOwnerString(t *testing.T) {
	tests := []struct {
		owner    Owner
		expected string
	}{
		{OwnerNone, "none"},
		{OwnerPlayer, "player"},
		{OwnerEnemy, "enemy"},
		{Owner(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.owner.String(); got != tt.expected {
			t.Errorf("Owner(%d).String() = %q, want %q", tt.owner, got, tt.expected)
		}
	}
}

func TestSlotSetPlaceAndTake(t *testing.T) {
	s := NewSlotSet(2)
	card := &mockCard{id: "strike"}

	if err := s.Place(PositionBattle, card, OwnerPlayer); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if err := s.Place(PositionBattle, &mockCard{id: "x"}, OwnerEnemy); !errors.Is(err, ErrSlotOccupied) {
		t.Errorf("Place() on occupied slot error = %v, want ErrSlotOccupied", err)
	}
	if err := s.Place(WaitPosition(3), &mockCard{id: "x"}, OwnerEnemy); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Place() beyond wait slots error = %v, want ErrInvalidPosition", err)
	}
	if err := s.Place(WaitPosition(1), &mockCard{id: "x"}, OwnerNone); !errors.Is(err, ErrInvalidOwner) {
		t.Errorf("Place() with no owner error = %v, want ErrInvalidOwner", err)
	}

	got, owner, ok := s.Get(PositionBattle)
	if !ok || got != card || owner != OwnerPlayer {
		t.Errorf("Get(battle) = %v, %v, %v; want card, player, true", got, owner, ok)
	}

	taken, _, err := s.Take(PositionBattle)
	if err != nil || taken != card {
		t.Fatalf("Take(battle) = %v, %v", taken, err)
	}
	if card.destroyed.Load() {
		t.Error("Take() must not destroy the card")
	}
	if _, _, err := s.Take(PositionBattle); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("Take() on empty slot error = %v, want ErrSlotEmpty", err)
	}
}

func TestSlotSetFirstFreeWait(t *testing.T) {
	s := NewSlotSet(2)

	pos, ok := s.FirstFreeWait()
	if !ok || pos != WaitPosition(1) {
		t.Fatalf("FirstFreeWait() = %v, %v; want wait-1, true", pos, ok)
	}
	_ = s.Place(WaitPosition(1), &mockCard{id: "a"}, OwnerEnemy)
	_ = s.Place(WaitPosition(2), &mockCard{id: "b"}, OwnerEnemy)
	if _, ok := s.FirstFreeWait(); ok {
		t.Error("FirstFreeWait() should report no free slot when all wait slots are used")
	}
}

func TestSlotSetClearAll(t *testing.T) {
	s := NewSlotSet(3)
	cards := []*mockCard{{id: "a"}, {id: "b"}, {id: "c"}}

	_ = s.Place(PositionBattle, cards[0], OwnerPlayer)
	_ = s.Place(WaitPosition(1), cards[1], OwnerEnemy)
	_ = s.Place(WaitPosition(3), cards[2], OwnerPlayer)

	if got := s.ClearAll(); got != 3 {
		t.Errorf("ClearAll() = %d, want 3", got)
	}
	for _, c := range cards {
		if !c.destroyed.Load() {
			t.Errorf("card %q was not destroyed by ClearAll()", c.id)
		}
	}
	for _, view := range s.Snapshot() {
		if view.Card != nil || view.Owner != OwnerNone {
			t.Errorf("slot %s not empty after ClearAll(): %+v", view.Position, view)
		}
	}
	if !s.IsEmpty() {
		t.Error("IsEmpty() should be true after ClearAll()")
	}
	if got := s.ClearAll(); got != 0 {
		t.Errorf("ClearAll() on empty set = %d, want 0", got)
	}
}

func TestSlotSetClearAllIsAtomic(t *testing.T) {
	s := NewSlotSet(4)

	var wg sync.WaitGroup
	var partial atomic.Int32
	stop := make(chan struct{})

	// Readers check that a snapshot is either fully populated or fully empty.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				filled := 0
				views := s.Snapshot()
				for _, v := range views {
					if v.Card != nil {
						filled++
					}
				}
				if filled != 0 && filled != len(views) {
					partial.Add(1)
				}
			}
		}()
	}

	for round := 0; round < 200; round++ {
		// Fill under one lock so only ClearAll could produce a partial view.
		s.mu.Lock()
		for i := range s.slots {
			s.slots[i] = slot{card: &mockCard{id: "x"}, owner: OwnerEnemy}
		}
		s.mu.Unlock()
		s.ClearAll()
	}
	close(stop)
	wg.Wait()

	if n := partial.Load(); n != 0 {
		t.Errorf("observed %d partially cleared snapshots", n)
	}
}
