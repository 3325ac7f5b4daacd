package entity

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Card is a card handle placed into a combat slot.
type Card struct {
	id        string
	Name      string
	destroyed atomic.Bool
}

// NewCard creates a card handle with a fresh identity.
func NewCard(name string) *Card {
	return &Card{id: uuid.NewString(), Name: name}
}

// ID returns the unique card identifier.
func (c *Card) ID() string { return c.id }

// Label returns the card's display name.
func (c *Card) Label() string { return c.Name }

// Destroy releases the card's visual.
func (c *Card) Destroy() { c.destroyed.Store(true) }

// IsDestroyed reports whether Destroy has been called.
func (c *Card) IsDestroyed() bool { return c.destroyed.Load() }
