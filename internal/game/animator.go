package game

import (
	"context"
	"time"

	"github.com/samdwyer/deckband/internal/encounter"
)

const entranceFrames = 8

// fadeAnimator fades a new enemy in over a fixed duration, reporting each
// frame so the screen can redraw.
type fadeAnimator struct {
	duration time.Duration
	onFrame  func(actor encounter.Actor, progress float64)
}

// PlayEntrance implements encounter.EntranceAnimator.
func (a *fadeAnimator) PlayEntrance(ctx context.Context, actor encounter.Actor) error {
	if a.duration <= 0 {
		a.frame(actor, 1)
		return nil
	}

	ticker := time.NewTicker(a.duration / entranceFrames)
	defer ticker.Stop()

	for i := 1; i <= entranceFrames; i++ {
		select {
		case <-ctx.Done():
			// Cut short: show the enemy fully so it is never left half drawn.
			a.frame(actor, 1)
			return ctx.Err()
		case <-ticker.C:
			a.frame(actor, float64(i)/entranceFrames)
		}
	}
	return nil
}

func (a *fadeAnimator) frame(actor encounter.Actor, progress float64) {
	if a.onFrame != nil {
		a.onFrame(actor, progress)
	}
}
