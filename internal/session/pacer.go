package session

import (
	"context"
	"time"
)

// DefaultImageDelay is the pause between consecutive drawing requests.
const DefaultImageDelay = 1500 * time.Millisecond

// Pacer spaces out consecutive drawing requests.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits a constant duration.
type FixedDelay time.Duration

func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay does not wait.
type NoDelay struct{}

func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}
