package utils

import (
	"context"
	"time"
)

// WaitFor blocks for the given duration or until the context is cancelled,
// whichever comes first. It backs the politeness, courtesy and cooldown
// delays between external calls. Non-positive durations return immediately.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
