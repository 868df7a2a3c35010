package service

import (
	"context"
	"time"
)

// sleepFunc waits for the given duration or until the context is cancelled,
// returning the context error in the latter case. Polling and refresh loops
// take it as a dependency so tests can drive time deterministically.
type sleepFunc func(ctx context.Context, d time.Duration) error

func realSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
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
