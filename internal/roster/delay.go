package roster

import (
	"context"
	"time"
)

// Delayer waits before a mutation reaches storage. It stands in for the
// latency of a remote call, and lets tests run without real timers.
type Delayer interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// DelayerFunc adapts a function to Delayer.
type DelayerFunc func(ctx context.Context, d time.Duration) error

func (f DelayerFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerDelayer sleeps on a real timer and gives up early if ctx ends.
type TimerDelayer struct{}

func (TimerDelayer) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay returns immediately.
var NoDelay = DelayerFunc(func(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
})
