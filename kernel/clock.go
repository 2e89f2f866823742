package kernel

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrClockStopped is returned when a tick source is closed while the kernel
// is idle.
var ErrClockStopped = errors.New("clock stopped")

// Clock is the kernel timebase. One tick is one millisecond on real hardware.
type Clock interface {
	// Now returns the latest tick count without blocking.
	Now() uint64
	// Wait blocks until the tick count exceeds after.
	Wait(ctx context.Context, after uint64) (uint64, error)
}

// VirtualClock is a manually driven clock. Waiting on it never blocks: an idle
// kernel fast-forwards one tick at a time.
type VirtualClock struct {
	now atomic.Uint64
}

// NewVirtualClock returns a virtual clock at tick 0.
func NewVirtualClock() *VirtualClock { return &VirtualClock{} }

func (c *VirtualClock) Now() uint64 { return c.now.Load() }

// Advance moves the clock forward by n ticks and returns the new count.
func (c *VirtualClock) Advance(n uint64) uint64 { return c.now.Add(n) }

func (c *VirtualClock) Wait(ctx context.Context, after uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for {
		n := c.now.Load()
		if n > after {
			return n, nil
		}
		if c.now.CompareAndSwap(n, after+1) {
			return after + 1, nil
		}
	}
}

// TickClock follows a tick sequence channel such as hal.Time.Ticks.
type TickClock struct {
	ch  <-chan uint64
	now atomic.Uint64
}

// NewTickClock returns a clock fed from ch.
func NewTickClock(ch <-chan uint64) *TickClock {
	return &TickClock{ch: ch}
}

func (c *TickClock) Now() uint64 {
	for {
		select {
		case seq, ok := <-c.ch:
			if !ok {
				return c.now.Load()
			}
			c.observe(seq)
		default:
			return c.now.Load()
		}
	}
}

func (c *TickClock) Wait(ctx context.Context, after uint64) (uint64, error) {
	for {
		if n := c.Now(); n > after {
			return n, nil
		}
		select {
		case seq, ok := <-c.ch:
			if !ok {
				return c.now.Load(), ErrClockStopped
			}
			c.observe(seq)
		case <-ctx.Done():
			return c.now.Load(), ctx.Err()
		}
	}
}

func (c *TickClock) observe(seq uint64) {
	if seq > c.now.Load() {
		c.now.Store(seq)
	}
}
