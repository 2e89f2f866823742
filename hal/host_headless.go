//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// HeadlessConfig controls the host runner.
type HeadlessConfig struct {
	// Hz is how often host time is stepped. Each step emits one tick per
	// elapsed millisecond.
	Hz int
	// Ticks stops the run after N ticks (0 = run until the OS halts).
	Ticks uint64
	Host  HostConfig
}

// RunHeadless opens the host devices, builds the OS with newApp and runs it
// next to the time pump. It returns when the OS halts, ctx ends or the tick
// budget is spent; the latter counts as a clean stop.
func RunHeadless(ctx context.Context, newApp func(HAL) (func(context.Context) error, error), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 250
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h, err := New(cfg.Host)
	if err != nil {
		return err
	}
	defer h.Close()

	run, err := newApp(h)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stopRun := context.WithCancel(gctx)
	defer stopRun()
	exited := make(chan struct{})
	budget := false

	g.Go(func() error {
		defer close(exited)
		return run(runCtx)
	})
	g.Go(func() error {
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-exited:
				return nil
			case <-gctx.Done():
				return nil
			case <-t.C:
				h.t.step()
				if cfg.Ticks > 0 && h.t.count() >= cfg.Ticks {
					budget = true
					stopRun()
					return nil
				}
			}
		}
	})

	err = g.Wait()
	if budget && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
