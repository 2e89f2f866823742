//go:build !tinygo

package hal

import "time"

// hostTickBacklog bounds the ticks emitted by one step, so a process that was
// stopped (SIGTSTP, a debugger) does not replay the whole pause.
const hostTickBacklog = 1000

// hostTime is the millisecond tick stream of the host board. The headless
// runner steps it; a full channel drops ticks instead of blocking.
type hostTime struct {
	ch   chan uint64
	seq  uint64
	now  func() time.Time
	last time.Time
	frac time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) count() uint64 { return t.seq }

// step emits the ticks for the time elapsed since the last step. The first
// step emits a single tick and starts the reference.
func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(1)
		return
	}
	elapsed := now.Sub(t.last) + t.frac
	t.last = now
	if elapsed < 0 {
		t.frac = 0
		return
	}
	n := uint64(elapsed / time.Millisecond)
	t.frac = elapsed % time.Millisecond
	if n > hostTickBacklog {
		n = hostTickBacklog
	}
	t.emit(n)
}

func (t *hostTime) emit(n uint64) {
	for ; n > 0; n-- {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
