package kernel

import (
	"errors"
	"strings"
	"testing"
)

// fakeContexts records context operations without running anything, so IPC
// state transitions can be driven step by step.
type fakeContexts struct{}

func (fakeContexts) initContext(func(), Region) execContext { return &fakeContext{} }

type fakeContext struct {
	resumed int
	killed  bool
}

func (c *fakeContext) resume()    { c.resumed++ }
func (c *fakeContext) park() bool { return !c.killed }
func (c *fakeContext) kill()      { c.killed = true }

func nop(*Thread, any) {}

// newStepKernel returns a kernel with slots 0..used-1 initialized on fake
// contexts.
func newStepKernel(t *testing.T, size, used int) *Kernel {
	t.Helper()
	k := New(Config{MaxTasks: size})
	k.contexts = fakeContexts{}
	for i := 0; i < used; i++ {
		if err := k.Init(TaskID(i), nop, nil, Region{}); err != nil {
			t.Fatalf("Init(%d): %v", i, err)
		}
	}
	return k
}

// as makes id the current task, as if the scheduler had switched to it.
func (k *Kernel) as(id TaskID) *Kernel {
	k.curr, k.next = id, id
	k.pending = false
	return k
}

func result(k *Kernel, id TaskID) int { return k.tasks[id].frame.R[0] }

func expectFatal(t *testing.T, contains string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected kernel panic %q", contains)
		}
		err, ok := r.(error)
		var fe *FatalError
		if !ok || !errors.As(err, &fe) {
			t.Fatalf("expected *FatalError, got %v", r)
		}
		if contains != "" && !strings.Contains(fe.Reason, contains) {
			t.Fatalf("expected reason containing %q, got %q", contains, fe.Reason)
		}
	}()
	fn()
}
