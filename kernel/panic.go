package kernel

import (
	"fmt"
	"sync/atomic"
)

// PanicInfo contains details about a kernel panic or a crashed task.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

var panicHandler atomic.Value // func(PanicInfo)

// SetPanicHandler installs a process-wide panic handler.
//
// The handler is invoked at most once per kernel instance. It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func triggerPanic(info PanicInfo) {
	info.Stack = captureStack()
	if v := panicHandler.Load(); v != nil {
		if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
			fn(info)
		}
	}
}

// FatalError reports a broken kernel invariant. There is no recovery from it:
// the machine halts.
type FatalError struct {
	Task   TaskID
	Reason string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("kernel panic: %s (task %d)", e.Reason, e.Task)
}

// fatal halts the machine after a best-effort diagnostic. It never returns.
func (k *Kernel) fatal(format string, args ...any) {
	err := &FatalError{Task: k.curr, Reason: fmt.Sprintf(format, args...)}
	k.logf("*** panic: %s ***", err.Reason)
	k.dump()
	k.haltOnce.Do(func() {
		triggerPanic(PanicInfo{TaskID: err.Task, Value: err})
		k.stop(err)
	})
	panic(err)
}

// crash reports a panic raised by task code.
func (k *Kernel) crash(id TaskID, v any) {
	k.logf("*** task %d crashed: %v ***", id, v)
	err := &FatalError{Task: id, Reason: fmt.Sprintf("task crashed: %v", v)}
	k.haltOnce.Do(func() {
		triggerPanic(PanicInfo{TaskID: id, Value: v})
		k.stop(err)
	})
}
