package kernel

import "fmt"

// dump logs one line per slot in use: class, state, blocking task, queues and
// whether a receive buffer is posted.
func (k *Kernel) dump() {
	if k.log == nil {
		return
	}
	for i := range k.tasks {
		t := &k.tasks[i]
		if t.ctx == nil {
			continue
		}
		blkg := -1
		if on, ok := t.block.WaitingOn(); ok {
			blkg = int(on)
		} else if t.block.SelfSuspended() {
			blkg = i
		}
		k.logf("  %2d: %c%c blkg %2d pend %v fini %v mbuf %t",
			i, t.typ.code(), k.State(t.id).code(), blkg,
			k.ids(&t.pending), k.ids(&t.finish), t.msg != nil)
	}
}

// Dump writes the task table to the kernel log. Only safe from the task
// holding the CPU, or after the machine has halted.
func (k *Kernel) Dump() { k.dump() }

// String summarizes the kernel state for debugging.
func (k *Kernel) String() string {
	return fmt.Sprintf("kernel{now=%d curr=%d next=%d timers=%d traps=%d switches=%d}",
		k.now, k.curr, k.next, k.timers, k.stats.Traps, k.stats.Switches)
}
