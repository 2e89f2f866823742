package kernel

import "runtime"

// nextRunnable scans the table circularly, starting just after the current
// task. The current task itself only matches at the end of the wrap.
func (k *Kernel) nextRunnable() (TaskID, bool) {
	n := len(k.tasks)
	id := int(k.curr)
	for i := 0; i < n; i++ {
		id = (id + 1) % n
		if k.State(TaskID(id)) >= StateRunnable {
			return TaskID(id), true
		}
	}
	return 0, false
}

// suspend blocks the current task and picks its replacement. The result is a
// placeholder: resume patches the real one into the task's frame.
func (k *Kernel) suspend(id TaskID, b Block) int {
	if id != k.curr {
		k.fatal("suspend of task %d, current is %d", id, k.curr)
	}
	k.tasks[id].block = b
	if next, ok := k.nextRunnable(); ok {
		k.requestSwitch(next)
	}
	return -1
}

// resume makes a blocked task runnable again with the given trap result.
func (k *Kernel) resume(id TaskID, result int) {
	t := &k.tasks[id]
	if t.frame != nil {
		t.frame.R[0] = result
	}
	t.block = Block{}
	if t.timer.armed {
		t.timer.armed = false
		k.timers--
	}
}

// sleep self-suspends a task that is not running until ticks have elapsed
// since its last trap.
func (k *Kernel) sleep(id TaskID, ticks uint64) {
	t := &k.tasks[id]
	if t.timer.armed {
		k.fatal("task %d already has a timer", id)
	}
	t.block = selfSuspended
	t.msg = nil
	t.timer = timer{start: t.trapAt, ticks: ticks, armed: true}
	k.timers++
}

// exceptionReturn runs when a trap completes: service pending ticks, wait for
// work if nothing can run, then take the deferred switch.
func (k *Kernel) exceptionReturn() {
	if k.isHalted() {
		runtime.Goexit()
	}
	k.serviceTicks()
	for k.State(k.next) < StateRunnable {
		if next, ok := k.nextRunnable(); ok {
			k.requestSwitch(next)
			break
		}
		k.idle()
	}
	k.pendSV()
}

// serviceTicks catches up with the clock one tick at a time. Timed waits are
// swept on every tick; preemption happens on quantum boundaries, except while
// the system task is running.
func (k *Kernel) serviceTicks() {
	now := k.clock.Now()
	preempt := false
	for k.now < now {
		k.now++
		k.stats.Ticks++
		k.sweep()
		if k.now%k.quantum == 0 {
			preempt = true
		}
	}
	if preempt && k.curr != SystemTask {
		if next, ok := k.nextRunnable(); ok {
			k.requestSwitch(next)
		}
	}
}

// sweep resumes every timed wait that has expired.
func (k *Kernel) sweep() {
	if k.timers == 0 {
		return
	}
	for i := range k.tasks {
		t := &k.tasks[i]
		if t.ctx == nil || !t.block.SelfSuspended() || !t.timer.expired(k.now) {
			continue
		}
		k.resume(t.id, 0)
	}
}

// idle waits for the next tick while no task can run. Without armed timers
// nothing can ever become runnable again.
func (k *Kernel) idle() {
	if k.timers == 0 {
		k.fatal("no runnable tasks left")
	}
	if _, err := k.clock.Wait(k.runCtx, k.now); err != nil {
		k.Halt(err)
		runtime.Goexit()
	}
	k.serviceTicks()
}
