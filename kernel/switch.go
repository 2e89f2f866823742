package kernel

import "runtime"

// requestSwitch records the task to run next. The switch itself is deferred
// to pendSV; calling again before then overrides the earlier request.
func (k *Kernel) requestSwitch(id TaskID) {
	if k.State(id) < StateRunnable {
		k.fatal("no runnable tasks left (asked to run task %d, %s)", id, k.State(id))
	}
	k.next = id
	k.pending = id != k.curr
}

// pendSV performs a requested context switch. It is the only place where the
// current task changes. The region map is swapped together with the context,
// so the incoming task never runs under the outgoing task's mapping.
func (k *Kernel) pendSV() {
	if !k.pending {
		return
	}
	k.pending = false
	from, to := &k.tasks[k.curr], &k.tasks[k.next]
	if from == to {
		return
	}
	self := from.ctx // from may be reclaimed as soon as to runs
	k.curr = to.id
	k.mpu = to.regions
	k.stats.Switches++
	to.ctx.resume()
	if !self.park() {
		runtime.Goexit()
	}
}
