package kernel

import (
	"fmt"
	"runtime"
)

// Supervisor operations. These are plain calls, not traps: the system task
// and drivers run them directly while they hold the CPU, the same way they
// would poke at the task table on the real machine.

func (th *Thread) system() bool { return th.id == SystemTask }

func (th *Thread) handler() bool {
	if th.system() {
		return true
	}
	typ := th.k.tasks[th.id].typ
	return typ == TypeServer || typ == TypeDriver
}

// Now returns the kernel tick count.
func (th *Thread) Now() uint64 { return th.k.now }

// State returns the scheduling state of slot id.
func (th *Thread) State(id TaskID) State { return th.k.State(id) }

// Peer returns the saved frame of a blocked task, so a handler can read the
// arguments of a call it accepted. Ordinary tasks get nothing.
func (th *Thread) Peer(id TaskID) (*Frame, bool) {
	k := th.k
	if !th.handler() || id == th.id || !k.valid(int(id)) {
		return nil, false
	}
	t := &k.tasks[id]
	if !t.block.Blocked() || t.frame == nil {
		return nil, false
	}
	return t.frame, true
}

// SetResult overwrites the result a blocked (or just-replied) task will see
// when its trap returns.
func (th *Thread) SetResult(id TaskID, v int) error {
	k := th.k
	if !th.handler() {
		return ErrNotPrivileged
	}
	if id == th.id || !k.valid(int(id)) || k.tasks[id].frame == nil {
		return fmt.Errorf("set result of task %d: %w", id, ErrBadSlot)
	}
	k.tasks[id].frame.R[0] = v
	return nil
}

// IsCallFrom reports whether id is blocked in a call this task has accepted,
// that is, whether it expects a reply. A sender that has since queued a new
// call does not count until that call is accepted too.
func (th *Thread) IsCallFrom(id TaskID) bool {
	k := th.k
	if !k.valid(int(id)) {
		return false
	}
	on, ok := k.tasks[id].block.WaitingOn()
	return ok && on == th.id && k.contains(&k.tasks[th.id].finish, id)
}

// PendingRequest returns the request code id last trapped with.
func (th *Thread) PendingRequest(id TaskID) Request {
	if !th.k.valid(int(id)) {
		return ReqMax
	}
	return th.k.tasks[id].req
}

// Forward redirects a call this task has accepted from sender to task to,
// replacing the caller's message with msg.
func (th *Thread) Forward(to TaskID, sender TaskID, msg *Message) bool {
	if !th.handler() {
		return false
	}
	return th.k.forward(th.id, int(to), sender, msg)
}

// Sleep turns an accepted call from id into a timed wait: the caller stays
// suspended until ticks have elapsed since it trapped, then its call returns 0.
func (th *Thread) Sleep(id TaskID, ticks uint64) error {
	k := th.k
	if !th.system() {
		return ErrNotPrivileged
	}
	if !k.valid(int(id)) || !k.unlink(&k.tasks[th.id].finish, id) {
		return fmt.Errorf("sleep task %d: %w", id, ErrBadSlot)
	}
	if ticks == 0 {
		k.tasks[id].msg = nil
		k.resume(id, 0)
		return nil
	}
	k.sleep(id, ticks)
	return nil
}

// Init sets up slot id, see Kernel.Init.
func (th *Thread) Init(id TaskID, entry Entry, arg any, stack Region) error {
	if !th.system() {
		return ErrNotPrivileged
	}
	return th.k.Init(id, entry, arg, stack)
}

// Spawn sets up the first free slot, see Kernel.Spawn.
func (th *Thread) Spawn(entry Entry, arg any, stack Region) (TaskID, error) {
	if !th.system() {
		return 0, ErrNotPrivileged
	}
	return th.k.Spawn(entry, arg, stack)
}

// Reclaim tears down task id: it is taken off any queue, every task queued on
// it gets -1 from its call, and the slot becomes unused.
func (th *Thread) Reclaim(id TaskID) error {
	k := th.k
	if !th.system() {
		return ErrNotPrivileged
	}
	if id == SystemTask || id == th.id || !k.valid(int(id)) {
		return fmt.Errorf("reclaim task %d: %w", id, ErrBadSlot)
	}
	k.reclaim(id)
	return nil
}

// InUse returns the number of occupied slots.
func (th *Thread) InUse() int {
	n := 0
	for i := range th.k.tasks {
		if th.k.tasks[i].ctx != nil {
			n++
		}
	}
	return n
}

// Halt stops the machine and ends the calling task; see Kernel.Halt.
func (th *Thread) Halt(err error) {
	if !th.system() {
		return
	}
	th.k.Halt(err)
	runtime.Goexit()
}

// Dump writes the task table to the kernel log.
func (th *Thread) Dump() { th.k.dump() }

func (k *Kernel) reclaim(id TaskID) {
	t := &k.tasks[id]
	if t.linked {
		for i := range k.tasks {
			u := &k.tasks[i]
			if k.unlink(&u.pending, id) || k.unlink(&u.finish, id) {
				break
			}
		}
	}
	for _, q := range []*queue{&t.pending, &t.finish} {
		for {
			c, ok := k.dequeue(q)
			if !ok {
				break
			}
			k.tasks[c].msg = nil
			k.resume(c, -1)
		}
	}
	if t.timer.armed {
		k.timers--
	}
	ctx := t.ctx
	*t = Task{id: id}
	ctx.kill()
}
