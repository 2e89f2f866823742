package kernel

// Thread is a task's view of the machine: the trap gate plus, for privileged
// tasks, a few supervisor operations. A Thread is only valid on its own task.
type Thread struct {
	k  *Kernel
	id TaskID
}

// ID returns the task's slot.
func (th *Thread) ID() TaskID { return th.id }

// Trap enters the kernel with request req and register frame f, and returns
// the result register once the task runs again.
//
// send, call and recv are executed inline. Every other request, known or not,
// becomes a call to the system task carrying the request code and r0..r3.
func (th *Thread) Trap(req Request, f *Frame) int {
	k := th.k
	if k.curr != th.id {
		k.fatal("trap from task %d while task %d is active", th.id, k.curr)
	}
	t := &k.tasks[th.id]
	t.frame = f
	t.trapAt = k.now
	k.stats.Traps++
	classify(t, req)

	switch req {
	case ReqSend:
		f.R[0] = k.send(th.id, f.R[0], f.Msg)
	case ReqCall:
		f.R[0] = k.call(th.id, f.R[0], f.Msg)
	case ReqRecv:
		f.R[0] = k.listen(th.id, f.Msg)
	default:
		t.req = req
		m := &t.sysMsg
		*m = Message{}
		m.SetReq(uint8(req))
		for i, r := range f.R {
			m.SetWord(i, int32(r))
		}
		f.R[0] = k.call(th.id, int(SystemTask), m)
	}

	k.exceptionReturn()
	return f.R[0]
}

// classify fixes the capability class of a task on its first trap. A first
// send leaves the task unclassified.
func classify(t *Task, req Request) {
	if t.typ != TypeUninitialized {
		return
	}
	switch req {
	case ReqSend:
	case ReqCall:
		t.typ = TypeDriver
	case ReqRecv:
		t.typ = TypeServer
	default:
		t.typ = TypeOrdinary
	}
}
