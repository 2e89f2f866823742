package kernel

// deliver hands msg from one task to another. It is the single test-and-set
// of the IPC engine: a message is either accepted here or not at all.
//
// It fails (-1) when the receiver is waiting on some third task, or when it
// has no buffer posted. The one exception to the first rule is a receiver
// waiting for a reply from this very sender: taking it off the sender's
// finish queue is the acceptance, and the receiver's call returns 0.
func (k *Kernel) deliver(from, to TaskID, msg *Message) int {
	dst := &k.tasks[to]
	if dst.ctx == nil || dst.msg == nil {
		return -1
	}
	reply := false
	if on, ok := dst.block.WaitingOn(); ok {
		if on != from || !k.unlink(&k.tasks[from].finish, to) {
			return -1
		}
		reply = true
	}

	*dst.msg = *msg
	dst.msg = nil
	if reply {
		k.resume(to, 0)
	} else {
		k.resume(to, int(from))
	}
	return 0
}

// send is a non-blocking deliver.
func (k *Kernel) send(from TaskID, to int, msg *Message) int {
	if msg == nil || !k.valid(to) {
		return -1
	}
	return k.deliver(from, TaskID(to), msg)
}

// call delivers msg and blocks the caller until a reply lands in the same
// buffer. If the receiver cannot take it yet, the caller waits on its pending
// queue; otherwise on its finish queue.
func (k *Kernel) call(from TaskID, to int, msg *Message) int {
	if msg == nil || !k.valid(to) || TaskID(to) == from {
		return -1
	}
	dst := &k.tasks[to]
	if k.deliver(from, TaskID(to), msg) < 0 {
		if TaskID(to) == SystemTask {
			k.logf("%d S: not ready for req #%d from %d", k.now, msg.Req(), from)
		}
		k.enqueue(&dst.pending, from)
	} else {
		k.enqueue(&dst.finish, from)
	}
	k.tasks[from].msg = msg
	return k.suspend(from, waitingOn(TaskID(to)))
}

// listen accepts the oldest pending call, or blocks until a message arrives.
// An accepted caller moves to the finish queue until it gets its reply.
func (k *Kernel) listen(self TaskID, msg *Message) int {
	if msg == nil {
		return -1
	}
	t := &k.tasks[self]
	if id, ok := k.dequeue(&t.pending); ok {
		k.enqueue(&t.finish, id)
		*msg = *k.tasks[id].msg
		return int(id)
	}
	t.msg = msg
	return k.suspend(self, selfSuspended)
}

// forward moves a call that handler has accepted over to another task, with
// msg (usually a rewritten request) replacing the caller's message. The
// caller stays blocked throughout: it is now waiting on the new target.
func (k *Kernel) forward(handler TaskID, to int, sender TaskID, msg *Message) bool {
	if msg == nil || !k.valid(to) || TaskID(to) == sender {
		return false
	}
	h := &k.tasks[handler]
	if !k.unlink(&h.finish, sender) {
		return false
	}
	s := &k.tasks[sender]
	s.block = Block{}
	*s.msg = *msg

	dst := &k.tasks[to]
	if k.deliver(sender, TaskID(to), s.msg) < 0 {
		k.enqueue(&dst.pending, sender)
	} else {
		k.enqueue(&dst.finish, sender)
	}
	s.block = waitingOn(TaskID(to))
	return true
}
