package systask

import (
	"asios/kernel"
	"asios/system/proto"
	"asios/system/syslib"
)

func (s *Service) lifecycle(th *kernel.Thread, id kernel.TaskID, req kernel.Request, msg *kernel.Message) (int, bool) {
	arg := func(i int) int { return proto.Arg(msg, i) }
	switch req {
	case kernel.ReqTfork:
		return s.fork(th, id, arg(0)), true
	case kernel.ReqTwait:
		return s.join(th, id, arg(0))
	case kernel.ReqTexit:
		s.exit(th, id, arg(0))
		return 0, false
	default:
		ms := arg(0)
		if ms < 0 {
			ms = 0
		}
		if err := th.Sleep(id, uint64(ms)); err != nil {
			s.logf("%d S: yield from %d: %v", th.Now(), id, err)
			return proto.Fail, true
		}
		return 0, false
	}
}

// fork starts the caller's entry function in the first free slot.
func (s *Service) fork(th *kernel.Thread, id kernel.TaskID, top int) int {
	f, ok := th.Peer(id)
	if !ok || f.Entry == nil {
		return proto.Fail
	}
	stack := kernel.Region{}
	if top > 0 {
		stack = kernel.StackRegion(uint32(top), s.stack)
	}
	child, err := th.Spawn(f.Entry, f.Arg, stack)
	if err != nil {
		s.logf("%d S: tfork from %d: %v", th.Now(), id, err)
		return proto.Fail
	}
	return int(child)
}

// join parks the caller until target exits. Waiting on yourself or on an
// empty slot fails at once.
func (s *Service) join(th *kernel.Thread, id kernel.TaskID, target int) (int, bool) {
	if target <= 0 || target > 255 || kernel.TaskID(target) == id {
		return proto.Fail, true
	}
	t := kernel.TaskID(target)
	if th.State(t) == kernel.StateUnused {
		return proto.Fail, true
	}
	s.joiners[t] = append(s.joiners[t], id)
	return 0, false
}

// exit tears the caller down, then wakes whoever waits for it.
func (s *Service) exit(th *kernel.Thread, id kernel.TaskID, code int) {
	if err := th.Reclaim(id); err != nil {
		s.logf("%d S: texit from %d: %v", th.Now(), id, err)
		return
	}
	var msg kernel.Message
	msg.SetReq(uint8(kernel.ReqTwait))
	msg.SetWord(0, int32(code))
	for _, j := range s.joiners[id] {
		if th.State(j) == kernel.StateUnused {
			continue
		}
		if syslib.Reply(th, j, &msg, code) < 0 {
			s.logf("%d S: twait reply to %d failed", th.Now(), j)
		}
	}
	s.forget(id)

	if s.halt && s.done(th) {
		s.logf("%d S: all tasks exited", th.Now())
		th.Halt(nil)
	}
}

// forget drops every join record that names id, as target or as waiter, so a
// reused slot never inherits them.
func (s *Service) forget(id kernel.TaskID) {
	delete(s.joiners, id)
	for t, js := range s.joiners {
		kept := js[:0]
		for _, j := range js {
			if j != id {
				kept = append(kept, j)
			}
		}
		if len(kept) == 0 {
			delete(s.joiners, t)
		} else {
			s.joiners[t] = kept
		}
	}
}

func (s *Service) done(th *kernel.Thread) bool {
	live := th.InUse() - 1
	for _, d := range s.routes.Targets() {
		if th.State(d) != kernel.StateUnused {
			live--
		}
	}
	return live <= 0
}
