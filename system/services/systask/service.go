// Package systask is the slot-0 system task. It owns the routing table,
// answers the built-in requests and manages the task lifecycle.
package systask

import (
	"fmt"

	"asios/hal"
	"asios/kernel"
	"asios/system/proto"
	"asios/system/services/console"
	"asios/system/services/disk"
	"asios/system/syslib"
)

// DefaultStackSize sizes the stack region of forked tasks.
const DefaultStackSize = 1024

// Config wires the system task.
type Config struct {
	Routes *Routes
	// Console and Disk serve write/read/ioctl and diskio when no driver
	// route exists. Either may be nil.
	Console hal.Console
	Disk    *disk.Sectors
	Logger  hal.Logger
	// StackSize is the stack region given to forked tasks.
	StackSize uint32
	// HaltWhenDone halts the machine once only the system task and the
	// route targets are left.
	HaltWhenDone bool
}

// Service is the system task.
type Service struct {
	routes  *Routes
	con     hal.Console
	disk    *disk.Sectors
	log     hal.Logger
	stack   uint32
	halt    bool
	joiners map[kernel.TaskID][]kernel.TaskID
}

func New(cfg Config) *Service {
	if cfg.Routes == nil {
		cfg.Routes = &Routes{}
	}
	if cfg.StackSize == 0 {
		cfg.StackSize = DefaultStackSize
	}
	return &Service{
		routes:  cfg.Routes,
		con:     cfg.Console,
		disk:    cfg.Disk,
		log:     cfg.Logger,
		stack:   cfg.StackSize,
		halt:    cfg.HaltWhenDone,
		joiners: make(map[kernel.TaskID][]kernel.TaskID),
	}
}

// Run is the task entry: an endless listen loop.
func (s *Service) Run(th *kernel.Thread, _ any) {
	var msg kernel.Message
	for {
		src := syslib.Recv(th, &msg)
		if src < 0 {
			continue
		}
		id := kernel.TaskID(src)
		isCall := th.IsCallFrom(id)

		if rt := s.routes.Lookup(msg.Req()); rt.Task != kernel.SystemTask {
			if !isCall {
				s.logf("%d S: can't re-send req #%d from %d", th.Now(), msg.Req(), id)
				continue
			}
			req := msg.Req()
			msg.SetReq(rt.Num)
			if !th.Forward(rt.Task, id, &msg) {
				s.logf("%d S: forward failed, req #%d from %d to %d", th.Now(), req, id, rt.Task)
			}
			continue
		}

		reply, ok := s.handle(th, id, &msg, isCall)
		if ok && isCall {
			if syslib.Reply(th, id, &msg, reply) < 0 {
				s.logf("%d S: reply to %d failed", th.Now(), id)
			}
		}
	}
}

// handle serves a local request. ok is false when the caller must not get a
// reply now.
func (s *Service) handle(th *kernel.Thread, id kernel.TaskID, msg *kernel.Message, isCall bool) (int, bool) {
	arg := func(i int) int { return proto.Arg(msg, i) }
	buf := func() []byte {
		if f, ok := th.Peer(id); ok {
			return f.Buf
		}
		return nil
	}

	switch req := kernel.Request(msg.Req()); req {
	case kernel.ReqNoop:
		return proto.OK, true
	case kernel.ReqDemo:
		return arg(0) + arg(1) + arg(2) + arg(3), true
	case kernel.ReqWrite:
		return console.Write(s.con, arg(0), buf(), arg(2)), true
	case kernel.ReqRead:
		return console.ReadReady(s.con, arg(0), buf(), arg(2)), true
	case kernel.ReqIoctl:
		return console.Ioctl(s.con, arg(0), arg(1), buf()), true
	case kernel.ReqDiskio:
		return s.diskio(arg(0), arg(1), buf(), arg(3)), true
	case kernel.ReqTfork, kernel.ReqTwait, kernel.ReqTexit, kernel.ReqYield:
		if !isCall {
			s.logf("%d S: %s from %d is not a call", th.Now(), req, id)
			return proto.Fail, false
		}
		return s.lifecycle(th, id, req, msg)
	default:
		s.logf("%d S: unknown req #%d from %d", th.Now(), msg.Req(), id)
		return proto.Fail, true
	}
}

func (s *Service) diskio(rw, pos int, buf []byte, cnt int) int {
	if s.disk == nil {
		return proto.Fail
	}
	var err error
	if rw&proto.DiskWrite != 0 {
		err = s.disk.Write(pos, buf, cnt)
	} else {
		err = s.disk.Read(pos, buf, cnt)
	}
	if err != nil {
		s.logf("S: diskio: %v", err)
		return proto.Fail
	}
	return proto.OK
}

func (s *Service) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}
