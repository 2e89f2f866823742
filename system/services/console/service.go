// Package console is the character driver task: write, read and ioctl over
// the board console.
package console

import (
	"fmt"

	"asios/hal"
	"asios/kernel"
	"asios/system/proto"
	"asios/system/syslib"
)

// Service handles console calls forwarded by the system task.
type Service struct {
	con hal.Console
	log hal.Logger
}

func New(con hal.Console, log hal.Logger) *Service {
	return &Service{con: con, log: log}
}

// Run is the task entry.
func (s *Service) Run(th *kernel.Thread, _ any) {
	var msg kernel.Message
	for {
		src := syslib.Recv(th, &msg)
		if src < 0 {
			continue
		}
		id := kernel.TaskID(src)
		if !th.IsCallFrom(id) {
			continue
		}
		f, ok := th.Peer(id)
		if !ok {
			syslib.Reply(th, id, &msg, proto.Fail)
			continue
		}
		fd, n := proto.Arg(&msg, 0), proto.Arg(&msg, 2)

		r := proto.Fail
		switch kernel.Request(msg.Req()) {
		case kernel.ReqWrite:
			r = Write(s.con, fd, f.Buf, n)
		case kernel.ReqRead:
			r = s.read(th, fd, f.Buf, n)
		case kernel.ReqIoctl:
			r = Ioctl(s.con, fd, proto.Arg(&msg, 1), f.Buf)
		default:
			s.logf("%d C: unknown req #%d from %d", th.Now(), msg.Req(), id)
		}
		syslib.Reply(th, id, &msg, r)
	}
}

// read blocks the driver, not the machine: while no input is pending it
// yields a tick at a time.
func (s *Service) read(th *kernel.Thread, fd int, buf []byte, n int) int {
	if fd != proto.Stdin || s.con == nil {
		return proto.Fail
	}
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		for s.con.Readable() == 0 {
			syslib.Yield(th, 1)
		}
		b, err := s.con.Getc()
		if err != nil {
			return i
		}
		buf[i] = b
	}
	return n
}

// Write puts n bytes of buf on the console and returns the count written.
func Write(con hal.Console, fd int, buf []byte, n int) int {
	if con == nil || (fd != proto.Stdout && fd != proto.Stderr) {
		return proto.Fail
	}
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		if err := con.Putc(buf[i]); err != nil {
			return i
		}
	}
	return n
}

// ReadReady fills buf with the bytes available without blocking.
func ReadReady(con hal.Console, fd int, buf []byte, n int) int {
	if con == nil || fd != proto.Stdin {
		return proto.Fail
	}
	if avail := con.Readable(); n > avail {
		n = avail
	}
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		b, err := con.Getc()
		if err != nil {
			return i
		}
		buf[i] = b
	}
	return n
}

// Ioctl answers FIONREAD with the pending input count stored in out.
func Ioctl(con hal.Console, fd, req int, out []byte) int {
	if con == nil || fd != proto.Stdin || req != proto.FIONREAD {
		return proto.Fail
	}
	if !proto.PutInt32(out, con.Readable()) {
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
