// Package disk is the block driver task: diskio requests over a sector layer.
package disk

import (
	"fmt"

	"asios/hal"
	"asios/kernel"
	"asios/system/proto"
	"asios/system/syslib"

	"tinygo.org/x/tinyfs"
)

// Service handles diskio calls forwarded by the system task.
type Service struct {
	sec *Sectors
	log hal.Logger
}

// New creates a disk driver over dev. A nil dev fails every request.
func New(dev tinyfs.BlockDevice, log hal.Logger) *Service {
	s := &Service{log: log}
	if dev != nil {
		s.sec = NewSectors(dev)
	}
	return s
}

// Sectors returns the sector layer, or nil without a device.
func (s *Service) Sectors() *Sectors { return s.sec }

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
		r := proto.Fail
		if kernel.Request(msg.Req()) == kernel.ReqDiskio {
			if f, ok := th.Peer(id); ok {
				r = s.Diskio(proto.Arg(&msg, 0), proto.Arg(&msg, 1), f.Buf, proto.Arg(&msg, 3))
			}
		} else {
			s.logf("%d D: unknown req #%d from %d", th.Now(), msg.Req(), id)
		}
		syslib.Reply(th, id, &msg, r)
	}
}

// Diskio transfers cnt sectors at pos; bit 7 of rw selects a write.
func (s *Service) Diskio(rw, pos int, buf []byte, cnt int) int {
	if s.sec == nil {
		return proto.Fail
	}
	var err error
	if rw&proto.DiskWrite != 0 {
		err = s.sec.Write(pos, buf, cnt)
	} else {
		err = s.sec.Read(pos, buf, cnt)
	}
	if err != nil {
		s.logf("disk: %v", err)
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
