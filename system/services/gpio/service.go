// Package gpio is the pin driver task.
package gpio

import (
	"fmt"

	"asios/hal"
	"asios/kernel"
	"asios/system/proto"
	"asios/system/syslib"
)

// Service handles gpio(pin, cmd) calls forwarded by the system task.
type Service struct {
	gpio hal.GPIO
	log  hal.Logger
}

func New(gpio hal.GPIO, log hal.Logger) *Service {
	return &Service{gpio: gpio, log: log}
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
		r := proto.Fail
		if kernel.Request(msg.Req()) == kernel.ReqGpio {
			r = s.Apply(proto.Arg(&msg, 0), proto.Arg(&msg, 1))
		} else {
			s.logf("%d G: unknown req #%d from %d", th.Now(), msg.Req(), id)
		}
		syslib.Reply(th, id, &msg, r)
	}
}

// Apply runs one pin command.
func (s *Service) Apply(pin, cmd int) int {
	if s.gpio == nil {
		return proto.Fail
	}
	p := s.gpio.Pin(pin)
	if p == nil {
		return proto.Fail
	}
	var err error
	switch cmd {
	case proto.GpioConfigure:
		err = p.Configure(hal.GPIOModeOutput)
	case proto.GpioLow:
		err = p.Write(false)
	case proto.GpioHigh:
		err = p.Write(true)
	default:
		return proto.Fail
	}
	if err != nil {
		s.logf("gpio: %v", err)
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
