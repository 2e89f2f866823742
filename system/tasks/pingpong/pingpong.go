// Package pingpong is the IPC exercise: a server that negates request codes,
// a task that sends to it and a task that calls it.
package pingpong

import (
	"asios/kernel"
	"asios/system/syslib"
	"asios/system/tasks"
)

// Config is the task argument shared by the three tasks.
type Config struct {
	Server kernel.TaskID
	// Req is the request code the caller and sender use.
	Req uint8
	// SendEvery and CallEvery are the periods in ticks.
	SendEvery int
	CallEvery int
	// Rounds ends the task after that many sends or calls, and the server
	// after that many calls (0 = forever).
	Rounds int
	// Quiet turns off the console chatter.
	Quiet bool
}

// Default is the period set of the demo.
var Default = Config{Req: 5, SendEvery: 1500, CallEvery: 4000}

// Images returns the three tasks, with the server pinned to cfg.Server.
func Images(cfg Config) []tasks.Image {
	return []tasks.Image{
		{Name: "pingpong-server", Requires: "^1.0", Slot: cfg.Server, Entry: Server, Arg: cfg},
		{Name: "pingpong-sender", Requires: "^1.0", Entry: Sender, Arg: cfg},
		{Name: "pingpong-caller", Requires: "^1.0", Entry: Caller, Arg: cfg},
	}
}

// Server answers every call with the negated request code and drops sends
// after logging them.
func Server(th *kernel.Thread, arg any) {
	cfg := arg.(Config)
	var msg kernel.Message
	calls := 0
	for cfg.Rounds == 0 || calls < cfg.Rounds {
		src := syslib.Recv(th, &msg)
		if src < 0 {
			continue
		}
		id := kernel.TaskID(src)
		if !th.IsCallFrom(id) {
			cfg.printf(th, "%d: got send #%d from %d\r\n", th.ID(), msg.Req(), id)
			continue
		}
		msg.SetReq(negate(msg.Req()))
		syslib.Reply(th, id, &msg, 0)
		calls++
	}
}

// Sender sends to the server every SendEvery ticks; a send is lost when the
// server is not listening.
func Sender(th *kernel.Thread, arg any) {
	cfg := arg.(Config)
	var msg kernel.Message
	for i := 0; cfg.Rounds == 0 || i < cfg.Rounds; i++ {
		syslib.Yield(th, cfg.SendEvery)
		msg.SetReq(cfg.Req)
		r := syslib.Send(th, cfg.Server, &msg)
		cfg.printf(th, "%d: send -> %d\r\n", th.ID(), r)
	}
}

// Caller calls the server every CallEvery ticks and reports the reply.
func Caller(th *kernel.Thread, arg any) {
	cfg := arg.(Config)
	var msg kernel.Message
	for i := 0; cfg.Rounds == 0 || i < cfg.Rounds; i++ {
		syslib.Yield(th, cfg.CallEvery)
		msg.SetReq(cfg.Req)
		r := syslib.Call(th, cfg.Server, &msg)
		cfg.printf(th, "%d: call -> %d reply #%d\r\n", th.ID(), r, int8(msg.Req()))
	}
}

func negate(req uint8) uint8 { return uint8(-int8(req)) }

func (cfg Config) printf(th *kernel.Thread, format string, args ...any) {
	if cfg.Quiet {
		return
	}
	syslib.Printf(th, format, args...)
}
