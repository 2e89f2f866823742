// Package syslib holds the system-call stubs tasks use to reach the kernel.
//
// Every stub loads its arguments into a register frame and traps. Only send,
// call and recv are handled by the kernel itself; the rest are calls to the
// system task, which either answers them or forwards them to a driver.
package syslib

import (
	"fmt"

	"asios/kernel"
	"asios/system/proto"
)

// Message is the fixed-size IPC buffer.
type Message = kernel.Message

func trap(th *kernel.Thread, req kernel.Request, f *kernel.Frame) int {
	return th.Trap(req, f)
}

// Send delivers msg to dst without blocking: 0 if dst accepted it, -1 if dst
// was not ready to receive.
func Send(th *kernel.Thread, dst kernel.TaskID, msg *Message) int {
	return trap(th, kernel.ReqSend, &kernel.Frame{R: [4]int{int(dst)}, Msg: msg})
}

// Call sends msg to dst and blocks until dst replies. The reply overwrites msg.
func Call(th *kernel.Thread, dst kernel.TaskID, msg *Message) int {
	return trap(th, kernel.ReqCall, &kernel.Frame{R: [4]int{int(dst)}, Msg: msg})
}

// Recv blocks until a message arrives in msg and returns the sender.
func Recv(th *kernel.Thread, msg *Message) int {
	return trap(th, kernel.ReqRecv, &kernel.Frame{Msg: msg})
}

// Noop is a round trip through the system task.
func Noop(th *kernel.Thread) int {
	return trap(th, kernel.ReqNoop, &kernel.Frame{})
}

// Demo returns a+b+c+d, computed by the system task.
func Demo(th *kernel.Thread, a, b, c, d int) int {
	return trap(th, kernel.ReqDemo, &kernel.Frame{R: [4]int{a, b, c, d}})
}

// Gpio sends a pin command to the gpio driver.
func Gpio(th *kernel.Thread, pin, cmd int) int {
	return trap(th, kernel.ReqGpio, &kernel.Frame{R: [4]int{pin, cmd}})
}

// Write writes p to file descriptor fd and returns the count written.
func Write(th *kernel.Thread, fd int, p []byte) int {
	return trap(th, kernel.ReqWrite, &kernel.Frame{R: [4]int{fd, 0, len(p)}, Buf: p})
}

// Read fills p from file descriptor fd and returns the count read.
func Read(th *kernel.Thread, fd int, p []byte) int {
	return trap(th, kernel.ReqRead, &kernel.Frame{R: [4]int{fd, 0, len(p)}, Buf: p})
}

// Ioctl performs a device control request; the result is stored in *out.
func Ioctl(th *kernel.Thread, fd, req int, out *int) int {
	buf := make([]byte, 4)
	r := trap(th, kernel.ReqIoctl, &kernel.Frame{R: [4]int{fd, req}, Buf: buf})
	if out != nil {
		*out = proto.Int32(buf)
	}
	return r
}

// Diskio transfers cnt sectors at pos to (rw bit 7 set) or from buf.
func Diskio(th *kernel.Thread, rw, pos int, buf []byte, cnt int) int {
	return trap(th, kernel.ReqDiskio, &kernel.Frame{R: [4]int{rw, pos, 0, cnt}, Buf: buf})
}

// Tfork starts entry(arg) in a free task slot and returns its id, or -1 when
// the task table is full. stackTop only sizes the task's stack region.
func Tfork(th *kernel.Thread, stackTop int, entry kernel.Entry, arg any) int {
	return trap(th, kernel.ReqTfork, &kernel.Frame{R: [4]int{stackTop}, Entry: entry, Arg: arg})
}

// Twait blocks until task id exits and returns its exit code.
func Twait(th *kernel.Thread, id int) int {
	return trap(th, kernel.ReqTwait, &kernel.Frame{R: [4]int{id}})
}

// Texit ends the calling task. It does not return.
func Texit(th *kernel.Thread, code int) int {
	return trap(th, kernel.ReqTexit, &kernel.Frame{R: [4]int{code}})
}

// Yield suspends the calling task for ms ticks.
func Yield(th *kernel.Thread, ms int) int {
	return trap(th, kernel.ReqYield, &kernel.Frame{R: [4]int{ms}})
}

// Reply answers a call that this task accepted with Recv: the message goes
// back into the caller's buffer and v becomes the caller's result.
func Reply(th *kernel.Thread, caller kernel.TaskID, msg *Message, v int) int {
	if r := Send(th, caller, msg); r < 0 {
		return r
	}
	if err := th.SetResult(caller, v); err != nil {
		return -1
	}
	return 0
}

// Printf formats to standard output through the write system call.
func Printf(th *kernel.Thread, format string, args ...any) int {
	return Write(th, proto.Stdout, []byte(fmt.Sprintf(format, args...)))
}
