// Package boot is the first user task: it checks the system-call path, then
// starts the configured images and waits for them.
package boot

import (
	"asios/kernel"
	"asios/system/proto"
	"asios/system/syslib"
	"asios/system/tasks"
)

// StackTop is the initial stack top handed to forked tasks; each fork gets
// the next lower stack.
const (
	StackTop  = 0x20040000
	StackSize = 1024
)

// Config is the boot task argument.
type Config struct {
	Images []tasks.Image
	// ProbeDisk reads sector 0 and reports the result.
	ProbeDisk bool
}

// Main is the task entry. The exit code is the number of failed checks.
func Main(th *kernel.Thread, arg any) {
	cfg, _ := arg.(Config)
	failed := 0

	syslib.Printf(th, "boot: task %d\r\n", th.ID())
	if r := syslib.Demo(th, 22, 33, 44, 55); r != 22+33+44+55 {
		syslib.Printf(th, "boot: demo = %d, want %d\r\n", r, 22+33+44+55)
		failed++
	}
	if r := syslib.Noop(th); r != proto.OK {
		syslib.Printf(th, "boot: noop = %d\r\n", r)
		failed++
	}
	if cfg.ProbeDisk {
		buf := make([]byte, proto.SectorSize)
		r := syslib.Diskio(th, 0, 0, buf, 1)
		syslib.Printf(th, "boot: disk sector 0 -> %d (%02x)\r\n", r, buf[0])
	}

	var children []int
	top := StackTop
	for _, img := range cfg.Images {
		if img.Slot != 0 {
			continue
		}
		if err := img.Compatible(kernel.ABIVersion); err != nil {
			syslib.Printf(th, "boot: %v\r\n", err)
			failed++
			continue
		}
		id := syslib.Tfork(th, top, img.Entry, img.Arg)
		if id < 0 {
			syslib.Printf(th, "boot: tfork %s failed\r\n", img.Name)
			failed++
			continue
		}
		top -= StackSize
		syslib.Printf(th, "boot: %s is task %d\r\n", img.Name, id)
		children = append(children, id)
	}
	for _, id := range children {
		code := syslib.Twait(th, id)
		syslib.Printf(th, "boot: task %d exited with %d\r\n", id, code)
	}
	syslib.Texit(th, failed)
}
