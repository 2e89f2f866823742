package systask_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"asios/hal"
	"asios/internal/testutil"
	"asios/kernel"
	"asios/system/proto"
	"asios/system/services/console"
	"asios/system/services/disk"
	"asios/system/services/systask"
	"asios/system/syslib"

	"tinygo.org/x/tinyfs"
)

const (
	slotConsole kernel.TaskID = 5
	slotDisk    kernel.TaskID = 6
)

type machine struct {
	maxTasks int
	drivers  bool
	con      *hal.MemConsole
	dev      tinyfs.BlockDevice
	log      testutil.Log
}

// run boots a machine with main in slot 1 and waits for it to halt.
func (m *machine) run(t *testing.T, main kernel.Entry) {
	t.Helper()
	if m.maxTasks == 0 {
		m.maxTasks = 8
	}
	if m.con == nil {
		m.con = hal.NewMemConsole("")
	}
	k := kernel.New(kernel.Config{MaxTasks: m.maxTasks, Clock: kernel.NewVirtualClock(), Logger: &m.log})
	d := disk.New(m.dev, &m.log)
	routes := &systask.Routes{}
	setup := func(id kernel.TaskID, entry kernel.Entry) {
		t.Helper()
		if err := k.Init(id, entry, nil, kernel.Region{}); err != nil {
			t.Fatalf("Init(%d): %v", id, err)
		}
	}
	if m.drivers {
		routes.Route(slotConsole, kernel.ReqWrite, kernel.ReqRead, kernel.ReqIoctl)
		routes.Route(slotDisk, kernel.ReqDiskio)
		setup(slotConsole, console.New(m.con, &m.log).Run)
		setup(slotDisk, d.Run)
	}
	sys := systask.New(systask.Config{
		Routes:       routes,
		Console:      m.con,
		Disk:         d.Sectors(),
		Logger:       &m.log,
		HaltWhenDone: true,
	})
	setup(kernel.SystemTask, sys.Run)
	setup(1, main)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := k.Run(ctx); err != nil {
		t.Fatalf("Run() = %v\nlog:\n%v", err, m.log.Lines())
	}
}

func TestTforkTableFull(t *testing.T) {
	m := &machine{maxTasks: 4}
	var ids [3]int
	m.run(t, func(th *kernel.Thread, _ any) {
		child := func(th *kernel.Thread, _ any) { syslib.Yield(th, 10) }
		for i := range ids {
			ids[i] = syslib.Tfork(th, 0x1000, child, nil)
		}
	})
	if ids != [3]int{2, 3, -1} {
		t.Fatalf("tfork results = %v, want [2 3 -1]", ids)
	}
}

func TestTwaitGetsExitCode(t *testing.T) {
	m := &machine{maxTasks: 4}
	var code, self, unused int
	m.run(t, func(th *kernel.Thread, _ any) {
		id := syslib.Tfork(th, 0, func(th *kernel.Thread, _ any) {
			syslib.Yield(th, 5)
			syslib.Texit(th, 7)
		}, nil)
		self = syslib.Twait(th, int(th.ID()))
		unused = syslib.Twait(th, 3)
		code = syslib.Twait(th, id)
	})
	if code != 7 {
		t.Fatalf("twait = %d, want 7", code)
	}
	if self != -1 || unused != -1 {
		t.Fatalf("twait(self) = %d, twait(unused) = %d, want -1", self, unused)
	}
}

func TestLocalRequests(t *testing.T) {
	m := &machine{}
	var demo, noop, unknown, yield int
	var woke uint64
	m.run(t, func(th *kernel.Thread, _ any) {
		demo = syslib.Demo(th, 22, 33, 44, 55)
		noop = syslib.Noop(th)
		unknown = th.Trap(kernel.Request(200), &kernel.Frame{})
		start := th.Now()
		yield = syslib.Yield(th, 100)
		woke = th.Now() - start
	})
	if demo != 154 || noop != 0 || unknown != -1 || yield != 0 {
		t.Fatalf("demo %d noop %d unknown %d yield %d", demo, noop, unknown, yield)
	}
	if woke != 100 {
		t.Fatalf("yield(100) woke after %d ticks", woke)
	}
	if !m.log.Contains("unknown req #200 from 1") {
		t.Fatalf("missing unknown request log, got %v", m.log.Lines())
	}
}

func TestConsoleDriver(t *testing.T) {
	m := &machine{drivers: true, con: hal.NewMemConsole("abc")}
	var wrote, bad, ioctl, avail, read int
	buf := make([]byte, 3)
	m.run(t, func(th *kernel.Thread, _ any) {
		wrote = syslib.Write(th, proto.Stdout, []byte("hello"))
		bad = syslib.Write(th, proto.Stdin, []byte("x"))
		ioctl = syslib.Ioctl(th, proto.Stdin, proto.FIONREAD, &avail)
		read = syslib.Read(th, proto.Stdin, buf)
	})
	if wrote != 5 || bad != -1 {
		t.Fatalf("write = %d, write(stdin) = %d", wrote, bad)
	}
	if got := m.con.Output(); got != "hello" {
		t.Fatalf("console output = %q, want hello", got)
	}
	if ioctl != 0 || avail != 3 {
		t.Fatalf("ioctl = %d, FIONREAD = %d, want 0 and 3", ioctl, avail)
	}
	if read != 3 || string(buf) != "abc" {
		t.Fatalf("read = %d %q, want 3 abc", read, buf)
	}
}

func TestConsoleFallback(t *testing.T) {
	m := &machine{con: hal.NewMemConsole("z")}
	var wrote, read int
	buf := make([]byte, 4)
	m.run(t, func(th *kernel.Thread, _ any) {
		wrote = syslib.Printf(th, "n=%d", 42)
		read = syslib.Read(th, proto.Stdin, buf)
	})
	if wrote != 4 || m.con.Output() != "n=42" {
		t.Fatalf("write = %d output %q", wrote, m.con.Output())
	}
	if read != 1 || buf[0] != 'z' {
		t.Fatalf("read = %d %q, want 1 z", read, buf[:1])
	}
}

func TestDiskDriver(t *testing.T) {
	m := &machine{drivers: true, dev: tinyfs.NewMemoryDevice(256, 4096, 16)}
	out := bytes.Repeat([]byte{0xA5, 0x5A}, proto.SectorSize)
	in := make([]byte, 2*proto.SectorSize)
	var w, r, bad int
	m.run(t, func(th *kernel.Thread, _ any) {
		w = syslib.Diskio(th, proto.DiskWrite, 31, out, 2)
		r = syslib.Diskio(th, 0, 31, in, 2)
		bad = syslib.Diskio(th, 0, 1<<20, in, 1)
	})
	if w != 0 || r != 0 {
		t.Fatalf("diskio write %d read %d, want 0", w, r)
	}
	if !bytes.Equal(in, out) {
		t.Fatal("read back differs from written sectors")
	}
	if bad != -1 {
		t.Fatalf("diskio past the end = %d, want -1", bad)
	}
}

func TestRoutedSendIsDropped(t *testing.T) {
	m := &machine{drivers: true}
	m.run(t, func(th *kernel.Thread, _ any) {
		var msg kernel.Message
		msg.SetReq(uint8(kernel.ReqWrite))
		syslib.Send(th, kernel.SystemTask, &msg)
		syslib.Noop(th)
	})
	if !m.log.Contains("can't re-send req #7 from 1") {
		t.Fatalf("missing re-send log, got %v", m.log.Lines())
	}
}

func TestRoutes(t *testing.T) {
	var r systask.Routes
	r.Route(5, kernel.ReqWrite, kernel.ReqRead)
	r.Set(kernel.ReqGpio, 7, kernel.ReqGpio)
	r.Set(kernel.Request(99), 5, kernel.ReqWrite)
	if got := r.Lookup(uint8(kernel.ReqRead)); got != (systask.Route{Task: 5, Num: uint8(kernel.ReqRead)}) {
		t.Fatalf("Lookup(read) = %+v", got)
	}
	if got := r.Lookup(99); got.Num != uint8(kernel.ReqWrite) {
		t.Fatalf("Lookup(99) = %+v, want rewrite to write", got)
	}
	if got := r.Lookup(uint8(kernel.ReqDemo)); got.Task != kernel.SystemTask {
		t.Fatalf("Lookup(demo) = %+v, want local", got)
	}
	if got := r.Targets(); len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Fatalf("Targets() = %v, want [5 7]", got)
	}
}
