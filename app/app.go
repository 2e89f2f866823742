// Package app assembles a machine: kernel, system task, drivers and the boot
// task with its images.
package app

import (
	"context"
	"fmt"

	"asios/hal"
	"asios/kernel"
	"asios/system/services/console"
	"asios/system/services/disk"
	"asios/system/services/gpio"
	"asios/system/services/systask"
	"asios/system/tasks"
	"asios/system/tasks/blink"
	"asios/system/tasks/boot"
	"asios/system/tasks/pingpong"
)

// Fixed slots of the default layout. Forked tasks take the free ones.
const (
	SlotBoot    kernel.TaskID = 1
	SlotServer  kernel.TaskID = 2
	SlotConsole kernel.TaskID = 5
	SlotDisk    kernel.TaskID = 6
	SlotGpio    kernel.TaskID = 7
)

// Config selects the machine parameters and the demo.
type Config struct {
	MaxTasks int
	Quantum  uint64
	// Demo names the images boot starts: "pingpong", "blink", "all" or
	// "none".
	Demo string
	// Rounds bounds the demo tasks (0 = run forever).
	Rounds int
	// Clock overrides the HAL tick stream.
	Clock kernel.Clock
	// HaltWhenDone stops the machine once every user task has exited.
	HaltWhenDone bool
	ProbeDisk    bool
}

type fixedTask struct {
	id    kernel.TaskID
	entry kernel.Entry
	arg   any
}

// System is an assembled machine.
type System struct {
	k        *kernel.Kernel
	registry *tasks.Registry
}

// New builds the machine on h. Nothing runs until Run.
func New(h hal.HAL, cfg Config) (*System, error) {
	installPanicHandler(h)

	clock := cfg.Clock
	if clock == nil {
		if ht := h.Time(); ht != nil && ht.Ticks() != nil {
			clock = kernel.NewTickClock(ht.Ticks())
		}
	}
	k := kernel.New(kernel.Config{
		MaxTasks: cfg.MaxTasks,
		Quantum:  cfg.Quantum,
		Clock:    clock,
		Logger:   h.Logger(),
	})
	if k.MaxTasks() <= int(SlotGpio) {
		return nil, fmt.Errorf("app: %d task slots, need more than %d: %w", k.MaxTasks(), SlotGpio, kernel.ErrBadSlot)
	}

	dsk := disk.New(h.Storage(), h.Logger())
	routes := &systask.Routes{}
	routes.Route(SlotConsole, kernel.ReqWrite, kernel.ReqRead, kernel.ReqIoctl)
	routes.Route(SlotDisk, kernel.ReqDiskio)
	routes.Route(SlotGpio, kernel.ReqGpio)

	sys := systask.New(systask.Config{
		Routes:       routes,
		Console:      h.Console(),
		Disk:         dsk.Sectors(),
		Logger:       h.Logger(),
		HaltWhenDone: cfg.HaltWhenDone,
	})

	rounds := cfg.Rounds
	pp := pingpong.Default
	pp.Server = SlotServer
	pp.Rounds = rounds
	registry := tasks.NewRegistry(pingpong.Images(pp)...)
	registry.Register(blink.Image(blink.Config{Pin: 0, Period: 500, Count: rounds}))

	images, err := selectImages(registry, cfg.Demo)
	if err != nil {
		return nil, err
	}

	fixed := []fixedTask{
		{kernel.SystemTask, sys.Run, nil},
		{SlotBoot, boot.Main, boot.Config{Images: images, ProbeDisk: cfg.ProbeDisk}},
		{SlotConsole, console.New(h.Console(), h.Logger()).Run, nil},
		{SlotDisk, dsk.Run, nil},
		{SlotGpio, gpio.New(h.GPIO(), h.Logger()).Run, nil},
	}
	for _, img := range images {
		if img.Slot != 0 {
			fixed = append(fixed, fixedTask{img.Slot, img.Entry, img.Arg})
		}
	}
	top := uint32(boot.StackTop)
	for _, t := range fixed {
		if err := k.Init(t.id, t.entry, t.arg, kernel.StackRegion(top, boot.StackSize)); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		top -= boot.StackSize
	}
	return &System{k: k, registry: registry}, nil
}

func selectImages(r *tasks.Registry, demo string) ([]tasks.Image, error) {
	var names []string
	switch demo {
	case "", "pingpong":
		names = []string{"pingpong-server", "pingpong-sender", "pingpong-caller"}
	case "blink":
		names = []string{"blink"}
	case "all":
		names = r.Names()
	case "none":
	default:
		names = []string{demo}
	}
	out := make([]tasks.Image, 0, len(names))
	for _, name := range names {
		img, err := r.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		out = append(out, img)
	}
	return out, nil
}

// Kernel returns the machine's kernel.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Images lists the task images the machine knows.
func (s *System) Images() []string { return s.registry.Names() }

// Run runs the machine until it halts or ctx ends.
func (s *System) Run(ctx context.Context) error {
	return s.k.Run(ctx)
}

// Run builds and runs the machine, then parks forever (TinyGo entrypoint).
func Run(h hal.HAL, cfg Config) {
	s, err := New(h, cfg)
	if err != nil {
		h.Logger().WriteLineString(err.Error())
		select {}
	}
	if err := s.Run(context.Background()); err != nil {
		h.Logger().WriteLineString("halted: " + err.Error())
	} else {
		h.Logger().WriteLineString("halted")
	}
	select {}
}
