//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"asios/app"
	"asios/hal"
	"asios/internal/buildinfo"
	"asios/kernel"
)

func main() {
	var hcfg hal.HeadlessConfig
	var cfg app.Config
	var version bool
	flag.IntVar(&hcfg.Hz, "hz", 250, "Host time steps per second.")
	flag.Uint64Var(&hcfg.Ticks, "ticks", 0, "Stop after N ticks (0 = run until halt).")
	flag.StringVar(&hcfg.Host.DiskPath, "disk", "", "Disk image path (default $ASIOS_DISK_PATH or asios.disk).")
	flag.BoolVar(&hcfg.Host.Raw, "raw", false, "Put the terminal into raw mode for the console.")
	flag.Uint64Var(&cfg.Quantum, "quantum", kernel.DefaultQuantum, "Preemption period in ticks.")
	flag.IntVar(&cfg.MaxTasks, "tasks", kernel.DefaultMaxTasks, "Task table size.")
	flag.StringVar(&cfg.Demo, "demo", "pingpong", "Images started by boot: pingpong, blink, all, none or an image name.")
	flag.IntVar(&cfg.Rounds, "rounds", 0, "Demo rounds before the tasks exit (0 = forever).")
	flag.BoolVar(&cfg.ProbeDisk, "probe-disk", false, "Read sector 0 at boot.")
	flag.BoolVar(&version, "version", false, "Print the version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.Banner(kernel.ABIVersion))
		return
	}
	cfg.HaltWhenDone = cfg.Rounds > 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := hal.RunHeadless(ctx, func(h hal.HAL) (func(context.Context) error, error) {
		h.Logger().WriteLineString(buildinfo.Banner(kernel.ABIVersion))
		s, err := app.New(h, cfg)
		if err != nil {
			return nil, err
		}
		return s.Run, nil
	}, hcfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
