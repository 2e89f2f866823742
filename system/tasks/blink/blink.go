// Package blink toggles a pin through the gpio driver.
package blink

import (
	"asios/kernel"
	"asios/system/proto"
	"asios/system/syslib"
	"asios/system/tasks"
)

// Config is the blink task argument.
type Config struct {
	Pin    int
	Period int // ticks per half cycle
	Count  int // full cycles, 0 = forever
}

// Image returns the blink task image.
func Image(cfg Config) tasks.Image {
	return tasks.Image{Name: "blink", Requires: ">=1.2", Entry: Main, Arg: cfg}
}

// Main is the task entry.
func Main(th *kernel.Thread, arg any) {
	cfg := arg.(Config)
	if cfg.Period <= 0 {
		cfg.Period = 500
	}
	if r := syslib.Gpio(th, cfg.Pin, proto.GpioConfigure); r != proto.OK {
		syslib.Texit(th, 1)
	}
	for i := 0; cfg.Count == 0 || i < cfg.Count; i++ {
		syslib.Gpio(th, cfg.Pin, proto.GpioHigh)
		syslib.Yield(th, cfg.Period)
		syslib.Gpio(th, cfg.Pin, proto.GpioLow)
		syslib.Yield(th, cfg.Period)
	}
}
