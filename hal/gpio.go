package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIO provides access to general-purpose IO pins, numbered from 0.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Configure(mode GPIOMode) error
	Read() (level bool, err error)
	Write(level bool) error
}

type pinBank struct {
	pins []GPIOPin
}

// NewGPIO returns a GPIO bank over the given pins.
func NewGPIO(pins ...GPIOPin) GPIO {
	return &pinBank{pins: pins}
}

func (g *pinBank) PinCount() int { return len(g.pins) }

func (g *pinBank) Pin(id int) GPIOPin {
	if id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

type virtualPin struct {
	mu    sync.Mutex
	name  string
	mode  GPIOMode
	level bool
}

// NewVirtualPin returns an in-memory pin that starts as an input.
func NewVirtualPin(name string) GPIOPin {
	return &virtualPin{name: name}
}

func (p *virtualPin) Name() string { return p.name }

func (p *virtualPin) Configure(mode GPIOMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if mode != GPIOModeInput && mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	p.mode = mode
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	return nil
}

type ledPin struct {
	mu         sync.Mutex
	led        LED
	name       string
	configured bool
	level      bool
}

// NewLEDPin exposes an LED as an output-only pin.
func NewLEDPin(name string, led LED) GPIOPin {
	if led == nil {
		return nil
	}
	return &ledPin{led: led, name: name}
}

func (p *ledPin) Name() string { return p.name }

func (p *ledPin) Configure(mode GPIOMode) error {
	if mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: only output supported", p.name)
	}
	p.mu.Lock()
	p.configured = true
	p.mu.Unlock()
	return nil
}

func (p *ledPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *ledPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}
