//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs"
)

type tinyGoHAL struct {
	logger  *uartLogger
	led     *pinLED
	gpio    GPIO
	console *uartConsole
	storage Storage
	t       *tinyGoTime
}

// New returns a Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. It carries both the log and
// the console. SD card on SPI0 (GP18 SCK, GP19 SDO, GP16 SDI, GP17 CS); without
// a card the disk falls back to a RAM device.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	pins := []GPIOPin{NewLEDPin("LED", led)}
	for i := 1; i < 8; i++ {
		pins = append(pins, NewVirtualPin(fmt.Sprintf("GPIO%d", i)))
	}

	return &tinyGoHAL{
		logger:  logger,
		led:     led,
		gpio:    NewGPIO(pins...),
		console: &uartConsole{uart: uart},
		storage: newStorage(logger),
		t:       newTinyGoTime(),
	}
}

func newStorage(l Logger) Storage {
	sd := sdcard.New(machine.SPI0, machine.GP18, machine.GP19, machine.GP16, machine.GP17)
	if err := sd.Configure(); err != nil {
		l.WriteLineString("hal: no sd card, using ram disk: " + err.Error())
		return tinyfs.NewMemoryDevice(256, 4096, 64)
	}
	return &sd
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHAL) Console() Console { return h.console }
func (h *tinyGoHAL) Storage() Storage { return h.storage }
func (h *tinyGoHAL) Time() Time       { return h.t }
