package hal

import (
	"errors"

	"tinygo.org/x/tinyfs"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Console is a byte-at-a-time character device (the UART on real boards).
type Console interface {
	// Putc writes one byte, blocking until it is accepted.
	Putc(b byte) error
	// Getc reads one byte, blocking until one is available.
	Getc() (byte, error)
	// Readable returns the number of bytes Getc can return without blocking.
	Readable() int
}

// Storage is the raw block device behind the disk driver (flash, SD card).
// Nil when the board has none.
type Storage = tinyfs.BlockDevice

// Time provides a base tick stream.
//
// One tick is one millisecond; the sequence number is the tick count.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Console() Console
	Storage() Storage
	Time() Time
}
