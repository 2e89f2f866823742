// Package proto holds the argument conventions shared by syscall stubs, the
// system task and driver tasks.
package proto

import (
	"encoding/binary"

	"asios/kernel"
)

// Standard file descriptors.
const (
	Stdin  = 0
	Stdout = 1
	Stderr = 2
)

// FIONREAD asks how many bytes can be read without blocking.
const FIONREAD = 0x541B

// SectorSize is the diskio transfer unit.
const SectorSize = 128

// DiskWrite is the write bit of the diskio rw argument.
const DiskWrite = 0x80

// Gpio commands.
const (
	GpioConfigure = 0
	GpioLow       = 1
	GpioHigh      = 2
)

// Result codes.
const (
	OK   = 0
	Fail = -1
)

// Arg returns register argument i of a forwarded request message.
func Arg(msg *kernel.Message, i int) int {
	return int(msg.Word(i))
}

// PutInt32 stores v little-endian in the first 4 bytes of buf.
func PutInt32(buf []byte, v int) bool {
	if len(buf) < 4 {
		return false
	}
	binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
	return true
}

// Int32 loads a little-endian int32 from the first 4 bytes of buf.
func Int32(buf []byte) int {
	if len(buf) < 4 {
		return 0
	}
	return int(int32(binary.LittleEndian.Uint32(buf)))
}
