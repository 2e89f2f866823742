//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig selects the host devices.
type HostConfig struct {
	// DiskPath is the disk image file (ASIOS_DISK_PATH, then asios.disk, if empty).
	DiskPath string
	// DiskSize is the image size for a newly created file.
	DiskSize int64
	// Raw puts the controlling terminal into raw mode for the console.
	Raw bool
	// Log receives log lines (stderr if nil).
	Log io.Writer
}

type Host struct {
	logger  *hostLogger
	led     *hostLED
	gpio    GPIO
	console *hostConsole
	storage *FileStorage
	t       *hostTime
}

// New returns a host HAL implementation. Close releases the terminal and the
// disk image.
func New(cfg HostConfig) (*Host, error) {
	w := cfg.Log
	if w == nil {
		w = os.Stderr
	}
	logger := &hostLogger{w: w}
	led := &hostLED{logger: logger}
	pins := []GPIOPin{NewLEDPin("LED", led)}
	for i := 1; i < 8; i++ {
		pins = append(pins, NewVirtualPin(fmt.Sprintf("GPIO%d", i)))
	}

	console, err := newHostConsole(cfg.Raw)
	if err != nil {
		return nil, err
	}
	storage, err := OpenFileStorage(cfg.DiskPath, cfg.DiskSize)
	if err != nil {
		// Run without a disk; diskio requests will fail.
		logger.WriteLineString(fmt.Sprintf("hal: disk unavailable: %v", err))
		storage = nil
	}
	return &Host{
		logger:  logger,
		led:     led,
		gpio:    NewGPIO(pins...),
		console: console,
		storage: storage,
		t:       newHostTime(),
	}, nil
}

func (h *Host) Logger() Logger   { return h.logger }
func (h *Host) LED() LED         { return h.led }
func (h *Host) GPIO() GPIO       { return h.gpio }
func (h *Host) Console() Console { return h.console }
func (h *Host) Time() Time       { return h.t }

func (h *Host) Storage() Storage {
	if h.storage == nil {
		return nil
	}
	return h.storage
}

func (h *Host) Close() error {
	var errs []error
	if h.console != nil {
		errs = append(errs, h.console.Close())
	}
	if h.storage != nil {
		errs = append(errs, h.storage.Close())
	}
	return errors.Join(errs...)
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, s+"\r\n")
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\r', '\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on {
		l.logger.WriteLineString("led: HIGH")
	}
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		l.logger.WriteLineString("led: LOW")
	}
	l.on = false
}
