//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"

	tty "github.com/mattn/go-tty"
)

// hostConsole is the UART of the host build: the controlling terminal in raw
// mode, or plain stdin/stdout.
type hostConsole struct {
	mu      sync.Mutex
	in      *os.File
	out     *os.File
	tty     *tty.TTY
	restore func() error
	avail   readableFunc
}

type readableFunc func() int

func newHostConsole(raw bool) (*hostConsole, error) {
	c := &hostConsole{in: os.Stdin, out: os.Stdout}
	if raw {
		t, err := tty.Open()
		if err != nil {
			return nil, fmt.Errorf("console: open terminal: %w", err)
		}
		restore, err := t.Raw()
		if err != nil {
			t.Close()
			return nil, fmt.Errorf("console: raw mode: %w", err)
		}
		c.tty = t
		c.restore = restore
		c.in = t.Input()
		c.out = t.Output()
	}
	c.avail = readable(c.in)
	return c, nil
}

func (c *hostConsole) Putc(b byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.out.Write([]byte{b})
	return err
}

func (c *hostConsole) Getc() (byte, error) {
	var b [1]byte
	for {
		n, err := c.in.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

func (c *hostConsole) Readable() int { return c.avail() }

func (c *hostConsole) Close() error {
	if c.tty == nil {
		return nil
	}
	var err error
	if c.restore != nil {
		err = c.restore()
	}
	if cerr := c.tty.Close(); err == nil {
		err = cerr
	}
	c.tty = nil
	return err
}
