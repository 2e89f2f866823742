package hal

import (
	"io"
	"sync"
)

// MemConsole is an in-memory console for tests: input is queued with Feed,
// output accumulates in a buffer.
type MemConsole struct {
	mu  sync.Mutex
	in  []byte
	out []byte
}

func NewMemConsole(input string) *MemConsole {
	return &MemConsole{in: []byte(input)}
}

// Feed queues more input.
func (c *MemConsole) Feed(s string) {
	c.mu.Lock()
	c.in = append(c.in, s...)
	c.mu.Unlock()
}

func (c *MemConsole) Putc(b byte) error {
	c.mu.Lock()
	c.out = append(c.out, b)
	c.mu.Unlock()
	return nil
}

func (c *MemConsole) Getc() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.in) == 0 {
		return 0, io.EOF
	}
	b := c.in[0]
	c.in = c.in[1:]
	return b, nil
}

func (c *MemConsole) Readable() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.in)
}

// Output returns everything written so far.
func (c *MemConsole) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.out)
}
