package kernel

import "sync"

// execContext is a saved execution context: the stack and registers of a task
// that is not running. It is the only architecture-specific piece of the
// kernel; everything above it treats a context as opaque.
type execContext interface {
	// resume hands the CPU to this context.
	resume()
	// park gives up the CPU until the context is resumed again. It returns
	// false if the context was killed or the machine halted meanwhile.
	park() bool
	// kill discards the context. A parked context unwinds.
	kill()
}

// contextFactory builds the initial context of a task. The body runs on the
// new context the first time it is resumed.
type contextFactory interface {
	initContext(body func(), stack Region) execContext
}

// goroutineContexts backs each task with a goroutine parked on a wake channel.
// Exactly one of them holds the CPU at any instant.
type goroutineContexts struct {
	halt <-chan struct{}
}

func (f goroutineContexts) initContext(body func(), _ Region) execContext {
	c := &goroutineContext{
		wake: make(chan struct{}, 1),
		dead: make(chan struct{}),
		halt: f.halt,
	}
	go func() {
		if !c.park() {
			return
		}
		body()
	}()
	return c
}

type goroutineContext struct {
	wake chan struct{}
	dead chan struct{}
	halt <-chan struct{}

	killOnce sync.Once
}

func (c *goroutineContext) resume() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *goroutineContext) park() bool {
	select {
	case <-c.wake:
		select {
		case <-c.dead:
			return false
		default:
			return true
		}
	case <-c.dead:
		return false
	case <-c.halt:
		return false
	}
}

func (c *goroutineContext) kill() {
	c.killOnce.Do(func() { close(c.dead) })
}
