package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DefaultQuantum is the preemption period in ticks.
const DefaultQuantum = 20

var (
	ErrTableFull     = errors.New("task table full")
	ErrBadSlot       = errors.New("bad task slot")
	ErrSlotInUse     = errors.New("task slot in use")
	ErrNoSystemTask  = errors.New("system task not initialized")
	ErrRunning       = errors.New("kernel already running")
	ErrNotPrivileged = errors.New("operation not permitted")
)

// Logger writes newline-delimited diagnostic lines. hal.Logger satisfies it.
type Logger interface {
	WriteLineString(s string)
}

// Config controls a kernel instance.
type Config struct {
	// MaxTasks is the task table size (DefaultMaxTasks if zero).
	MaxTasks int
	// Quantum is the preemption period in ticks (DefaultQuantum if zero).
	Quantum uint64
	// Clock is the timebase (a fresh VirtualClock if nil).
	Clock Clock
	// Logger receives diagnostics (silent if nil).
	Logger Logger
}

// Stats are cumulative kernel counters.
type Stats struct {
	Traps    uint64
	Switches uint64
	Ticks    uint64
}

// Kernel is the task table plus scheduler state of one machine.
//
// All fields are owned by whichever task context currently holds the CPU.
// Tick service and context switches only happen at exception return, after a
// trap has completed, so the two never interleave.
type Kernel struct {
	tasks []Task

	curr    TaskID
	next    TaskID
	pending bool // deferred switch armed
	mpu     [2]Region

	clock   Clock
	now     uint64
	quantum uint64
	timers  int

	contexts contextFactory
	log      Logger
	stats    Stats

	runCtx   context.Context
	cancel   context.CancelFunc
	started  bool
	halted   chan struct{}
	haltOnce sync.Once
	err      error
}

// New creates a kernel with an empty task table.
func New(cfg Config) *Kernel {
	if cfg.MaxTasks <= 0 {
		cfg.MaxTasks = DefaultMaxTasks
	}
	if cfg.MaxTasks > 256 {
		cfg.MaxTasks = 256
	}
	if cfg.Quantum == 0 {
		cfg.Quantum = DefaultQuantum
	}
	if cfg.Clock == nil {
		cfg.Clock = NewVirtualClock()
	}
	k := &Kernel{
		tasks:   make([]Task, cfg.MaxTasks),
		clock:   cfg.Clock,
		quantum: cfg.Quantum,
		log:     cfg.Logger,
		halted:  make(chan struct{}),
	}
	for i := range k.tasks {
		k.tasks[i].id = TaskID(i)
	}
	k.contexts = goroutineContexts{halt: k.halted}
	k.runCtx, k.cancel = context.WithCancel(context.Background())
	return k
}

// MaxTasks returns the task table size.
func (k *Kernel) MaxTasks() int { return len(k.tasks) }

// Init sets up slot id to run entry(arg) with the given stack region. The task
// becomes runnable; it first executes when the scheduler picks it.
func (k *Kernel) Init(id TaskID, entry Entry, arg any, stack Region) error {
	if int(id) >= len(k.tasks) || entry == nil {
		return fmt.Errorf("init task %d: %w", id, ErrBadSlot)
	}
	t := &k.tasks[id]
	if t.ctx != nil {
		return fmt.Errorf("init task %d: %w", id, ErrSlotInUse)
	}
	*t = Task{id: id}
	t.frame = &Frame{Entry: entry, Arg: arg}
	t.regions = [2]Region{stack, {}}
	t.ctx = k.contexts.initContext(func() { k.taskMain(id, entry, arg) }, stack)
	return nil
}

// Spawn initializes the first free slot after the system task.
func (k *Kernel) Spawn(entry Entry, arg any, stack Region) (TaskID, error) {
	for i := 1; i < len(k.tasks); i++ {
		if k.tasks[i].ctx != nil {
			continue
		}
		id := TaskID(i)
		if err := k.Init(id, entry, arg, stack); err != nil {
			return 0, err
		}
		return id, nil
	}
	return 0, ErrTableFull
}

func (k *Kernel) taskMain(id TaskID, entry Entry, arg any) {
	th := &Thread{k: k, id: id}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*FatalError); ok {
				return
			}
			k.crash(id, r)
		}
	}()
	entry(th, arg)
	th.Trap(ReqTexit, &Frame{})
	k.fatal("task %d returned from texit", id)
}

// Run starts the system task and blocks until the machine halts.
//
// It returns nil after a clean shutdown, a *FatalError after a kernel panic,
// or the context error if ctx ends first.
func (k *Kernel) Run(ctx context.Context) error {
	if k.started {
		return ErrRunning
	}
	t0 := &k.tasks[SystemTask]
	if t0.ctx == nil {
		return ErrNoSystemTask
	}
	k.started = true
	k.curr, k.next = SystemTask, SystemTask
	k.mpu = t0.regions
	k.now = k.clock.Now()
	t0.ctx.resume()

	select {
	case <-k.halted:
		return k.err
	case <-ctx.Done():
		k.Halt(ctx.Err())
		<-k.halted
		return k.err
	}
}

// Halt stops the machine. A task calling Halt keeps running until its next
// trap, where it unwinds.
func (k *Kernel) Halt(err error) {
	k.haltOnce.Do(func() { k.stop(err) })
}

func (k *Kernel) stop(err error) {
	k.err = err
	k.cancel()
	close(k.halted)
}

// Done is closed once the machine has halted.
func (k *Kernel) Done() <-chan struct{} { return k.halted }

func (k *Kernel) isHalted() bool {
	select {
	case <-k.halted:
		return true
	default:
		return false
	}
}

// Now returns the kernel tick count.
func (k *Kernel) Now() uint64 { return k.now }

// Current returns the active task.
func (k *Kernel) Current() TaskID { return k.curr }

// Stats returns the kernel counters.
func (k *Kernel) Stats() Stats { return k.stats }

// MPU returns the region map currently loaded for the active task.
func (k *Kernel) MPU() [2]Region { return k.mpu }

// Task returns the record of slot id, or nil if out of range.
func (k *Kernel) Task(id TaskID) *Task {
	if int(id) >= len(k.tasks) {
		return nil
	}
	return &k.tasks[id]
}

// State returns the derived scheduling state of slot id.
func (k *Kernel) State(id TaskID) State {
	if int(id) >= len(k.tasks) {
		return StateUnused
	}
	t := &k.tasks[id]
	switch {
	case t.ctx == nil:
		return StateUnused
	case t.block.SelfSuspended():
		return StateSuspended
	case t.block.Blocked():
		return StateWaiting
	case id != k.curr:
		return StateRunnable
	default:
		return StateActive
	}
}

func (k *Kernel) valid(id int) bool {
	return id >= 0 && id < len(k.tasks) && k.tasks[id].ctx != nil
}

func (k *Kernel) logf(format string, args ...any) {
	if k.log == nil {
		return
	}
	k.log.WriteLineString(fmt.Sprintf(format, args...))
}
