package kernel

// TaskID is a slot index in the task table.
type TaskID uint8

// SystemTask is the slot of the privileged system task.
const SystemTask TaskID = 0

// DefaultMaxTasks is the task table size used when Config.MaxTasks is zero.
const DefaultMaxTasks = 25

// State is the scheduling state of a task. It is derived from the task
// record, never stored.
type State uint8

const (
	StateUnused State = iota
	StateSuspended
	StateWaiting
	StateRunnable
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUnused:
		return "unused"
	case StateSuspended:
		return "suspended"
	case StateWaiting:
		return "waiting"
	case StateRunnable:
		return "runnable"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

func (s State) code() byte {
	if s > StateActive {
		return '?'
	}
	return "USWRA"[s]
}

// Type is the capability class of a task, fixed by its first trap.
type Type uint8

const (
	TypeUninitialized Type = iota
	TypeOrdinary
	TypeServer
	TypeDriver
)

func (t Type) String() string {
	switch t {
	case TypeUninitialized:
		return "uninitialized"
	case TypeOrdinary:
		return "ordinary"
	case TypeServer:
		return "server"
	case TypeDriver:
		return "driver"
	default:
		return "unknown"
	}
}

func (t Type) code() byte {
	if t > TypeDriver {
		return '?'
	}
	return " *<~"[t]
}

type blockKind uint8

const (
	blockNone blockKind = iota
	blockWaiting
	blockSelf
)

// Block is the blocking state of a task: not blocked, waiting on another
// task, or suspended on itself until an explicit resume.
type Block struct {
	kind blockKind
	on   TaskID
}

func waitingOn(id TaskID) Block { return Block{kind: blockWaiting, on: id} }

var selfSuspended = Block{kind: blockSelf}

// WaitingOn returns the task this one is queued on.
func (b Block) WaitingOn() (TaskID, bool) {
	return b.on, b.kind == blockWaiting
}

// SelfSuspended reports whether the task waits for an explicit resume.
func (b Block) SelfSuspended() bool { return b.kind == blockSelf }

// Blocked reports whether the task is blocked at all.
func (b Block) Blocked() bool { return b.kind != blockNone }

type timer struct {
	start uint64
	ticks uint64
	armed bool
}

func (t timer) expired(now uint64) bool {
	return t.armed && now-t.start >= t.ticks
}

// Task is one slot of the task table.
type Task struct {
	id TaskID

	ctx     execContext // nil while the slot is unused
	frame   *Frame      // saved registers, valid while not active
	regions [2]Region

	block   Block
	pending queue // calls not yet accepted
	finish  queue // calls accepted, awaiting a reply
	msg     *Message

	next   TaskID
	linked bool

	typ Type
	req Request
	// trapAt is the tick of the last trap; a timed wait counts from it.
	trapAt uint64

	sysMsg Message
	timer  timer
}

// ID returns the slot index.
func (t *Task) ID() TaskID { return t.id }

// Type returns the capability class.
func (t *Task) Type() Type { return t.typ }

// Block returns the blocking state.
func (t *Task) Block() Block { return t.block }

// PendingRequest returns the last request forwarded to the system task.
func (t *Task) PendingRequest() Request { return t.req }
