package kernel

// ABIVersion is the version of the system-call surface (request numbering and
// argument conventions). Task images declare a semver constraint against it.
const ABIVersion = "1.3.0"

// Request is a trap request code.
//
// The numbering is dense and starts at 0. Changing the order breaks every
// compiled call stub, so new codes only ever go before ReqMax.
type Request uint8

const (
	ReqSend Request = iota
	ReqCall
	ReqRecv
	ReqNoop
	ReqDemo
	ReqTexit
	ReqGpio
	ReqWrite
	ReqRead
	ReqIoctl
	ReqDiskio
	ReqTfork
	ReqTwait
	ReqYield
	ReqMax
)

// IsIPC reports whether the request is one of the three primitives handled
// inline by the trap dispatcher.
func (r Request) IsIPC() bool {
	return r == ReqSend || r == ReqCall || r == ReqRecv
}

func (r Request) String() string {
	switch r {
	case ReqSend:
		return "send"
	case ReqCall:
		return "call"
	case ReqRecv:
		return "recv"
	case ReqNoop:
		return "noop"
	case ReqDemo:
		return "demo"
	case ReqTexit:
		return "texit"
	case ReqGpio:
		return "gpio"
	case ReqWrite:
		return "write"
	case ReqRead:
		return "read"
	case ReqIoctl:
		return "ioctl"
	case ReqDiskio:
		return "diskio"
	case ReqTfork:
		return "tfork"
	case ReqTwait:
		return "twait"
	case ReqYield:
		return "yield"
	default:
		return "unknown"
	}
}
