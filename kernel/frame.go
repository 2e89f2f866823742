package kernel

// Entry is the main function of a task. It runs in thread mode and reaches the
// kernel only through th.Trap. Returning from it is an implicit texit(0).
type Entry func(th *Thread, arg any)

// Frame is the reduced register frame a task presents at a trap.
//
// R[0] doubles as the result register: whoever resumes a blocked task patches
// its result there.
type Frame struct {
	R     [4]int
	Msg   *Message
	Buf   []byte
	Entry Entry
	Arg   any
}

// Region is one memory-protection region of a task. A zero Size disables it.
type Region struct {
	Base uint32
	Size uint32
	Attr uint32
}

// Enabled reports whether the region is active.
func (r Region) Enabled() bool { return r.Size != 0 }

// StackRegion returns the region covering a stack of size bytes ending at top.
func StackRegion(top, size uint32) Region {
	if size == 0 || size > top {
		return Region{}
	}
	return Region{Base: top - size, Size: size, Attr: RegionRW}
}

// Region attributes.
const (
	RegionRW uint32 = 1 << iota
	RegionExec
)
