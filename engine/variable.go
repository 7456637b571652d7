package engine

import "sync/atomic"

// varCounter is a VM-scoped fresh logic variable counter (§3: "a global
// fresh-var counter" — global to the VM state, never process-wide, per the
// §9 re-architecture note against reaching for process-wide state).
type varCounter struct {
	next uint64
}

// fresh allocates and returns a new LogicVar id.
func (c *varCounter) fresh() LogicVar {
	return LogicVar(atomic.AddUint64(&c.next, 1) - 1)
}

// count reports how many variables have been allocated so far.
func (c *varCounter) count() uint64 {
	return atomic.LoadUint64(&c.next)
}
