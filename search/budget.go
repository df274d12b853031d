package search

import (
	"context"
	"sync/atomic"
	"time"
)

// Budget is spec §5's cooperative-cancellation struct: a deadline, a node
// cap, and a stop flag every suspension point polls. No background timers
// or signals — the caller polls, exactly as spec §5 requires.
type Budget struct {
	Deadline time.Time
	MaxNodes int
	stop     *int32
}

// NewBudget builds a budget with the given wall-clock allowance and node
// cap. Zero maxNodes means unbounded (deadline-only).
func NewBudget(d time.Duration, maxNodes int) Budget {
	var stop int32
	return Budget{Deadline: time.Now().Add(d), MaxNodes: maxNodes, stop: &stop}
}

// Stop cooperatively requests the search unwind at its next suspension
// point; mirrors a UMI "stop" command.
func (b Budget) Stop() {
	if b.stop != nil {
		atomic.StoreInt32(b.stop, 1)
	}
}

// Exhausted reports whether the budget's deadline, node cap, or stop flag
// has fired. Engine.Run checks it at the head of each simulation; the
// combat solver and the spawn heuristic do not call it.
func (b Budget) Exhausted(nodesSoFar int) bool {
	if b.stop != nil && atomic.LoadInt32(b.stop) != 0 {
		return true
	}
	if b.MaxNodes > 0 && nodesSoFar >= b.MaxNodes {
		return true
	}
	return !b.Deadline.IsZero() && time.Now().After(b.Deadline)
}

// Context derives a context.Context bound to the budget's deadline, for
// components (csolve.Solve) that want Go's native cancellation idiom.
func (b Budget) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if b.Deadline.IsZero() {
		return context.WithCancel(parent)
	}
	return context.WithDeadline(parent, b.Deadline)
}
