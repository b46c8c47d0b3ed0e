package domain

import "context"

// TaskID is a stable, arena-style integer identity for a Task. Using an integer rather
// than a pointer or an interned name keeps the dependency graph cheap to store and walk:
// edges are plain int slices and can be compared and sorted without touching the heap.
type TaskID int

// Body is the closure a Task runs to produce its Result. It is supplied by the
// out-of-scope task-definition surface; this core only ever calls it.
type Body func(ctx Context) Result

// Context is the capability surface a running Body sees. It is implemented by the
// evaluator, never by domain code, which keeps this package free of any dependency on
// the evaluation machinery or on the external Logger/Telemetry ports.
type Context interface {
	// Context returns the run-scoped context.Context handed to the driver; a fail-fast
	// abort does not cancel it.
	Context() context.Context
	// Input returns the already-evaluated upstream value at position i, matching Task.Inputs[i].
	Input(i int) any
	// Inputs returns all upstream values in Task.Inputs order.
	Inputs() []any
	// Dest returns the directory exclusive to this invocation of the body. Calling it a
	// second time within the same invocation returns ErrDestAlreadyAcquired.
	Dest() (string, error)
	// Log writes one structured line to the scoped logger for this task's invocation.
	Log(level LogLevel, msg string, args ...any)
}

// Task is an opaque node in the dependency arena: what it depends on, a caller-supplied
// hash of anything outside the graph that should invalidate it, whether its group's Dest()
// is wiped before the body runs on a cache miss (FlushDest), whether it is a worker
// (long-lived, in-memory only), and the Body that computes its Result.
type Task struct {
	ID        TaskID
	Inputs    []TaskID
	SideHash  uint64
	FlushDest bool
	Worker    bool
	Body      Body
}
