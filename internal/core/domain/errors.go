package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists names the case of registering a task whose ID already exists. No
	// code path returns it: Arena.AddTask replaces an existing task with the same ID.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the arena.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the arena.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetsSpecified is returned when a run is requested with an empty goal list.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrSegmentCollision names the case of two distinct labelled terminals resolving to the
	// same segments. No code path returns it: the parallel scheduler defers such groups so
	// they never run at the same time.
	ErrSegmentCollision = zerr.New("segment collision between distinct terminals")

	// ErrDestAlreadyAcquired is returned when a task body calls Dest() a second time within one invocation.
	ErrDestAlreadyAcquired = zerr.New("dest already acquired for this invocation")

	// ErrNoValueFormat names the case of a cacheable task with no ValueFormat. No code path
	// returns it: the group evaluator holds one ValueFormat that serves every task.
	ErrNoValueFormat = zerr.New("no value format registered for task")

	// ErrRunFailed is returned by the CLI layer when a run completes but leaves one or more
	// terminals failing, so main can distinguish a clean build failure from a wiring error.
	ErrRunFailed = zerr.New("run failed")
)
