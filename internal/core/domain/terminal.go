package domain

import (
	"reflect"
	"strconv"
)

// NamedTask is a Task with a user-visible identity: where its results live on disk and
// in logs (Segments), how many sibling definitions override the same command
// (Overrides, resolved by ModuleDiscovery), and whether it belongs to a foreign/external
// module (External), which changes which out/ root its Paths resolve under. CtorType is
// the reflect.Type of the command constructor the task-definition surface registered
// this task under; nil when the surface never supplied one, in which case override
// disambiguation never fires for this task.
type NamedTask struct {
	Task
	Segments  Segments
	Overrides int
	External  bool
	CtorType  reflect.Type
}

// TerminalKind distinguishes the two shapes a Terminal can take.
type TerminalKind int

const (
	// TerminalAnonymous wraps a bare Task with no on-disk identity of its own; it is
	// only ever reached as a dependency of some Labelled terminal and is grouped with it.
	TerminalAnonymous TerminalKind = iota
	// TerminalLabelled wraps a NamedTask: a schedulable, individually cacheable unit.
	TerminalLabelled
)

// Terminal is the sum type the planner groups tasks around: either an anonymous task
// (folded into whichever labelled group reaches it) or a labelled, named task that gets
// its own Group, its own cache entry, and its own row in result assembly.
type Terminal struct {
	Kind  TerminalKind
	task  TaskID
	named *NamedTask
}

// AnonymousTerminal wraps a bare task id.
func AnonymousTerminal(id TaskID) Terminal {
	return Terminal{Kind: TerminalAnonymous, task: id}
}

// LabelledTerminal wraps a named task.
func LabelledTerminal(nt *NamedTask) Terminal {
	return Terminal{Kind: TerminalLabelled, task: nt.ID, named: nt}
}

// TaskID returns the identity of the underlying Task regardless of Kind.
func (t Terminal) TaskID() TaskID { return t.task }

// Named returns the NamedTask and true when Kind is TerminalLabelled.
func (t Terminal) Named() (*NamedTask, bool) {
	if t.Kind == TerminalLabelled {
		return t.named, true
	}
	return nil, false
}

// Segments returns the terminal's path segments, or nil for an anonymous terminal.
func (t Terminal) Segments() Segments {
	if t.named != nil {
		return t.named.Segments
	}
	return nil
}

// Label renders a human-readable identity for logs and trace events.
func (t Terminal) Label() string {
	if t.named != nil {
		return t.named.Segments.String()
	}
	return "anon#" + strconv.Itoa(int(t.task))
}
