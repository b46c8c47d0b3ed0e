// Package planner builds and groups the task dependency graph: the transitive closure
// from a set of goals, its deterministic topological order, and the grouping of
// anonymous tasks around the labelled terminals that own them.
package planner

import (
	"sort"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/core/ports"
)

// Arena holds every Task the task-definition surface has registered, plus which of
// those tasks are Terminals (schedulable, individually named or explicitly requested
// units). It is the pure in-memory graph the planner walks; it owns no I/O.
type Arena struct {
	tasks     map[domain.TaskID]domain.Task
	terminals map[domain.TaskID]domain.Terminal
	discovery ports.ModuleDiscovery
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{
		tasks:     make(map[domain.TaskID]domain.Task),
		terminals: make(map[domain.TaskID]domain.Terminal),
	}
}

// SetModuleDiscovery wires the ModuleDiscovery port AddNamed consults to disambiguate
// override chains. Optional: an Arena with no discovery set never appends an
// "overriden" segment.
func (a *Arena) SetModuleDiscovery(md ports.ModuleDiscovery) {
	a.discovery = md
}

// AddTask registers a bare task. Safe to call more than once for the same ID.
func (a *Arena) AddTask(t domain.Task) {
	a.tasks[t.ID] = t
}

// AddNamed registers a NamedTask and marks it as a labelled Terminal. When the Arena
// has a ModuleDiscovery wired and nt carries a CtorType, AddNamed resolves the final
// override count for that type and, if it differs from nt.Overrides, appends an
// "overriden" segment to nt.Segments so two override chains resolved in parallel never
// collide on the same rendered path.
func (a *Arena) AddNamed(nt *domain.NamedTask) domain.Terminal {
	if a.discovery != nil && nt.CtorType != nil {
		if resolved := a.discovery.Overrides(nt.CtorType); resolved != nt.Overrides {
			nt.Segments = append(nt.Segments, domain.Label("overriden"))
		}
	}
	a.tasks[nt.ID] = nt.Task
	term := domain.LabelledTerminal(nt)
	a.terminals[nt.ID] = term
	return term
}

// MarkGoal registers a bare task id as an anonymous Terminal, used when a caller
// requests a goal that was never given a name.
func (a *Arena) MarkGoal(id domain.TaskID) domain.Terminal {
	if t, ok := a.terminals[id]; ok {
		return t
	}
	term := domain.AnonymousTerminal(id)
	a.terminals[id] = term
	return term
}

// Get returns the Task registered under id.
func (a *Arena) Get(id domain.TaskID) (domain.Task, bool) {
	t, ok := a.tasks[id]
	return t, ok
}

// TerminalFor returns the Terminal that id itself is, if any.
func (a *Arena) TerminalFor(id domain.TaskID) (domain.Terminal, bool) {
	t, ok := a.terminals[id]
	return t, ok
}

// Transitive returns every task reachable from goals (inclusive), each exactly once,
// in an order with no particular guarantees — callers should run TopoSort on the result.
// Missing dependencies surface as domain.ErrMissingDependency.
func (a *Arena) Transitive(goals []domain.TaskID) ([]domain.TaskID, error) {
	seen := make(map[domain.TaskID]bool)
	var out []domain.TaskID
	var visit func(id domain.TaskID) error
	visit = func(id domain.TaskID) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		task, ok := a.Get(id)
		if !ok {
			return domain.ErrMissingDependency
		}
		// Deterministic traversal: sort dependency ids before recursing so that two
		// runs over the same arena always produce the same Transitive order.
		deps := append([]domain.TaskID(nil), task.Inputs...)
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		out = append(out, id)
		return nil
	}
	sortedGoals := append([]domain.TaskID(nil), goals...)
	sort.Slice(sortedGoals, func(i, j int) bool { return sortedGoals[i] < sortedGoals[j] })
	for _, g := range sortedGoals {
		if err := visit(g); err != nil {
			return nil, err
		}
	}
	return out, nil
}
