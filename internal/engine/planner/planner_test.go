package planner_test

import (
	"testing"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/engine/planner"
)

func body(domain.Context) domain.Result { return domain.Success(nil, 0) }

func TestTopoSort_Linear(t *testing.T) {
	a := planner.NewArena()
	a.AddTask(domain.Task{ID: 1, Body: body})
	a.AddTask(domain.Task{ID: 2, Inputs: []domain.TaskID{1}, Body: body})
	a.AddTask(domain.Task{ID: 3, Inputs: []domain.TaskID{2}, Body: body})

	ids, err := a.Transitive([]domain.TaskID{3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := a.TopoSort(ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.TaskID{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestTopoSort_CycleDetected(t *testing.T) {
	a := planner.NewArena()
	a.AddTask(domain.Task{ID: 1, Inputs: []domain.TaskID{2}, Body: body})
	a.AddTask(domain.Task{ID: 2, Inputs: []domain.TaskID{1}, Body: body})

	ids, err := a.Transitive([]domain.TaskID{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.TopoSort(ids); err != domain.ErrCycleDetected {
		t.Fatalf("expected ErrCycleDetected, got %v", err)
	}
}

func TestTransitive_MissingDependency(t *testing.T) {
	a := planner.NewArena()
	a.AddTask(domain.Task{ID: 1, Inputs: []domain.TaskID{99}, Body: body})

	if _, err := a.Transitive([]domain.TaskID{1}); err != domain.ErrMissingDependency {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
}

func TestGroupAround_FoldsAnonymousIntoOwningTerminal(t *testing.T) {
	a := planner.NewArena()
	// anon(1) -> anon(2) -> named(compile, 3) -> named(link, 4)
	a.AddTask(domain.Task{ID: 1, Body: body})
	a.AddTask(domain.Task{ID: 2, Inputs: []domain.TaskID{1}, Body: body})
	compile := &domain.NamedTask{
		Task:     domain.Task{ID: 3, Inputs: []domain.TaskID{2}, Body: body},
		Segments: domain.Segments{domain.Label("compile")},
	}
	a.AddNamed(compile)
	link := &domain.NamedTask{
		Task:     domain.Task{ID: 4, Inputs: []domain.TaskID{3}, Body: body},
		Segments: domain.Segments{domain.Label("link")},
	}
	linkTerm := a.AddNamed(link)

	ids, err := a.Transitive([]domain.TaskID{4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := a.TopoSort(ids)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := a.GroupAround(order)

	compileTerm, _ := a.TerminalFor(3)
	compileGroup := groups.Values(compileTerm)
	if len(compileGroup) != 3 {
		t.Fatalf("expected compile's group to contain tasks 1,2,3, got %v", compileGroup)
	}

	linkGroup := groups.Values(linkTerm)
	if len(linkGroup) != 1 || linkGroup[0] != 4 {
		t.Fatalf("expected link's group to contain only task 4, got %v", linkGroup)
	}

	deps := a.InterGroupDeps(groups)
	linkDeps := deps[linkTerm]
	if len(linkDeps) != 1 || linkDeps[0] != compileTerm {
		t.Fatalf("expected link to depend on compile's group, got %v", linkDeps)
	}
}
