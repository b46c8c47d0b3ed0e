package demo_test

import (
	"strings"
	"testing"

	"go.kiln.dev/kiln/internal/adapters/moduledisc"
	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/demo"
)

func TestBuild_RegistersExpectedGoals(t *testing.T) {
	arena, goals := demo.Build(moduledisc.NewRegistry())
	if arena == nil {
		t.Fatal("expected a non-nil arena")
	}
	for _, name := range []string{"fetch", "compile", "linker", "link", "package"} {
		if _, ok := goals[name]; !ok {
			t.Errorf("expected goal %q to be registered", name)
		}
	}
}

func TestBuild_PackageTransitivelyDependsOnFetch(t *testing.T) {
	arena, goals := demo.Build(moduledisc.NewRegistry())

	closure, err := arena.Transitive([]domain.TaskID{goals["package"]})
	if err != nil {
		t.Fatalf("Transitive failed: %v", err)
	}

	found := false
	for _, id := range closure {
		if id == goals["fetch"] {
			found = true
		}
	}
	if !found {
		t.Fatal("expected package's transitive closure to include fetch")
	}
	if len(closure) != 5 {
		t.Fatalf("expected all 5 demo tasks in package's closure, got %d", len(closure))
	}
}

func TestBuild_CompileGetsOverridenSegmentWhenDiscoveryDisagrees(t *testing.T) {
	arena, goals := demo.Build(moduledisc.NewRegistry())

	term, ok := arena.TerminalFor(goals["compile"])
	if !ok {
		t.Fatal("expected compile to be registered as a terminal")
	}
	if !strings.Contains(term.Label(), "overriden") {
		t.Fatalf("expected compile's label to carry the overriden disambiguation segment, got %q", term.Label())
	}
}
