// Package demo wires a small, hand-constructed task graph used to exercise cmd/kiln end
// to end without a task-definition DSL (out of scope for this core, which only ever
// runs already-built Task values). It models a miniature native build: fetch a source blob,
// compile it, link it against a long-lived worker that stands in for something like an
// incremental compiler daemon, and package the result.
//
// Every task's value is a plain string rather than a struct: the default JSON
// ports.ValueFormat decodes a cached record through the `any` interface, and a JSON
// string round-trips to a Go string exactly, while a JSON object would decode back as a
// map[string]any rather than the original struct type.
// A richer task-definition surface would register one ValueFormat per concrete type;
// this demo has none, so it sticks to the one shape that survives the default codec.
package demo

import (
	"reflect"
	"strings"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/core/ports"
	"go.kiln.dev/kiln/internal/engine/planner"
)

// Goals are the terminal task ids this graph exposes to a caller, keyed by the CLI-
// facing goal name used in cmd/kiln's `run` subcommand.
type Goals map[string]domain.TaskID

// compileCommand is the reflect.Type key "compile" registers itself under with
// discovery, standing in for a real task-definition surface's command constructor.
type compileCommand struct{}

// Build registers the demo graph into a fresh arena wired to discovery and returns it
// along with the named goals a caller can request: "fetch", "compile", "linker",
// "link", and "package". "compile" declares itself with a local Overrides count of 1;
// since discovery has no entry registered for compileCommand, it resolves the type to
// override count 0 (the documented default for a command discovery has never seen),
// so the two disagree and the planner appends the "overriden" disambiguation segment.
func Build(discovery ports.ModuleDiscovery) (*planner.Arena, Goals) {
	arena := planner.NewArena()
	arena.SetModuleDiscovery(discovery)
	goals := make(Goals)

	fetch := domain.Task{
		ID: 1,
		Body: func(domain.Context) domain.Result {
			return domain.Success("source.tar.gz", 0)
		},
	}
	arena.AddTask(fetch)
	fetchTerm := arena.AddNamed(&domain.NamedTask{
		Task:     fetch,
		Segments: domain.Segments{domain.Label("fetch")},
	})
	goals["fetch"] = fetchTerm.TaskID()

	compile := domain.Task{
		ID:        2,
		Inputs:    []domain.TaskID{1},
		FlushDest: true,
		Body: func(ctx domain.Context) domain.Result {
			in := ctx.Input(0).(string)
			dest, err := ctx.Dest()
			if err != nil {
				return domain.Exception(err, "")
			}
			ctx.Log(domain.LogLevelInfo, "compiling into "+dest)
			return domain.Success(in+"+object.o", 0)
		},
	}
	arena.AddTask(compile)
	compileTerm := arena.AddNamed(&domain.NamedTask{
		Task:      compile,
		Segments:  domain.Segments{domain.Label("compile")},
		Overrides: 1,
		CtorType:  reflect.TypeOf(compileCommand{}),
	})
	goals["compile"] = compileTerm.TaskID()

	linker := domain.Task{
		ID:     3,
		Worker: true,
		Body: func(domain.Context) domain.Result {
			return domain.Success("ld-daemon", 0)
		},
	}
	arena.AddTask(linker)
	linkerTerm := arena.AddNamed(&domain.NamedTask{
		Task:     linker,
		Segments: domain.Segments{domain.Label("linker")},
	})
	goals["linker"] = linkerTerm.TaskID()

	link := domain.Task{
		ID:     4,
		Inputs: []domain.TaskID{2, 3},
		Body: func(ctx domain.Context) domain.Result {
			obj := ctx.Input(0).(string)
			ld := ctx.Input(1).(string)
			return domain.Success(strings.Join([]string{obj, ld, "binary"}, "+"), 0)
		},
	}
	arena.AddTask(link)
	linkTerm := arena.AddNamed(&domain.NamedTask{
		Task:     link,
		Segments: domain.Segments{domain.Label("link")},
	})
	goals["link"] = linkTerm.TaskID()

	pkg := domain.Task{
		ID:     5,
		Inputs: []domain.TaskID{4},
		Body: func(ctx domain.Context) domain.Result {
			in := ctx.Input(0).(string)
			return domain.Success(in+"+manifest.json", 0)
		},
	}
	arena.AddTask(pkg)
	pkgTerm := arena.AddNamed(&domain.NamedTask{
		Task:     pkg,
		Segments: domain.Segments{domain.Label("package")},
	})
	goals["package"] = pkgTerm.TaskID()

	return arena, goals
}
