package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.kiln.dev/kiln/internal/adapters/cas"
	"go.kiln.dev/kiln/internal/adapters/fs"
	"go.kiln.dev/kiln/internal/adapters/valueformat"
	"go.kiln.dev/kiln/internal/app"
	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/core/ports"
	"go.kiln.dev/kiln/internal/engine/hashing"
	"go.kiln.dev/kiln/internal/engine/planner"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)          {}
func (nopLogger) Debug(string, ...any)         {}
func (nopLogger) Error(error, ...any)          {}
func (nopLogger) Ticker(string)                {}
func (nopLogger) Colored() bool                { return false }
func (nopLogger) Close() error                 { return nil }
func (nopLogger) InStream() io.Reader          { return nil }
func (nopLogger) OutStream() io.Writer         { return nil }
func (nopLogger) ErrStream() io.Writer         { return nil }
func (l nopLogger) Scoped(string) ports.Logger { return l }

func buildFetchCompileArena(t *testing.T) (*planner.Arena, domain.TaskID) {
	t.Helper()
	arena := planner.NewArena()

	fetch := domain.Task{ID: 1, Body: func(domain.Context) domain.Result {
		return domain.Success(float64(1), 0)
	}}
	arena.AddTask(fetch)
	fetchTerm := arena.AddNamed(&domain.NamedTask{Task: fetch, Segments: domain.Segments{domain.Label("fetch")}})

	compile := domain.Task{ID: 2, Inputs: []domain.TaskID{1}, Body: func(ctx domain.Context) domain.Result {
		return domain.Success(ctx.Input(0).(float64)+1, 0)
	}}
	arena.AddTask(compile)
	arena.AddNamed(&domain.NamedTask{Task: compile, Segments: domain.Segments{domain.Label("compile")}})

	_ = fetchTerm
	return arena, 2
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cache := cas.NewStore()
	dest := fs.NewDestManager()
	hasher := hashing.NewXXHasher()
	format := valueformat.NewJSON()
	return app.New(cache, dest, hasher, format, nopLogger{}, nil, nil)
}

func TestApp_RunSequentialProducesSuccessfulResults(t *testing.T) {
	arena, goal := buildFetchCompileArena(t)
	a := newTestApp(t)

	res, err := a.Run(context.Background(), arena, []domain.TaskID{goal}, app.Options{
		Workers:            1,
		OutRoot:            t.TempDir(),
		ExternalOutRoot:    t.TempDir(),
		ClassLoaderVersion: "v1",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("expected a clean run, failing terminals: %v", res.Failing)
	}
	if len(res.RawValues) != 2 {
		t.Fatalf("expected 2 successful terminals, got %d", len(res.RawValues))
	}
}

func TestApp_RunParallelProducesSameResultAsSequential(t *testing.T) {
	arena, goal := buildFetchCompileArena(t)
	a := newTestApp(t)

	res, err := a.Run(context.Background(), arena, []domain.TaskID{goal}, app.Options{
		Workers:            4,
		OutRoot:            t.TempDir(),
		ExternalOutRoot:    t.TempDir(),
		ClassLoaderVersion: "v1",
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.Ok() {
		t.Fatalf("expected a clean run, failing terminals: %v", res.Failing)
	}
}

func TestApp_RunNoGoalsIsError(t *testing.T) {
	arena, _ := buildFetchCompileArena(t)
	a := newTestApp(t)

	if _, err := a.Run(context.Background(), arena, nil, app.Options{Workers: 1}); err != domain.ErrNoTargetsSpecified {
		t.Fatalf("expected ErrNoTargetsSpecified, got %v", err)
	}
}

func TestApp_RunWritesProfileArtifact(t *testing.T) {
	arena, goal := buildFetchCompileArena(t)
	a := newTestApp(t)
	profilePath := filepath.Join(t.TempDir(), "kiln-profile.json")

	_, err := a.Run(context.Background(), arena, []domain.TaskID{goal}, app.Options{
		Workers:            1,
		OutRoot:            t.TempDir(),
		ExternalOutRoot:    t.TempDir(),
		ClassLoaderVersion: "v1",
		ProfilePath:        profilePath,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, statErr := os.Stat(profilePath); statErr != nil {
		t.Fatalf("expected profile file to exist: %v", statErr)
	}
}
