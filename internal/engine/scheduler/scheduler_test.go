package scheduler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/core/ports"
	"go.kiln.dev/kiln/internal/engine/evaluator"
	"go.kiln.dev/kiln/internal/engine/hashing"
	"go.kiln.dev/kiln/internal/engine/scheduler"
)

type fakeArena struct{ tasks map[domain.TaskID]domain.Task }

func (a *fakeArena) Get(id domain.TaskID) (domain.Task, bool) { t, ok := a.tasks[id]; return t, ok }

type memCache struct{}

func (memCache) Read(string) (*domain.CachedRecord, error) { return nil, nil }
func (memCache) Write(string, domain.CachedRecord) error   { return nil }
func (memCache) Delete(string) error                        { return nil }

type memDest struct{}

func (memDest) Ensure(string) error { return nil }
func (memDest) Clean(string) error  { return nil }

type jsonFormat struct{}

func (jsonFormat) Read(data []byte) (any, error) {
	var v any
	err := json.Unmarshal(data, &v)
	return v, err
}
func (jsonFormat) Write(v any) ([]byte, error) { return json.Marshal(v) }

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

func TestParallelScheduler_IndependentGroupsRunConcurrently(t *testing.T) {
	var running, maxRunning int32

	makeTask := func(id domain.TaskID) domain.Task {
		return domain.Task{ID: id, Body: func(domain.Context) domain.Result {
			n := atomic.AddInt32(&running, 1)
			for {
				m := atomic.LoadInt32(&maxRunning)
				if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return domain.Success(float64(id), 0)
		}}
	}

	arena := &fakeArena{tasks: map[domain.TaskID]domain.Task{}}
	groupTasks := map[domain.Terminal][]domain.TaskID{}
	deps := map[domain.Terminal][]domain.Terminal{}
	var goals []domain.Terminal
	for i := domain.TaskID(1); i <= 4; i++ {
		task := makeTask(i)
		arena.tasks[i] = task
		nt := &domain.NamedTask{Task: task, Segments: domain.Segments{domain.Label(fmt.Sprintf("t%d", i))}}
		term := domain.LabelledTerminal(nt)
		groupTasks[term] = []domain.TaskID{i}
		goals = append(goals, term)
	}

	ev := evaluator.NewGroupEvaluator(arena, memCache{}, memDest{}, hashing.NewXXHasher(), jsonFormat{}, nopLogger{}, nil, t.TempDir(), t.TempDir(), 1)
	s := &scheduler.ParallelScheduler{Evaluator: ev, GroupTasks: groupTasks, Deps: deps, Workers: 4}

	out, trace := s.Run(context.Background(), goals)
	if len(out.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(out.Results))
	}
	if len(trace) != 4 {
		t.Fatalf("expected 4 trace events, got %d", len(trace))
	}
	if maxRunning < 2 {
		t.Fatalf("expected at least 2 groups to run concurrently, max observed was %d", maxRunning)
	}
}

func TestParallelScheduler_FailFastAbortsDownstream(t *testing.T) {
	failing := domain.Task{ID: 1, Body: func(domain.Context) domain.Result {
		return domain.Failure("boom", nil)
	}}
	downstream := domain.Task{ID: 2, Body: func(domain.Context) domain.Result {
		return domain.Success(float64(1), 0)
	}}
	arena := &fakeArena{tasks: map[domain.TaskID]domain.Task{1: failing, 2: downstream}}

	failTerm := domain.LabelledTerminal(&domain.NamedTask{Task: failing, Segments: domain.Segments{domain.Label("fail")}})
	downTerm := domain.LabelledTerminal(&domain.NamedTask{Task: downstream, Segments: domain.Segments{domain.Label("down")}})

	groupTasks := map[domain.Terminal][]domain.TaskID{failTerm: {1}, downTerm: {2}}
	deps := map[domain.Terminal][]domain.Terminal{downTerm: {failTerm}}

	ev := evaluator.NewGroupEvaluator(arena, memCache{}, memDest{}, hashing.NewXXHasher(), jsonFormat{}, nopLogger{}, nil, t.TempDir(), t.TempDir(), 1)
	s := &scheduler.ParallelScheduler{Evaluator: ev, GroupTasks: groupTasks, Deps: deps, Workers: 2, FailFast: true}

	out, _ := s.Run(context.Background(), []domain.Terminal{downTerm})
	if out.Results[failTerm].Outcome != domain.OutcomeFailure {
		t.Fatalf("expected failing terminal to report failure, got %v", out.Results[failTerm].Outcome)
	}
	if out.Results[downTerm].Outcome != domain.OutcomeAborted {
		t.Fatalf("expected downstream terminal to be aborted, got %v", out.Results[downTerm].Outcome)
	}
}
