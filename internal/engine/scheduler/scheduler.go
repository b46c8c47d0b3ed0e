// Package scheduler implements the parallel scheduler: a bounded worker pool
// dispatching groups as their dependencies complete, deferring groups whose resolved
// segments collide with one already running, and overscanning the ready set to keep
// the pool full when no such collision is in play.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/engine/driver"
	"go.kiln.dev/kiln/internal/engine/evaluator"
)

// TraceEvent is one entry of the Chrome Trace Event Format array emitted alongside a
// parallel run: a single "X" (complete) event per evaluated group.
type TraceEvent struct {
	Name string `json:"name"`
	Cat  string `json:"cat"`
	Ph   string `json:"ph"`
	Ts   int64  `json:"ts"`
	Dur  int64  `json:"dur"`
	PID  int    `json:"pid"`
	TID  int    `json:"tid"`
	Args struct {
		Cached bool `json:"cached"`
	} `json:"args"`
}

// ParallelScheduler dispatches groups onto a fixed-size worker pool as soon as every
// group they depend on has completed.
type ParallelScheduler struct {
	Evaluator  *evaluator.GroupEvaluator
	GroupTasks map[domain.Terminal][]domain.TaskID
	Deps       map[domain.Terminal][]domain.Terminal
	Workers    int
	FailFast   bool
}

type jobResult struct {
	term   domain.Terminal
	result domain.Result
	cached bool
	millis int64
	tid    int
}

// Run schedules every terminal goals transitively depends on (via Deps) for evaluation,
// respecting dependency order, worker-pool width, and segment collisions.
func (s *ParallelScheduler) Run(ctx context.Context, goals []domain.Terminal) (driver.Outcome, []TraceEvent) {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}

	all := s.transitiveTerminals(goals)
	indegree := make(map[domain.Terminal]int, len(all))
	dependents := make(map[domain.Terminal][]domain.Terminal, len(all))
	for _, t := range all {
		indegree[t] = len(s.Deps[t])
		for _, dep := range s.Deps[t] {
			dependents[dep] = append(dependents[dep], t)
		}
	}

	var (
		mu         sync.Mutex
		done       = make(map[domain.Terminal]domain.Result, len(all))
		order      []domain.Terminal
		timings    []driver.Timing
		trace      []TraceEvent
		activeSeg  = make(map[string]bool)
		dispatched = make(map[domain.Terminal]bool, len(all))
		inFlight   int
		failed     bool
		nextTID    int
	)
	resultsCh := make(chan jobResult, len(all))
	sem := make(chan struct{}, workers)

	readySet := func() []domain.Terminal {
		var out []domain.Terminal
		for _, t := range all {
			if dispatched[t] || indegree[t] != 0 {
				continue
			}
			out = append(out, t)
		}
		return out
	}

	dispatch := func(term domain.Terminal) {
		dispatched[term] = true
		inFlight++
		if seg := segKey(term); seg != "" {
			activeSeg[seg] = true
		}
		nextTID++
		tid := nextTID
		go func() {
			sem <- struct{}{}
			defer func() { <-sem }()
			up := s.collectUpstream(term, done, &mu)
			start := time.Now()
			result, cached := s.Evaluator.EvaluateGroup(ctx, term, s.GroupTasks[term], up)
			elapsed := time.Since(start).Milliseconds()
			resultsCh <- jobResult{term: term, result: result, cached: cached, millis: elapsed, tid: tid}
		}()
	}

	// admit implements the scheduleWork overscan heuristic: keep dispatching ready,
	// non-colliding groups up to 2x the worker count to keep the pool full, but the
	// moment a segment collision is observed in this round stop admitting more and
	// dispatch only what's immediately ready, so the colliding group is never starved.
	admit := func() {
		mu.Lock()
		defer mu.Unlock()
		if failed && s.FailFast {
			return
		}
		seen := make(map[string]bool, len(activeSeg))
		for k := range activeSeg {
			seen[k] = true
		}
		collided := false
		admitted := 0
		overscanLimit := workers * 2
		for _, term := range readySet() {
			seg := segKey(term)
			if seg != "" && seen[seg] {
				collided = true
				if admitted > 0 {
					break
				}
				continue
			}
			if seg != "" {
				seen[seg] = true
			}
			dispatch(term)
			admitted++
			if collided || admitted >= overscanLimit {
				break
			}
		}
	}

	admit()
	for inFlight > 0 {
		jr := <-resultsCh
		mu.Lock()
		done[jr.term] = jr.result
		order = append(order, jr.term)
		timings = append(timings, driver.Timing{Terminal: jr.term, Millis: jr.millis, Cached: jr.cached})
		trace = append(trace, traceEvent(jr))
		inFlight--
		if seg := segKey(jr.term); seg != "" {
			delete(activeSeg, seg)
		}
		if jr.result.Outcome.Failing() {
			failed = true
		}
		for _, dep := range dependents[jr.term] {
			indegree[dep]--
		}
		mu.Unlock()
		admit()
	}

	if failed && s.FailFast {
		for _, t := range all {
			if _, ok := done[t]; !ok {
				done[t] = domain.Aborted()
				order = append(order, t)
				timings = append(timings, driver.Timing{Terminal: t})
			}
		}
	}

	return driver.Outcome{Results: done, Order: order, Timings: timings}, trace
}

func (s *ParallelScheduler) transitiveTerminals(goals []domain.Terminal) []domain.Terminal {
	seen := make(map[domain.Terminal]bool)
	var out []domain.Terminal
	var visit func(t domain.Terminal)
	visit = func(t domain.Terminal) {
		if seen[t] {
			return
		}
		seen[t] = true
		for _, dep := range s.Deps[t] {
			visit(dep)
		}
		out = append(out, t)
	}
	for _, g := range goals {
		visit(g)
	}
	return out
}

func (s *ParallelScheduler) collectUpstream(term domain.Terminal, done map[domain.Terminal]domain.Result, mu *sync.Mutex) evaluator.Upstream {
	mu.Lock()
	defer mu.Unlock()
	up := evaluator.Upstream{Values: map[domain.TaskID]any{}, ValueHashes: map[domain.TaskID]uint64{}}
	for _, dep := range s.Deps[term] {
		r, ok := done[dep]
		if !ok {
			continue
		}
		up.Values[dep.TaskID()] = r.Value
		up.ValueHashes[dep.TaskID()] = r.ValueHash
	}
	return up
}

func segKey(t domain.Terminal) string {
	if s := t.Segments(); s != nil {
		return s.String()
	}
	return ""
}

func traceEvent(jr jobResult) TraceEvent {
	ev := TraceEvent{
		Name: jr.term.Label(),
		Cat:  "group",
		Ph:   "X",
		Ts:   time.Now().UnixMicro() - jr.millis*1000,
		Dur:  jr.millis * 1000,
		PID:  1,
		TID:  jr.tid,
	}
	ev.Args.Cached = jr.cached
	return ev
}
