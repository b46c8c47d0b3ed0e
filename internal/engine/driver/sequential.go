// Package driver implements the sequential evaluation driver: topological iteration
// over groups with fail-fast abort of the remainder on the first failure.
package driver

import (
	"context"
	"time"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/engine/evaluator"
)

// Timing records how long one group's evaluation took, for result assembly's profile.
type Timing struct {
	Terminal domain.Terminal
	Millis   int64
	Cached   bool
}

// Outcome is the sequential driver's return value: every group's Result, in evaluation
// order, plus the per-group timings result assembly needs.
type Outcome struct {
	Results map[domain.Terminal]domain.Result
	Order   []domain.Terminal
	Timings []Timing
}

// SequentialDriver evaluates one group at a time in the exact order the planner
// produced, stopping at the first Failing result and marking every remaining group
// Aborted rather than evaluating it.
type SequentialDriver struct {
	Evaluator *evaluator.GroupEvaluator
	// GroupTasks maps each terminal to its group's member task ids in topological order.
	GroupTasks map[domain.Terminal][]domain.TaskID
	// Deps maps each terminal to the terminals its group depends on.
	Deps map[domain.Terminal][]domain.Terminal
}

// Run evaluates order (a topologically sorted list of group-owning terminals, upstream
// groups before downstream ones) and returns once every group has either run, hit cache,
// or been aborted.
func (d *SequentialDriver) Run(ctx context.Context, order []domain.Terminal) Outcome {
	out := Outcome{Results: make(map[domain.Terminal]domain.Result, len(order))}
	failed := false

	for _, term := range order {
		if failed {
			out.Results[term] = domain.Aborted()
			out.Order = append(out.Order, term)
			out.Timings = append(out.Timings, Timing{Terminal: term})
			continue
		}

		up := d.collectUpstream(term, out.Results)
		start := time.Now()
		result, cached := d.Evaluator.EvaluateGroup(ctx, term, d.GroupTasks[term], up)
		elapsed := time.Since(start).Milliseconds()

		out.Results[term] = result
		out.Order = append(out.Order, term)
		out.Timings = append(out.Timings, Timing{Terminal: term, Millis: elapsed, Cached: cached})

		if result.Outcome.Failing() {
			failed = true
		}
	}

	return out
}

func (d *SequentialDriver) collectUpstream(term domain.Terminal, done map[domain.Terminal]domain.Result) evaluator.Upstream {
	up := evaluator.Upstream{Values: map[domain.TaskID]any{}, ValueHashes: map[domain.TaskID]uint64{}}
	for _, dep := range d.Deps[term] {
		r, ok := done[dep]
		if !ok {
			continue
		}
		up.Values[dep.TaskID()] = r.Value
		up.ValueHashes[dep.TaskID()] = r.ValueHash
	}
	return up
}
