// Package app is the facade that drives one run end to end: planning the task graph
// down to a grouped, topologically ordered set of labelled terminals, evaluating those
// groups with either the sequential driver or the parallel scheduler, and assembling the
// finished run's results and observability artifacts.
package app

import (
	"context"
	"encoding/json"
	"os"

	"go.trai.ch/zerr"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/core/ports"
	"go.kiln.dev/kiln/internal/engine/driver"
	"go.kiln.dev/kiln/internal/engine/evaluator"
	"go.kiln.dev/kiln/internal/engine/planner"
	"go.kiln.dev/kiln/internal/engine/results"
	"go.kiln.dev/kiln/internal/engine/scheduler"
)

// Options configures one Run: how wide to schedule, where a terminal's four paths
// resolve under, the build logic's own version seed, and where to write this run's
// observability artifacts. Any of the three *Path fields left empty skips that artifact.
type Options struct {
	Workers            int
	FailFast           bool
	OutRoot            string
	ExternalOutRoot    string
	ClassLoaderVersion string
	ProfilePath        string
	PlanPath           string
	TracePath          string
}

// App wires the adapters a run needs into the evaluation engine.
type App struct {
	Cache     ports.CacheStore
	Dest      ports.DestManager
	Hasher    ports.Hasher
	Format    ports.ValueFormat[any]
	Logger    ports.Logger
	Tracer    ports.Tracer
	Discovery ports.ModuleDiscovery
}

// New constructs an App from its adapter dependencies.
func New(cache ports.CacheStore, dest ports.DestManager, hasher ports.Hasher, format ports.ValueFormat[any], logger ports.Logger, tracer ports.Tracer, discovery ports.ModuleDiscovery) *App {
	return &App{Cache: cache, Dest: dest, Hasher: hasher, Format: format, Logger: logger, Tracer: tracer, Discovery: discovery}
}

// Run plans and evaluates every group goalIDs transitively depend on, in arena, and
// returns the assembled results. Observability artifacts configured in opts are written
// as a side effect before Run returns.
func (a *App) Run(ctx context.Context, arena *planner.Arena, goalIDs []domain.TaskID, opts Options) (*results.Results, error) {
	if len(goalIDs) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}

	transitive, err := arena.Transitive(goalIDs)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to compute transitive closure")
	}
	order, err := arena.TopoSort(transitive)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to topologically sort the task graph")
	}

	groups := arena.GroupAround(order)
	deps := arena.InterGroupDeps(groups)

	groupTasks := make(map[domain.Terminal][]domain.TaskID, groups.Len())
	groupOrder := groups.Keys()
	for _, owner := range groupOrder {
		groupTasks[owner] = groups.Values(owner)
	}

	goalTerms := make([]domain.Terminal, 0, len(goalIDs))
	for _, id := range goalIDs {
		term, ok := arena.TerminalFor(id)
		if !ok {
			term = arena.MarkGoal(id)
		}
		goalTerms = append(goalTerms, term)
	}

	classLoaderSigHash := a.Hasher.StructuralHash([]byte(opts.ClassLoaderVersion))
	ev := evaluator.NewGroupEvaluator(arena, a.Cache, a.Dest, a.Hasher, a.Format, a.Logger, a.Tracer,
		opts.OutRoot, opts.ExternalOutRoot, classLoaderSigHash)

	var out driver.Outcome
	var trace []scheduler.TraceEvent

	if opts.Workers <= 1 {
		sd := &driver.SequentialDriver{Evaluator: ev, GroupTasks: groupTasks, Deps: deps}
		evaluator.RedirectStdio(a.Logger, func() {
			out = sd.Run(ctx, groupOrder)
		})
	} else {
		ps := &scheduler.ParallelScheduler{
			Evaluator:  ev,
			GroupTasks: groupTasks,
			Deps:       deps,
			Workers:    opts.Workers,
			FailFast:   opts.FailFast,
		}
		out, trace = ps.Run(ctx, goalTerms)
	}

	res := results.Assemble(out)

	if opts.ProfilePath != "" {
		if err := res.WriteProfile(opts.ProfilePath); err != nil {
			a.Logger.Error(zerr.Wrap(err, "failed to write profile"))
		}
	}
	if opts.PlanPath != "" {
		if err := results.WritePlan(opts.PlanPath, res.Order, deps); err != nil {
			a.Logger.Error(zerr.Wrap(err, "failed to write plan snapshot"))
		}
	}
	if opts.TracePath != "" && trace != nil {
		if err := writeTrace(opts.TracePath, trace); err != nil {
			a.Logger.Error(zerr.Wrap(err, "failed to write trace"))
		}
	}

	return res, nil
}

func writeTrace(path string, events []scheduler.TraceEvent) error {
	data, err := json.MarshalIndent(events, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
