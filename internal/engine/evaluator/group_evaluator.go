package evaluator

import (
	"context"

	"go.kiln.dev/kiln/internal/core/domain"
	"go.kiln.dev/kiln/internal/core/ports"
	"go.kiln.dev/kiln/internal/engine/hashing"
)

// GroupEvaluator evaluates a group of tasks folded around one labelled terminal: it
// decides whether a worker short-circuit or a disk cache hit makes running the body
// unnecessary, and otherwise runs it with its stdio redirected to a scoped logger,
// persisting or invalidating the cache record exactly once per invocation.
type GroupEvaluator struct {
	Arena              *Arena
	Cache              ports.CacheStore
	Dest               ports.DestManager
	Hasher             ports.Hasher
	Format             ports.ValueFormat[any]
	Logger             ports.Logger
	Tracer             ports.Tracer
	OutRoot            string
	ExternalOutRoot    string
	ClassLoaderSigHash uint64

	workers *workerCache
}

// Arena is the minimal view of the planner.Arena the evaluator needs: looking a task up
// by id. Declared locally so this package does not import planner, keeping the
// dependency direction engine/evaluator -> core only (planner -> evaluator would cycle).
type Arena interface {
	Get(id domain.TaskID) (domain.Task, bool)
}

// NewGroupEvaluator constructs a GroupEvaluator with a fresh, empty worker cache.
func NewGroupEvaluator(arena Arena, cache ports.CacheStore, dest ports.DestManager, hasher ports.Hasher, format ports.ValueFormat[any], logger ports.Logger, tracer ports.Tracer, outRoot, externalOutRoot string, classLoaderSigHash uint64) *GroupEvaluator {
	return &GroupEvaluator{
		Arena:              arena,
		Cache:              cache,
		Dest:               dest,
		Hasher:             hasher,
		Format:             format,
		Logger:             logger,
		Tracer:             tracer,
		OutRoot:            outRoot,
		ExternalOutRoot:    externalOutRoot,
		ClassLoaderSigHash: classLoaderSigHash,
		workers:            newWorkerCache(),
	}
}

// Upstream carries what a group needs from already-evaluated dependency groups: each
// upstream terminal's final value and value hash, keyed by the TaskID the dependent
// task's Inputs entry points at.
type Upstream struct {
	Values      map[domain.TaskID]any
	ValueHashes map[domain.TaskID]uint64
}

// EvaluateGroup runs the group owned by term. An anonymous terminal (term.Named() not
// ok) gets no cache probe and no dest: its tasks run inline and the second return value
// is false. tasks is the group's members in topological order, ending with the
// terminal's own task. The second return value reports whether the result came from the
// worker cache or the disk cache rather than from actually running the group's bodies.
func (e *GroupEvaluator) EvaluateGroup(ctx context.Context, term domain.Terminal, tasks []domain.TaskID, up Upstream) (domain.Result, bool) {
	nt, ok := term.Named()
	if !ok {
		// Anonymous goal terminal: no cache, no dest, just run its single task inline.
		return e.runGroup(ctx, term, tasks, up, domain.Paths{}), false
	}

	paths := hashing.ResolvePaths(e.OutRoot, e.ExternalOutRoot, nt)
	segKey := nt.Segments.String()

	externalHashes := e.externalInputsHash(tasks, up)
	groupSideHashes := e.groupSideHashes(tasks)
	inputsHash := hashing.InputsHash(e.Hasher, externalHashes, groupSideHashes, e.ClassLoaderSigHash)

	if nt.Worker {
		if entry, hit := e.workers.lookup(segKey, inputsHash); hit {
			return domain.Success(entry.value, entry.valueHash), true
		}
	}

	if rec, err := e.Cache.Read(paths.Meta); err == nil && rec != nil && rec.InputsHash == inputsHash {
		value, decodeErr := e.Format.Read(rec.Value)
		if decodeErr == nil {
			result := domain.Success(value, rec.ValueHash)
			if nt.Worker {
				e.workers.store(segKey, workerEntry{inputsHash: inputsHash, value: value, valueHash: rec.ValueHash})
			}
			return result, true
		}
		// A cache record that fails to decode under the current ValueFormat is treated
		// exactly like a missing one: lenient probing never turns corruption into a
		// build failure.
	}

	if nt.FlushDest {
		_ = e.Dest.Clean(paths.Dest)
	} else {
		_ = e.Dest.Ensure(paths.Dest)
	}

	result := e.runGroup(ctx, term, tasks, up, paths)

	if result.Outcome == domain.OutcomeSuccess {
		encoded, err := e.Format.Write(result.Value)
		if err == nil {
			valueHash := e.Hasher.StructuralHash(encoded)
			result.ValueHash = valueHash
			_ = e.Cache.Write(paths.Meta, domain.CachedRecord{
				Value:      encoded,
				ValueHash:  valueHash,
				InputsHash: inputsHash,
			})
			if nt.Worker {
				e.workers.store(segKey, workerEntry{inputsHash: inputsHash, value: result.Value, valueHash: valueHash})
			}
		}
	} else {
		_ = e.Cache.Delete(paths.Meta)
	}

	return result, false
}

// runGroup invokes every task's Body in topological order, feeding each one the
// already-computed values of its own Inputs (drawn either from earlier tasks in this
// same group or from Upstream for tasks outside it), and returns the terminal task's
// own Result. Every task in the group shares one destAcquisition guard, so dest() is a
// group-scoped resource: the first task to call it wins, and any other task in the same
// group that calls it afterward fails with an error naming the first task and its
// call stack.
func (e *GroupEvaluator) runGroup(ctx context.Context, term domain.Terminal, tasks []domain.TaskID, up Upstream, paths domain.Paths) domain.Result {
	values := make(map[domain.TaskID]any, len(tasks))
	valueHashes := make(map[domain.TaskID]uint64, len(tasks))
	for id, v := range up.Values {
		values[id] = v
	}
	for id, h := range up.ValueHashes {
		valueHashes[id] = h
	}

	scoped := e.Logger
	if scoped != nil {
		scoped = e.Logger.Scoped(term.Label())
	}

	guard := &destAcquisition{}

	var last domain.Result
	for i, id := range tasks {
		task, ok := e.Arena.Get(id)
		if !ok {
			return domain.Exception(domain.ErrTaskNotFound, "")
		}
		inputs := make([]any, len(task.Inputs))
		for j, depID := range task.Inputs {
			inputs[j] = values[depID]
		}
		tctx := &taskContext{ctx: ctx, taskID: id, inputs: inputs, dest: paths.Dest, destGuard: guard, logger: scoped}
		result := invokeBody(task.Body, tctx)
		values[id] = result.Value
		valueHashes[id] = result.ValueHash
		last = result
		if result.Outcome.Failing() && i != len(tasks)-1 {
			// An upstream task inside the same group failed: the terminal itself never
			// runs, and the group's own Result reports that failure.
			return domain.Failure("upstream task in group failed: "+result.Message, nil)
		}
	}
	return last
}

// invokeBody recovers a panicking body into an OutcomeException Result rather than
// letting it unwind into the scheduler, so a task that panics fails like any other task.
func invokeBody(body domain.Body, ctx domain.Context) (result domain.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.Exception(panicToError(r), "")
		}
	}()
	return body(ctx)
}

// externalInputsHash collects the value hash of every dependency the group's tasks
// reach outside the group itself, deduped and in first-seen order. Mirrors
// planner.Arena.InterGroupDeps's walk, but at the raw-TaskID level against
// up.ValueHashes rather than at the Terminal level.
func (e *GroupEvaluator) externalInputsHash(tasks []domain.TaskID, up Upstream) []uint64 {
	members := make(map[domain.TaskID]bool, len(tasks))
	for _, id := range tasks {
		members[id] = true
	}

	seen := make(map[domain.TaskID]bool)
	var hashes []uint64
	for _, id := range tasks {
		task, ok := e.Arena.Get(id)
		if !ok {
			continue
		}
		for _, dep := range task.Inputs {
			if members[dep] || seen[dep] {
				continue
			}
			seen[dep] = true
			hashes = append(hashes, up.ValueHashes[dep])
		}
	}
	return hashes
}

// groupSideHashes collects every task-in-group's own SideHash, in group order.
func (e *GroupEvaluator) groupSideHashes(tasks []domain.TaskID) []uint64 {
	hashes := make([]uint64, 0, len(tasks))
	for _, id := range tasks {
		task, ok := e.Arena.Get(id)
		if !ok {
			continue
		}
		hashes = append(hashes, task.SideHash)
	}
	return hashes
}
