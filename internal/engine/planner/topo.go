package planner

import (
	"container/heap"

	"go.kiln.dev/kiln/internal/core/domain"
)

// idHeap is a min-heap over ready task ids, giving Kahn's algorithm a deterministic
// tie-break: among several tasks whose dependencies are all satisfied, the
// lowest-numbered one (stable arena insertion order) is scheduled for ordering first.
type idHeap []domain.TaskID

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)         { *h = append(*h, x.(domain.TaskID)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopoSort orders ids (a vertex set, typically the output of Arena.Transitive) so every
// task appears after all of its Inputs, breaking ties deterministically by id. It
// returns domain.ErrCycleDetected if the induced subgraph is not a DAG.
func (a *Arena) TopoSort(ids []domain.TaskID) ([]domain.TaskID, error) {
	set := make(map[domain.TaskID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	indegree := make(map[domain.TaskID]int, len(ids))
	dependents := make(map[domain.TaskID][]domain.TaskID, len(ids))
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, id := range ids {
		task, ok := a.Get(id)
		if !ok {
			return nil, domain.ErrMissingDependency
		}
		for _, dep := range task.Inputs {
			if !set[dep] {
				continue // dependency outside the requested vertex set, ignored here
			}
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := &idHeap{}
	for _, id := range ids {
		if indegree[id] == 0 {
			heap.Push(ready, id)
		}
	}

	out := make([]domain.TaskID, 0, len(ids))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(domain.TaskID)
		out = append(out, id)
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				heap.Push(ready, dep)
			}
		}
	}

	if len(out) != len(ids) {
		return nil, domain.ErrCycleDetected
	}
	return out, nil
}
