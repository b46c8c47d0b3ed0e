package planner

import "go.kiln.dev/kiln/internal/core/domain"

// GroupAround folds every anonymous task in sortedIDs into the group of the labelled
// terminal that (first, in sortedIDs order) depends on it, stopping each walk at any
// other terminal rather than crossing into a sibling's group. An anonymous task that is
// not reachable from any terminal in sortedIDs is never assigned a group and is simply
// never scheduled — dead weight the caller's goal set didn't ask for.
func (a *Arena) GroupAround(sortedIDs []domain.TaskID) *domain.MultiBiMap[domain.Terminal, domain.TaskID] {
	groups := domain.NewMultiBiMap[domain.Terminal, domain.TaskID]()
	claimed := make(map[domain.TaskID]bool, len(sortedIDs))

	var include func(owner domain.Terminal, id domain.TaskID)
	include = func(owner domain.Terminal, id domain.TaskID) {
		if claimed[id] {
			return
		}
		claimed[id] = true
		groups.Add(owner, id)
		task, ok := a.Get(id)
		if !ok {
			return
		}
		for _, dep := range task.Inputs {
			if _, isTerminal := a.TerminalFor(dep); isTerminal {
				continue
			}
			include(owner, dep)
		}
	}

	for _, id := range sortedIDs {
		if term, ok := a.TerminalFor(id); ok {
			include(term, id)
		}
	}
	return groups
}

// InterGroupDeps computes, for every terminal key in groups, the set of other terminals
// whose group must fully evaluate before this one can start: any terminal reached by
// walking the Inputs of every task folded into this group.
func (a *Arena) InterGroupDeps(groups *domain.MultiBiMap[domain.Terminal, domain.TaskID]) map[domain.Terminal][]domain.Terminal {
	out := make(map[domain.Terminal][]domain.Terminal, groups.Len())
	for _, owner := range groups.Keys() {
		seen := make(map[domain.TaskID]bool)
		var deps []domain.Terminal
		for _, id := range groups.Values(owner) {
			task, ok := a.Get(id)
			if !ok {
				continue
			}
			for _, dep := range task.Inputs {
				depOwner, isTerminal := a.TerminalFor(dep)
				if !isTerminal || depOwner == owner {
					continue
				}
				if seen[depOwner.TaskID()] {
					continue
				}
				seen[depOwner.TaskID()] = true
				deps = append(deps, depOwner)
			}
		}
		out[owner] = deps
	}
	return out
}
