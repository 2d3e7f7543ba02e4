// Package depgraph validates "must finish before" edges among the tasks of a
// project and answers reverse-dependency queries.
//
// Tasks are loaded into an arena keyed by integer index with adjacency
// lists of indices, and all traversals use explicit work stacks, so graph
// size is bounded by memory rather than goroutine stack depth.
package depgraph

import "github.com/alexanderramin/meridian/internal/domain"

type arena struct {
	tasks []*domain.Task
	index map[string]int
	// deps[i] lists the arena indices task i depends on. Only edges that
	// resolve to a task in the same project are recorded.
	deps [][]int
}

// newArena indexes all, with candidate replacing any task that shares its
// ID (or appended when it is new).
func newArena(candidate *domain.Task, all []domain.Task) *arena {
	a := &arena{
		tasks: make([]*domain.Task, 0, len(all)+1),
		index: make(map[string]int, len(all)+1),
	}
	for i := range all {
		t := &all[i]
		if candidate != nil && t.ID == candidate.ID {
			continue
		}
		a.add(t)
	}
	if candidate != nil {
		a.add(candidate)
	}
	a.deps = make([][]int, len(a.tasks))
	for i, t := range a.tasks {
		for _, id := range t.Dependencies {
			j, ok := a.index[id]
			if !ok || a.tasks[j].ProjectID != t.ProjectID {
				continue
			}
			a.deps[i] = append(a.deps[i], j)
		}
	}
	return a
}

func (a *arena) add(t *domain.Task) {
	if _, dup := a.index[t.ID]; dup {
		return
	}
	a.index[t.ID] = len(a.tasks)
	a.tasks = append(a.tasks, t)
}

const (
	unvisited uint8 = iota
	onStack
	finished
)

// findCycle runs a depth-first search from start. A node found on the
// recursion stack closes a cycle; a finished node is already proven
// cycle-free and is skipped. Returns one witness cycle as arena indices
// with the first node repeated at the end, or nil.
func (a *arena) findCycle(start int) []int {
	type frame struct {
		node int
		next int
	}
	state := make([]uint8, len(a.tasks))
	stack := []frame{{node: start}}
	state[start] = onStack

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(a.deps[top.node]) {
			state[top.node] = finished
			stack = stack[:len(stack)-1]
			continue
		}
		v := a.deps[top.node][top.next]
		top.next++

		switch state[v] {
		case onStack:
			var cycle []int
			for k := len(stack) - 1; k >= 0; k-- {
				if stack[k].node == v {
					for _, f := range stack[k:] {
						cycle = append(cycle, f.node)
					}
					break
				}
			}
			return append(cycle, v)
		case unvisited:
			state[v] = onStack
			stack = append(stack, frame{node: v})
		}
	}
	return nil
}

func (a *arena) ids(indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = a.tasks[idx].ID
	}
	return out
}
