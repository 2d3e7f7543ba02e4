package depgraph

import (
	"container/heap"

	"github.com/alexanderramin/meridian/internal/domain"
)

// Ready returns the open tasks whose direct dependencies are all in the
// completion status. open decides which statuses still need work.
func Ready(tasks []domain.Task, completion domain.Status, open func(domain.Status) bool) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if !open(t.Status) {
			continue
		}
		if CheckCompletable(t, tasks, completion) == nil {
			out = append(out, t)
		}
	}
	return out
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopoOrder returns tasks ordered so every task follows its same-project
// dependencies. Ties break by input position, so the order is stable for a
// given input. Fails with CircularDependency if the tasks contain a cycle.
func TopoOrder(tasks []domain.Task) ([]domain.Task, error) {
	a := newArena(nil, tasks)

	// dependents[j] lists the tasks that wait on j.
	indeg := make([]int, len(a.tasks))
	dependents := make([][]int, len(a.tasks))
	for i, deps := range a.deps {
		for _, j := range deps {
			indeg[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	ready := &intMinHeap{}
	heap.Init(ready)
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]domain.Task, 0, len(a.tasks))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, *a.tasks[n])
		for _, m := range dependents[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}

	if len(out) != len(a.tasks) {
		for i, d := range indeg {
			if d > 0 {
				if cycle := a.findCycle(i); cycle != nil {
					return nil, domain.CircularDependency(a.ids(cycle))
				}
			}
		}
		return nil, domain.CircularDependency(nil)
	}
	return out, nil
}
