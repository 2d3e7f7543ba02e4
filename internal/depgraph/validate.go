package depgraph

import "github.com/alexanderramin/meridian/internal/domain"

// Report is the result of validating one task's dependency set.
type Report struct {
	Valid  bool
	Errors []error
}

// Err returns the first failure, or nil when the report is valid. Missing
// dependencies are reported before cross-project ones, and a cycle last.
func (r Report) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Validate checks task's dependency set against allTasks. allTasks may
// contain a stale copy of task itself; the candidate always wins.
//
// Every unresolved id yields a DependencyNotFound error and every resolved
// id in another project a CrossProjectDependency error. Acyclicity is
// checked over the same-project subgraph reachable from task; at most one
// CircularDependency error is reported.
func Validate(task domain.Task, allTasks []domain.Task) Report {
	a := newArena(&task, allTasks)

	var errs []error
	seen := make(map[string]bool, len(task.Dependencies))
	for _, id := range task.Dependencies {
		if seen[id] {
			continue
		}
		seen[id] = true
		idx, ok := a.index[id]
		if !ok || id == "" {
			errs = append(errs, domain.DependencyNotFound(id))
			continue
		}
		if dep := a.tasks[idx]; dep.ProjectID != task.ProjectID {
			errs = append(errs, domain.CrossProjectDependency(id, dep.ProjectID))
		}
	}

	if cycle := a.findCycle(a.index[task.ID]); cycle != nil {
		errs = append(errs, domain.CircularDependency(a.ids(cycle)))
	}

	return Report{Valid: len(errs) == 0, Errors: errs}
}
