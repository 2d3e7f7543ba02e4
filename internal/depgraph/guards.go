package depgraph

import "github.com/alexanderramin/meridian/internal/domain"

// Dependents returns the tasks in allTasks that list taskID as a direct
// dependency, in input order.
func Dependents(taskID string, allTasks []domain.Task) []domain.Task {
	var out []domain.Task
	for i := range allTasks {
		t := &allTasks[i]
		if t.ID != taskID && t.DependsOn(taskID) {
			out = append(out, *t)
		}
	}
	return out
}

// CheckDeletable fails with DependentsExist while any task depends on
// taskID. Dependents are never cascaded.
func CheckDeletable(taskID string, allTasks []domain.Task) error {
	dependents := Dependents(taskID, allTasks)
	if len(dependents) == 0 {
		return nil
	}
	ids := make([]string, len(dependents))
	for i, d := range dependents {
		ids[i] = d.ID
	}
	return domain.DependentsExist(ids)
}

// CheckCompletable fails with IncompleteDependencies unless every direct
// dependency of task resolves to a task already in the completion status.
// Unresolvable ids count as incomplete. Transitive dependencies are not
// inspected.
func CheckCompletable(task domain.Task, allTasks []domain.Task, completion domain.Status) error {
	byID := make(map[string]*domain.Task, len(allTasks))
	for i := range allTasks {
		byID[allTasks[i].ID] = &allTasks[i]
	}
	var pending []string
	for _, id := range task.Dependencies {
		dep, ok := byID[id]
		if !ok || dep.Status != completion {
			pending = append(pending, id)
		}
	}
	if len(pending) > 0 {
		return domain.IncompleteDependencies(pending)
	}
	return nil
}
