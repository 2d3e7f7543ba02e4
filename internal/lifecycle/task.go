package lifecycle

import (
	"time"

	"github.com/alexanderramin/meridian/internal/depgraph"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/workflow"
)

type TaskDraft struct {
	Title        string
	Description  string
	Assignee     string
	GroupID      *string
	Priority     domain.Priority
	StartDate    time.Time
	EndDate      time.Time
	DueDate      *time.Time
	Dependencies []string
}

// TaskPatch lists optional changes; nil fields are left as they are.
// ClearGroup and ClearDueDate remove the optional references outright.
type TaskPatch struct {
	Title        *string
	Description  *string
	Assignee     *string
	GroupID      *string
	ClearGroup   bool
	Priority     *domain.Priority
	StartDate    *time.Time
	EndDate      *time.Time
	DueDate      *time.Time
	ClearDueDate bool
	Dependencies *[]string
}

type GroupDraft struct {
	Name     string
	ParentID *string
}

func validateTaskSchedule(start, end time.Time, due *time.Time) error {
	if !start.Before(end) {
		return domain.Validationf("task start date %s must be before end date %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if due != nil && due.Before(start) {
		return domain.Validationf("task due date %s must not precede start date %s",
			due.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return nil
}

// CreateTask builds a task in project in the workflow's default status and
// validates its dependency set against siblings, the project's current
// tasks.
func (m *Manager) CreateTask(project domain.Project, draft TaskDraft, siblings []domain.Task, now time.Time) (domain.Task, error) {
	cfg := m.settings.TaskWorkflow
	if err := checkMutable(project); err != nil {
		return domain.Task{}, err
	}
	if err := requireText("task title", draft.Title); err != nil {
		return domain.Task{}, err
	}
	priority, err := resolvePriority(draft.Priority)
	if err != nil {
		return domain.Task{}, err
	}
	if err := validateTaskSchedule(draft.StartDate, draft.EndDate, draft.DueDate); err != nil {
		return domain.Task{}, err
	}

	t := domain.Task{
		ID:           m.newID(),
		ProjectID:    project.ID,
		Title:        draft.Title,
		Description:  draft.Description,
		Assignee:     draft.Assignee,
		Status:       cfg.DefaultStatus,
		Priority:     priority,
		StartDate:    draft.StartDate,
		EndDate:      draft.EndDate,
		Dependencies: dedupe(draft.Dependencies),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if draft.GroupID != nil && *draft.GroupID != "" {
		g := *draft.GroupID
		t.GroupID = &g
	}
	if draft.DueDate != nil {
		d := *draft.DueDate
		t.DueDate = &d
	}

	if err := depgraph.Validate(t, siblings).Err(); err != nil {
		return domain.Task{}, err
	}
	if t.Status == cfg.CompletionStatus {
		if err := depgraph.CheckCompletable(t, siblings, cfg.CompletionStatus); err != nil {
			return domain.Task{}, err
		}
		t.CompletedAt = &now
	}
	return t, nil
}

func (m *Manager) checkTaskMutable(project domain.Project, current domain.Task) error {
	if err := checkMutable(project); err != nil {
		return err
	}
	if current.Status != m.settings.TaskWorkflow.CompletionStatus && m.settings.TaskWorkflow.IsTerminal(current.Status) {
		return domain.ImmutableState("task %s is %s", current.ID, current.Status)
	}
	return nil
}

// UpdateTask applies patch to current. Status is not patchable; use
// UpdateTaskStatus. The schedule is re-validated when any date changes and
// the dependency graph when the dependency set changes.
func (m *Manager) UpdateTask(project domain.Project, current domain.Task, patch TaskPatch, siblings []domain.Task, now time.Time) (domain.Task, error) {
	if err := m.checkTaskMutable(project, current); err != nil {
		return current, err
	}
	next := current.Clone()

	if patch.Title != nil {
		if err := requireText("task title", *patch.Title); err != nil {
			return current, err
		}
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Assignee != nil {
		next.Assignee = *patch.Assignee
	}
	switch {
	case patch.ClearGroup:
		next.GroupID = nil
	case patch.GroupID != nil:
		g := *patch.GroupID
		next.GroupID = &g
	}
	if patch.Priority != nil {
		priority, err := resolvePriority(*patch.Priority)
		if err != nil {
			return current, err
		}
		next.Priority = priority
	}

	if patch.StartDate != nil || patch.EndDate != nil || patch.DueDate != nil || patch.ClearDueDate {
		next.StartDate = domain.ValueOr(patch.StartDate, next.StartDate)
		next.EndDate = domain.ValueOr(patch.EndDate, next.EndDate)
		switch {
		case patch.ClearDueDate:
			next.DueDate = nil
		case patch.DueDate != nil:
			d := *patch.DueDate
			next.DueDate = &d
		}
		if err := validateTaskSchedule(next.StartDate, next.EndDate, next.DueDate); err != nil {
			return current, err
		}
	}

	if patch.Dependencies != nil {
		next.Dependencies = dedupe(*patch.Dependencies)
		if next.Dependencies == nil {
			next.Dependencies = []string{}
		}
		if err := depgraph.Validate(next, siblings).Err(); err != nil {
			return current, err
		}
	}

	next.UpdatedAt = now
	return next, nil
}

// UpdateTaskStatus moves current to status next. Moving into the completion
// status first requires every direct dependency to be complete.
func (m *Manager) UpdateTaskStatus(project domain.Project, current domain.Task, next domain.Status, siblings []domain.Task, now time.Time) (domain.Task, error) {
	cfg := m.settings.TaskWorkflow
	if err := checkMutable(project); err != nil {
		return current, err
	}
	if next == cfg.CompletionStatus && current.Status != next {
		if err := depgraph.CheckCompletable(current, siblings, cfg.CompletionStatus); err != nil {
			return current, err
		}
	}
	return workflow.Transition(current, next, cfg, now)
}

// DeleteTask succeeds only while no sibling depends on current.
func (m *Manager) DeleteTask(project domain.Project, current domain.Task, siblings []domain.Task) error {
	if err := checkMutable(project); err != nil {
		return err
	}
	return depgraph.CheckDeletable(current.ID, siblings)
}

// ReadyTasks lists the open tasks that could be completed right now.
func (m *Manager) ReadyTasks(tasks []domain.Task) []domain.Task {
	cfg := m.settings.TaskWorkflow
	return depgraph.Ready(tasks, cfg.CompletionStatus, func(s domain.Status) bool {
		return !cfg.IsSettled(s)
	})
}

// CheckGroup verifies groupID names a group of projectID.
func (m *Manager) CheckGroup(groupID, projectID string, groups []domain.TaskGroup) error {
	for _, g := range groups {
		if g.ID != groupID {
			continue
		}
		if g.ProjectID != projectID {
			return domain.Validationf("group %s belongs to project %s", groupID, g.ProjectID)
		}
		return nil
	}
	return domain.NotFound("group", groupID)
}

// CreateGroup adds a task group to project, optionally nested under an
// existing group of the same project.
func (m *Manager) CreateGroup(project domain.Project, draft GroupDraft, groups []domain.TaskGroup, now time.Time) (domain.TaskGroup, error) {
	if err := checkMutable(project); err != nil {
		return domain.TaskGroup{}, err
	}
	if err := requireText("group name", draft.Name); err != nil {
		return domain.TaskGroup{}, err
	}
	g := domain.TaskGroup{
		ID:        m.newID(),
		ProjectID: project.ID,
		Name:      draft.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if draft.ParentID != nil && *draft.ParentID != "" {
		if err := m.CheckGroup(*draft.ParentID, project.ID, groups); err != nil {
			return domain.TaskGroup{}, err
		}
		parent := *draft.ParentID
		g.ParentID = &parent
	}
	return g, nil
}

// MoveGroup re-parents current under parentID (nil for top level). A group
// may not end up beneath itself.
func (m *Manager) MoveGroup(project domain.Project, current domain.TaskGroup, parentID *string, groups []domain.TaskGroup, now time.Time) (domain.TaskGroup, error) {
	if err := checkMutable(project); err != nil {
		return current, err
	}
	next := current
	next.UpdatedAt = now
	if parentID == nil || *parentID == "" {
		next.ParentID = nil
		return next, nil
	}
	if err := m.CheckGroup(*parentID, project.ID, groups); err != nil {
		return current, err
	}

	parentOf := make(map[string]*string, len(groups))
	for _, g := range groups {
		parentOf[g.ID] = g.ParentID
	}
	path := []string{current.ID}
	for cur := parentID; cur != nil; cur = parentOf[*cur] {
		path = append(path, *cur)
		if *cur == current.ID {
			return current, domain.CircularDependency(path)
		}
		if len(path) > len(groups)+1 {
			break
		}
	}

	parent := *parentID
	next.ParentID = &parent
	return next, nil
}
