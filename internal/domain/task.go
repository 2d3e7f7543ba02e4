package domain

import (
	"slices"
	"time"
)

type Task struct {
	ID          string
	ProjectID   string
	GroupID     *string
	Title       string
	Description string
	Assignee    string
	Status      Status
	Priority    Priority

	// Schedule
	StartDate time.Time
	EndDate   time.Time
	DueDate   *time.Time

	// Dependencies lists the IDs of tasks that must finish before this one.
	Dependencies []string

	// CompletedAt is set only while Status is the task completion status.
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.Dependencies = slices.Clone(t.Dependencies)
	out.DueDate = cloneTime(t.DueDate)
	out.CompletedAt = cloneTime(t.CompletedAt)
	if t.GroupID != nil {
		g := *t.GroupID
		out.GroupID = &g
	}
	return out
}

func (t Task) CurrentStatus() Status { return t.Status }

// WithStatus returns a copy of the task in the given status. completedAt
// replaces the completion stamp, nil clears it.
func (t Task) WithStatus(status Status, completedAt *time.Time, now time.Time) Task {
	out := t.Clone()
	out.Status = status
	out.CompletedAt = cloneTime(completedAt)
	out.UpdatedAt = now
	return out
}

// DependsOn reports whether id is one of the task's direct dependencies.
func (t *Task) DependsOn(id string) bool {
	return slices.Contains(t.Dependencies, id)
}

func (t *Task) DisplayID() string {
	return shortID(t.ID)
}

// TaskGroup nests tasks for organization only; it carries no behavior.
type TaskGroup struct {
	ID        string
	ProjectID string
	ParentID  *string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
