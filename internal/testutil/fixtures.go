package testutil

import (
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/google/uuid"
)

// Epoch anchors fixture dates so persisted values round-trip exactly.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Project options
type ProjectOption func(*domain.Project)

func WithWindow(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = start
		p.EndDate = end
	}
}

func WithBudget(b float64) ProjectOption {
	return func(p *domain.Project) {
		p.BudgetAllocated = b
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
		if s == domain.ProjectArchived {
			at := Epoch
			p.ArchivedAt = &at
		}
	}
}

func WithExpense(category string, amount float64, on time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.Expenses = append(p.Expenses, domain.BudgetExpense{
			ID: uuid.New().String(), Category: category, Amount: amount, Date: on,
		})
	}
}

func WithAllocation(team string, rate float64, start time.Time, end *time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.ResourceAllocations = append(p.ResourceAllocations, domain.ResourceAllocation{
			ID: uuid.New().String(), TeamID: team, MonthlyRate: rate, StartDate: start, EndDate: end,
		})
	}
}

func WithTeams(ids ...string) ProjectOption {
	return func(p *domain.Project) {
		p.TeamIDs = ids
	}
}

func WithDeliverable(title string, due *time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.Deliverables = append(p.Deliverables, domain.Deliverable{
			ID: uuid.New().String(), Title: title, DueDate: due,
		})
	}
}

// NewTestProject returns an active 2024 project with a 100k budget.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:                  uuid.New().String(),
		Name:                name,
		ClientID:            "client",
		Status:              domain.ProjectActive,
		StartDate:           Date(2024, 1, 1),
		EndDate:             Date(2024, 12, 31),
		BudgetAllocated:     100000,
		Expenses:            []domain.BudgetExpense{},
		ResourceAllocations: []domain.ResourceAllocation{},
		Deliverables:        []domain.Deliverable{},
		TeamIDs:             []string{},
		CreatedAt:           Epoch,
		UpdatedAt:           Epoch,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.Status) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
		if s == domain.TaskDone {
			at := Epoch
			t.CompletedAt = &at
		}
	}
}

func WithDependencies(ids ...string) TaskOption {
	return func(t *domain.Task) {
		t.Dependencies = ids
	}
}

func WithSchedule(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = start
		t.EndDate = end
	}
}

func WithTaskDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithGroup(id string) TaskOption {
	return func(t *domain.Task) {
		t.GroupID = &id
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		Title:        title,
		Status:       domain.TaskTodo,
		Priority:     domain.PriorityMedium,
		StartDate:    Date(2024, 2, 1),
		EndDate:      Date(2024, 2, 15),
		Dependencies: []string{},
		CreatedAt:    Epoch,
		UpdatedAt:    Epoch,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestGroup(projectID, name string, parentID *string) *domain.TaskGroup {
	return &domain.TaskGroup{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		ParentID:  parentID,
		Name:      name,
		CreatedAt: Epoch,
		UpdatedAt: Epoch,
	}
}

// Ticket options
type TicketOption func(*domain.Ticket)

func WithTicketProject(id string) TicketOption {
	return func(t *domain.Ticket) {
		t.ProjectID = &id
	}
}

func WithTicketStatus(s domain.Status) TicketOption {
	return func(t *domain.Ticket) {
		t.Status = s
	}
}

func NewTestTicket(title string, opts ...TicketOption) *domain.Ticket {
	t := &domain.Ticket{
		ID:         uuid.New().String(),
		Type:       domain.TicketSupport,
		Title:      title,
		Status:     domain.TicketOpen,
		Priority:   domain.PriorityMedium,
		ReporterID: "client-1",
		CreatedAt:  Epoch,
		UpdatedAt:  Epoch,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
