package service

import (
	"context"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/importer"
	"github.com/alexanderramin/meridian/internal/ledger"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/scheduler"
)

// Every write use case loads the latest snapshot, applies the lifecycle
// rules and persists the result inside one transaction.

type ProjectService interface {
	Create(ctx context.Context, draft lifecycle.ProjectDraft) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, id string, patch lifecycle.ProjectPatch) (*domain.Project, error)
	Archive(ctx context.Context, id string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	RecordExpense(ctx context.Context, id string, draft lifecycle.ExpenseDraft) (*domain.Project, error)
	AddAllocation(ctx context.Context, id string, draft lifecycle.AllocationDraft) (*domain.Project, error)
	CloseAllocation(ctx context.Context, id, allocationID string, end time.Time) (*domain.Project, error)
	Health(ctx context.Context, id string, asOf time.Time) (*HealthReport, error)
}

type TaskService interface {
	Create(ctx context.Context, projectID string, draft lifecycle.TaskDraft) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, id string, patch lifecycle.TaskPatch) (*domain.Task, error)
	SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	Ready(ctx context.Context, projectID string) ([]domain.Task, error)
	// Next ranks ready tasks across every non-archived project, or only
	// projectID when it is non-empty. limit <= 0 returns all.
	Next(ctx context.Context, projectID string, limit int) ([]scheduler.Scored, error)
	CreateGroup(ctx context.Context, projectID string, draft lifecycle.GroupDraft) (*domain.TaskGroup, error)
	MoveGroup(ctx context.Context, groupID string, parentID *string) (*domain.TaskGroup, error)
	ListGroups(ctx context.Context, projectID string) ([]domain.TaskGroup, error)
}

type TicketService interface {
	Create(ctx context.Context, draft lifecycle.TicketDraft) (*domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter repository.TicketFilter) ([]*domain.Ticket, error)
	Update(ctx context.Context, id string, patch lifecycle.TicketPatch) (*domain.Ticket, error)
	Transition(ctx context.Context, id string, status domain.Status) (*domain.Ticket, error)
	Resolve(ctx context.Context, id string, res lifecycle.Resolution) (*domain.Ticket, error)
}

// ImportService creates a whole project plan atomically.
type ImportService interface {
	Import(ctx context.Context, drafts *importer.Drafts) (*ImportResult, error)
}

// ImportResult lists what an import created; Tasks are in creation order.
type ImportResult struct {
	Project *domain.Project
	Groups  []domain.TaskGroup
	Tasks   []domain.Task
}

// HealthReport pairs a project with its ledger summary.
type HealthReport struct {
	Project *domain.Project
	AsOf    time.Time
	Summary ledger.Summary
}

// Clock supplies the wall-clock reading for a use case.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// dayOf truncates t to its UTC calendar date. Task and project dates are
// whole days, so health is judged against the day, not the wall-clock time.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}
