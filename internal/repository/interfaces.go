package repository

import (
	"context"

	"github.com/alexanderramin/meridian/internal/domain"
)

// Repositories persist whole snapshots. Lookups of missing rows fail with an
// error wrapping domain.ErrNotFound.

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type TaskGroupRepo interface {
	Create(ctx context.Context, g *domain.TaskGroup) error
	GetByID(ctx context.Context, id string) (*domain.TaskGroup, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.TaskGroup, error)
	Update(ctx context.Context, g *domain.TaskGroup) error
}

// TicketFilter narrows TicketRepo.List; zero fields match everything.
type TicketFilter struct {
	ProjectID string
	Status    domain.Status
}

type TicketRepo interface {
	Create(ctx context.Context, t *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error)
	Update(ctx context.Context, t *domain.Ticket) error
}
