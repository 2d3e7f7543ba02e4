package service

import (
	"context"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/repository"
)

type projectService struct {
	uow      db.UnitOfWork
	manager  *lifecycle.Manager
	now      Clock
	observer UseCaseObserver
}

func NewProjectService(uow db.UnitOfWork, manager *lifecycle.Manager, clock Clock, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		uow:      uow,
		manager:  manager,
		now:      clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, draft lifecycle.ProjectDraft) (out *domain.Project, err error) {
	fields := map[string]any{"name": draft.Name}
	defer track(ctx, s.observer, "create-project", time.Now(), fields, &err)

	p, err := s.manager.CreateProject(draft, s.now())
	if err != nil {
		return nil, err
	}
	fields["project_id"] = p.ID
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Create(ctx, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (p *domain.Project, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err = repository.NewSQLiteProjectRepo(tx).GetByID(ctx, id)
		return err
	})
	return p, err
}

func (s *projectService) List(ctx context.Context, includeArchived bool) (out []*domain.Project, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		out, err = repository.NewSQLiteProjectRepo(tx).List(ctx, includeArchived)
		return err
	})
	return out, err
}

// mutate loads project id, applies fn and persists the result.
func (s *projectService) mutate(ctx context.Context, name, id string, fields map[string]any,
	fn func(current domain.Project, now time.Time) (domain.Project, error)) (out *domain.Project, err error) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["project_id"] = id
	defer track(ctx, s.observer, name, time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteProjectRepo(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := fn(*current, s.now())
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, &next); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *projectService) Update(ctx context.Context, id string, patch lifecycle.ProjectPatch) (*domain.Project, error) {
	return s.mutate(ctx, "update-project", id, nil, func(current domain.Project, now time.Time) (domain.Project, error) {
		return s.manager.UpdateProject(current, patch, now)
	})
}

func (s *projectService) Archive(ctx context.Context, id string) (*domain.Project, error) {
	return s.mutate(ctx, "archive-project", id, nil, s.manager.ArchiveProject)
}

func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer track(ctx, s.observer, "delete-project", time.Now(), map[string]any{"project_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteProjectRepo(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.manager.DeleteProject(*current); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func (s *projectService) RecordExpense(ctx context.Context, id string, draft lifecycle.ExpenseDraft) (*domain.Project, error) {
	fields := map[string]any{"category": draft.Category, "amount": draft.Amount}
	return s.mutate(ctx, "record-expense", id, fields, func(current domain.Project, now time.Time) (domain.Project, error) {
		return s.manager.RecordExpense(current, draft, now)
	})
}

func (s *projectService) AddAllocation(ctx context.Context, id string, draft lifecycle.AllocationDraft) (*domain.Project, error) {
	fields := map[string]any{"team_id": draft.TeamID, "monthly_rate": draft.MonthlyRate}
	return s.mutate(ctx, "add-allocation", id, fields, func(current domain.Project, now time.Time) (domain.Project, error) {
		return s.manager.AddAllocation(current, draft, now)
	})
}

func (s *projectService) CloseAllocation(ctx context.Context, id, allocationID string, end time.Time) (*domain.Project, error) {
	fields := map[string]any{"allocation_id": allocationID}
	return s.mutate(ctx, "close-allocation", id, fields, func(current domain.Project, now time.Time) (domain.Project, error) {
		return s.manager.CloseAllocation(current, allocationID, end, now)
	})
}

// Health summarizes the ledger as of asOf's date; a zero asOf means today.
func (s *projectService) Health(ctx context.Context, id string, asOf time.Time) (report *HealthReport, err error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOf = dayOf(asOf)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		tasks, err := repository.NewSQLiteTaskRepo(tx).ListByProject(ctx, id)
		if err != nil {
			return err
		}
		report = &HealthReport{Project: p, AsOf: asOf, Summary: s.manager.ProjectHealth(*p, tasks, asOf)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
