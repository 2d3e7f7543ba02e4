package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/scheduler"
)

type taskService struct {
	uow      db.UnitOfWork
	manager  *lifecycle.Manager
	now      Clock
	observer UseCaseObserver
}

func NewTaskService(uow db.UnitOfWork, manager *lifecycle.Manager, clock Clock, observers ...UseCaseObserver) TaskService {
	return &taskService{
		uow:      uow,
		manager:  manager,
		now:      clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

// taskScope is everything a task rule is validated against.
type taskScope struct {
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteTaskRepo
	groups   *repository.SQLiteTaskGroupRepo
	project  domain.Project
	siblings []domain.Task
}

// loadScope loads projectID and its tasks. Dependency ids in deps that
// belong to other projects are loaded as well, so the engine can tell a
// cross-project reference from a missing one.
func loadScope(ctx context.Context, tx db.DBTX, projectID string, deps []string) (*taskScope, error) {
	sc := &taskScope{
		projects: repository.NewSQLiteProjectRepo(tx),
		tasks:    repository.NewSQLiteTaskRepo(tx),
		groups:   repository.NewSQLiteTaskGroupRepo(tx),
	}
	p, err := sc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sc.project = *p
	if sc.siblings, err = sc.tasks.ListByProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := sc.loadForeign(ctx, deps); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *taskScope) loadForeign(ctx context.Context, deps []string) error {
	known := make(map[string]bool, len(sc.siblings))
	for _, t := range sc.siblings {
		known[t.ID] = true
	}
	for _, id := range deps {
		if id == "" || known[id] {
			continue
		}
		known[id] = true
		t, err := sc.tasks.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		sc.siblings = append(sc.siblings, *t)
	}
	return nil
}

func (sc *taskScope) checkGroup(ctx context.Context, m *lifecycle.Manager, groupID *string) error {
	if groupID == nil || *groupID == "" {
		return nil
	}
	groups, err := sc.groups.ListByProject(ctx, sc.project.ID)
	if err != nil {
		return err
	}
	return m.CheckGroup(*groupID, sc.project.ID, groups)
}

func (s *taskService) Create(ctx context.Context, projectID string, draft lifecycle.TaskDraft) (out *domain.Task, err error) {
	fields := map[string]any{"project_id": projectID, "dependency_count": len(draft.Dependencies)}
	defer track(ctx, s.observer, "create-task", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sc, err := loadScope(ctx, tx, projectID, draft.Dependencies)
		if err != nil {
			return err
		}
		if err := sc.checkGroup(ctx, s.manager, draft.GroupID); err != nil {
			return err
		}
		t, err := s.manager.CreateTask(sc.project, draft, sc.siblings, s.now())
		if err != nil {
			return err
		}
		if err := sc.tasks.Create(ctx, &t); err != nil {
			return err
		}
		fields["task_id"] = t.ID
		out = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (t *domain.Task, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		t, err = repository.NewSQLiteTaskRepo(tx).GetByID(ctx, id)
		return err
	})
	return t, err
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) (out []domain.Task, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID); err != nil {
			return err
		}
		out, err = repository.NewSQLiteTaskRepo(tx).ListByProject(ctx, projectID)
		return err
	})
	return out, err
}

// mutate loads task id with its project scope, applies fn and persists.
// deps overrides the dependency set whose foreign ids are loaded; nil means
// the task's current dependencies.
func (s *taskService) mutate(ctx context.Context, name, id string, deps *[]string,
	fn func(sc *taskScope, current domain.Task, now time.Time) (domain.Task, error)) (out *domain.Task, err error) {
	fields := map[string]any{"task_id": id}
	defer track(ctx, s.observer, name, time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		current, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields["project_id"] = current.ProjectID
		sc, err := loadScope(ctx, tx, current.ProjectID, domain.ValueOr(deps, current.Dependencies))
		if err != nil {
			return err
		}
		next, err := fn(sc, *current, s.now())
		if err != nil {
			return err
		}
		if err := sc.tasks.Update(ctx, &next); err != nil {
			return err
		}
		fields["status"] = string(next.Status)
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, id string, patch lifecycle.TaskPatch) (*domain.Task, error) {
	return s.mutate(ctx, "update-task", id, patch.Dependencies, func(sc *taskScope, current domain.Task, now time.Time) (domain.Task, error) {
		if !patch.ClearGroup {
			if err := sc.checkGroup(ctx, s.manager, patch.GroupID); err != nil {
				return current, err
			}
		}
		return s.manager.UpdateTask(sc.project, current, patch, sc.siblings, now)
	})
}

func (s *taskService) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	return s.mutate(ctx, "set-task-status", id, nil, func(sc *taskScope, current domain.Task, now time.Time) (domain.Task, error) {
		return s.manager.UpdateTaskStatus(sc.project, current, status, sc.siblings, now)
	})
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	fields := map[string]any{"task_id": id}
	defer track(ctx, s.observer, "delete-task", time.Now(), fields, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		current, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, id)
		if err != nil {
			return err
		}
		sc, err := loadScope(ctx, tx, current.ProjectID, nil)
		if err != nil {
			return err
		}
		if err := s.manager.DeleteTask(sc.project, *current, sc.siblings); err != nil {
			return err
		}
		return sc.tasks.Delete(ctx, id)
	})
}

func (s *taskService) Ready(ctx context.Context, projectID string) ([]domain.Task, error) {
	tasks, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.manager.ReadyTasks(tasks), nil
}

func (s *taskService) Next(ctx context.Context, projectID string, limit int) (out []scheduler.Scored, err error) {
	now := dayOf(s.now())
	var candidates []scheduler.Candidate
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projectRepo := repository.NewSQLiteProjectRepo(tx)
		var projects []*domain.Project
		if projectID != "" {
			p, err := projectRepo.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			projects = []*domain.Project{p}
		} else {
			active, err := projectRepo.List(ctx, false)
			if err != nil {
				return err
			}
			projects = active
		}

		taskRepo := repository.NewSQLiteTaskRepo(tx)
		for _, p := range projects {
			tasks, err := taskRepo.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			health := s.manager.ProjectHealth(*p, tasks, now).Health
			for _, t := range s.manager.ReadyTasks(tasks) {
				candidates = append(candidates, scheduler.Candidate{Task: t, ProjectName: p.Name, ProjectHealth: health})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scheduler.Rank(candidates, now, scheduler.DefaultWeights(), limit), nil
}

func (s *taskService) CreateGroup(ctx context.Context, projectID string, draft lifecycle.GroupDraft) (out *domain.TaskGroup, err error) {
	fields := map[string]any{"project_id": projectID, "name": draft.Name}
	defer track(ctx, s.observer, "create-group", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		repo := repository.NewSQLiteTaskGroupRepo(tx)
		groups, err := repo.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		g, err := s.manager.CreateGroup(*p, draft, groups, s.now())
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, &g); err != nil {
			return err
		}
		out = &g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskService) MoveGroup(ctx context.Context, groupID string, parentID *string) (out *domain.TaskGroup, err error) {
	fields := map[string]any{"group_id": groupID}
	defer track(ctx, s.observer, "move-group", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskGroupRepo(tx)
		current, err := repo.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		p, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, current.ProjectID)
		if err != nil {
			return err
		}
		groups, err := repo.ListByProject(ctx, current.ProjectID)
		if err != nil {
			return err
		}
		g, err := s.manager.MoveGroup(*p, *current, parentID, groups, s.now())
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, &g); err != nil {
			return err
		}
		out = &g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *taskService) ListGroups(ctx context.Context, projectID string) (out []domain.TaskGroup, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		out, err = repository.NewSQLiteTaskGroupRepo(tx).ListByProject(ctx, projectID)
		return err
	})
	return out, err
}
