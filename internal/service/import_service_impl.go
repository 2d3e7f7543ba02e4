package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/importer"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	manager  *lifecycle.Manager
	now      Clock
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, manager *lifecycle.Manager, clock Clock, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		manager:  manager,
		now:      clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Import creates the project, its groups and its tasks in one transaction.
// Every entity passes through the same lifecycle rules as a direct create,
// so a plan either lands whole or not at all.
func (s *importService) Import(ctx context.Context, drafts *importer.Drafts) (out *ImportResult, err error) {
	fields := map[string]any{
		"name":        drafts.Project.Name,
		"group_count": len(drafts.Groups),
		"task_count":  len(drafts.Tasks),
	}
	defer track(ctx, s.observer, "import-project", time.Now(), fields, &err)

	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := s.manager.CreateProject(drafts.Project, now)
		if err != nil {
			return err
		}
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, &p); err != nil {
			return err
		}

		groupRepo := repository.NewSQLiteTaskGroupRepo(tx)
		groupIDs := make(map[string]string, len(drafts.Groups))
		var groups []domain.TaskGroup
		for _, gd := range drafts.Groups {
			draft := lifecycle.GroupDraft{Name: gd.Name}
			if gd.ParentRef != "" {
				draft.ParentID = domain.Ptr(groupIDs[gd.ParentRef])
			}
			g, err := s.manager.CreateGroup(p, draft, groups, now)
			if err != nil {
				return fmt.Errorf("group %s: %w", gd.Ref, err)
			}
			if err := groupRepo.Create(ctx, &g); err != nil {
				return err
			}
			groupIDs[gd.Ref] = g.ID
			groups = append(groups, g)
		}

		taskRepo := repository.NewSQLiteTaskRepo(tx)
		taskIDs := make(map[string]string, len(drafts.Tasks))
		var siblings []domain.Task
		for _, td := range drafts.Tasks {
			draft := td.Draft
			if td.GroupRef != "" {
				draft.GroupID = domain.Ptr(groupIDs[td.GroupRef])
			}
			for _, ref := range td.DependsOn {
				draft.Dependencies = append(draft.Dependencies, domain.CoalesceStr(taskIDs[ref], ref))
			}
			t, err := s.manager.CreateTask(p, draft, siblings, now)
			if err != nil {
				return fmt.Errorf("task %s: %w", td.Ref, err)
			}
			if err := taskRepo.Create(ctx, &t); err != nil {
				return err
			}
			taskIDs[td.Ref] = t.ID
			siblings = append(siblings, t)
		}

		fields["project_id"] = p.ID
		out = &ImportResult{Project: &p, Groups: groups, Tasks: siblings}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
