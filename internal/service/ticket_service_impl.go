package service

import (
	"context"
	"time"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/repository"
)

type ticketService struct {
	uow      db.UnitOfWork
	manager  *lifecycle.Manager
	now      Clock
	observer UseCaseObserver
}

func NewTicketService(uow db.UnitOfWork, manager *lifecycle.Manager, clock Clock, observers ...UseCaseObserver) TicketService {
	return &ticketService{
		uow:      uow,
		manager:  manager,
		now:      clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *ticketService) Create(ctx context.Context, draft lifecycle.TicketDraft) (out *domain.Ticket, err error) {
	fields := map[string]any{"type": string(draft.Type)}
	defer track(ctx, s.observer, "create-ticket", time.Now(), fields, &err)

	t, err := s.manager.CreateTicket(draft, s.now())
	if err != nil {
		return nil, err
	}
	fields["ticket_id"] = t.ID
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTicketRepo(tx).Create(ctx, &t)
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *ticketService) GetByID(ctx context.Context, id string) (t *domain.Ticket, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		t, err = repository.NewSQLiteTicketRepo(tx).GetByID(ctx, id)
		return err
	})
	return t, err
}

func (s *ticketService) List(ctx context.Context, filter repository.TicketFilter) (out []*domain.Ticket, err error) {
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		out, err = repository.NewSQLiteTicketRepo(tx).List(ctx, filter)
		return err
	})
	return out, err
}

func (s *ticketService) mutate(ctx context.Context, name, id string,
	fn func(current domain.Ticket, now time.Time) (domain.Ticket, error)) (out *domain.Ticket, err error) {
	fields := map[string]any{"ticket_id": id}
	defer track(ctx, s.observer, name, time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTicketRepo(tx)
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
		fields["status"] = string(next.Status)
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ticketService) Update(ctx context.Context, id string, patch lifecycle.TicketPatch) (*domain.Ticket, error) {
	return s.mutate(ctx, "update-ticket", id, func(current domain.Ticket, now time.Time) (domain.Ticket, error) {
		return s.manager.UpdateTicket(current, patch, now)
	})
}

func (s *ticketService) Transition(ctx context.Context, id string, status domain.Status) (*domain.Ticket, error) {
	return s.mutate(ctx, "transition-ticket", id, func(current domain.Ticket, now time.Time) (domain.Ticket, error) {
		return s.manager.TransitionTicket(current, status, now)
	})
}

func (s *ticketService) Resolve(ctx context.Context, id string, res lifecycle.Resolution) (*domain.Ticket, error) {
	return s.mutate(ctx, "resolve-ticket", id, func(current domain.Ticket, now time.Time) (domain.Ticket, error) {
		return s.manager.ResolveTicket(current, res, now)
	})
}
