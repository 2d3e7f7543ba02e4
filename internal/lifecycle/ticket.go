package lifecycle

import (
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/workflow"
)

type TicketDraft struct {
	Type        domain.TicketType
	Title       string
	Description string
	Priority    domain.Priority
	ProjectID   *string
	TaskID      *string
	MilestoneID *string
	ReporterID  string
}

type TicketPatch struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	ProjectID   *string
	TaskID      *string
	MilestoneID *string
}

type Resolution struct {
	Text       string
	ResolvedBy string
}

func optionalRef(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// CreateTicket opens a client ticket. It fails with FeatureDisabled unless
// client ticketing is enabled.
func (m *Manager) CreateTicket(draft TicketDraft, now time.Time) (domain.Ticket, error) {
	if !m.settings.Features.ClientTicketingEnabled {
		return domain.Ticket{}, domain.FeatureDisabled(GateClientTicketing)
	}
	if !domain.ValidTicketTypes[draft.Type] {
		return domain.Ticket{}, domain.Validationf("unknown ticket type %q", draft.Type)
	}
	if err := requireText("ticket title", draft.Title); err != nil {
		return domain.Ticket{}, err
	}
	if err := requireText("reporter", draft.ReporterID); err != nil {
		return domain.Ticket{}, err
	}
	priority, err := resolvePriority(draft.Priority)
	if err != nil {
		return domain.Ticket{}, err
	}

	return domain.Ticket{
		ID:          m.newID(),
		Type:        draft.Type,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      m.settings.TicketWorkflow.DefaultStatus,
		Priority:    priority,
		ProjectID:   optionalRef(draft.ProjectID),
		TaskID:      optionalRef(draft.TaskID),
		MilestoneID: optionalRef(draft.MilestoneID),
		ReporterID:  draft.ReporterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TransitionTicket moves a ticket to any permitted status other than the
// resolution status, which needs ResolveTicket.
func (m *Manager) TransitionTicket(current domain.Ticket, next domain.Status, now time.Time) (domain.Ticket, error) {
	cfg := m.settings.TicketWorkflow
	if next == cfg.CompletionStatus && current.Status != next {
		return current, domain.Validationf("resolution required to move ticket to %s", next)
	}
	return workflow.Transition(current, next, cfg, now)
}

// ResolveTicket transitions the ticket into the resolution status and
// records who resolved it and how.
func (m *Manager) ResolveTicket(current domain.Ticket, res Resolution, now time.Time) (domain.Ticket, error) {
	cfg := m.settings.TicketWorkflow
	if current.Status == cfg.CompletionStatus {
		return current, domain.ImmutableState("ticket %s is already %s", current.ID, current.Status)
	}
	if err := requireText("resolution", res.Text); err != nil {
		return current, err
	}
	if err := requireText("resolver", res.ResolvedBy); err != nil {
		return current, err
	}

	next, err := workflow.Transition(current, cfg.CompletionStatus, cfg, now)
	if err != nil {
		return current, err
	}
	next.Resolution = res.Text
	next.ResolvedBy = res.ResolvedBy
	return next, nil
}

// UpdateTicket edits descriptive fields. Resolved and closed tickets are
// frozen.
func (m *Manager) UpdateTicket(current domain.Ticket, patch TicketPatch, now time.Time) (domain.Ticket, error) {
	if m.settings.TicketWorkflow.IsSettled(current.Status) {
		return current, domain.ImmutableState("ticket %s is %s", current.ID, current.Status)
	}
	next := current.Clone()
	if patch.Title != nil {
		if err := requireText("ticket title", *patch.Title); err != nil {
			return current, err
		}
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Priority != nil {
		priority, err := resolvePriority(*patch.Priority)
		if err != nil {
			return current, err
		}
		next.Priority = priority
	}
	if patch.ProjectID != nil {
		next.ProjectID = optionalRef(patch.ProjectID)
	}
	if patch.TaskID != nil {
		next.TaskID = optionalRef(patch.TaskID)
	}
	if patch.MilestoneID != nil {
		next.MilestoneID = optionalRef(patch.MilestoneID)
	}
	next.UpdatedAt = now
	return next, nil
}
