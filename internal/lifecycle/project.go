package lifecycle

import (
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/ledger"
)

type ProjectDraft struct {
	Name            string
	ClientID        string
	StartDate       time.Time
	EndDate         time.Time
	BudgetAllocated float64
	TeamIDs         []string
	Deliverables    []domain.Deliverable
}

// ProjectPatch lists optional changes; nil fields are left as they are.
type ProjectPatch struct {
	Name            *string
	ClientID        *string
	StartDate       *time.Time
	EndDate         *time.Time
	BudgetAllocated *float64
	TeamIDs         *[]string
	Deliverables    *[]domain.Deliverable
}

type ExpenseDraft struct {
	Category    string
	Amount      float64
	Date        time.Time
	Description string
}

type AllocationDraft struct {
	TeamID      string
	MonthlyRate float64
	StartDate   time.Time
	EndDate     *time.Time
}

func validateProjectWindow(start, end time.Time) error {
	if !start.Before(end) {
		return domain.Validationf("start date %s must be before end date %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}

func validateBudget(budget float64) error {
	if !(budget > 0) {
		return domain.Validationf("budget must be positive, got %v", budget)
	}
	return nil
}

func (m *Manager) normalizeDeliverables(in []domain.Deliverable) ([]domain.Deliverable, error) {
	out := make([]domain.Deliverable, 0, len(in))
	for _, d := range in {
		if err := requireText("deliverable title", d.Title); err != nil {
			return nil, err
		}
		if d.ID == "" {
			d.ID = m.newID()
		}
		out = append(out, d)
	}
	return out, nil
}

// CreateProject validates the draft and returns an active project with
// empty ledgers.
func (m *Manager) CreateProject(draft ProjectDraft, now time.Time) (domain.Project, error) {
	if err := requireText("project name", draft.Name); err != nil {
		return domain.Project{}, err
	}
	if err := validateProjectWindow(draft.StartDate, draft.EndDate); err != nil {
		return domain.Project{}, err
	}
	if err := validateBudget(draft.BudgetAllocated); err != nil {
		return domain.Project{}, err
	}
	deliverables, err := m.normalizeDeliverables(draft.Deliverables)
	if err != nil {
		return domain.Project{}, err
	}

	return domain.Project{
		ID:                  m.newID(),
		Name:                draft.Name,
		ClientID:            draft.ClientID,
		Status:              domain.ProjectActive,
		StartDate:           draft.StartDate,
		EndDate:             draft.EndDate,
		BudgetAllocated:     draft.BudgetAllocated,
		Expenses:            []domain.BudgetExpense{},
		ResourceAllocations: []domain.ResourceAllocation{},
		Deliverables:        deliverables,
		TeamIDs:             dedupe(draft.TeamIDs),
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func checkMutable(p domain.Project) error {
	if p.IsArchived() {
		return domain.ImmutableState("project %s is archived", p.ID)
	}
	return nil
}

// UpdateProject applies patch to current. Archived projects reject every
// update. Dates are re-validated when either changes.
func (m *Manager) UpdateProject(current domain.Project, patch ProjectPatch, now time.Time) (domain.Project, error) {
	if err := checkMutable(current); err != nil {
		return current, err
	}
	next := current.Clone()

	if patch.Name != nil {
		if err := requireText("project name", *patch.Name); err != nil {
			return current, err
		}
		next.Name = *patch.Name
	}
	if patch.ClientID != nil {
		next.ClientID = *patch.ClientID
	}
	if patch.StartDate != nil || patch.EndDate != nil {
		next.StartDate = domain.ValueOr(patch.StartDate, next.StartDate)
		next.EndDate = domain.ValueOr(patch.EndDate, next.EndDate)
		if err := validateProjectWindow(next.StartDate, next.EndDate); err != nil {
			return current, err
		}
	}
	if patch.BudgetAllocated != nil {
		if err := validateBudget(*patch.BudgetAllocated); err != nil {
			return current, err
		}
		next.BudgetAllocated = *patch.BudgetAllocated
	}
	if patch.TeamIDs != nil {
		next.TeamIDs = dedupe(*patch.TeamIDs)
	}
	if patch.Deliverables != nil {
		deliverables, err := m.normalizeDeliverables(*patch.Deliverables)
		if err != nil {
			return current, err
		}
		next.Deliverables = deliverables
	}

	next.UpdatedAt = now
	return next, nil
}

// ArchiveProject moves an active project to archived.
func (m *Manager) ArchiveProject(current domain.Project, now time.Time) (domain.Project, error) {
	switch current.Status {
	case domain.ProjectActive:
	case domain.ProjectArchived:
		return current, domain.ImmutableState("project %s is already archived", current.ID)
	default:
		return current, domain.InvalidTransition(domain.Status(current.Status), domain.Status(domain.ProjectArchived))
	}
	next := current.Clone()
	next.Status = domain.ProjectArchived
	next.ArchivedAt = &now
	next.UpdatedAt = now
	return next, nil
}

// DeleteProject permits deletion of archived projects only.
func (m *Manager) DeleteProject(current domain.Project) error {
	if !current.IsArchived() {
		return domain.InvalidTransition(domain.Status(current.Status), "deleted")
	}
	return nil
}

// RecordExpense appends a manual expense to the project ledger.
func (m *Manager) RecordExpense(current domain.Project, draft ExpenseDraft, now time.Time) (domain.Project, error) {
	if err := checkMutable(current); err != nil {
		return current, err
	}
	if err := requireText("expense category", draft.Category); err != nil {
		return current, err
	}
	if draft.Amount < 0 {
		return current, domain.Validationf("expense amount must not be negative, got %v", draft.Amount)
	}
	if draft.Date.IsZero() {
		return current, domain.Validationf("expense date is required")
	}

	next := current.Clone()
	next.Expenses = append(next.Expenses, domain.BudgetExpense{
		ID:          m.newID(),
		Category:    draft.Category,
		Amount:      draft.Amount,
		Date:        draft.Date,
		Description: draft.Description,
	})
	next.UpdatedAt = now
	return next, nil
}

// AddAllocation commits a recurring monthly cost to the project.
func (m *Manager) AddAllocation(current domain.Project, draft AllocationDraft, now time.Time) (domain.Project, error) {
	if err := checkMutable(current); err != nil {
		return current, err
	}
	if err := requireText("team", draft.TeamID); err != nil {
		return current, err
	}
	if draft.MonthlyRate < 0 {
		return current, domain.Validationf("monthly rate must not be negative, got %v", draft.MonthlyRate)
	}
	if draft.StartDate.IsZero() {
		return current, domain.Validationf("allocation start date is required")
	}
	if draft.EndDate != nil && !draft.EndDate.After(draft.StartDate) {
		return current, domain.Validationf("allocation end date must be after its start date")
	}

	next := current.Clone()
	alloc := domain.ResourceAllocation{
		ID:          m.newID(),
		TeamID:      draft.TeamID,
		MonthlyRate: draft.MonthlyRate,
		StartDate:   draft.StartDate,
	}
	if draft.EndDate != nil {
		end := *draft.EndDate
		alloc.EndDate = &end
	}
	next.ResourceAllocations = append(next.ResourceAllocations, alloc)
	next.UpdatedAt = now
	return next, nil
}

// CloseAllocation bounds an open-ended allocation at end. An allocation can
// be closed once.
func (m *Manager) CloseAllocation(current domain.Project, allocationID string, end time.Time, now time.Time) (domain.Project, error) {
	if err := checkMutable(current); err != nil {
		return current, err
	}
	idx := current.AllocationIndex(allocationID)
	if idx < 0 {
		return current, domain.NotFound("allocation", allocationID)
	}
	if current.ResourceAllocations[idx].EndDate != nil {
		return current, domain.ImmutableState("allocation %s is already closed", allocationID)
	}
	if !end.After(current.ResourceAllocations[idx].StartDate) {
		return current, domain.Validationf("allocation end date must be after its start date")
	}

	next := current.Clone()
	next.ResourceAllocations[idx].EndDate = &end
	next.UpdatedAt = now
	return next, nil
}

// ProjectHealth summarizes spend and health using the task workflow to
// decide which tasks are still open.
func (m *Manager) ProjectHealth(p domain.Project, tasks []domain.Task, asOf time.Time) ledger.Summary {
	return ledger.Summarize(&p, tasks, asOf, m.settings.TaskWorkflow)
}
