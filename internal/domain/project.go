package domain

import (
	"slices"
	"time"
)

type Project struct {
	ID              string
	Name            string
	ClientID        string
	Status          ProjectStatus
	StartDate       time.Time
	EndDate         time.Time
	BudgetAllocated float64

	// Ledgers
	Expenses            []BudgetExpense
	ResourceAllocations []ResourceAllocation

	Deliverables []Deliverable
	TeamIDs      []string

	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BudgetExpense is an append-only manual ledger entry.
type BudgetExpense struct {
	ID          string
	Category    string
	Amount      float64
	Date        time.Time
	Description string
}

// ResourceAllocation is a recurring monthly cost committed by a team.
// A nil EndDate means the allocation is open-ended.
type ResourceAllocation struct {
	ID          string
	TeamID      string
	MonthlyRate float64
	StartDate   time.Time
	EndDate     *time.Time
}

type Deliverable struct {
	ID      string
	Title   string
	DueDate *time.Time
	Done    bool
}

func (p *Project) IsArchived() bool {
	return p.Status == ProjectArchived
}

// Clone returns a deep copy so callers can derive a new snapshot without
// aliasing the ledgers of the original.
func (p Project) Clone() Project {
	out := p
	out.Expenses = slices.Clone(p.Expenses)
	out.ResourceAllocations = make([]ResourceAllocation, len(p.ResourceAllocations))
	for i, a := range p.ResourceAllocations {
		a.EndDate = cloneTime(a.EndDate)
		out.ResourceAllocations[i] = a
	}
	out.Deliverables = make([]Deliverable, len(p.Deliverables))
	for i, d := range p.Deliverables {
		d.DueDate = cloneTime(d.DueDate)
		out.Deliverables[i] = d
	}
	out.TeamIDs = slices.Clone(p.TeamIDs)
	out.ArchivedAt = cloneTime(p.ArchivedAt)
	return out
}

// AllocationIndex returns the index of the allocation with the given ID, or -1.
func (p *Project) AllocationIndex(id string) int {
	for i, a := range p.ResourceAllocations {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// DisplayID truncates ID to 8 characters for display.
func (p *Project) DisplayID() string {
	return shortID(p.ID)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
