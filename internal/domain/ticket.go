package domain

import "time"

type Ticket struct {
	ID          string
	Type        TicketType
	Title       string
	Description string
	Status      Status
	Priority    Priority

	// Optional links
	ProjectID   *string
	TaskID      *string
	MilestoneID *string

	ReporterID string

	// Resolution fields are populated only by the resolved transition.
	Resolution string
	ResolvedBy string
	ResolvedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the ticket.
func (t Ticket) Clone() Ticket {
	out := t
	out.ProjectID = cloneString(t.ProjectID)
	out.TaskID = cloneString(t.TaskID)
	out.MilestoneID = cloneString(t.MilestoneID)
	out.ResolvedAt = cloneTime(t.ResolvedAt)
	return out
}

func (t Ticket) CurrentStatus() Status { return t.Status }

// WithStatus returns a copy of the ticket in the given status. A nil
// resolvedAt means the ticket is no longer resolved, so the resolution
// text and resolver are dropped along with the stamp.
func (t Ticket) WithStatus(status Status, resolvedAt *time.Time, now time.Time) Ticket {
	out := t.Clone()
	out.Status = status
	out.ResolvedAt = cloneTime(resolvedAt)
	if resolvedAt == nil {
		out.Resolution = ""
		out.ResolvedBy = ""
	}
	out.UpdatedAt = now
	return out
}

func (t *Ticket) DisplayID() string {
	return shortID(t.ID)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
