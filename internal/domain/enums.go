package domain

// Status is a workflow-governed state value. Tasks and tickets draw their
// statuses from independent workflow tables but share the representation.
type Status string

// Task statuses used by the default task workflow.
const (
	TaskTodo       Status = "todo"
	TaskInProgress Status = "in-progress"
	TaskBlocked    Status = "blocked"
	TaskDone       Status = "done"
	TaskCancelled  Status = "cancelled"
)

// Ticket statuses used by the default ticket workflow.
const (
	TicketOpen       Status = "open"
	TicketInProgress Status = "in-progress"
	TicketWaiting    Status = "waiting"
	TicketResolved   Status = "resolved"
	TicketClosed     Status = "closed"
)

type ProjectStatus string

const (
	ProjectDraft    ProjectStatus = "draft"
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[Priority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityUrgent: true,
}

type TicketType string

const (
	TicketBug      TicketType = "bug"
	TicketFeature  TicketType = "feature"
	TicketSupport  TicketType = "support"
	TicketQuestion TicketType = "question"
)

// ValidTicketTypes is the canonical set of accepted ticket type strings.
var ValidTicketTypes = map[TicketType]bool{
	TicketBug: true, TicketFeature: true, TicketSupport: true, TicketQuestion: true,
}

type HealthStatus string

const (
	HealthGreen  HealthStatus = "green"
	HealthYellow HealthStatus = "yellow"
	HealthRed    HealthStatus = "red"
)
