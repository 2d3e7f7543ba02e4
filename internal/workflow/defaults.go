package workflow

import "github.com/alexanderramin/meridian/internal/domain"

// DefaultTaskConfig returns the built-in task workflow.
func DefaultTaskConfig() Config {
	return Config{
		Statuses: []domain.Status{
			domain.TaskTodo, domain.TaskInProgress, domain.TaskBlocked,
			domain.TaskDone, domain.TaskCancelled,
		},
		Transitions: map[domain.Status][]domain.Status{
			domain.TaskTodo:       {domain.TaskInProgress, domain.TaskBlocked, domain.TaskCancelled},
			domain.TaskInProgress: {domain.TaskTodo, domain.TaskBlocked, domain.TaskDone, domain.TaskCancelled},
			domain.TaskBlocked:    {domain.TaskTodo, domain.TaskInProgress, domain.TaskCancelled},
			domain.TaskDone:       {domain.TaskInProgress},
			domain.TaskCancelled:  {},
		},
		DefaultStatus:    domain.TaskTodo,
		CompletionStatus: domain.TaskDone,
	}
}

// DefaultTicketConfig returns the built-in ticket workflow. Resolved and
// closed are both terminal.
func DefaultTicketConfig() Config {
	return Config{
		Statuses: []domain.Status{
			domain.TicketOpen, domain.TicketInProgress, domain.TicketWaiting,
			domain.TicketResolved, domain.TicketClosed,
		},
		Transitions: map[domain.Status][]domain.Status{
			domain.TicketOpen:       {domain.TicketInProgress, domain.TicketWaiting, domain.TicketResolved, domain.TicketClosed},
			domain.TicketInProgress: {domain.TicketOpen, domain.TicketWaiting, domain.TicketResolved, domain.TicketClosed},
			domain.TicketWaiting:    {domain.TicketInProgress, domain.TicketResolved, domain.TicketClosed},
			domain.TicketResolved:   {},
			domain.TicketClosed:     {},
		},
		DefaultStatus:    domain.TicketOpen,
		CompletionStatus: domain.TicketResolved,
	}
}
