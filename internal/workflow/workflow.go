// Package workflow validates and applies status transitions against a
// declarative transition table. Everything here is a pure function of the
// current status, the target status, and the supplied Config.
package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

// Config is one entity type's workflow table. Statuses is ordered for
// display. A status mapped to an empty set is terminal.
type Config struct {
	Statuses         []domain.Status
	Transitions      map[domain.Status][]domain.Status
	DefaultStatus    domain.Status
	CompletionStatus domain.Status
}

// Stateful is satisfied by entity value types whose status is governed by a
// workflow. WithStatus must return a new value and leave the receiver intact.
type Stateful[T any] interface {
	CurrentStatus() domain.Status
	WithStatus(status domain.Status, completedAt *time.Time, now time.Time) T
}

// CanTransition reports whether current -> next is permitted. Staying in the
// same status is always permitted, terminal statuses included.
func (c Config) CanTransition(current, next domain.Status) bool {
	if current == next {
		return true
	}
	return slices.Contains(c.Transitions[current], next)
}

// IsTerminal reports whether s has no outgoing transitions.
func (c Config) IsTerminal(s domain.Status) bool {
	return len(c.Transitions[s]) == 0
}

// IsSettled reports whether s is the completion status or terminal. Settled
// work no longer counts toward schedule risk.
func (c Config) IsSettled(s domain.Status) bool {
	return s == c.CompletionStatus || c.IsTerminal(s)
}

// Next returns the statuses reachable from s in one step.
func (c Config) Next(s domain.Status) []domain.Status {
	return slices.Clone(c.Transitions[s])
}

// HasStatus reports whether s is declared by the workflow.
func (c Config) HasStatus(s domain.Status) bool {
	return slices.Contains(c.Statuses, s)
}

// Validate checks the table is internally consistent: no duplicate
// statuses, every referenced status declared, and the default and
// completion statuses present.
func (c Config) Validate() error {
	if len(c.Statuses) == 0 {
		return domain.Validationf("workflow declares no statuses")
	}
	seen := make(map[domain.Status]bool, len(c.Statuses))
	for _, s := range c.Statuses {
		if s == "" {
			return domain.Validationf("workflow status must not be empty")
		}
		if seen[s] {
			return domain.Validationf("duplicate workflow status %q", s)
		}
		seen[s] = true
	}
	for from, targets := range c.Transitions {
		if !seen[from] {
			return domain.Validationf("transition from undeclared status %q", from)
		}
		for _, to := range targets {
			if !seen[to] {
				return domain.Validationf("transition %s -> %s targets undeclared status", from, to)
			}
		}
	}
	if !seen[c.DefaultStatus] {
		return domain.Validationf("default status %q is not declared", c.DefaultStatus)
	}
	if !seen[c.CompletionStatus] {
		return domain.Validationf("completion status %q is not declared", c.CompletionStatus)
	}
	return nil
}

// Transition moves entity to next. Entering the completion status stamps
// now as the completion time; any other target clears the stamp. A
// same-status request returns entity unchanged. On failure the original
// entity is returned with an InvalidTransition error.
func Transition[T Stateful[T]](entity T, next domain.Status, cfg Config, now time.Time) (T, error) {
	current := entity.CurrentStatus()
	if !cfg.CanTransition(current, next) {
		return entity, domain.InvalidTransition(current, next)
	}
	if current == next {
		return entity, nil
	}
	var stamp *time.Time
	if next == cfg.CompletionStatus {
		stamp = &now
	}
	return entity.WithStatus(next, stamp, now), nil
}

// String renders the table one status per line, mostly for debugging.
func (c Config) String() string {
	var b strings.Builder
	for _, s := range c.Statuses {
		fmt.Fprintf(&b, "%s -> %v\n", s, c.Transitions[s])
	}
	return b.String()
}
