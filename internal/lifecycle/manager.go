// Package lifecycle orchestrates creation, update, and deletion of projects,
// tasks, and tickets. Every operation takes the current snapshot (and the
// sibling collection it must be validated against) plus an explicit clock
// reading, and returns a new value or a single typed failure from the
// domain package. Inputs are never modified.
package lifecycle

import (
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/workflow"
	"github.com/google/uuid"
)

// GateClientTicketing is the feature gate that enables ticket creation.
const GateClientTicketing = "clientTicketingEnabled"

type Features struct {
	ClientTicketingEnabled bool
}

// Settings is everything a Manager reads that would otherwise be ambient
// global state.
type Settings struct {
	TaskWorkflow   workflow.Config
	TicketWorkflow workflow.Config
	Features       Features
}

// DefaultSettings uses the built-in workflows with every gate closed.
func DefaultSettings() Settings {
	return Settings{
		TaskWorkflow:   workflow.DefaultTaskConfig(),
		TicketWorkflow: workflow.DefaultTicketConfig(),
	}
}

// Manager applies business rules. It holds only its configuration, so a
// Manager may be shared, but constructing one per request is cheap.
type Manager struct {
	settings Settings
	newID    func() string
}

type Option func(*Manager)

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

func NewManager(settings Settings, opts ...Option) *Manager {
	m := &Manager{
		settings: settings,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Settings() Settings {
	return m.settings
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Validationf("%s is required", field)
	}
	return nil
}

func resolvePriority(p domain.Priority) (domain.Priority, error) {
	if p == "" {
		return domain.PriorityMedium, nil
	}
	if !domain.ValidPriorities[p] {
		return "", domain.Validationf("unknown priority %q", p)
	}
	return p, nil
}

func dedupe(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
