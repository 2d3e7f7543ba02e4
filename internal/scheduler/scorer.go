// Package scheduler ranks tasks that are ready to start so the most pressing
// work across projects surfaces first.
package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
)

type Weights struct {
	DeadlinePressure float64
	ProjectHealth    float64
	Priority         float64
}

func DefaultWeights() Weights {
	return Weights{
		DeadlinePressure: 1.0,
		ProjectHealth:    0.8,
		Priority:         0.5,
	}
}

type ReasonCode string

const (
	ReasonDeadlinePressure ReasonCode = "DEADLINE_PRESSURE"
	ReasonProjectHealth    ReasonCode = "PROJECT_HEALTH"
	ReasonPriority         ReasonCode = "PRIORITY"
)

type Reason struct {
	Code    ReasonCode
	Message string
	Delta   float64
}

// Candidate is a ready task together with the project context it is scored in.
type Candidate struct {
	Task          domain.Task
	ProjectName   string
	ProjectHealth domain.HealthStatus
}

type Scored struct {
	Candidate
	Score   float64
	Reasons []Reason
}

// Deadline is the due date when set, else the scheduled end.
func (c Candidate) Deadline() time.Time {
	if c.Task.DueDate != nil {
		return *c.Task.DueDate
	}
	return c.Task.EndDate
}

func Score(c Candidate, now time.Time, w Weights) Scored {
	out := Scored{Candidate: c}
	factors := []func(Candidate, time.Time, Weights) (float64, *Reason){
		scoreDeadlinePressure,
		scoreProjectHealth,
		scorePriority,
	}
	for _, f := range factors {
		delta, reason := f(c, now, w)
		out.Score += delta
		if reason != nil {
			out.Reasons = append(out.Reasons, *reason)
		}
	}
	return out
}

func daysUntil(deadline, now time.Time) int {
	return int(deadline.Sub(now).Hours() / 24)
}

func scoreDeadlinePressure(c Candidate, now time.Time, w Weights) (float64, *Reason) {
	days := daysUntil(c.Deadline(), now)
	var pressure float64
	switch {
	case days <= 0:
		pressure = 100.0
	case days <= 3:
		pressure = 80.0 / float64(days)
	case days <= 7:
		pressure = 40.0 / float64(days)
	case days <= 14:
		pressure = 20.0 / float64(days)
	default:
		pressure = 10.0 / float64(days)
	}
	delta := pressure * w.DeadlinePressure
	return delta, &Reason{Code: ReasonDeadlinePressure, Message: deadlineMessage(days), Delta: delta}
}

func deadlineMessage(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("Overdue by %d day(s)", -days)
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("Due in %d days", days)
	}
}

func scoreProjectHealth(c Candidate, _ time.Time, w Weights) (float64, *Reason) {
	switch c.ProjectHealth {
	case domain.HealthRed:
		delta := 30.0 * w.ProjectHealth
		return delta, &Reason{Code: ReasonProjectHealth, Message: "Project health is red", Delta: delta}
	case domain.HealthYellow:
		delta := 15.0 * w.ProjectHealth
		return delta, &Reason{Code: ReasonProjectHealth, Message: "Project health is yellow", Delta: delta}
	default:
		return 0, nil
	}
}

var priorityPoints = map[domain.Priority]float64{
	domain.PriorityUrgent: 30,
	domain.PriorityHigh:   20,
	domain.PriorityMedium: 10,
	domain.PriorityLow:    0,
}

func scorePriority(c Candidate, _ time.Time, w Weights) (float64, *Reason) {
	points := priorityPoints[c.Task.Priority]
	if points == 0 {
		return 0, nil
	}
	delta := points * w.Priority
	return delta, &Reason{Code: ReasonPriority, Message: fmt.Sprintf("Priority %s", c.Task.Priority), Delta: delta}
}
