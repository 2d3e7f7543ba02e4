// Package ledger aggregates manual expenses and time-accrued resource costs
// into project spend, and classifies project health from spend and
// schedule slippage.
package ledger

import (
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/workflow"
)

// Health thresholds on spent/budget.
const (
	RedSpentRatio    = 1.0
	YellowSpentRatio = 0.85
)

// HealthReason names the rule that decided a classification.
type HealthReason string

const (
	ReasonOverBudget       HealthReason = "over_budget"
	ReasonNearBudget       HealthReason = "near_budget"
	ReasonOverdueTasks     HealthReason = "overdue_tasks"
	ReasonProjectedOverrun HealthReason = "projected_overrun"
	ReasonOnTrack          HealthReason = "on_track"
)

type Summary struct {
	ExpenseTotal        float64
	AccruedTotal        float64
	TotalSpend          float64
	RemainingBudget     float64
	SpentRatio          float64
	MonthlyBurn         float64
	MonthsRemaining     int
	ProjectedFinalSpend float64
	OverdueTaskIDs      []string
	Health              domain.HealthStatus
	Reason              HealthReason
}

// ExpenseTotal sums the manual expenses of p.
func ExpenseTotal(p *domain.Project) float64 {
	var total float64
	for _, e := range p.Expenses {
		total += e.Amount
	}
	return total
}

// AccruedTotal sums Accrue over every allocation of p as of asOf.
func AccruedTotal(p *domain.Project, asOf time.Time) float64 {
	window := ProjectWindow(p)
	var total float64
	for _, a := range p.ResourceAllocations {
		total += Accrue(a, window, asOf)
	}
	return total
}

func TotalSpend(p *domain.Project, asOf time.Time) float64 {
	return ExpenseTotal(p) + AccruedTotal(p, asOf)
}

// RemainingBudget may be negative once the project overspends.
func RemainingBudget(p *domain.Project, asOf time.Time) float64 {
	return p.BudgetAllocated - TotalSpend(p, asOf)
}

// MonthlyBurn sums the monthly rates of every allocation on p.
func MonthlyBurn(p *domain.Project) float64 {
	var burn float64
	for _, a := range p.ResourceAllocations {
		burn += a.MonthlyRate
	}
	return burn
}

// OverdueTasks returns the IDs of p's tasks that are still open under
// taskWorkflow and whose end date is before asOf.
func OverdueTasks(p *domain.Project, tasks []domain.Task, asOf time.Time, taskWorkflow workflow.Config) []string {
	var ids []string
	for _, t := range tasks {
		if t.ProjectID != p.ID || taskWorkflow.IsSettled(t.Status) {
			continue
		}
		if t.EndDate.Before(asOf) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Health classifies p. See Summarize for the rules.
func Health(p *domain.Project, tasks []domain.Task, asOf time.Time, taskWorkflow workflow.Config) domain.HealthStatus {
	return Summarize(p, tasks, asOf, taskWorkflow).Health
}

// Summarize computes p's financial position and health as of asOf. Rules
// are evaluated in order and the first match wins:
//
//  1. spent ratio >= 1.0: red
//  2. spent ratio >= 0.85, or any open task ends before asOf: yellow
//  3. spend projected to the project end date exceeds the budget: yellow
//  4. otherwise green
func Summarize(p *domain.Project, tasks []domain.Task, asOf time.Time, taskWorkflow workflow.Config) Summary {
	s := Summary{
		ExpenseTotal: ExpenseTotal(p),
		AccruedTotal: AccruedTotal(p, asOf),
		MonthlyBurn:  MonthlyBurn(p),
	}
	s.TotalSpend = s.ExpenseTotal + s.AccruedTotal
	s.RemainingBudget = p.BudgetAllocated - s.TotalSpend
	if p.BudgetAllocated > 0 {
		s.SpentRatio = s.TotalSpend / p.BudgetAllocated
	}
	s.MonthsRemaining = WholeMonths(asOf, p.EndDate)
	s.ProjectedFinalSpend = s.TotalSpend + s.MonthlyBurn*float64(s.MonthsRemaining)
	s.OverdueTaskIDs = OverdueTasks(p, tasks, asOf, taskWorkflow)

	switch {
	case s.SpentRatio >= RedSpentRatio:
		s.Health, s.Reason = domain.HealthRed, ReasonOverBudget
	case s.SpentRatio >= YellowSpentRatio:
		s.Health, s.Reason = domain.HealthYellow, ReasonNearBudget
	case len(s.OverdueTaskIDs) > 0:
		s.Health, s.Reason = domain.HealthYellow, ReasonOverdueTasks
	case s.ProjectedFinalSpend > p.BudgetAllocated:
		s.Health, s.Reason = domain.HealthYellow, ReasonProjectedOverrun
	default:
		s.Health, s.Reason = domain.HealthGreen, ReasonOnTrack
	}
	return s
}
