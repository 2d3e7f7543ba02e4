package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/ledger"
	"github.com/charmbracelet/lipgloss"
)

const budgetBarWidth = 20

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "CLIENT", "STATUS", "WINDOW", "BUDGET"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := TruncID(p.ID)
		if strings.TrimSpace(p.ID) == "" {
			id = Dim("--")
		}
		client := p.ClientID
		if client == "" {
			client = Dim("--")
		}
		rows = append(rows, []string{
			id,
			Bold(p.Name),
			StylePurple.Render(client),
			ProjectStatusPill(p.Status),
			Date(p.StartDate) + " → " + Date(p.EndDate),
			Money(p.BudgetAllocated),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows, AlignRight(5)))
}

// FormatProjectDetail renders a project card: metadata on the left, the
// ledger entries on the right.
func FormatProjectDetail(p *domain.Project, now time.Time) string {
	left := projectMetadataPanel(p, now)
	right := projectLedgerPanel(p)
	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func projectMetadataPanel(p *domain.Project, now time.Time) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value))
	}
	field("STATUS", ProjectStatusPill(p.Status))
	field("ID", Dim(p.ID))
	if p.ClientID != "" {
		field("CLIENT", StylePurple.Render(p.ClientID))
	}
	field("START", StyleFg.Render(Date(p.StartDate)))
	field("END", StyleFg.Render(Date(p.EndDate)))
	field("BUDGET", StyleFg.Render(Money(p.BudgetAllocated)))
	if len(p.TeamIDs) > 0 {
		field("TEAMS", strings.Join(p.TeamIDs, ", "))
	}
	if p.ArchivedAt != nil {
		field("ARCHIVED", Dim(p.ArchivedAt.Format(time.DateOnly)))
	}

	if len(p.Deliverables) > 0 {
		b.WriteString("\n" + Header("Deliverables") + "\n")
		for _, d := range p.Deliverables {
			mark := StyleBlue.Render("○")
			if d.Done {
				mark = StyleDim.Render("✔")
			}
			b.WriteString(fmt.Sprintf("%s %s  %s\n", mark, d.Title, DueStyled(d.DueDate, now)))
		}
	}
	return b.String()
}

func projectLedgerPanel(p *domain.Project) string {
	var b strings.Builder

	b.WriteString(Header("Expenses") + "\n")
	if len(p.Expenses) == 0 {
		b.WriteString(Dim("none") + "\n")
	} else {
		rows := make([][]string, 0, len(p.Expenses))
		for _, e := range p.Expenses {
			rows = append(rows, []string{Date(e.Date), e.Category, Money(e.Amount), Dim(e.Description)})
		}
		b.WriteString(RenderTable([]string{"DATE", "CATEGORY", "AMOUNT", "NOTE"}, rows, AlignRight(2)))
	}

	b.WriteString("\n" + Header("Allocations") + "\n")
	if len(p.ResourceAllocations) == 0 {
		b.WriteString(Dim("none") + "\n")
	} else {
		rows := make([][]string, 0, len(p.ResourceAllocations))
		for _, a := range p.ResourceAllocations {
			end := StyleGreen.Render("open")
			if a.EndDate != nil {
				end = Date(*a.EndDate)
			}
			rows = append(rows, []string{TruncID(a.ID), a.TeamID, Money(a.MonthlyRate) + "/mo", Date(a.StartDate), end})
		}
		b.WriteString(RenderTable([]string{"ID", "TEAM", "RATE", "FROM", "TO"}, rows, AlignRight(2)))
	}
	return b.String()
}

var reasonText = map[ledger.HealthReason]string{
	ledger.ReasonOverBudget:       "spend has reached the allocated budget",
	ledger.ReasonNearBudget:       "spend is close to the allocated budget",
	ledger.ReasonOverdueTasks:     "open tasks are past their due date",
	ledger.ReasonProjectedOverrun: "current burn would exceed the budget by the end date",
	ledger.ReasonOnTrack:          "on track",
}

// FormatHealth renders a ledger summary for a project as of asOf.
func FormatHealth(p *domain.Project, s ledger.Summary, asOf time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", StyleBold.Render(p.Name), HealthIndicator(s.Health)))
	reason := reasonText[s.Reason]
	if reason == "" {
		reason = string(s.Reason)
	}
	b.WriteString(Dim(reason+" · as of "+asOf.Format(time.DateOnly)) + "\n\n")

	b.WriteString(RenderBudgetBar(s.SpentRatio, budgetBarWidth) + "\n\n")

	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-16s", label)), value))
	}
	line("Budget", Money(p.BudgetAllocated))
	line("Expenses", Money(s.ExpenseTotal))
	line("Accrued", Money(s.AccruedTotal))
	line("Total spend", StyleBold.Render(Money(s.TotalSpend)))
	remaining := Money(s.RemainingBudget)
	if s.RemainingBudget < 0 {
		remaining = StyleRed.Render(remaining)
	}
	line("Remaining", remaining)
	line("Monthly burn", Money(s.MonthlyBurn))
	line("Months left", fmt.Sprintf("%d", s.MonthsRemaining))
	projected := Money(s.ProjectedFinalSpend)
	if s.ProjectedFinalSpend > p.BudgetAllocated {
		projected = StyleYellow.Render(projected)
	}
	line("Projected final", projected)

	if len(s.OverdueTaskIDs) > 0 {
		ids := make([]string, 0, len(s.OverdueTaskIDs))
		for _, id := range s.OverdueTaskIDs {
			ids = append(ids, TruncID(id))
		}
		line("Overdue tasks", strings.Join(ids, " "))
	}

	return RenderBox("Health", b.String())
}
