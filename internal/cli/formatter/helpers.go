package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueStyled renders a due date relative to now, red when overdue or within
// two days and yellow within a week.
func DueStyled(due *time.Time, now time.Time) string {
	if due == nil {
		return Dim("--")
	}
	text := RelativeDateFrom(*due, now)
	days := int(math.Round(due.Sub(now).Hours() / 24))
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// Date renders a calendar date such as "2024-03-01", or "--" for zero.
func Date(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format(time.DateOnly)
}

// Money renders an amount with thousands separators and two decimals.
func Money(amount float64) string {
	if amount < 0 {
		return "-" + humanize.FormatFloat("#,###.##", -amount)
	}
	return humanize.FormatFloat("#,###.##", amount)
}

// ProjectStatusPill returns a colored status indicator for project status.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectDraft:
		return StyleBlue.Render("○ Draft")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// StatusPill renders a task or ticket status. Workflows are configurable, so
// unknown statuses fall back to their plain name.
func StatusPill(status domain.Status) string {
	switch status {
	case domain.TaskTodo, domain.TicketOpen:
		return StyleBlue.Render("○ " + string(status))
	case domain.TaskInProgress:
		return StyleGreen.Render("● " + string(status))
	case domain.TaskBlocked, domain.TicketWaiting:
		return StyleYellow.Render("◌ " + string(status))
	case domain.TaskDone, domain.TicketResolved:
		return StyleDim.Render("✔ " + string(status))
	case domain.TaskCancelled, domain.TicketClosed:
		return StyleDim.Render("✖ " + string(status))
	default:
		return StyleFg.Render(string(status))
	}
}

// PriorityBadge colors a priority by urgency.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityUrgent:
		return StyleRed.Render(string(p))
	case domain.PriorityHigh:
		return StyleYellow.Render(string(p))
	case domain.PriorityMedium:
		return StyleFg.Render(string(p))
	case domain.PriorityLow:
		return StyleDim.Render(string(p))
	default:
		return StyleDim.Render("--")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Optional renders *s or a dimmed placeholder.
func Optional(s *string) string {
	if s == nil || *s == "" {
		return Dim("--")
	}
	return *s
}
