package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/domain"
)

func FormatTicketList(tickets []*domain.Ticket) string {
	headers := []string{"ID", "TYPE", "TITLE", "STATUS", "PRIORITY", "PROJECT", "REPORTER"}
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		project := Dim("--")
		if t.ProjectID != nil {
			project = TruncID(*t.ProjectID)
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			StylePurple.Render(string(t.Type)),
			Bold(t.Title),
			StatusPill(t.Status),
			PriorityBadge(t.Priority),
			project,
			t.ReporterID,
		})
	}
	return RenderBox("Tickets", RenderTable(headers, rows))
}

// FormatTicket renders a single ticket, including its resolution when set.
func FormatTicket(t *domain.Ticket) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleBold.Render(t.Title), StatusPill(t.Status)))
	b.WriteString(Dim(fmt.Sprintf("%s · %s · reported by %s", t.ID, t.Type, t.ReporterID)) + "\n")
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}
	if t.ResolvedAt != nil {
		b.WriteString("\n" + Header("Resolution") + "\n")
		b.WriteString(t.Resolution + "\n")
		b.WriteString(Dim(fmt.Sprintf("by %s on %s", t.ResolvedBy, Date(*t.ResolvedAt))) + "\n")
	}
	return b.String()
}
