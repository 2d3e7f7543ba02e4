package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/scheduler"
)

// FormatTaskList renders tasks with their dependency IDs. groups maps group
// ID to name and may be nil.
func FormatTaskList(title string, tasks []domain.Task, groups map[string]string, now time.Time) string {
	headers := []string{"ID", "TITLE", "STATUS", "PRIORITY", "GROUP", "DUE", "DEPENDS ON"}
	rows := make([][]string, 0, len(tasks))

	for _, t := range tasks {
		group := Dim("--")
		if t.GroupID != nil {
			if name, ok := groups[*t.GroupID]; ok {
				group = name
			} else {
				group = TruncID(*t.GroupID)
			}
		}
		deps := Dim("--")
		if len(t.Dependencies) > 0 {
			short := make([]string, 0, len(t.Dependencies))
			for _, d := range t.Dependencies {
				short = append(short, TruncID(d))
			}
			deps = strings.Join(short, " ")
		}
		due := DueStyled(t.DueDate, now)
		if t.CompletedAt != nil {
			due = Dim("done " + t.CompletedAt.Format(time.DateOnly))
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Title),
			StatusPill(t.Status),
			PriorityBadge(t.Priority),
			group,
			due,
			deps,
		})
	}

	if len(rows) == 0 {
		return RenderBox(title, Dim("No tasks."))
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatNext renders ranked ready tasks, most pressing first, with the
// reasons behind each score.
func FormatNext(ranked []scheduler.Scored, now time.Time) string {
	if len(ranked) == 0 {
		return RenderBox("Next", Dim("Nothing is ready."))
	}

	headers := []string{"#", "ID", "TITLE", "PROJECT", "HEALTH", "DEADLINE", "SCORE", "WHY"}
	rows := make([][]string, 0, len(ranked))
	for i, s := range ranked {
		deadline := s.Deadline()
		why := make([]string, 0, len(s.Reasons))
		for _, r := range s.Reasons {
			why = append(why, r.Message)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			TruncID(s.Task.ID),
			Bold(s.Task.Title),
			s.ProjectName,
			HealthIndicator(s.ProjectHealth),
			DueStyled(&deadline, now),
			fmt.Sprintf("%.1f", s.Score),
			Dim(strings.Join(why, "; ")),
		})
	}
	return RenderBox("Next", RenderTable(headers, rows, AlignRight(0, 6)))
}
