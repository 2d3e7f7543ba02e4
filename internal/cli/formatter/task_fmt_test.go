package formatter

import (
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/scheduler"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatTaskList(t *testing.T) {
	groupID := "group-0001-xyz"
	a := testutil.NewTestTask("p1", "Design schema", testutil.WithTaskStatus(domain.TaskDone))
	a.ID = "aaaaaaaa-1111"
	b := testutil.NewTestTask("p1", "Write migrations",
		testutil.WithDependencies(a.ID),
		testutil.WithGroup(groupID),
		testutil.WithPriority(domain.PriorityHigh),
	)

	out := stripped(FormatTaskList("Tasks", []domain.Task{*a, *b}, map[string]string{groupID: "Backend"}, testutil.Epoch))

	assert.Contains(t, out, "TASKS")
	assert.Contains(t, out, "Write migrations")
	assert.Contains(t, out, "Backend")
	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "✔ done")
}

func TestFormatTaskList_Empty(t *testing.T) {
	out := stripped(FormatTaskList("Ready", nil, nil, testutil.Epoch))
	assert.Contains(t, out, "No tasks.")
}

func TestFormatTicket_ShowsResolution(t *testing.T) {
	tk := testutil.NewTestTicket("Login fails", testutil.WithTicketStatus(domain.TicketResolved))
	at := testutil.Date(2024, 5, 2)
	tk.Resolution = "Rotated the signing key"
	tk.ResolvedBy = "sam"
	tk.ResolvedAt = &at

	out := stripped(FormatTicket(tk))
	assert.Contains(t, out, "RESOLUTION")
	assert.Contains(t, out, "Rotated the signing key")
	assert.Contains(t, out, "by sam on 2024-05-02")

	list := stripped(FormatTicketList([]*domain.Ticket{tk}))
	assert.Contains(t, list, "Login fails")
	assert.Contains(t, list, "resolved")
}

func TestFormatNext(t *testing.T) {
	now := testutil.Date(2024, 3, 1)
	task := testutil.NewTestTask("p1", "Fix checkout",
		testutil.WithSchedule(testutil.Date(2024, 2, 20), testutil.Date(2024, 3, 2)),
		testutil.WithPriority(domain.PriorityUrgent))
	ranked := scheduler.Rank([]scheduler.Candidate{
		{Task: *task, ProjectName: "Shop", ProjectHealth: domain.HealthRed},
	}, now, scheduler.DefaultWeights(), 0)

	out := stripped(FormatNext(ranked, now))

	assert.Contains(t, out, "NEXT")
	assert.Contains(t, out, "Fix checkout")
	assert.Contains(t, out, "Shop")
	assert.Contains(t, out, "● RED")
	assert.Contains(t, out, "Due tomorrow")
	assert.Contains(t, out, "Project health is red")
}

func TestFormatNext_Empty(t *testing.T) {
	assert.Contains(t, stripped(FormatNext(nil, testutil.Epoch)), "Nothing is ready.")
}
