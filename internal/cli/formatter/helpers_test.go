package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{13500, "13,500.00"},
		{1234567.891, "1,234,567.89"},
		{-2500.5, "-2,500.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in), "Money(%v)", tt.in)
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "--", Date(time.Time{}))
	assert.Equal(t, "2024-03-01", Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDueStyled(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	assert.Contains(t, DueStyled(nil, now), "--")

	past := now.AddDate(0, 0, -3)
	assert.Contains(t, DueStyled(&past, now), "3d ago")
}

func TestStatusPill_UnknownStatusFallsBackToName(t *testing.T) {
	assert.Contains(t, StatusPill("qa-review"), "qa-review")
	assert.Contains(t, StatusPill(domain.TaskDone), "done")
}

func TestPriorityBadge(t *testing.T) {
	assert.Contains(t, PriorityBadge(domain.PriorityUrgent), "urgent")
	assert.Contains(t, PriorityBadge(""), "--")
}

func TestHealthIndicator(t *testing.T) {
	assert.Contains(t, HealthIndicator(domain.HealthYellow), "YELLOW")
	assert.Contains(t, HealthIndicator(""), "UNKNOWN")
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdef12", stripped(TruncID("abcdef12-3456")))
	assert.Equal(t, "short", stripped(TruncID("short")))
}

func TestRenderBudgetBar(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		pct   string
	}{
		{"empty", 0, "  0%"},
		{"half", 0.5, " 50%"},
		{"near budget", 0.9, " 90%"},
		{"over budget keeps true percentage", 1.25, "125%"},
		{"negative clamps the bar only", -0.1, "-10%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderBudgetBar(tt.ratio, 10)
			assert.Contains(t, got, tt.pct)
			assert.Equal(t, 10, countBlocks(stripped(got)))
		})
	}
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := stripped(RenderTable([]string{"A", "B"}, [][]string{{"wide cell"}, {"x", "y"}}))
	assert.Contains(t, out, "A          B")
	assert.Contains(t, out, "x          y")
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderTable_AlignRight(t *testing.T) {
	out := stripped(RenderTable([]string{"ITEM", "AMOUNT"}, [][]string{{"a", "5"}, {"b", "1,250"}}, AlignRight(1)))
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "ITEM  AMOUNT", lines[0])
	assert.Equal(t, "a          5", lines[2])
	assert.Equal(t, "b      1,250", lines[3])
}
