package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestProjectClone_DoesNotAliasLedgers(t *testing.T) {
	end := testNow.AddDate(0, 3, 0)
	p := Project{
		ID:                  "p1",
		Expenses:            []BudgetExpense{{ID: "e1", Amount: 10}},
		ResourceAllocations: []ResourceAllocation{{ID: "a1", MonthlyRate: 100, EndDate: &end}},
		TeamIDs:             []string{"team-a"},
	}

	c := p.Clone()
	c.Expenses[0].Amount = 99
	c.TeamIDs[0] = "team-b"
	*c.ResourceAllocations[0].EndDate = testNow

	assert.Equal(t, 10.0, p.Expenses[0].Amount)
	assert.Equal(t, "team-a", p.TeamIDs[0])
	assert.Equal(t, end, *p.ResourceAllocations[0].EndDate)
}

func TestProjectAllocationIndex(t *testing.T) {
	p := Project{ResourceAllocations: []ResourceAllocation{{ID: "a1"}, {ID: "a2"}}}
	assert.Equal(t, 1, p.AllocationIndex("a2"))
	assert.Equal(t, -1, p.AllocationIndex("missing"))
}

func TestDisplayID_Truncates(t *testing.T) {
	p := &Project{ID: "550e8400-e29b-41d4-a716-446655440000"}
	assert.Equal(t, "550e8400", p.DisplayID())
}

func TestDisplayID_ShortID(t *testing.T) {
	p := &Project{ID: "abc"}
	assert.Equal(t, "abc", p.DisplayID())
}

func TestTaskWithStatus_CopiesAndStamps(t *testing.T) {
	orig := Task{ID: "t1", Status: TaskInProgress, Dependencies: []string{"a"}}
	done := orig.WithStatus(TaskDone, &testNow, testNow)

	assert.Equal(t, TaskInProgress, orig.Status)
	assert.Nil(t, orig.CompletedAt)
	assert.Equal(t, TaskDone, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, testNow, *done.CompletedAt)
	assert.Equal(t, testNow, done.UpdatedAt)

	done.Dependencies[0] = "b"
	assert.Equal(t, "a", orig.Dependencies[0])
}

func TestTicketWithStatus_ClearsResolution(t *testing.T) {
	resolved := Ticket{
		Status:     TicketResolved,
		Resolution: "fixed",
		ResolvedBy: "u1",
		ResolvedAt: &testNow,
	}
	reopened := resolved.WithStatus(TicketOpen, nil, testNow)
	assert.Equal(t, TicketOpen, reopened.Status)
	assert.Nil(t, reopened.ResolvedAt)
	assert.Empty(t, reopened.Resolution)
	assert.Empty(t, reopened.ResolvedBy)
	assert.Equal(t, "fixed", resolved.Resolution)
}

func TestError_UnwrapsToKind(t *testing.T) {
	err := DependentsExist([]string{"a", "b"})
	assert.True(t, errors.Is(err, ErrDependentsExist))
	assert.False(t, errors.Is(err, ErrValidation))

	details, ok := DetailsOf(err)
	require.True(t, ok)
	assert.Equal(t, 2, details.Count)
	assert.Contains(t, err.Error(), "2 task(s)")
}

func TestCircularDependency_Message(t *testing.T) {
	err := CircularDependency([]string{"a", "b", "a"})
	assert.Equal(t, "circular dependency: a -> b -> a", err.Error())
}

func TestValueOr(t *testing.T) {
	assert.Equal(t, 3, ValueOr(Ptr(3), 7))
	assert.Equal(t, 7, ValueOr[int](nil, 7))
	assert.Equal(t, "b", CoalesceStr("", "b", "c"))
}
