package importer

import (
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDrafts(t *testing.T) *Drafts {
	t.Helper()
	plan, err := LoadPlan("testdata/relaunch.yaml")
	require.NoError(t, err)
	require.Empty(t, ValidatePlan(plan))
	drafts, err := Convert(plan)
	require.NoError(t, err)
	return drafts
}

func TestConvert_Project(t *testing.T) {
	p := loadDrafts(t).Project

	assert.Equal(t, "Website relaunch", p.Name)
	assert.Equal(t, "acme", p.ClientID)
	assert.Equal(t, testutil.Date(2024, 1, 1), p.StartDate)
	assert.Equal(t, testutil.Date(2024, 6, 30), p.EndDate)
	assert.InDelta(t, 120000, p.BudgetAllocated, 0.001)
	assert.Equal(t, []string{"design", "platform"}, p.TeamIDs)
	require.Len(t, p.Deliverables, 1)
	require.NotNil(t, p.Deliverables[0].DueDate)
	assert.Equal(t, testutil.Date(2024, 4, 15), *p.Deliverables[0].DueDate)
}

func TestConvert_GroupsKeepFileOrder(t *testing.T) {
	groups := loadDrafts(t).Groups

	require.Len(t, groups, 3)
	assert.Equal(t, "discovery", groups[0].Ref)
	assert.Empty(t, groups[0].ParentRef)
	assert.Equal(t, "frontend", groups[2].Ref)
	assert.Equal(t, "build", groups[2].ParentRef)
}

func TestConvert_TasksInDependencyOrder(t *testing.T) {
	tasks := loadDrafts(t).Tasks

	require.Len(t, tasks, 3)
	refs := []string{tasks[0].Ref, tasks[1].Ref, tasks[2].Ref}
	assert.Equal(t, []string{"research", "ui", "ship"}, refs)
	assert.Equal(t, []string{"ui", "research"}, tasks[2].DependsOn)
	assert.Nil(t, tasks[2].Draft.Dependencies, "refs are mapped to IDs at creation")
}

func TestConvert_DefaultsCascade(t *testing.T) {
	byRef := map[string]TaskDraft{}
	for _, td := range loadDrafts(t).Tasks {
		byRef[td.Ref] = td
	}

	assert.Equal(t, domain.PriorityHigh, byRef["ship"].Draft.Priority)
	assert.Equal(t, domain.PriorityMedium, byRef["ui"].Draft.Priority)
	assert.Equal(t, "sam", byRef["ship"].Draft.Assignee)
	assert.Equal(t, "kim", byRef["research"].Draft.Assignee)
	require.NotNil(t, byRef["research"].Draft.DueDate)
	assert.Nil(t, byRef["ship"].Draft.DueDate)
}

func TestConvert_NoDefaultsLeavesPriorityEmpty(t *testing.T) {
	plan := validPlan()
	drafts, err := Convert(plan)
	require.NoError(t, err)
	assert.Empty(t, drafts.Tasks[0].Draft.Priority)
}

func TestConvert_CycleFails(t *testing.T) {
	plan := validPlan()
	plan.Tasks[0].DependsOn = []string{"b"}
	_, err := Convert(plan)
	assert.ErrorIs(t, err, domain.ErrCircularDependency)
}
