package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPlan() *Plan {
	return &Plan{
		Project: ProjectSpec{
			Name:      "Relaunch",
			StartDate: "2024-01-01",
			EndDate:   "2024-06-30",
			Budget:    1000,
		},
		Groups: []GroupSpec{{Ref: "g1", Name: "Build"}},
		Tasks: []TaskSpec{
			{Ref: "a", Title: "A", StartDate: "2024-01-02", EndDate: "2024-01-10"},
			{Ref: "b", Title: "B", StartDate: "2024-01-11", EndDate: "2024-01-20", DependsOn: []string{"a"}},
		},
	}
}

func ptr(s string) *string { return &s }

func joined(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func TestValidatePlan_Valid(t *testing.T) {
	assert.Empty(t, ValidatePlan(validPlan()))
}

func TestValidatePlan_TestdataFile(t *testing.T) {
	plan, err := LoadPlan("testdata/relaunch.yaml")
	require.NoError(t, err)
	assert.Empty(t, ValidatePlan(plan))
	assert.Equal(t, "Website relaunch", plan.Project.Name)
	assert.Len(t, plan.Groups, 3)
	assert.Len(t, plan.Tasks, 3)
}

func TestValidatePlan_CollectsEveryError(t *testing.T) {
	plan := validPlan()
	plan.Project.Name = " "
	plan.Project.Budget = 0
	plan.Tasks[0].Title = ""
	plan.Tasks[1].EndDate = "2024-13-01"

	errs := ValidatePlan(plan)
	require.Len(t, errs, 4)
	msg := joined(errs)
	assert.Contains(t, msg, "project.name is required")
	assert.Contains(t, msg, "project.budget must be positive")
	assert.Contains(t, msg, "tasks[0].title is required")
	assert.Contains(t, msg, `tasks[1].end_date: invalid date format "2024-13-01"`)
}

func TestValidatePlan_Cases(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Plan)
		want   string
	}{
		{"project window inverted", func(p *Plan) { p.Project.EndDate = "2023-12-31" }, "project.end_date"},
		{"missing project start", func(p *Plan) { p.Project.StartDate = "" }, "project.start_date is required"},
		{"deliverable without title", func(p *Plan) {
			p.Project.Deliverables = []DeliverableSpec{{DueDate: ptr("2024-02-01")}}
		}, "project.deliverables[0].title is required"},
		{"bad default priority", func(p *Plan) { p.Defaults = &Defaults{Priority: "asap"} }, "defaults.priority"},
		{"duplicate group ref", func(p *Plan) {
			p.Groups = append(p.Groups, GroupSpec{Ref: "g1", Name: "Again"})
		}, `duplicate ref "g1"`},
		{"forward parent ref", func(p *Plan) {
			p.Groups = []GroupSpec{{Ref: "child", ParentRef: ptr("parent"), Name: "C"}, {Ref: "parent", Name: "P"}}
		}, "must appear earlier"},
		{"self parent", func(p *Plan) { p.Groups[0].ParentRef = ptr("g1") }, "parent_ref"},
		{"unknown group ref", func(p *Plan) { p.Tasks[0].GroupRef = ptr("nope") }, `tasks[0].group_ref: ref "nope" not found`},
		{"duplicate task ref", func(p *Plan) { p.Tasks[1].Ref = "a" }, `duplicate ref "a"`},
		{"bad priority", func(p *Plan) { p.Tasks[0].Priority = "whenever" }, "tasks[0].priority"},
		{"task window inverted", func(p *Plan) { p.Tasks[0].EndDate = "2024-01-02" }, "tasks[0].end_date"},
		{"bad due date", func(p *Plan) { p.Tasks[0].DueDate = ptr("soon") }, "tasks[0].due_date"},
		{"unknown dependency", func(p *Plan) { p.Tasks[1].DependsOn = []string{"zzz"} }, `ref "zzz" not found in tasks`},
		{"self dependency", func(p *Plan) { p.Tasks[0].DependsOn = []string{"a"} }, "self-dependency"},
		{"cycle", func(p *Plan) { p.Tasks[0].DependsOn = []string{"b"} }, "circular dependency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := validPlan()
			tt.mutate(plan)
			errs := ValidatePlan(plan)
			require.NotEmpty(t, errs)
			assert.Contains(t, joined(errs), tt.want)
		})
	}
}

func TestValidatePlan_PriorityIsCaseInsensitive(t *testing.T) {
	plan := validPlan()
	plan.Tasks[0].Priority = "URGENT"
	assert.Empty(t, ValidatePlan(plan))
}

func TestParsePlan_Malformed(t *testing.T) {
	_, err := ParsePlan([]byte("project: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}

func TestParsePlan_AcceptsJSON(t *testing.T) {
	plan, err := ParsePlan([]byte(`{"project": {"name": "J", "start_date": "2024-01-01", "end_date": "2024-02-01", "budget": 5},
		"tasks": [{"ref": "x", "title": "X", "start_date": "2024-01-02", "end_date": "2024-01-03"}]}`))
	require.NoError(t, err)
	assert.Empty(t, ValidatePlan(plan))
	assert.Equal(t, "x", plan.Tasks[0].Ref)
}
