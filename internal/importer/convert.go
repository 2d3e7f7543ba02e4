package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/depgraph"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
)

// Drafts is a converted plan. Groups keep file order, which puts parents
// first; Tasks are in dependency order, so each task follows every task it
// depends on. References between entries are still file-local refs.
type Drafts struct {
	Project lifecycle.ProjectDraft
	Groups  []GroupDraft
	Tasks   []TaskDraft
}

type GroupDraft struct {
	Ref       string
	ParentRef string
	Name      string
}

// TaskDraft carries the lifecycle draft with GroupID and Dependencies left
// empty; GroupRef and DependsOn are mapped to real IDs at creation time.
type TaskDraft struct {
	Ref       string
	GroupRef  string
	DependsOn []string
	Draft     lifecycle.TaskDraft
}

// Convert turns a validated plan into drafts. Call ValidatePlan first;
// Convert only reports the first problem it trips over.
func Convert(plan *Plan) (*Drafts, error) {
	project, err := convertProject(&plan.Project)
	if err != nil {
		return nil, err
	}
	out := &Drafts{Project: project}

	for _, g := range plan.Groups {
		out.Groups = append(out.Groups, GroupDraft{
			Ref:       g.Ref,
			ParentRef: domain.ValueOr(g.ParentRef, ""),
			Name:      strings.TrimSpace(g.Name),
		})
	}

	ordered, err := depgraph.TopoOrder(refTasks(plan.Tasks))
	if err != nil {
		return nil, err
	}
	byRef := make(map[string]*TaskSpec, len(plan.Tasks))
	for i := range plan.Tasks {
		byRef[plan.Tasks[i].Ref] = &plan.Tasks[i]
	}

	defaults := domain.ValueOr(plan.Defaults, Defaults{})
	for _, rt := range ordered {
		spec := byRef[rt.ID]
		td, err := convertTask(spec, defaults)
		if err != nil {
			return nil, err
		}
		out.Tasks = append(out.Tasks, td)
	}
	return out, nil
}

func convertProject(p *ProjectSpec) (lifecycle.ProjectDraft, error) {
	start, err := parseDate(p.StartDate)
	if err != nil {
		return lifecycle.ProjectDraft{}, fmt.Errorf("parsing project.start_date: %w", err)
	}
	end, err := parseDate(p.EndDate)
	if err != nil {
		return lifecycle.ProjectDraft{}, fmt.Errorf("parsing project.end_date: %w", err)
	}

	draft := lifecycle.ProjectDraft{
		Name:            strings.TrimSpace(p.Name),
		ClientID:        p.ClientID,
		StartDate:       start,
		EndDate:         end,
		BudgetAllocated: p.Budget,
		TeamIDs:         p.Teams,
	}
	for _, d := range p.Deliverables {
		due, err := parseOptionalDate(d.DueDate)
		if err != nil {
			return lifecycle.ProjectDraft{}, fmt.Errorf("parsing deliverable %q due_date: %w", d.Title, err)
		}
		draft.Deliverables = append(draft.Deliverables, domain.Deliverable{Title: d.Title, DueDate: due})
	}
	return draft, nil
}

func convertTask(t *TaskSpec, defaults Defaults) (TaskDraft, error) {
	start, err := parseDate(t.StartDate)
	if err != nil {
		return TaskDraft{}, fmt.Errorf("parsing task %s start_date: %w", t.Ref, err)
	}
	end, err := parseDate(t.EndDate)
	if err != nil {
		return TaskDraft{}, fmt.Errorf("parsing task %s end_date: %w", t.Ref, err)
	}
	due, err := parseOptionalDate(t.DueDate)
	if err != nil {
		return TaskDraft{}, fmt.Errorf("parsing task %s due_date: %w", t.Ref, err)
	}

	priority := strings.ToLower(domain.CoalesceStr(t.Priority, defaults.Priority))

	return TaskDraft{
		Ref:       t.Ref,
		GroupRef:  domain.ValueOr(t.GroupRef, ""),
		DependsOn: t.DependsOn,
		Draft: lifecycle.TaskDraft{
			Title:       strings.TrimSpace(t.Title),
			Description: t.Description,
			Assignee:    domain.CoalesceStr(t.Assignee, defaults.Assignee),
			Priority:    domain.Priority(priority),
			StartDate:   start,
			EndDate:     end,
			DueDate:     due,
		},
	}, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
