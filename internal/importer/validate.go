package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/depgraph"
	"github.com/alexanderramin/meridian/internal/domain"
)

// ValidatePlan checks the whole plan before conversion and returns every
// problem found, not just the first.
func ValidatePlan(plan *Plan) []error {
	var errs []error

	errs = append(errs, validateProject(&plan.Project)...)
	errs = append(errs, validateDefaults(plan.Defaults)...)

	groupRefs := make(map[string]bool)
	errs = append(errs, validateGroups(plan.Groups, groupRefs)...)

	taskRefs := make(map[string]bool)
	errs = append(errs, validateTasks(plan.Tasks, groupRefs, taskRefs)...)

	if len(errs) == 0 {
		errs = append(errs, detectCycles(plan.Tasks)...)
	}
	return errs
}

func validateProject(p *ProjectSpec) []error {
	var errs []error

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	start, startErr := requiredDate("project.start_date", p.StartDate)
	end, endErr := requiredDate("project.end_date", p.EndDate)
	errs = appendIf(errs, startErr, endErr)
	if startErr == nil && endErr == nil && !start.Before(end) {
		errs = append(errs, fmt.Errorf("project.end_date %q must be after start_date %q", p.EndDate, p.StartDate))
	}
	if p.Budget <= 0 {
		errs = append(errs, fmt.Errorf("project.budget must be positive, got %v", p.Budget))
	}
	for i, d := range p.Deliverables {
		prefix := fmt.Sprintf("project.deliverables[%d]", i)
		if strings.TrimSpace(d.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		errs = append(errs, validateOptionalDate(prefix+".due_date", d.DueDate)...)
	}

	return errs
}

func validateDefaults(d *Defaults) []error {
	if d == nil || d.Priority == "" {
		return nil
	}
	if !domain.ValidPriorities[domain.Priority(strings.ToLower(d.Priority))] {
		return []error{fmt.Errorf("defaults.priority: invalid value %q", d.Priority)}
	}
	return nil
}

func validateGroups(groups []GroupSpec, groupRefs map[string]bool) []error {
	var errs []error

	for i, g := range groups {
		prefix := fmt.Sprintf("groups[%d]", i)

		if g.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if groupRefs[g.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, g.Ref))
		}
		if strings.TrimSpace(g.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if g.ParentRef != nil && *g.ParentRef != "" && !groupRefs[*g.ParentRef] {
			errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in groups list)", prefix, *g.ParentRef))
		}
		// Registered after the parent check so a group cannot parent itself.
		if g.Ref != "" {
			groupRefs[g.Ref] = true
		}
	}

	return errs
}

func validateTasks(tasks []TaskSpec, groupRefs, taskRefs map[string]bool) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if taskRefs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		} else {
			taskRefs[t.Ref] = true
		}
	}

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if t.GroupRef != nil && *t.GroupRef != "" && !groupRefs[*t.GroupRef] {
			errs = append(errs, fmt.Errorf("%s.group_ref: ref %q not found in groups", prefix, *t.GroupRef))
		}
		if t.Priority != "" && !domain.ValidPriorities[domain.Priority(strings.ToLower(t.Priority))] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}

		start, startErr := requiredDate(prefix+".start_date", t.StartDate)
		end, endErr := requiredDate(prefix+".end_date", t.EndDate)
		errs = appendIf(errs, startErr, endErr)
		if startErr == nil && endErr == nil && !start.Before(end) {
			errs = append(errs, fmt.Errorf("%s.end_date %q must be after start_date %q", prefix, t.EndDate, t.StartDate))
		}
		errs = append(errs, validateOptionalDate(prefix+".due_date", t.DueDate)...)

		for _, dep := range t.DependsOn {
			switch {
			case dep == t.Ref:
				errs = append(errs, fmt.Errorf("%s.depends_on: self-dependency %q", prefix, dep))
			case !taskRefs[dep]:
				errs = append(errs, fmt.Errorf("%s.depends_on: ref %q not found in tasks", prefix, dep))
			}
		}
	}

	return errs
}

// refTasks maps task specs onto tasks keyed by ref, enough for graph checks.
func refTasks(tasks []TaskSpec) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, domain.Task{ID: t.Ref, ProjectID: "plan", Dependencies: t.DependsOn})
	}
	return out
}

func detectCycles(tasks []TaskSpec) []error {
	if _, err := depgraph.TopoOrder(refTasks(tasks)); err != nil {
		var de *domain.Error
		if errors.As(err, &de) && len(de.IDs) > 0 {
			return []error{fmt.Errorf("tasks: circular dependency %s", strings.Join(de.IDs, " -> "))}
		}
		return []error{fmt.Errorf("tasks: %w", err)}
	}
	return nil
}

func requiredDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}

func validateOptionalDate(field string, s *string) []error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := parseDate(*s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

func appendIf(errs []error, candidates ...error) []error {
	for _, err := range candidates {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
