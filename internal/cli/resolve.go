package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/repository"
)

var errAmbiguous = errors.New("ambiguous")

// matchID resolves input against ids: an exact match wins, otherwise a
// unique prefix.
func matchID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is %w (%d matches)", kind, input, errAmbiguous, len(matches))
	}
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return matchID("project", input, ids)
}

// resolveTaskID searches every project's tasks, so task IDs work without a
// --project flag.
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	if t, err := app.Tasks.GetByID(ctx, input); err == nil {
		return t.ID, nil
	}
	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, p := range projects {
		tasks, err := app.Tasks.ListByProject(ctx, p.ID)
		if err != nil {
			return "", err
		}
		for _, t := range tasks {
			ids = append(ids, t.ID)
		}
	}
	return matchID("task", input, ids)
}

// resolveDependencyIDs expands prefixes it can match and passes the rest
// through unchanged, leaving unknown IDs for dependency validation to report.
func resolveDependencyIDs(ctx context.Context, app *App, projectID string, inputs []string) ([]string, error) {
	tasks, err := app.Tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := matchID("task", in, ids)
		if err != nil {
			if errors.Is(err, errAmbiguous) {
				return nil, err
			}
			id = in
		}
		out = append(out, id)
	}
	return out, nil
}

func resolveGroupID(ctx context.Context, app *App, projectID, input string) (string, error) {
	groups, err := app.Tasks.ListGroups(ctx, projectID)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		if strings.EqualFold(g.Name, input) {
			return g.ID, nil
		}
		ids = append(ids, g.ID)
	}
	return matchID("group", input, ids)
}

func resolveTicketID(ctx context.Context, app *App, input string) (string, error) {
	tickets, err := app.Tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}
	return matchID("ticket", input, ids)
}
