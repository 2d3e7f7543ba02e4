package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/depgraph"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and their dependencies",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskUpdateCmd(app),
		newTaskStatusCmd(app),
		newTaskRemoveCmd(app),
		newTaskReadyCmd(app),
		newTaskNextCmd(app),
	)

	return cmd
}

// groupNames maps group IDs to names for display.
func groupNames(ctx context.Context, app *App, projectID string) (map[string]string, error) {
	groups, err := app.Tasks.ListGroups(ctx, projectID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		project, group, priority string
		due                      time.Time
		draft                    lifecycle.TaskDraft
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			if group != "" {
				gid, err := resolveGroupID(ctx, app, projectID, group)
				if err != nil {
					return err
				}
				draft.GroupID = &gid
			}
			if draft.Dependencies, err = resolveDependencyIDs(ctx, app, projectID, draft.Dependencies); err != nil {
				return err
			}
			draft.Priority = domain.Priority(strings.ToLower(priority))
			draft.DueDate = changedDate(cmd, "due", due)

			t, err := app.Tasks.Create(ctx, projectID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s (%s) [%s]\n", t.Title, t.ID, t.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or prefix")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Description")
	cmd.Flags().StringVar(&draft.Assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high|urgent (default medium)")
	cmd.Flags().StringVar(&group, "group", "", "Group name or ID")
	dateVar(cmd.Flags(), &draft.StartDate, "start", "Start date (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &draft.EndDate, "end", "End date (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &due, "due", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&draft.Dependencies, "depends-on", nil, "Task IDs this task waits on")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var (
		project string
		topo    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if topo {
				if tasks, err = depgraph.TopoOrder(tasks); err != nil {
					return err
				}
			}
			names, err := groupNames(ctx, app, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList("Tasks", tasks, names, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or prefix")
	cmd.Flags().BoolVar(&topo, "topo", false, "Order so every task follows its dependencies")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		title, description, assignee, priority, group string
		start, end, due                               time.Time
		deps                                          []string
		clearGroup, clearDue                          bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			current, err := app.Tasks.GetByID(ctx, id)
			if err != nil {
				return err
			}

			patch := lifecycle.TaskPatch{
				Title:        changedString(cmd, "title", title),
				Description:  changedString(cmd, "description", description),
				Assignee:     changedString(cmd, "assignee", assignee),
				StartDate:    changedDate(cmd, "start", start),
				EndDate:      changedDate(cmd, "end", end),
				DueDate:      changedDate(cmd, "due", due),
				ClearGroup:   clearGroup,
				ClearDueDate: clearDue,
			}
			if cmd.Flags().Changed("priority") {
				p := domain.Priority(strings.ToLower(priority))
				patch.Priority = &p
			}
			if cmd.Flags().Changed("group") {
				gid, err := resolveGroupID(ctx, app, current.ProjectID, group)
				if err != nil {
					return err
				}
				patch.GroupID = &gid
			}
			if cmd.Flags().Changed("depends-on") {
				resolved, err := resolveDependencyIDs(ctx, app, current.ProjectID, deps)
				if err != nil {
					return err
				}
				patch.Dependencies = &resolved
			}

			t, err := app.Tasks.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s (%s)\n", t.Title, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high|urgent")
	cmd.Flags().StringVar(&group, "group", "", "Group name or ID")
	cmd.Flags().BoolVar(&clearGroup, "clear-group", false, "Remove the task from its group")
	dateVar(cmd.Flags(), &start, "start", "Start date (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &end, "end", "End date (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &due, "due", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringSliceVar(&deps, "depends-on", nil, "Replace dependencies; pass an empty value to clear")
	cmd.MarkFlagsMutuallyExclusive("group", "clear-group")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")

	return cmd
}

func newTaskStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move a task through its workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.SetStatus(ctx, id, domain.Status(strings.ToLower(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", t.Title, t.Status)
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a task nothing depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", id)
			return nil
		},
	}
}

func newTaskReadyCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List open tasks whose dependencies are all complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.Ready(ctx, projectID)
			if err != nil {
				return err
			}
			names, err := groupNames(ctx, app, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList("Ready", tasks, names, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or prefix")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskNextCmd(app *App) *cobra.Command {
	var (
		project string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Rank ready tasks across projects by health, deadline and priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var projectID string
			if project != "" {
				var err error
				if projectID, err = resolveProjectID(ctx, app, project); err != nil {
					return err
				}
			}
			ranked, err := app.Tasks.Next(ctx, projectID, limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNext(ranked, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Limit to one project (ID or prefix)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of tasks to show (0 for all)")

	return cmd
}

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Organize tasks into nested groups",
	}
	cmd.AddCommand(newGroupAddCmd(app), newGroupMoveCmd(app))
	return cmd
}

func newGroupAddCmd(app *App) *cobra.Command {
	var project, name, parent string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task group",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			draft := lifecycle.GroupDraft{Name: name}
			if parent != "" {
				pid, err := resolveGroupID(ctx, app, projectID, parent)
				if err != nil {
					return err
				}
				draft.ParentID = &pid
			}
			g, err := app.Tasks.CreateGroup(ctx, projectID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %s (%s)\n", g.Name, g.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or prefix")
	cmd.Flags().StringVar(&name, "name", "", "Group name")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent group name or ID")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGroupMoveCmd(app *App) *cobra.Command {
	var project, parent string

	cmd := &cobra.Command{
		Use:   "move GROUP",
		Short: "Re-parent a group; omit --parent to move it to the top level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			gid, err := resolveGroupID(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			var parentID *string
			if parent != "" {
				pid, err := resolveGroupID(ctx, app, projectID, parent)
				if err != nil {
					return err
				}
				parentID = &pid
			}
			g, err := app.Tasks.MoveGroup(ctx, gid, parentID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved group %s\n", g.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or prefix")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent group name or ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
