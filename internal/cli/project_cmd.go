package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their budget ledger",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectArchiveCmd(app),
		newProjectRemoveCmd(app),
		newProjectExpenseCmd(app),
		newProjectAllocateCmd(app),
		newProjectCloseAllocationCmd(app),
		newProjectHealthCmd(app),
		newProjectImportCmd(app),
	)

	return cmd
}

// parseDeliverable reads "title" or "title@YYYY-MM-DD".
func parseDeliverable(s string) (domain.Deliverable, error) {
	title, due, found := strings.Cut(s, "@")
	d := domain.Deliverable{Title: strings.TrimSpace(title)}
	if found {
		t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(due), time.UTC)
		if err != nil {
			return d, fmt.Errorf("invalid deliverable due date %q: %w", due, err)
		}
		d.DueDate = &t
	}
	return d, nil
}

func parseDeliverables(in []string) ([]domain.Deliverable, error) {
	out := make([]domain.Deliverable, 0, len(in))
	for _, s := range in {
		d, err := parseDeliverable(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		draft        lifecycle.ProjectDraft
		deliverables []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if draft.Deliverables, err = parseDeliverables(deliverables); err != nil {
				return err
			}
			p, err := app.Projects.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&draft.ClientID, "client", "", "Client identifier")
	dateVar(cmd.Flags(), &draft.StartDate, "start", "Start date (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &draft.EndDate, "end", "End date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&draft.BudgetAllocated, "budget", 0, "Allocated budget")
	cmd.Flags().StringSliceVar(&draft.TeamIDs, "team", nil, "Team ID (repeatable)")
	cmd.Flags().StringArrayVar(&deliverables, "deliverable", nil, `Deliverable "title" or "title@YYYY-MM-DD" (repeatable)`)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("budget")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context(), all)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show project details and ledger entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, app.now()))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var (
		name, client string
		start, end   time.Time
		budget       float64
		teams        []string
		deliverables []string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			patch := lifecycle.ProjectPatch{
				Name:            changedString(cmd, "name", name),
				ClientID:        changedString(cmd, "client", client),
				StartDate:       changedDate(cmd, "start", start),
				EndDate:         changedDate(cmd, "end", end),
				BudgetAllocated: changedFloat(cmd, "budget", budget),
			}
			if cmd.Flags().Changed("team") {
				patch.TeamIDs = &teams
			}
			if cmd.Flags().Changed("deliverable") {
				ds, err := parseDeliverables(deliverables)
				if err != nil {
					return err
				}
				patch.Deliverables = &ds
			}

			p, err := app.Projects.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&client, "client", "", "Client identifier")
	dateVar(cmd.Flags(), &start, "start", "Start date (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &end, "end", "End date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Allocated budget")
	cmd.Flags().StringSliceVar(&teams, "team", nil, "Replace team IDs")
	cmd.Flags().StringArrayVar(&deliverables, "deliverable", nil, "Replace deliverables")

	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a project; archived projects are read-only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Archive(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", p.Name)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an archived project with its tasks and groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", id)
			return nil
		},
	}
}

func newProjectExpenseCmd(app *App) *cobra.Command {
	var draft lifecycle.ExpenseDraft

	cmd := &cobra.Command{
		Use:   "expense ID",
		Short: "Record a budget expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("date") {
				draft.Date = today(app.now())
			}
			p, err := app.Projects.RecordExpense(ctx, id, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s on %s (%d expenses)\n",
				formatter.Money(draft.Amount), draft.Category, formatter.Date(draft.Date), len(p.Expenses))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Category, "category", "", "Expense category")
	cmd.Flags().Float64Var(&draft.Amount, "amount", 0, "Amount")
	dateVar(cmd.Flags(), &draft.Date, "date", "Expense date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&draft.Description, "note", "", "Description")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newProjectAllocateCmd(app *App) *cobra.Command {
	var (
		draft lifecycle.AllocationDraft
		end   time.Time
	)

	cmd := &cobra.Command{
		Use:   "allocate ID",
		Short: "Allocate a team at a monthly rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			draft.EndDate = changedDate(cmd, "end", end)
			p, err := app.Projects.AddAllocation(ctx, id, draft)
			if err != nil {
				return err
			}
			alloc := p.ResourceAllocations[len(p.ResourceAllocations)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Allocated %s at %s/mo (%s)\n",
				alloc.TeamID, formatter.Money(alloc.MonthlyRate), alloc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.TeamID, "team", "", "Team ID")
	cmd.Flags().Float64Var(&draft.MonthlyRate, "rate", 0, "Monthly rate")
	dateVar(cmd.Flags(), &draft.StartDate, "start", "Allocation start (YYYY-MM-DD)")
	dateVar(cmd.Flags(), &end, "end", "Allocation end (YYYY-MM-DD); open-ended when omitted")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newProjectCloseAllocationCmd(app *App) *cobra.Command {
	var end time.Time

	cmd := &cobra.Command{
		Use:   "close-allocation ID ALLOCATION",
		Short: "Set the end date of an open-ended allocation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(p.ResourceAllocations))
			for _, a := range p.ResourceAllocations {
				ids = append(ids, a.ID)
			}
			allocID, err := matchID("allocation", args[1], ids)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("end") {
				end = today(app.now())
			}
			if _, err := app.Projects.CloseAllocation(ctx, id, allocID, end); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed allocation %s on %s\n", allocID, formatter.Date(end))
			return nil
		},
	}

	dateVar(cmd.Flags(), &end, "end", "End date (YYYY-MM-DD, default today)")

	return cmd
}

func newProjectHealthCmd(app *App) *cobra.Command {
	var asOf time.Time

	cmd := &cobra.Command{
		Use:   "health ID",
		Short: "Summarize spend, burn and budget health",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("as-of") {
				asOf = app.now()
			}
			report, err := app.Projects.Health(ctx, id, asOf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHealth(report.Project, report.Summary, report.AsOf))
			return nil
		},
	}

	dateVar(cmd.Flags(), &asOf, "as-of", "Evaluate as of this date (YYYY-MM-DD, default now)")

	return cmd
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
