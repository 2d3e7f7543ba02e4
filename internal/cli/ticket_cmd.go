package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/lifecycle"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/spf13/cobra"
)

func newTicketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Manage client tickets (requires client_ticketing_enabled)",
	}

	cmd.AddCommand(
		newTicketAddCmd(app),
		newTicketListCmd(app),
		newTicketShowCmd(app),
		newTicketMoveCmd(app),
		newTicketResolveCmd(app),
	)

	return cmd
}

func newTicketAddCmd(app *App) *cobra.Command {
	var (
		kind, priority, project, task, milestone string
		draft                                    lifecycle.TicketDraft
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if project != "" {
				pid, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				draft.ProjectID = &pid
			}
			if task != "" {
				tid, err := resolveTaskID(ctx, app, task)
				if err != nil {
					return err
				}
				draft.TaskID = &tid
			}
			draft.MilestoneID = changedString(cmd, "milestone", milestone)
			draft.Type = domain.TicketType(strings.ToLower(kind))
			draft.Priority = domain.Priority(strings.ToLower(priority))

			t, err := app.Tickets.Create(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened ticket %s (%s) [%s]\n", t.Title, t.ID, t.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", "", "bug|feature|support|question")
	cmd.Flags().StringVar(&draft.Title, "title", "", "Ticket title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Description")
	cmd.Flags().StringVar(&priority, "priority", "", "low|medium|high|urgent (default medium)")
	cmd.Flags().StringVar(&draft.ReporterID, "reporter", "", "Reporter ID")
	cmd.Flags().StringVar(&project, "project", "", "Related project ID or prefix")
	cmd.Flags().StringVar(&task, "task", "", "Related task ID or prefix")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Related milestone ID")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("reporter")

	return cmd
}

func newTicketListCmd(app *App) *cobra.Command {
	var project, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := repository.TicketFilter{Status: domain.Status(strings.ToLower(status))}
			if project != "" {
				pid, err := resolveProjectID(ctx, app, project)
				if err != nil {
					return err
				}
				filter.ProjectID = pid
			}
			tickets, err := app.Tickets.List(ctx, filter)
			if err != nil {
				return err
			}
			if len(tickets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tickets found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTicketList(tickets))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only tickets for this project")
	cmd.Flags().StringVar(&status, "status", "", "Only tickets in this status")

	return cmd
}

func newTicketShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTicketID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tickets.GetByID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTicket(t))
			return nil
		},
	}
}

func newTicketMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID STATUS",
		Short: "Move a ticket through its workflow; use resolve to resolve",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTicketID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tickets.Transition(ctx, id, domain.Status(strings.ToLower(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %s is now %s\n", t.Title, t.Status)
			return nil
		},
	}
}

func newTicketResolveCmd(app *App) *cobra.Command {
	var res lifecycle.Resolution

	cmd := &cobra.Command{
		Use:   "resolve ID",
		Short: "Resolve a ticket with a resolution note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTicketID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tickets.Resolve(ctx, id, res)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resolved ticket %s by %s\n", t.Title, t.ResolvedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&res.Text, "resolution", "", "What was done")
	cmd.Flags().StringVar(&res.ResolvedBy, "by", "", "Who resolved it")
	_ = cmd.MarkFlagRequired("resolution")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}
