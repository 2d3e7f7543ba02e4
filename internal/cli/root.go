package cli

import (
	"time"

	"github.com/alexanderramin/meridian/internal/config"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Tickets  service.TicketService
	Imports  service.ImportService

	// Config is the effective configuration, shown by "config show".
	Config config.Config

	// Now is the clock used for relative dates; nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// NewRootCmd creates the top-level "meridian" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "meridian",
		Short:         "Project, task and ticket lifecycle engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newGroupCmd(app),
		newTicketCmd(app),
		newConfigCmd(app),
	)

	return root
}
