package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/meridian/internal/importer"
	"github.com/spf13/cobra"
)

func newProjectImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project with its groups and tasks from a YAML or JSON plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := importer.LoadPlan(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if errs := importer.ValidatePlan(plan); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(out, "  - %s\n", e)
				}
				return fmt.Errorf("import file has %d error(s): %w", len(errs), errors.Join(errs...))
			}
			drafts, err := importer.Convert(plan)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(out, "Plan OK: project %q with %d group(s) and %d task(s)\n",
					drafts.Project.Name, len(drafts.Groups), len(drafts.Tasks))
				return nil
			}

			res, err := app.Imports.Import(cmd.Context(), drafts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported project %s (%s): %d group(s), %d task(s)\n",
				res.Project.Name, res.Project.ID, len(res.Groups), len(res.Tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the plan without writing anything")
	return cmd
}
