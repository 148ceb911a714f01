package cli

import (
	"fmt"
	"text/tabwriter"

	"geobuild-atlas/internal/filter"

	"github.com/spf13/cobra"
)

func newProjectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "project <id>",
		Short: "Show one project's detail panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			d, err := svc.Detail(cmd.Context(), args[0], filter.Spec{})
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), d)
			}

			p := d.Project
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Name\t%s\n", p.Name)
			fmt.Fprintf(tw, "Client\t%s\n", p.Client)
			fmt.Fprintf(tw, "Location\t%s, %s (%s)\n", p.City, p.Country, p.Region)
			fmt.Fprintf(tw, "Coordinates\t%.4f, %.4f\n", p.Longitude, p.Latitude)
			fmt.Fprintf(tw, "Type\t%s\n", p.ProjectType)
			fmt.Fprintf(tw, "Status\t%s\n", p.Status)
			fmt.Fprintf(tw, "Soil\t%s\n", p.SoilLevel)
			fmt.Fprintf(tw, "Budget\t%s\n", d.Budget)
			if d.ActualCost != nil {
				fmt.Fprintf(tw, "Actual cost\t%s\n", *d.ActualCost)
			}
			if d.BudgetVariance != nil {
				fmt.Fprintf(tw, "Variance\t%+.1f%%\n", *d.BudgetVariance)
			}
			fmt.Fprintf(tw, "Progress\t%d%%\n", d.Progress)
			fmt.Fprintf(tw, "Milestones\t%d/%d\n", d.MilestonesCompleted, d.MilestonesTotal)
			if p.Contractor != "" {
				fmt.Fprintf(tw, "Contractor\t%s\n", p.Contractor)
			}
			return tw.Flush()
		},
	}
}
