package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print dataset totals and breakdowns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			s := svc.Catalog.Stats()
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Projects\t%d\n", s.TotalProjects)
			fmt.Fprintf(tw, "Active sites\t%d\n", s.ActiveSites)
			fmt.Fprintf(tw, "Regions\t%d\n", s.Regions)
			fmt.Fprintf(tw, "Countries\t%d\n", s.Countries)
			for _, section := range []struct {
				title  string
				counts map[string]int
			}{
				{"By status", s.ByStatus},
				{"By soil", s.BySoilLevel},
				{"By type", s.ByProjectType},
			} {
				fmt.Fprintf(tw, "\n%s\t\n", section.title)
				for _, k := range sortedKeys(section.counts) {
					fmt.Fprintf(tw, "  %s\t%d\n", k, section.counts[k])
				}
			}
			return tw.Flush()
		},
	}
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
