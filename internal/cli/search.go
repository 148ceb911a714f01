package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"geobuild-atlas/internal/filter"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		pairs map[string]string
		query string
	)
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "List projects matching a filter",
		Long: `Search applies the same filter engine as the API. Every --filter is a
key=value constraint; all of them must hold. Free text matches name,
client, materials and suppliers.

Example:
  atlasctl search --filter region=Europe
  atlasctl search steel --filter soilLevel=sand
  atlasctl search --filter client=apex --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := filter.Parse(pairs)
			if err != nil {
				return fmt.Errorf("%w (known keys: %s)", err, joinKeys())
			}
			if len(args) == 1 {
				query = args[0]
			}
			if query != "" {
				spec = spec.With(filter.KeySearch, query)
			}

			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			res := svc.Search(cmd.Context(), spec)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCLIENT\tREGION\tSTATUS")
			for _, p := range res.Projects {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Client, p.Region, p.Status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d projects\n", res.Visible, res.Total)
			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&pairs, "filter", "f", nil, "filter constraint key=value (repeatable)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text search")
	return cmd
}

func joinKeys() string {
	keys := filter.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return strings.Join(out, ", ")
}
