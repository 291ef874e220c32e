package commands

import (
	"cgv-showtimes/lib/textutil"
	"cgv-showtimes/lib/theaters"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTheatersCmd() *cobra.Command {
	var theatersPath string
	var match string

	cmd := &cobra.Command{
		Use:   "theaters [--match <substring>]",
		Short: "Lists the theaters in the lookup table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			if cmd.Flags().Changed("theaters") {
				cfg.Theaters = theatersPath
			}

			loaded, err := theaters.Load(cfg.Theaters)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Name", "Code"})
			for _, entry := range loaded.Entries() {
				if match != "" && !textutil.MatchName(entry.Name, match) {
					continue
				}
				t.AppendRow(table.Row{entry.Name, entry.Code})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&theatersPath, "theaters", "theater_data.csv", "The theater lookup table (csv with name and code columns).")
	cmd.Flags().StringVar(&match, "match", "", "Only list theaters whose name contains this, ignoring case and spaces.")

	return cmd
}
