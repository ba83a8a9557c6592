package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLevelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Validate and list the level catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tOBJECTS\tVOID")
			for _, id := range catalog.IDs() {
				lvl, err := catalog.Get(id)
				if err != nil {
					return err
				}
				void := "-"
				if lvl.VoidY > 0 {
					void = fmt.Sprintf("%.0f", lvl.VoidY)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", lvl.ID, lvl.Name, lvl.Duration(), len(lvl.Objects), void)
			}
			return w.Flush()
		},
	}
}
