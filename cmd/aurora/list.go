package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every beam declared in the Beamfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := loadBeamfile()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(bf.Beams))
			for name := range bf.Beams {
				names = append(names, name)
			}
			sort.Strings(names)

			t := table.NewWriter()
			t.AppendHeader(table.Row{"Beam", "Depends On", "Default", "Description"})
			for _, name := range names {
				beam := bf.Beams[name]
				isDefault := ""
				if name == bf.Default {
					isDefault = "*"
				}
				t.AppendRow(table.Row{name, beam.DependsOn, isDefault, beam.Description})
			}
			fmt.Println(t.Render())
			return nil
		},
	}
}
