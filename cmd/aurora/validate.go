package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aurora-build/aurora/internal/beamfile"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the Beamfile for undefined references and cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := loadBeamfile()
			if err != nil {
				return err
			}

			problems := beamfile.Validate(bf)
			if len(problems) == 0 {
				fmt.Println(color.GreenString("ok") + ": Beamfile is valid")
				return nil
			}

			for _, p := range problems {
				fmt.Println(color.RedString("error") + ": " + p.Error())
			}
			return fmt.Errorf("%d problem(s) found", len(problems))
		},
	}
}
