package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const starterBeamfile = `beam "clean" {
  description = "remove build artifacts"
  run {
    commands = ["rm -rf dist"]
  }
}

beam "build" {
  description = "compile the project"
  depends_on  = ["clean"]
  inputs      = ["**/*.go"]
  outputs     = ["dist/app"]
  run {
    commands = ["go build -o dist/app ./..."]
  }
}

beam "test" {
  description = "run the test suite"
  depends_on  = ["build"]
  run {
    commands = ["go test ./..."]
  }
}

default = "test"
`

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter Beamfile in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(".", "Beamfile")
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := os.WriteFile(path, []byte(starterBeamfile), 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing Beamfile")
	return cmd
}
