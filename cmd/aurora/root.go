// Command aurora is the CLI entry point for the Aurora task-automation
// build system: it loads a Beamfile, plans an execution graph, and drives
// the Executor.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurora-build/aurora/internal/beamfile"
	"github.com/aurora-build/aurora/internal/build"
	"github.com/aurora-build/aurora/internal/logger"
)

// globalFlags holds the persistent flag values shared by every subcommand.
type globalFlags struct {
	file     string
	parallel int
	dryRun   bool
	noCache  bool
	verbose  bool
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "aurora",
		Short:        "A declarative task-automation build system",
		Long:         "aurora [options] <run|list|graph|validate|cache|init> [args]",
		Version:      build.Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.file, "file", "f", "", "path to the Beamfile (default: discovered by walking up from the current directory)")
	cmd.PersistentFlags().IntVarP(&flags.parallel, "parallel", "j", 0, "maximum number of beams to run concurrently (default: number of CPUs)")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "plan and report without running any beam's hooks or run commands (condition commands still run)")
	cmd.PersistentFlags().BoolVar(&flags.noCache, "no-cache", false, "ignore and do not update the build cache")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level logging")

	cmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newCacheCmd(),
		newInitCmd(),
	)
	return cmd
}

func newLogger() logger.Logger {
	opts := []logger.Option{}
	if flags.verbose {
		opts = append(opts, logger.WithDebug())
	}
	return logger.NewLogger(opts...)
}

// loadBeamfile resolves the Beamfile path (explicit -f flag, else
// discovered by walking up from the current directory) and parses it.
func loadBeamfile() (*beamfile.Beamfile, error) {
	path := flags.file
	if path == "" {
		discovered, err := beamfile.Discover("")
		if err != nil {
			return nil, fmt.Errorf("no Beamfile found: %w", err)
		}
		path = discovered
	}
	return beamfile.Load(path)
}

// resolveTarget returns args[0] if given, else the Beamfile's declared
// default beam, erroring if neither is available.
func resolveTarget(bf *beamfile.Beamfile, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if bf.Default == "" {
		return "", fmt.Errorf("no beam given and Beamfile declares no default")
	}
	return bf.Default, nil
}

func cacheDirFor(bf *beamfile.Beamfile) string {
	return cacheDirForSource(bf.Source)
}

// Execute runs the CLI. main() calls this once.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
