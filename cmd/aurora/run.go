package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/aurora-build/aurora/internal/beamfile"
	"github.com/aurora-build/aurora/internal/executor"
	"github.com/aurora-build/aurora/internal/logger"
	"github.com/aurora-build/aurora/internal/watch"
)

func newRunCmd() *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "run [beam]",
		Short: "Run a beam and everything it depends on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := loadBeamfile()
			if err != nil {
				return err
			}
			target, err := resolveTarget(bf, args)
			if err != nil {
				return err
			}

			log := newLogger()
			exec, err := newExecutorFor(bf, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			listenForInterrupt(cancel)

			runOnce := func(ctx context.Context) error {
				report, err := exec.Execute(ctx, target)
				printReport(report)
				return err
			}

			if watchMode {
				w := watch.New(bf, target, runOnce, watch.Options{Log: log})
				return w.Run(ctx)
			}
			return runOnce(ctx)
		},
	}
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-run the target whenever its declared inputs change")
	return cmd
}

// newExecutorFor builds an Executor honoring the process's global flags.
func newExecutorFor(bf *beamfile.Beamfile, log logger.Logger) (*executor.Executor, error) {
	opts := executor.Options{
		UseCache:       !flags.noCache,
		DryRun:         flags.dryRun,
		MaxParallelism: flags.parallel,
		Log:            log,
		OnEvent:        newEventPrinter(log),
	}
	return executor.New(bf, cacheDirFor(bf), opts)
}

// newEventPrinter renders BeamEvents as colorized progress lines; command
// output lines are only printed at debug verbosity to keep default runs
// quiet apart from the final summary table.
func newEventPrinter(log logger.Logger) executor.EventFunc {
	return func(ev executor.BeamEvent) {
		switch ev.Kind {
		case executor.EventStarted:
			log.Infof("%s %s", logger.LevelLabel("info"), ev.BeamName)
		case executor.EventSkipped:
			log.Infof("%s %s (%s)", color.CyanString("skip"), ev.BeamName, ev.Reason)
		case executor.EventCompleted:
			log.Infof("%s %s (%s)", color.GreenString("done"), ev.BeamName, ev.Duration)
		case executor.EventFailed:
			log.Errorf("%s %s: %v", color.RedString("fail"), ev.BeamName, ev.Err)
		case executor.EventOutput:
			log.Debugf("%s[%s] %s", ev.BeamName, ev.Stream, ev.Line)
		}
	}
}

func listenForInterrupt(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()
}

func printReport(report *executor.Report) {
	if report == nil {
		return
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Beam", "Result", "Duration"})
	for _, r := range report.Executed {
		t.AppendRow(table.Row{r.Name, color.GreenString("ok"), r.Duration})
	}
	for _, r := range report.Skipped {
		t.AppendRow(table.Row{r.Name, color.CyanString("skipped"), r.Duration})
	}
	for _, r := range report.Failed {
		t.AppendRow(table.Row{r.Name, color.RedString("failed"), r.Duration})
	}
	fmt.Println(t.Render())
}
