package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aurora-build/aurora/internal/beamfile"
	"github.com/aurora-build/aurora/internal/dag"
)

func newGraphCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph [beam]",
		Short: "Render a beam's dependency graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := loadBeamfile()
			if err != nil {
				return err
			}

			switch format {
			case "dot":
				fmt.Println(renderDot(bf))
				return nil
			case "ascii", "":
				target, err := resolveTarget(bf, args)
				if err != nil {
					return err
				}
				graph, err := beamfile.Graph(bf)
				if err != nil {
					return err
				}
				sched := dag.NewScheduler(graph, 0)
				plan, err := sched.Plan(target)
				if err != nil {
					return err
				}
				fmt.Println(renderAscii(plan))
				return nil
			default:
				return fmt.Errorf("unknown --format %q (want \"ascii\" or \"dot\")", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "ascii", "output format: ascii or dot")
	return cmd
}

// renderAscii prints each level on its own line, beams within a level
// comma-separated, in the order they would execute.
func renderAscii(plan *dag.ExecutionPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "target: %s\n", plan.Target)
	for i, lvl := range plan.Levels {
		beams := append([]string{}, lvl.Beams...)
		sort.Strings(beams)
		fmt.Fprintf(&b, "level %d: %s\n", i, strings.Join(beams, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDot emits a Graphviz DOT digraph of every beam in bf and its
// declared dependency edges, independent of any single target.
func renderDot(bf *beamfile.Beamfile) string {
	var b strings.Builder
	b.WriteString("digraph aurora {\n")

	names := make([]string, 0, len(bf.Beams))
	for name := range bf.Beams {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, "  %q;\n", name)
	}
	for _, name := range names {
		beam := bf.Beams[name]
		deps := append([]string{}, beam.DependsOn...)
		sort.Strings(deps)
		for _, dep := range deps {
			fmt.Fprintf(&b, "  %q -> %q;\n", dep, name)
		}
	}
	b.WriteString("}")
	return b.String()
}
