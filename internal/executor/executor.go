// Package executor drives a Beamfile's execution plan: it walks the
// Scheduler's levels, evaluates each beam's condition, honors the build
// cache, runs pre/run/post commands through the Runner, and assembles a
// Report.
package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aurora-build/aurora/internal/beamfile"
	"github.com/aurora-build/aurora/internal/cache"
	"github.com/aurora-build/aurora/internal/dag"
	"github.com/aurora-build/aurora/internal/interpolate"
	"github.com/aurora-build/aurora/internal/logger"
	"github.com/aurora-build/aurora/internal/runner"
)

// Options configures an Executor.
type Options struct {
	UseCache       bool
	DryRun         bool
	MaxParallelism int
	OnEvent        EventFunc
	Log            logger.Logger
	// VariableOverrides take precedence over a variable's declared default.
	VariableOverrides map[string]string
	// ExtraContext holds caller-supplied ${ctx.*} values. The Executor does
	// not pass it to interpolation, so a ${ctx.*} reference in a command or
	// env value fails as undefined.
	ExtraContext map[string]string
}

// Executor runs a Beamfile's beams according to a Scheduler-produced plan.
type Executor struct {
	bf        *beamfile.Beamfile
	graph     *dag.Graph
	scheduler *dag.Scheduler
	cache     *cache.Cache
	opts      Options
	log       logger.Logger
	baseDir   string
}

// New builds an Executor for bf. cacheDir is where the content-addressed
// build cache is persisted; it is read eagerly even when UseCache is
// false.
func New(bf *beamfile.Beamfile, cacheDir string, opts Options) (*Executor, error) {
	log := opts.Log
	if log == nil {
		log = logger.Default
	}

	graph, err := beamfile.Graph(bf)
	if err != nil {
		return nil, err
	}

	c, err := cache.Load(cacheDir, log)
	if err != nil {
		return nil, err
	}

	return &Executor{
		bf:        bf,
		graph:     graph,
		scheduler: dag.NewScheduler(graph, opts.MaxParallelism),
		cache:     c,
		opts:      opts,
		log:       log,
		baseDir:   filepath.Dir(bf.Source),
	}, nil
}

// Cache exposes the Executor's underlying cache store. The `cache` CLI
// subcommands do not use it; they load the same on-disk store themselves.
func (e *Executor) Cache() *cache.Cache { return e.cache }

func (e *Executor) emit(ev BeamEvent) {
	if e.opts.OnEvent != nil {
		e.opts.OnEvent(ev)
	}
}

func (e *Executor) resolveVariables() map[string]string {
	resolved := make(map[string]string, len(e.bf.Variables))
	for name, v := range e.bf.Variables {
		if override, ok := e.opts.VariableOverrides[name]; ok {
			resolved[name] = override
			continue
		}
		if v.Default != nil {
			resolved[name] = *v.Default
		}
	}
	for name, v := range e.opts.VariableOverrides {
		if _, declared := e.bf.Variables[name]; !declared {
			resolved[name] = v
		}
	}
	return resolved
}

// Execute runs target and every beam it transitively depends on, level by
// level. A failure anywhere in a level aborts the whole Execute call
// before the next level starts; beams already scheduled in the failing
// level are allowed to finish.
func (e *Executor) Execute(ctx context.Context, target string) (*Report, error) {
	start := time.Now()
	report := newReport()

	plan, err := e.scheduler.Plan(target)
	if err != nil {
		return nil, fmt.Errorf("executor: planning %q: %w", target, err)
	}

	e.log.Debugf("executor: run %s planning %q across %d level(s)", report.RunID, target, len(plan.Levels))
	vars := e.resolveVariables()

	for _, level := range plan.Levels {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(e.scheduler.MaxParallelism())

		for _, name := range level.Beams {
			name := name
			g.Go(func() error {
				return e.runBeam(ctx, name, vars, report)
			})
		}

		if err := g.Wait(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)
	if !report.Success() {
		return report, fmt.Errorf("executor: %d beam(s) failed", len(report.Failed))
	}
	return report, nil
}

func (e *Executor) runBeam(ctx context.Context, name string, vars map[string]string, report *Report) error {
	beam, ok := e.bf.Beam(name)
	if !ok {
		return fmt.Errorf("executor: beam %q not found", name)
	}

	beamStart := time.Now()
	emit := func(ev BeamEvent) {
		ev.RunID = report.RunID
		ev.BeamName = name
		e.emit(ev)
	}
	emit(BeamEvent{Kind: EventStarted})

	workingDir := e.baseDir
	if beam.Run != nil && beam.Run.WorkingDir != "" {
		workingDir = resolveDir(e.baseDir, beam.Run.WorkingDir)
	}

	base := runner.New(e.log).WithBeamName(name)
	if e.opts.OnEvent != nil {
		base = base.WithOutput(func(o runner.Output) {
			emit(BeamEvent{Kind: EventOutput, Stream: o.Stream, Line: o.Line})
		})
	}

	cacheBeam := cache.Beam{Name: name, Commands: commandStrings(beam), Inputs: beam.Inputs, Outputs: beam.Outputs}
	if e.opts.UseCache && e.cache.IsUpToDate(cacheBeam, workingDir) {
		emit(BeamEvent{Kind: EventSkipped, Reason: "cache"})
		report.addSkipped(BeamResult{Name: name, Duration: time.Since(beamStart)})
		return nil
	}

	// Condition::Command runs against base, not the beam-scoped runner below:
	// it evaluates with no per-beam env layered on top, per spec.
	ok, err := evalCondition(ctx, beam.Condition, workingDir, base)
	if err != nil {
		emit(BeamEvent{Kind: EventFailed, Err: err})
		report.addFailed(BeamResult{Name: name, Err: err, Duration: time.Since(beamStart)})
		return err
	}
	if !ok {
		emit(BeamEvent{Kind: EventSkipped, Reason: "condition"})
		report.addSkipped(BeamResult{Name: name, Duration: time.Since(beamStart)})
		return nil
	}

	r := base.WithEnv(mergeEnv(vars, beam, name))

	if e.opts.DryRun {
		emit(BeamEvent{Kind: EventCompleted, Duration: time.Since(beamStart)})
		report.addExecuted(BeamResult{Name: name, Duration: time.Since(beamStart)})
		return nil
	}

	if err := e.runHooks(ctx, beam.PreHooks, r, workingDir, name, vars); err != nil {
		emit(BeamEvent{Kind: EventFailed, Err: err})
		report.addFailed(BeamResult{Name: name, Err: err, Duration: time.Since(beamStart)})
		return err
	}

	if beam.Run != nil {
		shell := beam.Run.Shell
		failFast := beam.Run.FailFast
		commands, err := interpolateCommands(beam.Run.Commands, vars, name)
		if err != nil {
			emit(BeamEvent{Kind: EventFailed, Err: err})
			report.addFailed(BeamResult{Name: name, Err: err, Duration: time.Since(beamStart)})
			return err
		}
		if _, err := runner.ExecuteCommands(ctx, r, commands, shell, workingDir, failFast); err != nil {
			emit(BeamEvent{Kind: EventFailed, Err: err})
			report.addFailed(BeamResult{Name: name, Err: err, Duration: time.Since(beamStart)})
			// Post-hooks intentionally do not run on beam failure: a failed
			// beam's output is not trustworthy input for cleanup steps.
			return err
		}
	}

	// Post-hooks run only after a clean main RunBlock, never on failure.
	if err := e.runHooks(ctx, beam.PostHooks, r, workingDir, name, vars); err != nil {
		emit(BeamEvent{Kind: EventFailed, Err: err})
		report.addFailed(BeamResult{Name: name, Err: err, Duration: time.Since(beamStart)})
		return err
	}

	if e.opts.UseCache {
		if err := e.cache.Record(cacheBeam, workingDir); err != nil {
			e.log.Warnf("executor: failed to record cache entry for %q: %v", name, err)
		}
	}

	emit(BeamEvent{Kind: EventCompleted, Duration: time.Since(beamStart)})
	report.addExecuted(BeamResult{Name: name, Duration: time.Since(beamStart)})
	return nil
}

func (e *Executor) runHooks(ctx context.Context, hooks []*beamfile.Hook, r *runner.Runner, workingDir, beamName string, vars map[string]string) error {
	for _, h := range hooks {
		dir := workingDir
		if h.WorkingDir != "" {
			dir = resolveDir(e.baseDir, h.WorkingDir)
		}
		commands, err := interpolateStrings(h.Commands, vars, beamName)
		if err != nil {
			return err
		}
		if _, err := runner.ExecuteCommands(ctx, r, commands, h.Shell, dir, h.FailOnError); err != nil {
			return err
		}
	}
	return nil
}

func commandStrings(beam *beamfile.Beam) []string {
	if beam.Run == nil {
		return nil
	}
	out := make([]string, len(beam.Run.Commands))
	for i, c := range beam.Run.Commands {
		out[i] = c.Run
	}
	return out
}

func interpolateCommands(commands []beamfile.Command, vars map[string]string, beamName string) ([]string, error) {
	raw := make([]string, len(commands))
	for i, c := range commands {
		raw[i] = c.Run
	}
	return interpolateStrings(raw, vars, beamName)
}

func interpolateStrings(in []string, vars map[string]string, beamName string) ([]string, error) {
	out := make([]string, len(in))
	ctx := interpolate.Context{Variables: vars, BeamName: beamName}
	for i, s := range in {
		resolved, err := interpolate.Interpolate(s, ctx)
		if err != nil {
			return nil, fmt.Errorf("interpolating %q: %w", s, err)
		}
		out[i] = resolved
	}
	return out, nil
}

func mergeEnv(vars map[string]string, beam *beamfile.Beam, beamName string) map[string]string {
	merged := make(map[string]string, len(beam.Env))
	ctx := interpolate.Context{Variables: vars, BeamName: beamName}
	for k, v := range beam.Env {
		resolved, err := interpolate.Interpolate(v, ctx)
		if err != nil {
			resolved = v
		}
		merged[k] = resolved
	}
	return merged
}

func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
