// Package runner turns a beamfile.RunBlock or beamfile.Hook into real
// subprocess execution: shell selection, environment assembly, fail-fast
// sequencing and output capture.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aurora-build/aurora/internal/logger"
)

// CommandResult is the outcome of a single command invocation.
type CommandResult struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Output is an emitted line of stdout/stderr from a running command,
// delivered through OutputFunc for streaming consumers (the CLI's live
// view); it is not used in buffered mode.
type Output struct {
	BeamName string
	Command  string
	Stream   string // "stdout" or "stderr"
	Line     string
}

// OutputFunc receives streamed Output events. A nil OutputFunc means
// "buffer everything, emit nothing until the command completes."
type OutputFunc func(Output)

// Runner executes shell commands on behalf of a single beam. It is
// immutable once constructed; WithEnv and WithOutput return a modified
// clone so concurrent beams at the same DAG level never share mutable
// state.
type Runner struct {
	beamName string
	env      []string
	onOutput OutputFunc
	log      logger.Logger
}

// New constructs a Runner whose subprocesses inherit the current process's
// environment plus whatever is layered on with WithEnv.
func New(log logger.Logger) *Runner {
	if log == nil {
		log = logger.Default
	}
	return &Runner{env: os.Environ(), log: log}
}

// WithBeamName returns a clone scoped to beamName, used only for labeling
// streamed Output events.
func (r *Runner) WithBeamName(beamName string) *Runner {
	clone := *r
	clone.beamName = beamName
	return &clone
}

// WithEnv returns a clone whose subprocess environment additionally
// contains extra, each entry formatted as "KEY=VALUE". Later entries with
// a duplicate key shadow earlier ones, matching os/exec's own behavior.
func (r *Runner) WithEnv(extra map[string]string) *Runner {
	clone := *r
	clone.env = append(append([]string{}, r.env...), mapToEnv(extra)...)
	return &clone
}

// WithOutput returns a clone that streams command output through fn
// instead of only buffering it.
func (r *Runner) WithOutput(fn OutputFunc) *Runner {
	clone := *r
	clone.onOutput = fn
	return &clone
}

func mapToEnv(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	return out
}

// Run executes a single command string under shell, in workingDir. It
// always buffers stdout/stderr into the result even when also streaming,
// so callers get both a live view and a final transcript.
func (r *Runner) Run(ctx context.Context, shell, command, workingDir string) CommandResult {
	result := CommandResult{Command: command}

	builder := shellCommandBuilder{Shell: shell, Command: command, Dir: workingDir, Env: r.env}
	cmd := builder.Build(ctx)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = r.outputWriter(&stdoutBuf, command, "stdout")
	cmd.Stderr = r.outputWriter(&stderrBuf, command, "stderr")

	r.log.Debugf("runner: executing %q in %q", command, workingDir)
	err := cmd.Run()
	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()

	if err != nil {
		result.Err = err
		result.ExitCode = exitCodeOf(err)
	}
	return result
}

func (r *Runner) outputWriter(buf io.Writer, command, stream string) io.Writer {
	if r.onOutput == nil {
		return buf
	}
	return io.MultiWriter(buf, &streamingWriter{
		beamName: r.beamName,
		command:  command,
		stream:   stream,
		emit:     r.onOutput,
	})
}

// ExecuteCommands runs commands in order against shell/workingDir. When
// failFast is true, the first failing command stops the sequence and its
// error is returned; when false, every command runs regardless of earlier
// failures and the first error encountered is returned after the last one
// finishes.
func ExecuteCommands(ctx context.Context, r *Runner, commands []string, shell, workingDir string, failFast bool) ([]CommandResult, error) {
	var results []CommandResult
	var firstErr error

	for _, c := range commands {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		res := r.Run(ctx, shell, c, workingDir)
		results = append(results, res)
		if res.Err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("command %q: %w", c, res.Err)
			}
			if failFast {
				return results, firstErr
			}
		}
	}
	return results, firstErr
}
