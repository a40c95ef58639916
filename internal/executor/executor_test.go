package executor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-build/aurora/internal/beamfile"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("posix shell assumed")
	}
}

func newExecutor(t *testing.T, src string, opts Options) *Executor {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	opts.MaxParallelism = 2
	e, err := New(bf, filepath.Join(dir, ".aurora", "cache"), opts)
	require.NoError(t, err)
	return e
}

func TestExecute_SeedScenario_RunsInDependencyOrder(t *testing.T) {
	skipOnWindows(t)
	e := newExecutor(t, `
beam "clean" { run { commands = ["rm -f out.txt"] } }
beam "lint" { depends_on = ["clean"] run { commands = ["true"] } }
beam "build" { depends_on = ["lint"] run { commands = ["touch out.txt"] } }
beam "test" { depends_on = ["build"] run { commands = ["test -f out.txt"] } }
default = "test"
`, Options{})

	report, err := e.Execute(context.Background(), "test")
	require.NoError(t, err)
	require.Len(t, report.Executed, 4)
	require.Empty(t, report.Failed)
}

func TestExecute_FailedBeamStopsBeforeNextLevel(t *testing.T) {
	skipOnWindows(t)
	e := newExecutor(t, `
beam "a" { run { commands = ["exit 1"] } }
beam "b" { depends_on = ["a"] run { commands = ["true"] } }
`, Options{})

	report, err := e.Execute(context.Background(), "b")
	require.Error(t, err)
	require.Len(t, report.Failed, 1)
	require.Empty(t, report.Executed)
}

func TestExecute_ConditionFalseSkipsBeam(t *testing.T) {
	skipOnWindows(t)
	e := newExecutor(t, `
beam "maybe" {
  condition { env_set = "AURORA_NEVER_SET_IN_TEST" }
  run { commands = ["true"] }
}
`, Options{})

	report, err := e.Execute(context.Background(), "maybe")
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, "maybe", report.Skipped[0].Name)
}

func TestExecute_DryRunDoesNotExecuteCommands(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(`beam "build" { run { commands = ["touch marker.txt"] } }`), 0o644))
	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	e, err := New(bf, filepath.Join(dir, ".aurora", "cache"), Options{DryRun: true, MaxParallelism: 1})
	require.NoError(t, err)

	report, err := e.Execute(context.Background(), "build")
	require.NoError(t, err)
	require.Len(t, report.Executed, 1)

	_, statErr := os.Stat(filepath.Join(dir, "marker.txt"))
	require.True(t, os.IsNotExist(statErr))
}

func TestExecute_CacheSkipsUpToDateBeam(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.txt"), []byte("v1"), 0o644))
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(`
beam "build" {
  inputs = ["in.txt"]
  run { commands = ["true"] }
}
`), 0o644))
	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	cacheDir := filepath.Join(dir, ".aurora", "cache")
	e, err := New(bf, cacheDir, Options{UseCache: true, MaxParallelism: 1})
	require.NoError(t, err)

	report, err := e.Execute(context.Background(), "build")
	require.NoError(t, err)
	require.Len(t, report.Executed, 1)

	e2, err := New(bf, cacheDir, Options{UseCache: true, MaxParallelism: 1})
	require.NoError(t, err)
	report2, err := e2.Execute(context.Background(), "build")
	require.NoError(t, err)
	require.Len(t, report2.Skipped, 1)
	require.Empty(t, report2.Executed)
}

func TestExecute_PostHooksDoNotRunOnFailure(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(`
beam "build" {
  run { commands = ["exit 1"] }
  post_hook { commands = ["touch should-not-exist.txt"] }
}
`), 0o644))
	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	e, err := New(bf, filepath.Join(dir, ".aurora", "cache"), Options{MaxParallelism: 1})
	require.NoError(t, err)

	report, err := e.Execute(context.Background(), "build")
	require.Error(t, err)
	require.Len(t, report.Failed, 1)

	_, statErr := os.Stat(filepath.Join(dir, "should-not-exist.txt"))
	require.True(t, os.IsNotExist(statErr))
}

func TestExecute_VariableInterpolationInCommands(t *testing.T) {
	skipOnWindows(t)
	e := newExecutor(t, `
variable "greeting" { default = "hi" }
beam "greet" { run { commands = ["test ${var.greeting} = hi"] } }
`, Options{})

	report, err := e.Execute(context.Background(), "greet")
	require.NoError(t, err)
	require.Len(t, report.Executed, 1)
}

func TestExecute_PreHookRunsBeforeMainCommand(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(`
beam "build" {
  pre_hook { commands = ["touch pre-ran.txt"] }
  run { commands = ["test -f pre-ran.txt"] }
}
`), 0o644))
	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	e, err := New(bf, filepath.Join(dir, ".aurora", "cache"), Options{MaxParallelism: 1})
	require.NoError(t, err)

	report, err := e.Execute(context.Background(), "build")
	require.NoError(t, err)
	require.Len(t, report.Executed, 1)
}
