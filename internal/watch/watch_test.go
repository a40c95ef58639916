package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurora-build/aurora/internal/beamfile"
)

func TestWatcher_TriggersOnStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(`beam "build" { inputs = ["src.txt"] }`), 0o644))
	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	var runs int32
	w := New(bf, "build", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, Options{Debounce: 10 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = w.Run(ctx)

	require.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(1))
}

func TestWatcher_RebuildsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(`beam "build" { inputs = ["src.txt"] }`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src.txt"), []byte("v1"), 0o644))
	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	var runs int32
	w := New(bf, "build", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, Options{Debounce: 20 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "src.txt"), []byte("v2"), 0o644)
	}()

	_ = w.Run(ctx)
	require.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(2))
}

func TestWatcher_WatchedDirsIncludesInputDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))
	path := filepath.Join(dir, "Beamfile")
	require.NoError(t, os.WriteFile(path, []byte(`beam "build" { inputs = ["src/main.go"] }`), 0o644))
	bf, err := beamfile.Load(path)
	require.NoError(t, err)

	w := New(bf, "build", func(ctx context.Context) error { return nil }, Options{})
	dirs := w.watchedDirs()
	require.Contains(t, dirs, filepath.Join(dir, "src"))
}
