// Package watch re-runs an Executor's plan whenever a beam's declared
// inputs change on disk, debouncing bursts of filesystem events (editors
// routinely emit several events per save) and backing off between failed
// rebuild attempts.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aurora-build/aurora/internal/backoff"
	"github.com/aurora-build/aurora/internal/beamfile"
	"github.com/aurora-build/aurora/internal/logger"
)

// RunFunc performs one execution of the watched target. Callers normally
// pass a closure around executor.Executor.Execute; Watcher itself depends
// only on this function type, not on package executor.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Debounce is how long to wait after the last filesystem event in a
	// burst before triggering a rebuild. Defaults to 200ms.
	Debounce time.Duration
	Log      logger.Logger
}

// Watcher watches a Beamfile's declared input paths and invokes Run
// whenever one changes.
type Watcher struct {
	bf       *beamfile.Beamfile
	target   string
	run      RunFunc
	debounce time.Duration
	log      logger.Logger
	retry    backoff.RetryPolicy
}

// New builds a Watcher for target. It watches the input directories of
// every beam declared in bf, not only the beams target depends on.
func New(bf *beamfile.Beamfile, target string, run RunFunc, opts Options) *Watcher {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	log := opts.Log
	if log == nil {
		log = logger.Default
	}
	return &Watcher{
		bf:       bf,
		target:   target,
		run:      run,
		debounce: debounce,
		log:      log,
		retry:    backoff.WithJitter(backoff.NewExponentialBackoffPolicy(500*time.Millisecond), backoff.FullJitter),
	}
}

// watchedDirs collects the set of directories to watch: the parent
// directory of every input pattern declared anywhere in the Beamfile,
// since fsnotify watches directories, not glob patterns.
func (w *Watcher) watchedDirs() map[string]bool {
	base := filepath.Dir(w.bf.Source)
	dirs := map[string]bool{base: true}
	for _, beam := range w.bf.Beams {
		for _, pattern := range beam.Inputs {
			dir := filepath.Dir(pattern)
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(base, dir)
			}
			dirs[dir] = true
		}
	}
	return dirs
}

// Run blocks, triggering one build immediately and then again after every
// debounced burst of filesystem events, until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for dir := range w.watchedDirs() {
		if err := watcher.Add(dir); err != nil {
			w.log.Warnf("watch: failed to watch %q: %v", dir, err)
		}
	}

	w.trigger(ctx)

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() { w.trigger(ctx) })

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) trigger(ctx context.Context) {
	w.log.Infof("watch: rebuilding %q", w.target)
	if err := w.run(ctx); err != nil {
		w.log.Errorf("watch: build failed: %v", err)
		retrier := backoff.NewRetrier(w.retry)
		if waitErr := retrier.Next(ctx, err); waitErr != nil {
			w.log.Debugf("watch: backoff ended: %v", waitErr)
		}
		return
	}
	w.log.Infof("watch: build succeeded")
}
