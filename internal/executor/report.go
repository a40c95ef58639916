package executor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// BeamResult records the outcome of a single beam's execution within a
// Report.
type BeamResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Report summarizes one Execute call across every beam touched by the
// plan. Executed/Skipped/Failed are disjoint and together cover every
// beam in the plan that was reached before any fail-fast abort.
type Report struct {
	mu sync.Mutex
	// RunID identifies this Execute call, used to correlate log lines and
	// streamed BeamEvents across concurrently running beams.
	RunID    string
	Executed []BeamResult
	Skipped  []BeamResult
	Failed   []BeamResult
	Duration time.Duration
}

func newReport() *Report { return &Report{RunID: uuid.NewString()} }

func (r *Report) addExecuted(res BeamResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Executed = append(r.Executed, res)
}

func (r *Report) addSkipped(res BeamResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, res)
}

func (r *Report) addFailed(res BeamResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, res)
}

// Success reports whether every beam in the plan either ran cleanly or was
// skipped; it is false as soon as one beam failed.
func (r *Report) Success() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Failed) == 0
}
