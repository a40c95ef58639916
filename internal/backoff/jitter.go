package backoff

import "time"

// JitterType selects how NewJitterFunc randomizes a computed interval, used
// by the watch loop to avoid a thundering-herd of simultaneous rebuild
// attempts when several beams' file watches fire at once.
type JitterType int

const (
	// NoJitter returns the interval unchanged.
	NoJitter JitterType = iota
	// FullJitter returns a uniform random duration in [0, interval].
	FullJitter
	// Jitter returns a uniform random duration in [0.5*interval, 1.5*interval].
	Jitter
)

// JitterFunc randomizes interval according to a JitterType.
type JitterFunc func(interval time.Duration) time.Duration

// NewJitterFunc returns the JitterFunc for the given JitterType.
func NewJitterFunc(t JitterType) JitterFunc {
	switch t {
	case FullJitter:
		return func(interval time.Duration) time.Duration {
			if interval <= 0 {
				return 0
			}
			return time.Duration(randInt63n(int64(interval)))
		}
	case Jitter:
		return func(interval time.Duration) time.Duration {
			if interval <= 0 {
				return 0
			}
			half := interval / 2
			return half + time.Duration(randInt63n(int64(interval)))
		}
	default:
		return func(interval time.Duration) time.Duration {
			if interval <= 0 {
				return 0
			}
			return interval
		}
	}
}

// jitteredPolicy wraps a RetryPolicy, applying a JitterFunc to every
// computed interval.
type jitteredPolicy struct {
	base   RetryPolicy
	jitter JitterFunc
}

// WithJitter wraps base so every computed interval is passed through
// jitter before being returned.
func WithJitter(base RetryPolicy, t JitterType) RetryPolicy {
	return &jitteredPolicy{base: base, jitter: NewJitterFunc(t)}
}

func (p *jitteredPolicy) ComputeNextInterval(retryCount int, elapsedTime time.Duration, err error) (time.Duration, error) {
	interval, computeErr := p.base.ComputeNextInterval(retryCount, elapsedTime, err)
	if computeErr != nil {
		return 0, computeErr
	}
	return p.jitter(interval), nil
}
